/*
Package ports defines the driven ports (interfaces) of the navigation stack engine.

These interfaces decouple the core from the presentation layer, allowing the
engine to drive a terminal, an HTTP client or a test double the same way.

# Key Interfaces

  - Surface: the imperative, stack-shaped presentation surface.
  - Notifier: the path through which a surface reports a structural change it
    performed on its own (e.g. an interactive back gesture).
  - Dispatcher: the dispatch entry point exposed to rendered screens.
*/
package ports
