/*
Package domain contains the core domain models of the navigation stack engine.

It defines the stack items, the actions that reshape the stack or address a
single item, the effects reducers hand back to the dispatch loop, and the
observability events. This package is kept pure and free of I/O, following
Hexagonal Architecture principles.

# Key Entities

  - ID: opaque item identity, minted once by a Minter and never reused.
  - Item / Stack: the ordered, identity-keyed description of what is on screen.
  - Action: generic stack actions (Set, Push, Pop, PopToRoot) and ItemAction.
  - Intent: the stack change a navigation-shaped item action asks for.
  - Effect: asynchronous follow-up work yielding at most one Action.
*/
package domain
