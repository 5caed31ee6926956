/*
Package observability provides Prometheus metrics for the navigation engine.

Metrics are fed by the engine lifecycle hooks (domain.Hooks) and by the
dispatch loop effect counter, and can be exposed over HTTP through Handler.
*/
package observability
