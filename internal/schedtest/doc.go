// Package schedtest provides hand-driven scheduler and host
// implementations for deterministic timing tests, plus a YAML loader for
// timing scenarios.
//
// ManualScheduler implements sched.Scheduler with a clock that only
// moves when Advance is called, so tests observe exact firing order
// without sleeping. ManualHost does the same one level down, for testing
// the host-driven scheduler against a simulated browser event loop.
package schedtest
