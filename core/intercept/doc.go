// Package intercept wraps interface-typed objects, times every call made
// through the wrapper and aggregates per-method running statistics (count,
// min, max, average) for ad-hoc performance diagnosis — no changes to the
// wrapped component's source required.
//
// # Wrapping
//
// The wrapped capability is an ordinary Go interface. Build an Interceptor
// for a target and register it under a marker:
//
//	ic, err := intercept.Wrap[Greeter](greeterImpl, "greeter")
//
// Targets exposing several interfaces attach the extra ones as contracts:
//
//	ic, err := intercept.Wrap[Greeter](impl, "greeter",
//	    intercept.WithContract(intercept.ContractFor[io.Closer]()),
//	)
//
// Every method declared across all contracts gets a zeroed aggregate before
// Wrap returns; the set of tracked methods never changes afterwards.
//
// # Forwarding
//
// Go has no runtime proxy generation, so call interception is explicit: a
// thin hand-written forwarder delegates through [Interceptor.Observe] (or the
// generic [Observe1]):
//
//	type timedGreeter struct {
//	    ic *intercept.Interceptor
//	    t  Greeter
//	}
//
//	func (g timedGreeter) Greet(name string) string {
//	    out, _ := intercept.Observe1(g.ic, "Greet", func() (string, error) {
//	        return g.t.Greet(name), nil
//	    })
//	    return out
//	}
//
// For dynamic use there is also [Interceptor.Call], which dispatches by
// method name via reflection.
//
// # Failure policy
//
// Errors returned by the target propagate to the caller unchanged, and the
// failed call's timing is recorded like any other observation.
//
// # Retrieval and reporting
//
// Statistics are queried by method name, exactly or by substring, and logged
// as report blocks through a slog sink:
//
//	if ic, ok := intercept.Lookup("greeter"); ok {
//	    ic.LogStatsFor("Greet")
//	}
//
// # Concurrency
//
// Wrapped methods may be called from any number of goroutines. Aggregates
// fold observations atomically; after N concurrent calls to a method its
// count is exactly N.
package intercept
