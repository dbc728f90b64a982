// Package submodsel is a benchmark harness for bounded-cardinality
// submodular summary selection: given a monotone submodular oracle over a
// ground set of elements and a cardinality constraint k, it measures how
// close different selection policies come to the optimal summary S with
// |S| ≤ k.
//
// Two oracle families are provided:
//
//	oracle/gaussian/ — a determinantal oracle, f(S) = ½·log det(K_S), over
//	                   a Gaussian-kernel Gram matrix of numeric elements
//	oracle/coverage/ — a text-coverage oracle, f(S) = Σ_t √(pooled weight),
//	                   over weighted token-bag elements
//
// and six selection policies, all implementing the selector.Selector
// interface, spanning the offline/streaming and adaptive/non-adaptive axes:
//
//	selector.OfflineGreedy             — batch greedy, no cardinality-constraint violations
//	selector.IndependentSetImprovement — streaming, 2x-improvement replace rule
//	selector.StreamingGreedy           — streaming, history-relative replace rule
//	selector.Preemption(c)             — streaming, tunable threshold replace rule
//	selector.FreeDisposal              — streaming, history-gated admission + replace
//	selector.OnlineAdaptive(r) / OnlineNonAdaptive(r) — streaming, running-τ admission
//
// Every selector owns a private clone of the oracle it is constructed with
// (oracle.Oracle.Clone), so a driver can run several selectors over the
// same stream concurrently without any shared mutable state between them.
package submodsel
