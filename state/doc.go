// Package state defines the execution-status snapshots produced by the
// workflow engine as tasks and flows move through their lifecycle.
//
// # Variants
//
// State is a closed tagged union. Each concrete variant is a struct whose
// pointer implements State; the type tag of a variant is its Kind:
//
//	Pending        cached_inputs
//	  CachedState  cached_inputs, cached_result, cached_parameters, cached_result_expiration
//	  Paused       cached_inputs
//	  Scheduled    cached_inputs, start_time
//	    Retrying   cached_inputs, start_time, run_count
//	Running
//	Finished
//	  Success      cached
//	    Skipped    cached
//	  Failed
//	    TimedOut   cached_inputs
//	    TriggerFailed
//
// Every variant embeds Base, which carries the optional message and result.
// The indentation above is the lineage consulted by Is and the Is* helpers;
// it never affects serialization, where each variant keeps its own tag.
//
// # Exhaustive handling
//
// Code that must treat every variant walks states through a Visitor. Adding
// a variant adds a Visitor method, so every visitor in the module stops
// compiling until it handles the new variant.
//
//	s := &state.Retrying{StartTime: state.At(t), RunCount: 2}
//	state.IsPending(s)   // true
//	s.Kind()             // state.KindRetrying
package state
