// Package harness runs scheduler scenarios in virtual time and compares
// their traces against golden files.
//
// A scenario declares timers, an optional run bound, and optional mid-wait
// injections. The harness wires a manual tick source to a sleeper that
// advances it, so the whole run is deterministic: the same scenario always
// produces byte-identical trace output, which makes golden comparison
// meaningful.
//
// Granularity note: virtual waits advance time in whole microseconds, the
// same granularity as the real coarse delay. Scenario offsets should be
// whole milliseconds so rounding residues never occur.
package harness
