/*
CSP channels and alternation for goroutines

The uchan package provides point to point channels with explicit
connect/disconnect lifecycles, and an ALT Selector that waits for the first
of several inputs (channels or timers) to become ready.
* rendezvous, bounded, and unbounded channels
* guarded, timed, and polling selects, lowest index wins
* close propagation that never leaves a reader or writer hung

Supporting packages:
* uerr - typed error chaining
* ulog - logging and per-component debug output
* uconfig - YAML config sections
* usync - atomics and polling waits
*/
package csp
