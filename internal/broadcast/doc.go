// Package broadcast implements the realtime hub using the actor pattern.
//
// The Hub owns the set of connected sessions in a single goroutine fed by a command channel (no mutexes).
// Inbound submit_doodle frames run the submission pipeline; the result is either fanned out to every session
// or reported to the submitter alone. Per-connection write goroutines handle slow clients gracefully.
package broadcast
