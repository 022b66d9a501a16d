// Package app provides the application service layer.
//
// Orchestrates use cases: doodle submission (render, store, record), feed snapshots and settings reads/writes.
// Sits between the transport (HTTP handlers, realtime hub) and the domain components. Depends on domain interfaces, not concrete implementations.
package app
