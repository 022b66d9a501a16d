// Package domain defines the core types and contracts of the doodle wall.
//
// Concept-oriented files (doodle.go, events.go, settings.go, errors.go) hold shared types and
// consumer-side interfaces. No implementation code lives here.
package domain
