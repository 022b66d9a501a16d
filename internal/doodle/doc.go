// Package doodle persists rendered doodles under the static tree and keeps the bounded,
// newest-first feed of their public paths.
package doodle
