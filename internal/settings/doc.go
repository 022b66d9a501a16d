// Package settings stores the operator display settings inside the presentation files
// themselves. Each field is a pattern over whole-file text: the Patcher replaces only the
// value tokens inside the matched scaffold and the Reader extracts them again.
//
// Files are only mutated under the shared fsutil.Lock and replaced atomically.
package settings
