package domain

import "errors"

var (
	// ErrDecode marks a submission payload that is not a decodable image.
	ErrDecode = errors.New("invalid image payload")
	// ErrStorage marks a file system failure while persisting a doodle.
	ErrStorage = errors.New("failed to store doodle")
	// ErrPatchMismatch marks a settings field whose scaffold is absent from its backing file.
	ErrPatchMismatch = errors.New("settings pattern not found")
	// ErrInvalidSettings marks a settings update rejected at the boundary.
	ErrInvalidSettings = errors.New("invalid settings")
)
