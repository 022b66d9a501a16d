package domain

import (
	"context"
	"io"
	"strconv"
)

// Settings is the effective display configuration as re-derived from the presentation files.
// BackgroundImage and DoodleImage are always empty: the background is write-only.
type Settings struct {
	BackgroundImage string `json:"background_image"`
	DoodleImage     string `json:"doodle_image"`
	ImageWidth      string `json:"image_width"`
	ImageMargin     string `json:"image_margin"`
	MaxImages       string `json:"max_images"`
}

// DefaultSettings is the record served when a field, or the whole read, cannot be derived.
func DefaultSettings() Settings {
	return Settings{MaxImages: strconv.Itoa(DefaultMaxImages)}
}

// BackgroundUpload is an operator-supplied background image.
type BackgroundUpload struct {
	Filename string
	Content  io.Reader
}

// SettingsUpdate carries the fields of one settings request. Empty strings and a nil
// Background mean "leave unchanged".
type SettingsUpdate struct {
	ImageWidth  string
	ImageMargin string
	MaxImages   string
	Background  *BackgroundUpload
}

// IsEmpty reports whether the update changes nothing.
func (u SettingsUpdate) IsEmpty() bool {
	return u.ImageWidth == "" && u.ImageMargin == "" && u.MaxImages == "" && u.Background == nil
}

// SettingsWriter applies an update to the backing files.
type SettingsWriter interface {
	Apply(ctx context.Context, update SettingsUpdate) error
}

// SettingsReader re-derives the effective settings. It never fails.
type SettingsReader interface {
	Current(ctx context.Context) Settings
}
