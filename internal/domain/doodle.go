package domain

import (
	"context"
	"time"
)

const (
	// FeedCapacity bounds the recent-doodles feed.
	FeedCapacity = 16
	// CanvasSize is the edge length, in pixels, every stored doodle is resized to.
	CanvasSize = 1080
	// DefaultMaxImages is the polling endpoint cap when MAX_IMAGES is unset.
	DefaultMaxImages = 18
)

// DoodleRecord is a stored doodle: its public path and the time encoded in its filename.
type DoodleRecord struct {
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// DoodleStore persists encoded doodle images and returns their public path.
type DoodleStore interface {
	Save(data []byte) (DoodleRecord, error)
}

// DoodleFeed is the bounded, newest-first list of recent doodle paths.
type DoodleFeed interface {
	Record(path string)
	Snapshot(limit int) []string
}

// DoodleSubmitter runs the submission pipeline for one payload.
// It returns the public path on success; errors wrap ErrDecode or ErrStorage.
type DoodleSubmitter interface {
	SubmitDoodle(ctx context.Context, image string) (string, error)
}
