package settings

import (
	"path/filepath"
	"strings"
)

// Files locates the presentation files that back the settings.
type Files struct {
	StyleSheet    string
	ClientScript  string
	BackgroundDir string
}

// Path returns the file holding fields of target t.
func (f Files) Path(t Target) string {
	if t == ClientScript {
		return f.ClientScript
	}
	return f.StyleSheet
}

// BackgroundFileName derives the single-slot background name from an uploaded file name:
// "background_image." followed by whatever follows the last dot. Directory components are
// dropped first so the result always stays inside the background directory.
func BackgroundFileName(uploaded string) string {
	base := filepath.Base(strings.ReplaceAll(uploaded, `\`, "/"))
	if base == "." || base == "/" {
		base = ""
	}
	ext := base
	if i := strings.LastIndex(base, "."); i >= 0 {
		ext = base[i+1:]
	}
	return "background_image." + ext
}
