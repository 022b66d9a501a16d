package version

import (
	"runtime"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Service != Service {
		t.Errorf("Service = %q, want %q", info.Service, Service)
	}
	if info.Version == "" || info.Commit == "" || info.BuildTime == "" {
		t.Errorf("build fields should not be empty: %+v", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
}
