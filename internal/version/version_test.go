package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func withBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	old := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	t.Cleanup(func() { readBuildInfo = old })
}

func withVars(t *testing.T, version, commit, dirty, date string) {
	t.Helper()
	oldV, oldC, oldD, oldB := Version, Commit, Dirty, BuildDate
	Version, Commit, Dirty, BuildDate = version, commit, dirty, date
	t.Cleanup(func() { Version, Commit, Dirty, BuildDate = oldV, oldC, oldD, oldB })
}

func TestString_Dirty(t *testing.T) {
	withBuildInfo(t, nil)
	withVars(t, "1.2.3", "abc", "true", "2026-01-01T00:00:00Z")

	if got := String(); got != "1.2.3-dirty" {
		t.Errorf("String() = %q", got)
	}
	if !Get().Dirty {
		t.Error("Get().Dirty should be true")
	}
}

func TestGet_LdflagsWin(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{
		Main:     debug.Module{Version: "v9.9.9"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "fromvcs"}},
	})
	withVars(t, "1.0.0", "fromldflags", "false", "today")

	info := Get()
	if info.Version != "1.0.0" || info.Commit != "fromldflags" {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestGet_BuildInfoFallback(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "vcs.time", Value: "2026-02-03T04:05:06Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})
	withVars(t, "dev", "unknown", "false", "unknown")

	info := Get()
	if info.Version != "0.4.1" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.Commit != "deadbeef" || info.BuildDate != "2026-02-03T04:05:06Z" || !info.Dirty {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestGet_DevelBuildStaysDev(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	withVars(t, "dev", "unknown", "false", "unknown")

	if got := Get().Version; got != "dev" {
		t.Errorf("Version = %q, want dev", got)
	}
}

func TestFull(t *testing.T) {
	withBuildInfo(t, nil)
	out := Full()
	for _, want := range []string{"markshift ", "Commit:", "Go version:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Full() missing %q:\n%s", want, out)
		}
	}
}
