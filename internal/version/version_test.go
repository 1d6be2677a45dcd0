package version

import (
	"strings"
	"testing"
)

func withBuildInfo(t *testing.T, v, commit, date string) {
	t.Helper()
	oldVersion, oldCommit, oldDate := Version, GitCommit, BuildDate
	SetBuildInfo(v, commit, date)
	t.Cleanup(func() { SetBuildInfo(oldVersion, oldCommit, oldDate) })
}

func TestGetFormattedVersion(t *testing.T) {
	tests := []struct {
		name     string
		version  string
		commit   string
		date     string
		expected string
	}{
		{
			name:     "development build",
			version:  "0.3.0",
			commit:   "unknown",
			date:     "unknown",
			expected: "v0.3.0",
		},
		{
			name:     "release build shortens commit",
			version:  "1.2.3",
			commit:   "abcdef0123456789",
			date:     "2026-01-02",
			expected: "v1.2.3, commit abcdef0, built 2026-01-02",
		},
		{
			name:     "invalid version",
			version:  "not-a-version",
			commit:   "unknown",
			date:     "unknown",
			expected: "vnot-a-version (invalid version)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withBuildInfo(t, tt.version, tt.commit, tt.date)
			if got := GetFormattedVersion(); got != tt.expected {
				t.Errorf("GetFormattedVersion() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestGetDetailedVersion_BuildMetadata(t *testing.T) {
	withBuildInfo(t, "0.3.0+42.abc1234", "abc1234", "2026-01-02")

	detailed := GetDetailedVersion()
	if !strings.Contains(detailed, "Build Metadata: 42.abc1234") {
		t.Errorf("expected build metadata in %q", detailed)
	}
	if IsDevelopment() {
		t.Error("build with commit and date should not be a development build")
	}
}
