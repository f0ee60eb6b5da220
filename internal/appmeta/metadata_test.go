package appmeta

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_SetsLanguageAndServerTime(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := New(now)

	assert.Equal(t, "go", m.Language)
	assert.Equal(t, now, m.ServerTime)
}

func TestToMap_FlattensLibrariesAndTimestamp(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := New(now)
	m.ApplicationName = "demo-app"
	m.Hostname = "host-1"
	m.GitSHA = "abc123"
	m.Libraries = []Library{{Name: "gin", Version: "1.9.0"}, {Name: "gorm", Version: "1.25.0"}}

	out := m.ToMap()

	assert.Equal(t, "go", out["language"])
	assert.Equal(t, "demo-app", out["application_name"])
	assert.Equal(t, "host-1", out["hostname"])
	assert.Equal(t, "abc123", out["git_sha"])
	assert.Equal(t, "2026-01-02T03:04:05Z", out["server_time"])
	assert.Equal(t, []string{"gin@1.9.0", "gorm@1.25.0"}, out["libraries"])
}

func TestToMap_EmptyLibrariesIsEmptySlice(t *testing.T) {
	m := New(time.Now().UTC())
	out := m.ToMap()
	assert.Equal(t, []string{}, out["libraries"])
}
