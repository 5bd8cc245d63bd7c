package config

//
// config_test.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Synapsr/PodcastSync/internal/assert"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.NoErr(t, err)
	assert.Equal(t, cfg.Backend.URL, "http://127.0.0.1:8799")
	assert.Equal(t, cfg.Player.Binary, "mpv")
	assert.True(t, cfg.Player.PreferLocal)
	assert.NoErr(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.toml")
	content := `
state_db = "/tmp/state.sqlite"
verify_interval_minutes = 3

[backend]
url = "http://backend.local:9000"

[player]
binary = "ffplay"
prefer_local = false
`
	assert.NoErr(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	assert.NoErr(t, err)
	assert.Equal(t, cfg.Backend.URL, "http://backend.local:9000")
	assert.Equal(t, cfg.Backend.EventsPath, "/api/v1/events")
	assert.Equal(t, cfg.Player.Binary, "ffplay")
	assert.Equal(t, cfg.VerifyIntervalMinutes, 3)
	assert.NoErr(t, cfg.Validate())
}

func TestLoadBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.toml")
	assert.NoErr(t, os.WriteFile(path, []byte("backend = [broken"), 0o600))

	_, err := Load(path)
	assert.Err(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Backend.URL = "not-an-url"
	assert.Err(t, cfg.Validate())

	cfg = Default()
	cfg.VerifyIntervalMinutes = 0
	assert.Err(t, cfg.Validate())

	cfg = Default()
	cfg.Player.Binary = ""
	assert.Err(t, cfg.Validate())
}

func TestDebugFlags(t *testing.T) {
	flags := NewDebugFlags("logbody,events")
	assert.True(t, flags.HasFlag(DebugMsgBody))
	assert.True(t, flags.HasFlag(DebugEvents))
	assert.True(t, !flags.HasFlag(DebugGo))

	all := NewDebugFlags("all")
	assert.True(t, all.HasFlag(DebugGo))

	none := NewDebugFlags("")
	assert.True(t, !none.HasFlag(DebugMsgBody))
}
