package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/LdDl/detect-track-go/cvtrack"
	"github.com/LdDl/detect-track-go/mot"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultAppConfigIsValid(t *testing.T) {
	cfg := DefaultAppConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 60*time.Second, cfg.GetWindow())
	assert.Equal(t, mot.DefaultConfig(), cfg.Engine)
}

func TestLoadAppConfigPartial(t *testing.T) {
	path := writeConfig(t, "detrack.json", `{
		"source": "video.mp4",
		"tracker": "CSRT",
		"engine": {"detection_rate": 5},
		"classes": {"1": "person", "3": "car"},
		"window": "30s"
	}`)
	cfg, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "video.mp4", cfg.Source)
	assert.Equal(t, "CSRT", cfg.Tracker)
	assert.Equal(t, 5, cfg.Engine.DetectionRate)
	// Omitted fields keep defaults
	assert.Equal(t, 3, cfg.Engine.ObjectLifeCycle)
	assert.Equal(t, 0.5, cfg.MinScore)
	assert.Equal(t, 500, cfg.FrameWidth)
	assert.Equal(t, map[int]string{1: "person", 3: "car"}, cfg.Classes)
	assert.Equal(t, 30*time.Second, cfg.GetWindow())
}

func TestLoadAppConfigClassesReplaced(t *testing.T) {
	path := writeConfig(t, "detrack.json", `{"classes": {"3": "car"}}`)
	cfg, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{3: "car"}, cfg.Classes)
}

func TestLoadAppConfigErrors(t *testing.T) {
	_, err := LoadAppConfig(writeConfig(t, "detrack.yaml", `{}`))
	assert.Error(t, err, "wrong extension")

	_, err = LoadAppConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err, "missing file")

	_, err = LoadAppConfig(writeConfig(t, "broken.json", `{"source": `))
	assert.Error(t, err, "broken JSON")

	_, err = LoadAppConfig(writeConfig(t, "rate.json", `{"engine": {"detection_rate": 1}}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, mot.ErrInvalidDetectionRate))

	_, err = LoadAppConfig(writeConfig(t, "tracker.json", `{"tracker": "mosse"}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, cvtrack.ErrUnknownTracker))

	_, err = LoadAppConfig(writeConfig(t, "window.json", `{"window": "soon"}`))
	assert.Error(t, err, "bad window")
}

func TestAppConfigValidate(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.Tracker = "kalman"
	assert.NoError(t, cfg.Validate())

	cfg = DefaultAppConfig()
	cfg.Model = ""
	assert.Error(t, cfg.Validate())
	cfg.Replay = "detections.csv"
	assert.NoError(t, cfg.Validate())

	cfg = DefaultAppConfig()
	cfg.MinScore = 1.5
	assert.Error(t, cfg.Validate())

	cfg = DefaultAppConfig()
	cfg.Window = "-1s"
	assert.Error(t, cfg.Validate())
}
