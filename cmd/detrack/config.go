package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/LdDl/detect-track-go/cvtrack"
	"github.com/LdDl/detect-track-go/mot"
	"github.com/pkg/errors"
)

const maxConfigFileSize = 1 * 1024 * 1024

// AppConfig is settings of the demo application.
// Fields omitted from the JSON file keep their default values.
type AppConfig struct {
	// Camera index or path to video file
	Source string `json:"source"`
	// Frozen detection graph and its text description
	Model       string `json:"model"`
	ModelConfig string `json:"model_config"`
	// Recorded detections (CSV). When set, the model is not loaded
	Replay string `json:"replay"`
	// Single-object tracker: one of cvtrack.TrackerNames() or "kalman"
	Tracker string     `json:"tracker"`
	Engine  mot.Config `json:"engine"`
	// Detector post-processing
	MinScore     float64        `json:"min_score"`
	NMSThreshold float64        `json:"nms_threshold"`
	Classes      map[int]string `json:"classes"`
	// Frames are resized to this width, keeping aspect ratio. Zero disables resizing
	FrameWidth int `json:"frame_width"`
	// Duration of statistics window, e.g. "60s"
	Window    string `json:"window"`
	Display   bool   `json:"display"`
	MaxFrames int    `json:"max_frames"`
}

// DefaultAppConfig returns defaults of the demo application
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Source:       "0",
		Model:        "model/frozen_inference_graph.pb",
		ModelConfig:  "model/ssd_mobilenet_v1_coco.pbtxt",
		Tracker:      "kcf",
		Engine:       mot.DefaultConfig(),
		MinScore:     0.5,
		NMSThreshold: 0,
		Classes:      map[int]string{1: "person"},
		FrameWidth:   500,
		Window:       "60s",
		Display:      false,
		MaxFrames:    0,
	}
}

// LoadAppConfig reads JSON file on top of DefaultAppConfig.
// The file must have .json extension and be under 1MB.
func LoadAppConfig(path string) (AppConfig, error) {
	cfg := DefaultAppConfig()
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return cfg, errors.Errorf("config file must have .json extension, got %q", ext)
	}
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return cfg, errors.Wrap(err, "Can't stat config file")
	}
	if fileInfo.Size() > maxConfigFileSize {
		return cfg, errors.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxConfigFileSize)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return cfg, errors.Wrap(err, "Can't read config file")
	}
	// Classes are replaced as a whole when present
	var classes struct {
		Classes map[int]string `json:"classes"`
	}
	if err := json.Unmarshal(data, &classes); err != nil {
		return cfg, errors.Wrap(err, "Can't parse config JSON")
	}
	if classes.Classes != nil {
		cfg.Classes = nil
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "Can't parse config JSON")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable
func (cfg AppConfig) Validate() error {
	if err := cfg.Engine.Validate(); err != nil {
		return err
	}
	if cfg.Source == "" {
		return errors.New("source must be defined")
	}
	if cfg.Replay == "" && cfg.Model == "" {
		return errors.New("either model or replay file must be defined")
	}
	if !isKnownTracker(cfg.Tracker) {
		return errors.Wrapf(cvtrack.ErrUnknownTracker, "%q", cfg.Tracker)
	}
	if cfg.MinScore < 0 || cfg.MinScore > 1 {
		return errors.Errorf("min_score must be between 0 and 1, got %f", cfg.MinScore)
	}
	if cfg.NMSThreshold < 0 || cfg.NMSThreshold > 1 {
		return errors.Errorf("nms_threshold must be between 0 and 1, got %f", cfg.NMSThreshold)
	}
	if cfg.FrameWidth < 0 {
		return errors.Errorf("frame_width must be non-negative, got %d", cfg.FrameWidth)
	}
	if cfg.MaxFrames < 0 {
		return errors.Errorf("max_frames must be non-negative, got %d", cfg.MaxFrames)
	}
	window, err := time.ParseDuration(cfg.Window)
	if err != nil {
		return errors.Wrapf(err, "invalid window '%s'", cfg.Window)
	}
	if window <= 0 {
		return errors.Errorf("window must be positive, got %s", cfg.Window)
	}
	return nil
}

// GetWindow returns statistics window duration. Call Validate first
func (cfg AppConfig) GetWindow() time.Duration {
	window, err := time.ParseDuration(cfg.Window)
	if err != nil {
		return 60 * time.Second
	}
	return window
}

const kalmanTrackerName = "kalman"

func isKnownTracker(name string) bool {
	name = strings.ToLower(name)
	if name == kalmanTrackerName {
		return true
	}
	_, ok := cvtrack.Trackers[name]
	return ok
}
