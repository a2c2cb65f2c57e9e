// Package config loads and validates the viewer settings file (~/.nvpix.json).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Window size constants
const (
	defaultWidth  = 800
	defaultHeight = 600
	minWidth      = 400
	minHeight     = 300
)

// Sort method names
const (
	SortLocale  = "locale"  // Locale-aware collation with numeric runs compared by value
	SortNatural = "natural" // Natural sort order (e.g., file1, file2, file10)
	SortSimple  = "simple"  // Simple string sort (byte order)
)

// Load status values reported in LoadResult.Status.
const (
	StatusDefault = "Default"
	StatusOK      = "OK"
	StatusWarning = "Warning"
	StatusError   = "Error"
)

// Config holds every tunable the viewer reads at startup.
type Config struct {
	WindowWidth  int  `json:"window_width"`
	WindowHeight int  `json:"window_height"`
	Fullscreen   bool `json:"fullscreen"`

	SortMethod string `json:"sort_method"`

	CacheBudgetMB int  `json:"cache_budget_mb"`
	DecodeWorkers int  `json:"decode_workers"` // 0 means one per CPU
	QueueDepth    int  `json:"queue_depth"`
	Prefetch      bool `json:"prefetch"`

	MinScale                 float64 `json:"min_scale"`
	MaxScale                 float64 `json:"max_scale"`
	ZoomStep                 float64 `json:"zoom_step"`
	PanStep                  float64 `json:"pan_step"`
	MinFrameMS               int     `json:"min_frame_ms"`
	VectorRequalityThreshold float64 `json:"vector_requality_threshold"`

	ShowBar          bool    `json:"show_bar"`
	SlideshowSeconds float64 `json:"slideshow_seconds"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`

	Keybindings   map[string][]string `json:"keybindings"`
	Mousebindings map[string][]string `json:"mousebindings"`
	Mouse         MouseSettings       `json:"mouse"`
	Commands      []Command           `json:"commands,omitempty"`
}

// Command is a user program launched by a key chord. ${img} and ${folder} in
// Args are replaced by the current image and its directory.
type Command struct {
	Input   []string          `json:"input"`
	Program string            `json:"program"`
	Args    []string          `json:"args,omitempty"`
	Envs    map[string]string `json:"envs,omitempty"`
}

// MouseSettings contains mouse-specific configuration
type MouseSettings struct {
	WheelSensitivity float64 `json:"wheel_sensitivity"`
	DoubleClickTime  int     `json:"double_click_time"` // milliseconds
	DragThreshold    int     `json:"drag_threshold"`    // pixels
	WheelInverted    bool    `json:"wheel_inverted"`
}

// LoadResult contains the result of loading configuration
type LoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string
}

// CacheBudget returns the cache budget in bytes.
func (c Config) CacheBudget() int64 {
	return int64(c.CacheBudgetMB) * 1024 * 1024
}

// SlideshowInterval returns how long the slideshow shows each image.
func (c Config) SlideshowInterval() time.Duration {
	return time.Duration(c.SlideshowSeconds * float64(time.Second))
}

// MinFrameDuration returns the minimum animation frame duration.
func (c Config) MinFrameDuration() time.Duration {
	return time.Duration(c.MinFrameMS) * time.Millisecond
}

// DoubleClickInterval returns the double click window.
func (m MouseSettings) DoubleClickInterval() time.Duration {
	return time.Duration(m.DoubleClickTime) * time.Millisecond
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		WindowWidth:              defaultWidth,
		WindowHeight:             defaultHeight,
		SortMethod:               SortLocale,
		CacheBudgetMB:            512,
		DecodeWorkers:            0,
		QueueDepth:               16,
		Prefetch:                 true,
		MinScale:                 0.1,
		MaxScale:                 10,
		ZoomStep:                 1.25,
		PanStep:                  64,
		MinFrameMS:               20,
		VectorRequalityThreshold: 1.5,
		ShowBar:                  true,
		SlideshowSeconds:         4,
		LogLevel:                 "info",
		LogFormat:                "console",
		Keybindings:              GetDefaultKeybindings(),
		Mousebindings:            GetDefaultMousebindings(),
		Mouse:                    GetDefaultMouseSettings(),
	}
}

// GetDefaultMouseSettings returns the default mouse settings
func GetDefaultMouseSettings() MouseSettings {
	return MouseSettings{
		WheelSensitivity: 1.0,
		DoubleClickTime:  300,
		DragThreshold:    3,
		WheelInverted:    false,
	}
}

// Path returns the settings file location.
func Path() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "nvpix.json"
	}
	return filepath.Join(homeDir, ".nvpix.json")
}

// Load reads the settings file from its default location.
func Load(logger *zap.Logger) LoadResult {
	return LoadFromPath(Path(), logger)
}

// LoadFromPath reads configPath, falling back to defaults for anything missing or invalid.
func LoadFromPath(configPath string, logger *zap.Logger) LoadResult {
	if logger == nil {
		logger = zap.NewNop()
	}
	config := Default()
	config.Keybindings = nil
	config.Mousebindings = nil

	result := LoadResult{
		Config:   Default(),
		Warnings: []string{},
		Status:   StatusOK,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		// Config file not found is not an error - use defaults
		result.Status = StatusDefault
		return result
	}

	if err := json.Unmarshal(data, &config); err != nil {
		logger.Warn("invalid config file, using defaults",
			zap.String("path", configPath), zap.Error(err))
		result.HasError = true
		result.Status = StatusError
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		return result
	}

	warnings := validate(&config)
	for _, w := range warnings {
		logger.Warn("config value adjusted", zap.String("path", configPath), zap.String("detail", w))
	}
	if len(warnings) > 0 {
		result.Status = StatusWarning
		result.Warnings = append(result.Warnings, warnings...)
	}

	result.Config = config
	return result
}

// validate clamps every field into its accepted range and reports what changed.
func validate(config *Config) []string {
	var warnings []string
	def := Default()

	if config.WindowWidth < minWidth {
		config.WindowWidth = defaultWidth
	}
	if config.WindowHeight < minHeight {
		config.WindowHeight = defaultHeight
	}

	switch strings.ToLower(config.SortMethod) {
	case SortLocale, SortNatural, SortSimple:
		config.SortMethod = strings.ToLower(config.SortMethod)
	case "":
		config.SortMethod = def.SortMethod
	default:
		warnings = append(warnings, fmt.Sprintf("unknown sort_method %q", config.SortMethod))
		config.SortMethod = def.SortMethod
	}

	if config.CacheBudgetMB < 1 {
		config.CacheBudgetMB = def.CacheBudgetMB
	} else if config.CacheBudgetMB > 4096 {
		config.CacheBudgetMB = 4096
	}

	if config.DecodeWorkers < 0 {
		config.DecodeWorkers = 0
	} else if config.DecodeWorkers > 64 {
		config.DecodeWorkers = 64
	}

	if config.QueueDepth < 1 {
		config.QueueDepth = def.QueueDepth
	} else if config.QueueDepth > 256 {
		config.QueueDepth = 256
	}

	if config.MinScale <= 0 {
		config.MinScale = def.MinScale
	}
	if config.MaxScale <= config.MinScale {
		if config.MaxScale != 0 {
			warnings = append(warnings, fmt.Sprintf("max_scale %.2f not above min_scale %.2f", config.MaxScale, config.MinScale))
		}
		config.MaxScale = def.MaxScale
		if config.MaxScale <= config.MinScale {
			config.MinScale = def.MinScale
		}
	}
	if config.ZoomStep <= 1 {
		config.ZoomStep = def.ZoomStep
	}
	if config.PanStep <= 0 {
		config.PanStep = def.PanStep
	}

	if config.MinFrameMS < 1 {
		config.MinFrameMS = def.MinFrameMS
	} else if config.MinFrameMS > 1000 {
		config.MinFrameMS = 1000
	}

	if config.VectorRequalityThreshold <= 1 {
		config.VectorRequalityThreshold = def.VectorRequalityThreshold
	}

	if config.SlideshowSeconds <= 0 {
		config.SlideshowSeconds = def.SlideshowSeconds
	} else if config.SlideshowSeconds < 0.5 {
		config.SlideshowSeconds = 0.5
	} else if config.SlideshowSeconds > 3600 {
		config.SlideshowSeconds = 3600
	}

	if config.LogLevel == "" {
		config.LogLevel = def.LogLevel
	}
	if config.LogFormat != "json" && config.LogFormat != "console" {
		config.LogFormat = def.LogFormat
	}

	if config.Mouse.WheelSensitivity <= 0 {
		config.Mouse.WheelSensitivity = def.Mouse.WheelSensitivity
	}
	if config.Mouse.DoubleClickTime <= 0 {
		config.Mouse.DoubleClickTime = def.Mouse.DoubleClickTime
	}
	if config.Mouse.DragThreshold < 0 {
		config.Mouse.DragThreshold = def.Mouse.DragThreshold
	}

	config.Keybindings = fillDefaults(config.Keybindings, GetDefaultKeybindings())
	if err := validateKeybindings(config.Keybindings); err != nil {
		warnings = append(warnings, fmt.Sprintf("Keybinding errors: %v", err))
		config.Keybindings = GetDefaultKeybindings()
	}

	config.Mousebindings = fillDefaults(config.Mousebindings, GetDefaultMousebindings())
	if err := validateMousebindings(config.Mousebindings); err != nil {
		warnings = append(warnings, fmt.Sprintf("Mousebinding errors: %v", err))
		config.Mousebindings = GetDefaultMousebindings()
	}

	var cmdWarnings []string
	config.Commands, cmdWarnings = validateCommands(config.Commands)
	warnings = append(warnings, cmdWarnings...)

	return warnings
}

func fillDefaults(bindings, defaults map[string][]string) map[string][]string {
	if bindings == nil {
		return defaults
	}
	for action, keys := range defaults {
		if _, exists := bindings[action]; !exists {
			bindings[action] = keys
		}
	}
	return bindings
}

// Save writes config to the default settings path.
func Save(config Config, logger *zap.Logger) {
	SaveToPath(config, Path(), logger)
}

// SaveToPath writes config as indented JSON.
func SaveToPath(config Config, configPath string, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	// Don't save if size is too small
	if config.WindowWidth < minWidth || config.WindowHeight < minHeight {
		logger.Warn("not saving config with invalid window size",
			zap.Int("width", config.WindowWidth), zap.Int("height", config.WindowHeight))
		return
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		logger.Error("failed to marshal config", zap.Error(err))
		return
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		logger.Error("failed to save config", zap.String("path", configPath), zap.Error(err))
	}
}
