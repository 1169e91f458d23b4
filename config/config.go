// Package config loads the renderer settings from a TOML file.
//
// Every value has a default matching the classic brat card: a 500×500 white
// canvas, black bold text, font sizes 120 down to 10 and a typing animation of
// 120 ms per character. A missing config file simply yields DefaultConfig.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ByLCY/bratgen/atomicfile"
	"github.com/ByLCY/bratgen/fonts"
	"github.com/ByLCY/bratgen/layout"
)

// ///////////////////////////////////////////////
// Configuration Types
// ///////////////////////////////////////////////

// Config represents the top-level application configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Canvas    CanvasConfig    `toml:"canvas"`
	Text      TextConfig      `toml:"text"`
	Font      FontConfig      `toml:"font"`
	Animation AnimationConfig `toml:"animation"`
	Cache     CacheConfig     `toml:"cache"`
	Log       LogConfig       `toml:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":3000".
	Addr                   string `toml:"addr"`
	ReadTimeoutSeconds     int    `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds    int    `toml:"write_timeout_seconds"`
	IdleTimeoutSeconds     int    `toml:"idle_timeout_seconds"`
	ShutdownTimeoutSeconds int    `toml:"shutdown_timeout_seconds"`
}

// CanvasConfig holds the output surface settings. Sizes are in pixels.
type CanvasConfig struct {
	Width      float64 `toml:"width"`
	Height     float64 `toml:"height"`
	Margin     float64 `toml:"margin"`
	Background string  `toml:"background"`
	Foreground string  `toml:"foreground"`
}

// TextConfig holds the fitting policy.
type TextConfig struct {
	MaxFontSize int     `toml:"max_font_size"`
	MinFontSize int     `toml:"min_font_size"`
	FontStep    int     `toml:"font_step"`
	LineHeight  float64 `toml:"line_height"`
	// MaxLength caps the input, counted in characters.
	MaxLength int `toml:"max_length"`
}

// FontConfig selects the display font.
type FontConfig struct {
	// Source uses the fonts source syntax: builtin:<name>, file:<glob> or google:<family>[:<weight>].
	Source string `toml:"source"`
	Style  string `toml:"style"`
	// CacheDir stores downloaded fonts; empty disables the cache.
	CacheDir string `toml:"cache_dir,omitempty"`
	// BaseDir resolves relative file: sources; empty means the working directory.
	BaseDir string `toml:"base_dir,omitempty"`
}

// AnimationConfig holds the typing animation timing and GIF encoding settings.
type AnimationConfig struct {
	CharDelayMs  int `toml:"char_delay_ms"`
	LeadDelayMs  int `toml:"lead_delay_ms"`
	FinalDelayMs int `toml:"final_delay_ms"`
	// Quality is the palette sampling interval; 1 samples every pixel.
	Quality int `toml:"quality"`
	// Loop is the GIF loop count: 0 loops forever, -1 plays once.
	Loop int `toml:"loop"`
}

// CacheConfig controls the Cache-Control header on image responses.
type CacheConfig struct {
	MaxAgeSeconds int `toml:"max_age_seconds"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `toml:"level"`
	// File is the log file path; empty logs to stderr.
	File string `toml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation.
	MaxSizeMB int `toml:"max_size_mb"`
}

// ///////////////////////////////////////////////
// Default Configuration
// ///////////////////////////////////////////////

// DefaultConfig returns a Config populated with the standard card settings.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:                   ":3000",
			ReadTimeoutSeconds:     30,
			WriteTimeoutSeconds:    30,
			IdleTimeoutSeconds:     120,
			ShutdownTimeoutSeconds: 10,
		},
		Canvas: CanvasConfig{
			Width:      layout.DefaultCanvasSize,
			Height:     layout.DefaultCanvasSize,
			Margin:     layout.DefaultMargin,
			Background: "#ffffff",
			Foreground: "#000000",
		},
		Text: TextConfig{
			MaxFontSize: layout.DefaultMaxFontSize,
			MinFontSize: layout.DefaultMinFontSize,
			FontStep:    layout.DefaultFontStep,
			LineHeight:  layout.DefaultLineHeightFactor,
			MaxLength:   layout.DefaultMaxTextLength,
		},
		Font: FontConfig{
			Source: fonts.DefaultSource,
			Style:  "bold",
		},
		Animation: AnimationConfig{
			CharDelayMs:  int(layout.DefaultCharDelay / time.Millisecond),
			LeadDelayMs:  int(layout.DefaultLeadDelay / time.Millisecond),
			FinalDelayMs: int(layout.DefaultFinalDelay / time.Millisecond),
			Quality:      10,
			Loop:         0,
		},
		Cache: CacheConfig{
			MaxAgeSeconds: 3600,
		},
		Log: LogConfig{
			Level:     "info",
			MaxSizeMB: 10,
		},
	}
}

// ///////////////////////////////////////////////
// Loading and Saving
// ///////////////////////////////////////////////

// Load reads path and overlays it on DefaultConfig.
// If path is empty or the file doesn't exist, returns DefaultConfig.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to disk as TOML using atomic file write.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return atomicfile.Write(path, buf.Bytes(), 0o644)
}

// ///////////////////////////////////////////////
// Validation
// ///////////////////////////////////////////////

// validLogLevels is the set of accepted log level strings.
var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks that all configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.ShutdownTimeoutSeconds < 0 {
		return fmt.Errorf("shutdown_timeout_seconds must be >= 0, got %d", c.Server.ShutdownTimeoutSeconds)
	}

	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be > 0, got %gx%g", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.Margin < 0 || 2*c.Canvas.Margin >= c.Canvas.Width || 2*c.Canvas.Margin >= c.Canvas.Height {
		return fmt.Errorf("canvas.margin %g leaves no room for text", c.Canvas.Margin)
	}
	if _, err := ParseHexColor(c.Canvas.Background); err != nil {
		return fmt.Errorf("canvas.background: %w", err)
	}
	if _, err := ParseHexColor(c.Canvas.Foreground); err != nil {
		return fmt.Errorf("canvas.foreground: %w", err)
	}

	if c.Text.MinFontSize <= 0 {
		return fmt.Errorf("min_font_size must be > 0, got %d", c.Text.MinFontSize)
	}
	if c.Text.MaxFontSize < c.Text.MinFontSize {
		return fmt.Errorf("max_font_size %d must be >= min_font_size %d", c.Text.MaxFontSize, c.Text.MinFontSize)
	}
	if c.Text.FontStep <= 0 {
		return fmt.Errorf("font_step must be > 0, got %d", c.Text.FontStep)
	}
	if c.Text.LineHeight <= 0 {
		return fmt.Errorf("line_height must be > 0, got %g", c.Text.LineHeight)
	}
	if c.Text.MaxLength <= 0 {
		return fmt.Errorf("max_length must be > 0, got %d", c.Text.MaxLength)
	}

	if _, err := fonts.ParseSource(c.Font.Source); err != nil {
		return fmt.Errorf("font.source: %w", err)
	}

	if c.Animation.CharDelayMs < 0 || c.Animation.LeadDelayMs < 0 || c.Animation.FinalDelayMs < 0 {
		return fmt.Errorf("animation delays must be >= 0")
	}
	if c.Animation.Quality < 1 {
		return fmt.Errorf("animation.quality must be >= 1, got %d", c.Animation.Quality)
	}
	if c.Animation.Loop < -1 {
		return fmt.Errorf("animation.loop must be >= -1, got %d", c.Animation.Loop)
	}

	if c.Cache.MaxAgeSeconds < 0 {
		return fmt.Errorf("cache.max_age_seconds must be >= 0, got %d", c.Cache.MaxAgeSeconds)
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log.level %q: must be trace, debug, info, warn, or error", c.Log.Level)
	}
	return nil
}

// ///////////////////////////////////////////////
// Conversion
// ///////////////////////////////////////////////

// FontResource returns the display font described by the config.
func (c *Config) FontResource() layout.FontResource {
	return layout.FontResource{
		Name:  "Display",
		Src:   c.Font.Source,
		Style: c.Font.Style,
	}
}

// BuildOptions converts the config into layout options using m for measurement.
func (c *Config) BuildOptions(m layout.Measurer) (layout.BuildOptions, error) {
	bg, err := ParseHexColor(c.Canvas.Background)
	if err != nil {
		return layout.BuildOptions{}, fmt.Errorf("canvas.background: %w", err)
	}
	fg, err := ParseHexColor(c.Canvas.Foreground)
	if err != nil {
		return layout.BuildOptions{}, fmt.Errorf("canvas.foreground: %w", err)
	}
	return layout.BuildOptions{
		Measurer:         m,
		Width:            c.Canvas.Width,
		Height:           c.Canvas.Height,
		Margin:           c.Canvas.Margin,
		MaxFontSize:      c.Text.MaxFontSize,
		MinFontSize:      c.Text.MinFontSize,
		FontStep:         c.Text.FontStep,
		LineHeightFactor: c.Text.LineHeight,
		MaxTextLength:    c.Text.MaxLength,
		Font:             c.FontResource(),
		Foreground:       fg,
		Background:       bg,
		Timing: layout.Timing{
			Char:  time.Duration(c.Animation.CharDelayMs) * time.Millisecond,
			Lead:  time.Duration(c.Animation.LeadDelayMs) * time.Millisecond,
			Final: time.Duration(c.Animation.FinalDelayMs) * time.Millisecond,
		},
		Loop: c.Animation.Loop,
	}, nil
}

// CacheControl returns the Cache-Control header value for image responses.
func (c *Config) CacheControl() string {
	if c.Cache.MaxAgeSeconds == 0 {
		return "no-cache"
	}
	return fmt.Sprintf("public, max-age=%d", c.Cache.MaxAgeSeconds)
}

// ParseHexColor parses "#rgb" or "#rrggbb" (the leading '#' is optional).
func ParseHexColor(s string) (layout.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return layout.Color{}, fmt.Errorf("invalid hex colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return layout.Color{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return layout.Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}
