// Package config provides configuration loading and access for the ball toys.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig             `yaml:"screen"`
	Boundary  BoundaryConfig           `yaml:"boundary"`
	Physics   PhysicsConfig            `yaml:"physics"`
	Spawn     SpawnConfig              `yaml:"spawn"`
	Controls  ControlsConfig           `yaml:"controls"`
	Effects   EffectsConfig            `yaml:"effects"`
	Variant   string                   `yaml:"variant"`
	Variants  map[string]VariantConfig `yaml:"variants"`
	Audio     AudioConfig              `yaml:"audio"`
	Assets    AssetsConfig             `yaml:"assets"`
	Telemetry TelemetryConfig          `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// BoundaryConfig describes the containing circle.
type BoundaryConfig struct {
	CenterX float64 `yaml:"center_x"`
	CenterY float64 `yaml:"center_y"`
	Radius  float64 `yaml:"radius"`
}

// PhysicsConfig holds the default global parameters and their limits.
type PhysicsConfig struct {
	Gravity           float64 `yaml:"gravity"`
	BounceRestitution float64 `yaml:"bounce_restitution"` // >2 gains energy on every wall hit
	SizeGain          float64 `yaml:"size_gain"`          // radius change per wall hit
	MinRestitution    float64 `yaml:"min_restitution"`
	MinSizeGain       float64 `yaml:"min_size_gain"`
	MinRadius         float64 `yaml:"min_radius"`
	MaxRadius         float64 `yaml:"max_radius"` // any ball above this clears the population
	Epsilon           float64 `yaml:"epsilon"`
}

// SpawnConfig holds entity creation parameters.
type SpawnConfig struct {
	Radius      float64 `yaml:"radius"`
	OffsetXMin  float64 `yaml:"offset_x_min"`
	OffsetXSpan float64 `yaml:"offset_x_span"`
	OffsetY     float64 `yaml:"offset_y"`
	SpeedMin    float64 `yaml:"speed_min"`
	SpeedSpan   float64 `yaml:"speed_span"`
}

// ControlsConfig holds the step sizes of the +/- controls.
type ControlsConfig struct {
	GravityStep float64 `yaml:"gravity_step"`
	BounceStep  float64 `yaml:"bounce_step"`
	SizeStep    float64 `yaml:"size_step"`
}

// EffectsConfig holds collision effect settings.
type EffectsConfig struct {
	SoundCooldownSec float64 `yaml:"sound_cooldown_sec"`
}

// VariantConfig is the capability set of one toy variant.
type VariantConfig struct {
	Title       string  `yaml:"title"` // window title, defaults to screen.title
	HasTrail    bool    `yaml:"has_trail"`
	MultiImage  bool    `yaml:"multi_image"`
	SoundPolicy string  `yaml:"sound_policy"` // "shared" or "per_collision"
	BoundaryGap float64 `yaml:"boundary_gap"` // open arc in radians, 0 = closed
}

// AudioConfig holds speaker settings.
type AudioConfig struct {
	SampleRate int `yaml:"sample_rate"`
	BufferMS   int `yaml:"buffer_ms"`
}

// AssetsConfig holds asset decoding settings.
type AssetsConfig struct {
	DecodeConcurrency int `yaml:"decode_concurrency"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Variant       VariantConfig // resolved entry of Variants
	SoundCooldown time.Duration
	DT            float64 // seconds per frame at TargetFPS
}

// Sound policies.
const (
	SoundShared       = "shared"
	SoundPerCollision = "per_collision"
)

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults with derived values, ignoring the
// environment.
func Default() *Config {
	cfg, err := build(nil, false)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults,
// then applies BOUNCE_* environment overrides (a .env file is read if present).
// If path is empty, only embedded defaults and the environment are used.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Missing .env is fine
	_ = godotenv.Load()

	return build(data, true)
}

// Parse builds a config from the embedded defaults overlaid with data.
// The environment is not consulted.
func Parse(data []byte) (*Config, error) {
	return build(data, false)
}

func build(data []byte, env bool) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if data != nil {
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if env {
		cfg.applyEnv()
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides a few frequently tuned values from the environment.
func (c *Config) applyEnv() {
	c.Variant = getEnv("BOUNCE_VARIANT", c.Variant)
	c.Physics.Gravity = getEnvFloat("BOUNCE_GRAVITY", c.Physics.Gravity)
	c.Physics.BounceRestitution = getEnvFloat("BOUNCE_RESTITUTION", c.Physics.BounceRestitution)
	c.Physics.SizeGain = getEnvFloat("BOUNCE_SIZE_GAIN", c.Physics.SizeGain)
	c.Effects.SoundCooldownSec = getEnvFloat("BOUNCE_SOUND_COOLDOWN", c.Effects.SoundCooldownSec)
	c.Screen.TargetFPS = getEnvInt("BOUNCE_TARGET_FPS", c.Screen.TargetFPS)
}

// computeDerived validates and calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	v, ok := c.Variants[c.Variant]
	if !ok {
		return fmt.Errorf("unknown variant %q", c.Variant)
	}
	switch v.SoundPolicy {
	case "":
		v.SoundPolicy = SoundShared
	case SoundShared, SoundPerCollision:
	default:
		return fmt.Errorf("variant %q: unknown sound policy %q", c.Variant, v.SoundPolicy)
	}
	if v.Title == "" {
		v.Title = c.Screen.Title
	}
	c.Derived.Variant = v

	if c.Boundary.Radius <= 0 {
		return fmt.Errorf("boundary radius must be positive, got %v", c.Boundary.Radius)
	}
	if c.Physics.MinRadius <= 0 {
		c.Physics.MinRadius = 1
	}
	if c.Physics.BounceRestitution < c.Physics.MinRestitution {
		c.Physics.BounceRestitution = c.Physics.MinRestitution
	}
	if c.Physics.SizeGain < c.Physics.MinSizeGain {
		c.Physics.SizeGain = c.Physics.MinSizeGain
	}
	if c.Physics.Gravity < 0 {
		c.Physics.Gravity = 0
	}

	c.Derived.SoundCooldown = time.Duration(c.Effects.SoundCooldownSec * float64(time.Second))
	if c.Screen.TargetFPS > 0 {
		c.Derived.DT = 1.0 / float64(c.Screen.TargetFPS)
	} else {
		c.Derived.DT = 1.0 / 60.0
	}
	if c.Assets.DecodeConcurrency < 1 {
		c.Assets.DecodeConcurrency = 1
	}
	return nil
}

// SetVariant switches to the named variant and recomputes derived values.
func (c *Config) SetVariant(name string) error {
	prev := c.Variant
	c.Variant = name
	if err := c.computeDerived(); err != nil {
		c.Variant = prev
		return err
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
