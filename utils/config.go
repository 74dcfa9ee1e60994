// File: utils/config.go
package utils

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure returned from Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all configurable engine parameters.
type Config struct {
	Collision CollisionConfig `json:"collision" yaml:"collision"`
	Level     LevelConfig     `json:"level" yaml:"level"`
	Server    ServerConfig    `json:"server" yaml:"server"`
	Log       LogConfig       `json:"log" yaml:"log"`
}

// CollisionConfig holds the tolerances used by the swept-circle solver and the ray query.
type CollisionConfig struct {
	TimeTieEpsilon                float64 `json:"timeTieEpsilon" yaml:"timeTieEpsilon"`                               // Fraction of the step within which two hits count as simultaneous
	DistanceTieEpsilon            float64 `json:"distanceTieEpsilon" yaml:"distanceTieEpsilon"`                       // Distance within which two tied contact points are equally near
	ParallelEpsilon               float64 `json:"parallelEpsilon" yaml:"parallelEpsilon"`                             // Below this |sin| the sweep counts as parallel to a segment
	InsideOutsideToleranceDivisor float64 `json:"insideOutsideToleranceDivisor" yaml:"insideOutsideToleranceDivisor"` // radius / this = outside-wins distance tolerance
	NormalZoneRadiusScale         float64 `json:"normalZoneRadiusScale" yaml:"normalZoneRadiusScale"`                 // Depth of the inside normal projection zone in radii
	RayStepFraction               float64 `json:"rayStepFraction" yaml:"rayStepFraction"`                             // Ray walk step as a fraction of the smallest piece dimension
}

// LevelConfig describes the piece grid and the procedural layout generator.
type LevelConfig struct {
	PieceWidth  float64 `json:"pieceWidth" yaml:"pieceWidth"`
	PieceHeight float64 `json:"pieceHeight" yaml:"pieceHeight"`
	Columns     int     `json:"columns" yaml:"columns"` // Must be even for generated layouts
	Rows        int     `json:"rows" yaml:"rows"`       // Must be even for generated layouts
	Seed        int64   `json:"seed" yaml:"seed"`
	MaxLife     int     `json:"maxLife" yaml:"maxLife"`

	FillVectors    int `json:"fillVectors" yaml:"fillVectors"`       // Number of seed vectors per quarter
	FillVectorSize int `json:"fillVectorSize" yaml:"fillVectorSize"` // Max length of seed vectors
	FillWalkers    int `json:"fillWalkers" yaml:"fillWalkers"`       // Number of random walkers per quarter
	FillSteps      int `json:"fillSteps" yaml:"fillSteps"`           // Number of steps per random walker
}

type ServerConfig struct {
	Address        string `json:"address" yaml:"address"`
	ReadBufferSize int    `json:"readBufferSize" yaml:"readBufferSize"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"` // debug, info, warn or error
}

// DefaultConfig returns a Config struct with default values.
func DefaultConfig() Config {
	columns := 16
	rows := 24

	return Config{
		Collision: DefaultCollisionConfig(),
		Level: LevelConfig{
			PieceWidth:  2.5,
			PieceHeight: 1.0,
			Columns:     columns,
			Rows:        rows,
			Seed:        1,
			MaxLife:     4,

			FillVectors:    columns,
			FillVectorSize: columns / 2,
			FillWalkers:    columns / 4,
			FillSteps:      rows / 2,
		},
		Server: ServerConfig{
			Address:        ":3001",
			ReadBufferSize: 4096,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultCollisionConfig returns the tuned solver constants.
func DefaultCollisionConfig() CollisionConfig {
	return CollisionConfig{
		TimeTieEpsilon:                1e-7,
		DistanceTieEpsilon:            1e-6,
		ParallelEpsilon:               1e-9,
		InsideOutsideToleranceDivisor: 7,
		NormalZoneRadiusScale:         2,
		RayStepFraction:               0.5,
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every field the engine divides by or indexes with.
func (c Config) Validate() error {
	if err := c.Collision.Validate(); err != nil {
		return err
	}
	if err := c.Level.Validate(); err != nil {
		return err
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Log.Level)
	}
	if c.Server.ReadBufferSize <= 0 {
		return fmt.Errorf("%w: server.readBufferSize must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c CollisionConfig) Validate() error {
	if c.TimeTieEpsilon < 0 || c.DistanceTieEpsilon < 0 || c.ParallelEpsilon < 0 {
		return fmt.Errorf("%w: collision epsilons must not be negative", ErrInvalidConfig)
	}
	if c.InsideOutsideToleranceDivisor <= 0 {
		return fmt.Errorf("%w: collision.insideOutsideToleranceDivisor must be positive", ErrInvalidConfig)
	}
	if c.NormalZoneRadiusScale <= 0 {
		return fmt.Errorf("%w: collision.normalZoneRadiusScale must be positive", ErrInvalidConfig)
	}
	if c.RayStepFraction <= 0 || c.RayStepFraction > 0.5 {
		return fmt.Errorf("%w: collision.rayStepFraction must be in (0, 0.5]", ErrInvalidConfig)
	}
	return nil
}

func (c LevelConfig) Validate() error {
	if c.PieceWidth <= 0 || c.PieceHeight <= 0 {
		return fmt.Errorf("%w: level piece dimensions must be positive", ErrInvalidConfig)
	}
	if c.Columns <= 0 || c.Rows <= 0 {
		return fmt.Errorf("%w: level must have at least one column and row", ErrInvalidConfig)
	}
	if c.Columns%2 != 0 || c.Rows%2 != 0 {
		return fmt.Errorf("%w: level columns and rows must be even", ErrInvalidConfig)
	}
	if c.MaxLife <= 0 {
		return fmt.Errorf("%w: level.maxLife must be positive", ErrInvalidConfig)
	}
	if c.FillVectors < 0 || c.FillWalkers < 0 || c.FillSteps < 0 {
		return fmt.Errorf("%w: level fill counts must not be negative", ErrInvalidConfig)
	}
	if c.FillVectors > 0 && c.FillVectorSize <= 0 {
		return fmt.Errorf("%w: level.fillVectorSize must be positive", ErrInvalidConfig)
	}
	return nil
}
