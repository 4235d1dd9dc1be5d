// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/chewxy/math32"

	"github.com/opd-ai/go-collide/pkg/kinematic"
	"github.com/opd-ai/go-collide/pkg/physics"
	"github.com/opd-ai/go-collide/pkg/validation"
)

// Config contains configuration for a collision sandbox run
type Config struct {
	Movement MovementConfig `json:"movement"`
	Scene    SceneConfig    `json:"scene"`
	Sandbox  SandboxConfig  `json:"sandbox"`
}

// MovementConfig contains the kinematic resolver tunables
type MovementConfig struct {
	MaxIterations  int     `json:"maxIterations"`
	Skin           float32 `json:"skin"`
	NormalNudge    float32 `json:"normalNudge"`
	CharacterSpeed float32 `json:"characterSpeed"`
	Slide          bool    `json:"slide"`
}

// SceneConfig describes the static bodies and the controllable character
type SceneConfig struct {
	Character CharacterConfig `json:"character"`
	Bodies    []BodyConfig    `json:"bodies"`
}

// BodyConfig places one static body. Position and angle use the world
// convention: Y down, radians.
type BodyConfig struct {
	Name     string        `json:"name,omitempty"`
	Shape    physics.Shape `json:"shape"`
	Position physics.Vec2  `json:"position"`
	Angle    float32       `json:"angle"`
	Groups   []int         `json:"groups"`
}

// CharacterConfig places the character. CollisionGroups selects what it
// is blocked by; SensorGroups and SensorFilter select what it reports as
// overlapping.
type CharacterConfig struct {
	BodyConfig
	CollisionGroups []int `json:"collisionGroups"`
	SensorGroups    []int `json:"sensorGroups"`
	SensorFilter    []int `json:"sensorFilter,omitempty"`
}

// SandboxConfig contains window and timing settings
type SandboxConfig struct {
	Title    string `json:"title"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	TickRate int    `json:"tickRate"`
}

// Group returns the collision group of the body.
func (b BodyConfig) Group() physics.Group {
	return physics.GroupFromIDs(b.Groups...)
}

// CollisionGroup returns the group the character casts against.
func (c CharacterConfig) CollisionGroup() physics.Group {
	return physics.GroupFromIDs(c.CollisionGroups...)
}

// SensorGroup returns the group of the character's overlap query.
func (c CharacterConfig) SensorGroup() physics.Group {
	return physics.GroupFromIDs(c.SensorGroups...)
}

// SensorFilterGroup returns the filter of the character's overlap query.
func (c CharacterConfig) SensorFilterGroup() physics.Group {
	return physics.GroupFromIDs(c.SensorFilter...)
}

// Resolver builds the kinematic resolver described by the movement section.
func (c *Config) Resolver() kinematic.Resolver {
	return kinematic.Resolver{
		MaxIterations: c.Movement.MaxIterations,
		Skin:          c.Movement.Skin,
		NormalNudge:   c.Movement.NormalNudge,
	}
}

// TickDuration returns the fixed step in seconds.
func (c *Config) TickDuration() float32 {
	return 1 / float32(c.Sandbox.TickRate)
}

// Validate checks every section and returns the first problem found
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	m := c.Movement
	if err := validation.ValidateMovement(m.MaxIterations, m.Skin, m.NormalNudge); err != nil {
		return fmt.Errorf("movement: %w", err)
	}
	if err := validation.ValidateSpeed(m.CharacterSpeed); err != nil {
		return fmt.Errorf("movement: %w", err)
	}

	ch := c.Scene.Character
	if err := validation.ValidateBody(ch.Shape, ch.Position, ch.Angle, ch.Groups); err != nil {
		return fmt.Errorf("character: %w", err)
	}
	for _, ids := range [][]int{ch.CollisionGroups, ch.SensorGroups, ch.SensorFilter} {
		if err := validation.ValidateGroupIDs(ids); err != nil {
			return fmt.Errorf("character: %w", err)
		}
	}

	if len(c.Scene.Bodies) > validation.MaxSceneBodies {
		return fmt.Errorf("scene has too many bodies: %d (max %d)", len(c.Scene.Bodies), validation.MaxSceneBodies)
	}
	for i, b := range c.Scene.Bodies {
		if err := validation.ValidateBody(b.Shape, b.Position, b.Angle, b.Groups); err != nil {
			return fmt.Errorf("body %d (%s): %w", i, b.Name, err)
		}
	}

	if err := validation.ValidateTickRate(c.Sandbox.TickRate); err != nil {
		return fmt.Errorf("sandbox: %w", err)
	}
	if c.Sandbox.Width <= 0 || c.Sandbox.Height <= 0 {
		return fmt.Errorf("sandbox: window size must be positive, got %dx%d", c.Sandbox.Width, c.Sandbox.Height)
	}
	return nil
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := decodeConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

// decodeConfig decodes data over DefaultConfig. A movement or sandbox
// section only overrides the fields it names. A scene given in the file
// replaces the default scene whole. Absent and null sections keep their
// defaults.
func decodeConfig(data []byte) (*Config, error) {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if raw, ok := section(sections, "movement"); ok {
		if err := json.Unmarshal(raw, &config.Movement); err != nil {
			return nil, fmt.Errorf("movement: %w", err)
		}
	}
	if raw, ok := section(sections, "scene"); ok {
		config.Scene = SceneConfig{}
		if err := json.Unmarshal(raw, &config.Scene); err != nil {
			return nil, fmt.Errorf("scene: %w", err)
		}
	}
	if raw, ok := section(sections, "sandbox"); ok {
		if err := json.Unmarshal(raw, &config.Sandbox); err != nil {
			return nil, fmt.Errorf("sandbox: %w", err)
		}
	}
	return config, nil
}

func section(sections map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := sections[key]
	if !ok || string(raw) == "null" {
		return nil, false
	}
	return raw, true
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *Config, path string) error {
	if config == nil {
		return errors.New("failed to marshal config: config is nil")
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the character movement scene with default tunables
func DefaultConfig() *Config {
	return &Config{
		Movement: MovementConfig{
			MaxIterations:  kinematic.DefaultMaxIterations,
			Skin:           kinematic.DefaultSkin,
			NormalNudge:    kinematic.DefaultNormalNudge,
			CharacterSpeed: 64,
			Slide:          true,
		},
		Scene: characterMovementScene(),
		Sandbox: SandboxConfig{
			Title:    "go-collide sandbox",
			Width:    640,
			Height:   480,
			TickRate: 60,
		},
	}
}

// characterMovementScene is a character among rotated rects and circles.
// Every obstacle is in groups 0 and 1; the character sits in group 0 and
// is blocked by group 1.
func characterMovementScene() SceneConfig {
	obstacle := []int{0, 1}
	return SceneConfig{
		Character: CharacterConfig{
			BodyConfig: BodyConfig{
				Name:     "character",
				Shape:    physics.NewRect(32, 16),
				Position: physics.Vec2{32, 16},
				Groups:   []int{0},
			},
			CollisionGroups: []int{1},
			SensorGroups:    []int{0},
		},
		Bodies: []BodyConfig{
			{Name: "tilted_plank", Shape: physics.NewRect(64, 16), Position: physics.Vec2{128, 60}, Angle: math32.Pi / 6, Groups: obstacle},
			{Name: "slab", Shape: physics.NewRect(100, 45), Position: physics.Vec2{64, 128}, Angle: math32.Pi / 3, Groups: obstacle},
			{Name: "boulder", Shape: physics.NewCircle(32), Position: physics.Vec2{97, 128}, Angle: math32.Pi / 3, Groups: obstacle},
			{Name: "hill", Shape: physics.NewCircle(128), Position: physics.Vec2{256, 97}, Angle: math32.Pi / 3, Groups: obstacle},
			{Name: "post", Shape: physics.NewRect(16, 64), Position: physics.Vec2{256, 256}, Groups: obstacle},
			{Name: "ledge", Shape: physics.NewRect(64, 16), Position: physics.Vec2{256, 304}, Groups: obstacle},
		},
	}
}
