// pkg/config/scene_template.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/opd-ai/go-collide/pkg/physics"
)

// SceneTemplate is a named, ready-made scene
type SceneTemplate struct {
	Name        string
	Description string
	Scene       SceneConfig
}

var sceneTemplates = map[string]SceneTemplate{
	"character_movement": {
		Name:        "Character Movement",
		Description: "Rotated rects and circles around a sliding character",
		Scene:       characterMovementScene(),
	},
	"corridor": {
		Name:        "Corridor",
		Description: "A walled corridor with a sensor pad the character can walk over",
		Scene:       corridorScene(),
	},
	"corner_trap": {
		Name:        "Corner Trap",
		Description: "Two walls meeting at a right angle to exercise multi-contact sliding",
		Scene:       cornerTrapScene(),
	},
}

// GetSceneTemplate returns the named template, or nil if there is none.
// The returned scene is a copy and may be modified freely.
func GetSceneTemplate(name string) *SceneTemplate {
	tmpl, ok := sceneTemplates[name]
	if !ok {
		return nil
	}
	tmpl.Scene = tmpl.Scene.clone()
	return &tmpl
}

// ListSceneTemplates maps every template name to its description
func ListSceneTemplates() map[string]string {
	out := make(map[string]string, len(sceneTemplates))
	for name, tmpl := range sceneTemplates {
		out[name] = tmpl.Description
	}
	return out
}

// SceneTemplateNames returns the template names in sorted order
func SceneTemplateNames() []string {
	names := make([]string, 0, len(sceneTemplates))
	for name := range sceneTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplySceneTemplate replaces the scene of cfg with the named template
func ApplySceneTemplate(cfg *Config, name string) error {
	tmpl := GetSceneTemplate(name)
	if tmpl == nil {
		return fmt.Errorf("unknown scene template: %s", name)
	}
	cfg.Scene = tmpl.Scene
	return nil
}

// LoadConfigWithTemplate loads path, falling back to the defaults when the
// file does not exist, then applies the template if one is named. A file
// that exists but fails to parse or validate is an error.
func LoadConfigWithTemplate(path, template string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		loaded, err := LoadConfig(path)
		switch {
		case err == nil:
			cfg = loaded
		case !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
	}

	if template != "" {
		if err := ApplySceneTemplate(cfg, template); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (s SceneConfig) clone() SceneConfig {
	out := SceneConfig{Character: s.Character}
	out.Character.Groups = append([]int(nil), s.Character.Groups...)
	out.Character.CollisionGroups = append([]int(nil), s.Character.CollisionGroups...)
	out.Character.SensorGroups = append([]int(nil), s.Character.SensorGroups...)
	out.Character.SensorFilter = append([]int(nil), s.Character.SensorFilter...)
	out.Bodies = make([]BodyConfig, len(s.Bodies))
	for i, b := range s.Bodies {
		b.Groups = append([]int(nil), b.Groups...)
		out.Bodies[i] = b
	}
	return out
}

// corridorScene keeps walls in group 1 and a sensor pad in group 2. The
// character is blocked by walls and reports the pad.
func corridorScene() SceneConfig {
	wall := []int{1}
	return SceneConfig{
		Character: CharacterConfig{
			BodyConfig: BodyConfig{
				Name:     "character",
				Shape:    physics.NewRect(16, 16),
				Position: physics.Vec2{32, 100},
				Groups:   []int{0},
			},
			CollisionGroups: []int{1},
			SensorGroups:    []int{2},
		},
		Bodies: []BodyConfig{
			{Name: "upper_wall", Shape: physics.NewRect(400, 8), Position: physics.Vec2{200, 80}, Groups: wall},
			{Name: "lower_wall", Shape: physics.NewRect(400, 8), Position: physics.Vec2{200, 120}, Groups: wall},
			{Name: "end_wall", Shape: physics.NewRect(8, 48), Position: physics.Vec2{404, 100}, Groups: wall},
			{Name: "pad", Shape: physics.NewCircle(12), Position: physics.Vec2{200, 100}, Groups: []int{2}},
		},
	}
}

func cornerTrapScene() SceneConfig {
	wall := []int{1}
	return SceneConfig{
		Character: CharacterConfig{
			BodyConfig: BodyConfig{
				Name:     "character",
				Shape:    physics.NewRect(16, 16),
				Position: physics.Vec2{64, 64},
				Groups:   []int{0},
			},
			CollisionGroups: []int{1},
			SensorGroups:    []int{1},
		},
		Bodies: []BodyConfig{
			{Name: "east_wall", Shape: physics.NewRect(8, 128), Position: physics.Vec2{160, 96}, Groups: wall},
			{Name: "south_wall", Shape: physics.NewRect(128, 8), Position: physics.Vec2{100, 160}, Groups: wall},
		},
	}
}
