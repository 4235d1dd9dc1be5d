// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"strings"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-collide/pkg/sim"
)

// HUDSystemPriority puts the HUD after everything that changes state.
const HUDSystemPriority = 0

// hudRefresh is the number of seconds between title updates
const hudRefresh = 0.25

// StatusSource is what the HUD reports on
type StatusSource interface {
	GetState() *sim.State
	Stats() sim.Stats
}

// HUDSystem shows the simulation status in the window title
type HUDSystem struct {
	source  StatusSource
	title   string
	elapsed float32
	last    string

	setTitle func(string)
}

// NewHUDSystem creates a new HUD system
func NewHUDSystem(source StatusSource, title string) *HUDSystem {
	return &HUDSystem{
		source:   source,
		title:    title,
		elapsed:  hudRefresh,
		setTitle: engo.SetTitle,
	}
}

// Priority implements ecs.Prioritizer
func (hud *HUDSystem) Priority() int {
	return HUDSystemPriority
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Update refreshes the title a few times a second
func (hud *HUDSystem) Update(dt float32) {
	hud.elapsed += dt
	if hud.elapsed < hudRefresh {
		return
	}
	hud.elapsed = 0

	line := statusLine(hud.title, hud.source.GetState(), hud.source.Stats())
	if line == hud.last {
		return
	}
	hud.last = line
	hud.setTitle(line)
}

// statusLine formats the title bar text
func statusLine(title string, state *sim.State, stats sim.Stats) string {
	parts := []string{title}
	if state != nil {
		parts = append(parts, fmt.Sprintf("tick %d", state.Tick))
		if c := state.Character; c != nil {
			parts = append(parts, fmt.Sprintf("pos (%.1f, %.1f)", c.Position[0], c.Position[1]))
			if c.Collided {
				parts = append(parts, "blocked")
			}
			if n := len(c.Overlaps); n > 0 {
				parts = append(parts, fmt.Sprintf("inside %d", n))
			}
		}
	}
	parts = append(parts, fmt.Sprintf("contacts %d", stats.Contacts))
	return strings.Join(parts, " | ")
}
