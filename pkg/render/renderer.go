// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-collide/pkg/logging"
	"github.com/opd-ai/go-collide/pkg/sim"
)

// Renderer draws simulation snapshots.
type Renderer interface {
	Render(state *sim.State) error
}

// LogRenderer renders a snapshot as debug log records.
type LogRenderer struct {
	logger *logging.Logger
}

// NewLogRenderer creates a LogRenderer. A nil logger uses the environment
// configured default.
func NewLogRenderer(logger *logging.Logger) *LogRenderer {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &LogRenderer{logger: logger}
}

// Render implements Renderer.
func (d *LogRenderer) Render(state *sim.State) error {
	ctx := context.Background()
	if state == nil {
		d.logger.Debug(ctx, "Render called with nil state")
		return nil
	}
	ctx = logging.WithTick(ctx, state.Tick)

	if c := state.Character; c != nil {
		d.logger.Debug(ctx, "character",
			"entity_id", c.ID,
			"position", logging.FormatVec(c.Position),
			"collided", c.Collided,
			"touched", len(c.Touched),
			"overlaps", len(c.Overlaps),
		)
	}
	for _, b := range state.Bodies {
		if !b.Bumped && !b.Overlapped {
			continue
		}
		d.logger.Debug(ctx, "body",
			"entity_id", b.ID,
			"name", b.Name,
			"bumped", b.Bumped,
			"overlapped", b.Overlapped,
		)
	}
	return nil
}
