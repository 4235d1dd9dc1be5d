// pkg/render/engo/scene.go
package engo

import (
	"context"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-collide/pkg/logging"
	"github.com/opd-ai/go-collide/pkg/sim"
)

// SimulationSystemPriority steps the simulation after input is read and
// before the camera follows.
const SimulationSystemPriority = 20

// maxStepsPerFrame bounds catch-up work after a stall
const maxStepsPerFrame = 8

// fixedStep turns variable frame times into whole simulation ticks
type fixedStep struct {
	dt  float32
	acc float32
}

// advance adds a frame and returns the number of ticks to run. Time that
// would need more than maxStepsPerFrame ticks is dropped.
func (f *fixedStep) advance(frame float32) int {
	f.acc += frame
	n := 0
	for f.acc >= f.dt && n < maxStepsPerFrame {
		f.acc -= f.dt
		n++
	}
	if n == maxStepsPerFrame {
		f.acc = 0
	}
	return n
}

// SimulationSystem steps the simulation at its configured rate and mirrors
// the result into render entities
type SimulationSystem struct {
	sim      *sim.Simulation
	renderer *ShapeRenderer
	camera   *CameraSystem
	step     fixedStep
}

// NewSimulationSystem creates the stepping system. camera may be nil.
func NewSimulationSystem(s *sim.Simulation, renderer *ShapeRenderer, camera *CameraSystem) *SimulationSystem {
	return &SimulationSystem{
		sim:      s,
		renderer: renderer,
		camera:   camera,
		step:     fixedStep{dt: s.Config.TickDuration()},
	}
}

// Priority implements ecs.Prioritizer
func (ss *SimulationSystem) Priority() int {
	return SimulationSystemPriority
}

// Remove satisfies the ecs.System interface
func (ss *SimulationSystem) Remove(basic ecs.BasicEntity) {}

// Update runs the ticks owed for this frame, then syncs the drawables
func (ss *SimulationSystem) Update(dt float32) {
	for n := ss.step.advance(dt); n > 0; n-- {
		ss.sim.Step(ss.step.dt)
	}

	state := ss.sim.GetState()
	ss.renderer.Sync(state)
	if ss.camera != nil && state.Character != nil {
		ss.camera.SetTarget(state.Character.Position)
	}
}

// SandboxScene is the interactive collision sandbox
type SandboxScene struct {
	sim    *sim.Simulation
	logger *logging.Logger
	ctx    context.Context

	renderer *ShapeRenderer
	camera   *CameraSystem
	input    *InputSystem
	stepper  *SimulationSystem
	hud      *HUDSystem
}

// NewSandboxScene creates a scene driving s
func NewSandboxScene(s *sim.Simulation, logger *logging.Logger) *SandboxScene {
	if logger == nil {
		logger = logging.Discard()
	}
	return &SandboxScene{
		sim:    s,
		logger: logger,
		ctx:    logging.WithRunID(context.Background(), ""),
	}
}

// Type returns the scene type (required by Engo)
func (scene *SandboxScene) Type() string {
	return "SandboxScene"
}

// Preload is called before the scene starts (required by Engo). Shapes are
// drawn from primitives, so there is nothing to load.
func (scene *SandboxScene) Preload() {}

// Setup is called when the scene starts (required by Engo)
func (scene *SandboxScene) Setup(u engo.Updater) {
	world := u.(*ecs.World)
	common.SetBackground(color.RGBA{24, 24, 32, 255})

	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)
	scene.renderer = NewShapeRenderer(renderSystem)

	SetupInputBindings()

	scene.camera = NewCameraSystem()
	scene.camera.SetViewport(engo.GameWidth(), engo.GameHeight())
	world.AddSystem(scene.camera)

	scene.input = NewInputSystem(scene.sim, func(err error) {
		scene.logger.Error(scene.ctx, "respawn failed", err)
	})
	world.AddSystem(scene.input)

	scene.stepper = NewSimulationSystem(scene.sim, scene.renderer, scene.camera)
	world.AddSystem(scene.stepper)

	scene.hud = NewHUDSystem(scene.sim, scene.sim.Config.Sandbox.Title)
	world.AddSystem(scene.hud)

	scene.logger.Info(scene.ctx, "sandbox scene ready",
		"bodies", len(scene.sim.Bodies()),
		"tick_rate", scene.sim.Config.Sandbox.TickRate,
	)
}

// Exit is called when the window closes
func (scene *SandboxScene) Exit() {
	stats := scene.sim.Stats()
	scene.logger.Info(scene.ctx, "sandbox closed",
		"ticks", stats.Ticks,
		"contacts", stats.Contacts,
		"overlaps", stats.Overlaps,
	)
}
