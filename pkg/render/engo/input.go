// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-collide/pkg/physics"
)

// Button names registered with engo.Input
const (
	ButtonLeft      = "left"
	ButtonRight     = "right"
	ButtonUp        = "up"
	ButtonDown      = "down"
	ButtonRespawn   = "respawn"
	ButtonZoomIn    = "zoomIn"
	ButtonZoomOut   = "zoomOut"
	ButtonResetZoom = "resetZoom"
)

// InputSystemPriority reads input before the simulation steps.
const InputSystemPriority = 30

// Controller is what the input system drives
type Controller interface {
	SetCharacterDirection(dir physics.Vec2)
	RespawnCharacter() error
}

// buttonState is a snapshot of the movement buttons
type buttonState struct {
	left, right, up, down bool
}

// direction maps held buttons to a world-space direction. Up is -Y.
// Opposite buttons cancel.
func (b buttonState) direction() physics.Vec2 {
	var dir physics.Vec2
	if b.left {
		dir[0]--
	}
	if b.right {
		dir[0]++
	}
	if b.up {
		dir[1]--
	}
	if b.down {
		dir[1]++
	}
	return dir
}

// InputSystem turns key presses into character movement
type InputSystem struct {
	controller Controller
	onError    func(error)

	current physics.Vec2
}

// NewInputSystem creates a new input system. onError receives respawn
// failures and may be nil.
func NewInputSystem(controller Controller, onError func(error)) *InputSystem {
	return &InputSystem{controller: controller, onError: onError}
}

// Priority implements ecs.Prioritizer
func (is *InputSystem) Priority() int {
	return InputSystemPriority
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update reads the movement buttons
func (is *InputSystem) Update(dt float32) {
	is.apply(buttonState{
		left:  engo.Input.Button(ButtonLeft).Down(),
		right: engo.Input.Button(ButtonRight).Down(),
		up:    engo.Input.Button(ButtonUp).Down(),
		down:  engo.Input.Button(ButtonDown).Down(),
	}, engo.Input.Button(ButtonRespawn).JustPressed())
}

// apply forwards the direction only when it changes
func (is *InputSystem) apply(buttons buttonState, respawn bool) {
	if respawn {
		if err := is.controller.RespawnCharacter(); err != nil && is.onError != nil {
			is.onError(err)
		}
		is.current = physics.Vec2{}
	}

	dir := buttons.direction()
	if dir == is.current && !respawn {
		return
	}
	is.current = dir
	is.controller.SetCharacterDirection(dir)
}

// Direction returns the direction last sent to the controller
func (is *InputSystem) Direction() physics.Vec2 {
	return is.current
}

// SetupInputBindings sets up the key bindings for the sandbox
func SetupInputBindings() {
	engo.Input.RegisterButton(ButtonLeft, engo.KeyA, engo.KeyArrowLeft)
	engo.Input.RegisterButton(ButtonRight, engo.KeyD, engo.KeyArrowRight)
	engo.Input.RegisterButton(ButtonUp, engo.KeyW, engo.KeyArrowUp)
	engo.Input.RegisterButton(ButtonDown, engo.KeyS, engo.KeyArrowDown)
	engo.Input.RegisterButton(ButtonRespawn, engo.KeySpace)

	engo.Input.RegisterButton(ButtonZoomIn, engo.KeyE)
	engo.Input.RegisterButton(ButtonZoomOut, engo.KeyQ)
	engo.Input.RegisterButton(ButtonResetZoom, engo.KeyR)
}
