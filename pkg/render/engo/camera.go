// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-collide/pkg/physics"
)

// CameraSystemPriority runs the camera after the simulation has moved
// the character.
const CameraSystemPriority = 10

// CameraSystem keeps the view on the character
type CameraSystem struct {
	// Target to follow
	target    physics.Vec2
	targetSet bool

	// Camera properties
	zoom    float32
	minZoom float32
	maxZoom float32

	// Smooth following
	followSpeed float32
	smoothing   bool

	currentPos physics.Vec2
	viewport   physics.Vec2
	// applied avoids dispatching unchanged camera messages
	applied    [3]float32
	hasApplied bool
}

// NewCameraSystem creates a new camera system
func NewCameraSystem() *CameraSystem {
	return &CameraSystem{
		zoom:        1.0,
		minZoom:     0.25,
		maxZoom:     4.0,
		followSpeed: 4.0,
		smoothing:   true,
	}
}

// Priority implements ecs.Prioritizer
func (cs *CameraSystem) Priority() int {
	return CameraSystemPriority
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {}

// Update updates the camera position and zoom
func (cs *CameraSystem) Update(dt float32) {
	cs.handleZoomInput()

	if cs.targetSet {
		cs.updateCameraPosition(dt)
	}

	cs.applyCameraTransform()
}

// handleZoomInput processes zoom-related input
func (cs *CameraSystem) handleZoomInput() {
	if scrollY := engo.Input.Mouse.ScrollY; scrollY != 0 {
		cs.SetZoom(cs.zoom * (1 + scrollY*0.1))
	}
	if engo.Input.Button(ButtonZoomIn).Down() {
		cs.SetZoom(cs.zoom * 1.02)
	}
	if engo.Input.Button(ButtonZoomOut).Down() {
		cs.SetZoom(cs.zoom * 0.98)
	}
	if engo.Input.Button(ButtonResetZoom).JustPressed() {
		cs.SetZoom(1.0)
	}
}

// updateCameraPosition moves the camera toward the target. The step is
// clamped so a long frame never overshoots.
func (cs *CameraSystem) updateCameraPosition(dt float32) {
	if !cs.smoothing {
		cs.currentPos = cs.target
		return
	}
	k := min(cs.followSpeed*dt, 1)
	cs.currentPos = cs.currentPos.Add(cs.target.Sub(cs.currentPos).Mul(k))
}

// applyCameraTransform centers engo's camera on the current position.
// Engo's Z axis is a distance, the inverse of zoom.
func (cs *CameraSystem) applyCameraTransform() {
	want := [3]float32{cs.currentPos[0], cs.currentPos[1], 1 / cs.zoom}
	axes := [3]common.CameraAxis{common.XAxis, common.YAxis, common.ZAxis}
	for i, v := range want {
		if cs.hasApplied && v == cs.applied[i] {
			continue
		}
		engo.Mailbox.Dispatch(common.CameraMessage{Axis: axes[i], Value: v})
		cs.applied[i] = v
	}
	cs.hasApplied = true
}

// SetTarget sets the target position for the camera to follow. The first
// target snaps the camera into place.
func (cs *CameraSystem) SetTarget(target physics.Vec2) {
	first := !cs.targetSet
	cs.target = target
	cs.targetSet = true
	if first || !cs.smoothing {
		cs.currentPos = target
	}
}

// ClearTarget clears the camera target
func (cs *CameraSystem) ClearTarget() {
	cs.targetSet = false
}

// SetZoom sets the camera zoom level
func (cs *CameraSystem) SetZoom(zoom float32) {
	cs.zoom = cs.clampZoom(zoom)
}

// GetZoom returns the current zoom level
func (cs *CameraSystem) GetZoom() float32 {
	return cs.zoom
}

func (cs *CameraSystem) clampZoom(zoom float32) float32 {
	return min(max(zoom, cs.minZoom), cs.maxZoom)
}

// SetFollowSpeed sets the camera follow speed
func (cs *CameraSystem) SetFollowSpeed(speed float32) {
	cs.followSpeed = speed
}

// EnableSmoothing enables or disables camera smoothing
func (cs *CameraSystem) EnableSmoothing(enabled bool) {
	cs.smoothing = enabled
}

// GetCurrentPosition returns the current camera position
func (cs *CameraSystem) GetCurrentPosition() physics.Vec2 {
	return cs.currentPos
}

// SetViewport sets the screen size used by the coordinate conversions
func (cs *CameraSystem) SetViewport(width, height float32) {
	cs.viewport = physics.Vec2{width, height}
}

// WorldToScreen converts world coordinates to screen coordinates
func (cs *CameraSystem) WorldToScreen(worldPos physics.Vec2) physics.Vec2 {
	return worldPos.Sub(cs.currentPos).Mul(cs.zoom).Add(cs.viewport.Mul(0.5))
}

// ScreenToWorld converts screen coordinates to world coordinates
func (cs *CameraSystem) ScreenToWorld(screenPos physics.Vec2) physics.Vec2 {
	return screenPos.Sub(cs.viewport.Mul(0.5)).Mul(1 / cs.zoom).Add(cs.currentPos)
}

// SetZoomLimits sets the minimum and maximum zoom levels
func (cs *CameraSystem) SetZoomLimits(min, max float32) {
	cs.minZoom = min
	cs.maxZoom = max
	cs.zoom = cs.clampZoom(cs.zoom)
}

// GetZoomLimits returns the current zoom limits
func (cs *CameraSystem) GetZoomLimits() (float32, float32) {
	return cs.minZoom, cs.maxZoom
}
