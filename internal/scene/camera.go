package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera orbiting a target point.
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32

	Target   mgl32.Vec3
	Yaw      float64 // degrees
	Pitch    float64 // degrees
	Distance float32

	lastX, lastY float64
	firstMouse   bool
}

func NewCamera(width, height int) *Camera {
	c := &Camera{
		FOV:        60.0,
		NearPlane:  0.1,
		FarPlane:   1000.0,
		Yaw:        -90,
		Pitch:      15,
		Distance:   6,
		firstMouse: true,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the aspect ratio. Zero sizes (minimized windows) are
// ignored.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

// Position is the eye position derived from the orbit parameters.
func (c *Camera) Position() mgl32.Vec3 {
	yaw := mgl32.DegToRad(float32(c.Yaw))
	pitch := mgl32.DegToRad(float32(c.Pitch))
	dir := mgl32.Vec3{
		float32(math.Cos(float64(yaw)) * math.Cos(float64(pitch))),
		float32(math.Sin(float64(pitch))),
		float32(math.Sin(float64(yaw)) * math.Cos(float64(pitch))),
	}
	return c.Target.Add(dir.Mul(c.Distance))
}

func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// ViewProjection returns projection × view.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// HandleMouseMovement orbits the camera from cursor deltas.
func (c *Camera) HandleMouseMovement(xpos, ypos float64) {
	if c.firstMouse {
		c.lastX = xpos
		c.lastY = ypos
		c.firstMouse = false
		return
	}

	xoffset := xpos - c.lastX
	yoffset := c.lastY - ypos
	c.lastX = xpos
	c.lastY = ypos

	sensitivity := 0.2
	c.Yaw += xoffset * sensitivity
	c.Pitch -= yoffset * sensitivity

	// Constrain pitch
	if c.Pitch > 89.0 {
		c.Pitch = 89.0
	}
	if c.Pitch < -89.0 {
		c.Pitch = -89.0
	}
}

// ResetMouse makes the next cursor event re-anchor instead of orbiting.
func (c *Camera) ResetMouse() {
	c.firstMouse = true
}

// Zoom moves the eye towards or away from the target.
func (c *Camera) Zoom(delta float32) {
	c.Distance -= delta
	if c.Distance < 1 {
		c.Distance = 1
	}
	if c.Distance > c.FarPlane/2 {
		c.Distance = c.FarPlane / 2
	}
}
