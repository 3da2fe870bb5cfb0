// Package render orchestrates drawing: it owns the models and lights of a
// scene, keeps the main program's light array in sync with them and picks
// the fragment subroutines for every draw call.
package render

import (
	"fmt"
	"log"

	"glscene/internal/config"
	"glscene/internal/gpu"
	"glscene/internal/profiling"
	"glscene/internal/resources"
	"glscene/internal/scene"
	"glscene/internal/shader"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera supplies the combined view-projection matrix for a frame.
type Camera interface {
	ViewProjection() mgl32.Mat4
}

// positioner is implemented by cameras that expose their eye position for
// specular lighting.
type positioner interface {
	Position() mgl32.Vec3
}

// SkyBox is drawn after all models. It may bind its own program.
type SkyBox interface {
	Draw(dev gpu.Device)
}

// Renderer owns the registered programs, models and lights. It is not safe
// for concurrent use; every call must come from the GL thread.
type Renderer struct {
	dev      gpu.Device
	settings *config.Settings
	res      *resources.Resources

	shaders *shader.Registry
	camera  Camera
	sky     SkyBox

	models []*scene.Model
	lights []*scene.Model

	main        *shader.Program
	handles     handles
	initialized bool

	subroutineBuf [numChoices]uint32
	slotWarned    bool
}

// New returns a renderer issuing calls through dev. settings and res are
// shared, not owned.
func New(dev gpu.Device, settings *config.Settings, res *resources.Resources) *Renderer {
	return &Renderer{
		dev:      dev,
		settings: settings,
		res:      res,
		shaders:  shader.NewRegistry(),
	}
}

// AddShaderProgram registers p under its tag, releasing any program it
// replaces. Replacing the main program requires another Init.
func (r *Renderer) AddShaderProgram(p *shader.Program) {
	r.shaders.Register(p)
	if p.Tag() == shader.TagMain && p != r.main {
		r.main = nil
		r.initialized = false
	}
}

// ShaderProgram returns the program registered for tag.
func (r *Renderer) ShaderProgram(tag shader.Tag) (*shader.Program, error) {
	return r.shaders.Get(tag)
}

// SetCamera sets the camera used by Draw. The camera is not owned.
func (r *Renderer) SetCamera(c Camera) {
	r.camera = c
}

// SetSkyBox sets or, with nil, clears the sky drawn after the models.
func (r *Renderer) SetSkyBox(s SkyBox) {
	r.sky = s
}

// Init validates the main program, pushes resource and global settings into
// it, resolves the draw handles and enables depth testing.
//
// Unresolved handles are logged and rendering continues with degraded
// shading, unless settings.StrictHandles is set, in which case the
// *HandleError is returned.
func (r *Renderer) Init() error {
	p, err := r.shaders.Get(shader.TagMain)
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}
	if !p.IsLinked() {
		log.Printf("renderer: %s program is not linked, failed to init renderer", p.Tag())
		return fmt.Errorf("init renderer: %w", ErrNotLinked)
	}

	p.Use()
	if err := r.res.Init(r.dev, p); err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}
	r.settings.PushTo(p)

	h, err := resolveHandles(r.dev, p)
	if err != nil {
		if r.settings.StrictHandles {
			return fmt.Errorf("init renderer: %w", err)
		}
		log.Printf("renderer: %v", err)
	}
	r.handles = h
	r.slotWarned = false

	r.dev.EnableDepthTest(gpu.DepthLess)

	r.main = p
	r.initialized = true
	if len(r.lights) > 0 {
		r.syncLights()
	}
	return nil
}

// ClearScreen clears the color and depth buffers.
func (r *Renderer) ClearScreen() {
	r.dev.ClearColor(r.settings.Clear())
	r.dev.Clear(gpu.ColorBuffer | gpu.DepthBuffer)
}

// Draw renders every model in registration order. angle drives the y slope
// of each model.
func (r *Renderer) Draw(angle float32) {
	defer profiling.Track("render.Draw")()

	if !r.initialized {
		violate("Draw called before a successful Init")
	}
	if r.camera == nil {
		violate("Draw called without a camera")
	}

	r.main.Use()
	if pc, ok := r.camera.(positioner); ok {
		r.main.SetVec3("cameraPos", pc.Position())
	}
	viewProj := r.camera.ViewProjection()
	for _, m := range r.models {
		r.drawModel(m, viewProj, angle)
	}

	if r.sky != nil {
		func() { defer profiling.Track("render.SkyBox")(); r.sky.Draw(r.dev) }()
	}
}

func (r *Renderer) drawModel(m *scene.Model, viewProj mgl32.Mat4, angle float32) {
	defer profiling.Track("render.DrawModel")()

	r.activateSubroutines(m)

	m.SlopeAngle[1] = angle
	m.RecomputeTransform()
	if r.handles.trans != gpu.InvalidLocation {
		r.dev.UniformMat4(r.handles.trans, viewProj.Mul4(m.Transform()))
	}

	m.PushUniforms(r.main)
	m.Draw(r.dev, r.res)
}

// AddModel appends m and uploads its GPU resources before returning.
func (r *Renderer) AddModel(m *scene.Model) {
	if m == nil {
		violate("AddModel called with nil model")
	}
	if m.Uploaded() {
		violate("model %q is already registered", m.Name)
	}
	r.models = append(r.models, m)
	m.Upload(r.dev)
}

// AddLight appends a light model, registers it as a drawable and pushes the
// whole light array to the main program. Exceeding settings.MaxLights
// panics.
func (r *Renderer) AddLight(m *scene.Model) {
	if m == nil || m.Kind != scene.KindLight || m.Light == nil {
		violate("AddLight needs a light model")
	}
	if m.Uploaded() {
		violate("model %q is already registered", m.Name)
	}
	if n, limit := len(r.lights)+1, r.settings.MaxLights(); n > limit {
		violate("light count %d exceeds maximum %d", n, limit)
	}
	if _, err := r.shaders.Get(shader.TagMain); err != nil {
		violate("light added before the main program was registered: %v", err)
	}

	r.lights = append(r.lights, m)
	r.AddModel(m)
	r.syncLights()
}

// syncLights pushes every light by index, then the light count, to the main
// program.
func (r *Renderer) syncLights() {
	if len(r.lights) > r.settings.MaxLights() {
		violate("light count %d exceeds maximum %d", len(r.lights), r.settings.MaxLights())
	}
	p, err := r.shaders.Get(shader.TagMain)
	if err != nil {
		violate("no main program to receive lights: %v", err)
	}

	p.Use()
	for i, l := range r.lights {
		l.PushLight(p, i)
	}
	n := int32(len(r.lights))
	if r.initialized && p == r.main {
		if r.handles.lightCount != gpu.InvalidLocation {
			r.dev.Uniform1i(r.handles.lightCount, n)
		}
		return
	}
	// not initialized yet; Init pushes the count again through the handle
	p.SetInt(lightCountUniform, n)
}

// Models returns the registered models in draw order.
func (r *Renderer) Models() []*scene.Model {
	return append([]*scene.Model(nil), r.models...)
}

// Lights returns the registered light models in light-array order.
func (r *Renderer) Lights() []*scene.Model {
	return append([]*scene.Model(nil), r.lights...)
}

// Release frees model geometry and every registered program.
func (r *Renderer) Release() {
	for _, m := range r.models {
		m.Release(r.dev)
	}
	r.models = nil
	r.lights = nil
	r.shaders.Release()
	r.main = nil
	r.initialized = false
}
