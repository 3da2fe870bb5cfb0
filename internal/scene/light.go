package scene

import (
	"fmt"

	"glscene/internal/shader"

	"github.com/go-gl/mathgl/mgl32"
)

// LightParams is the photometric payload of a light model.
type LightParams struct {
	Color     mgl32.Vec3
	Intensity float32
	// Attenuation holds the constant, linear and quadratic falloff terms.
	Attenuation mgl32.Vec3
}

// PointLight returns white-balanced parameters with a falloff suited to
// scenes a few units across.
func PointLight(color mgl32.Vec3, intensity float32) LightParams {
	return LightParams{
		Color:       color,
		Intensity:   intensity,
		Attenuation: mgl32.Vec3{1, 0.09, 0.032},
	}
}

// Radiance is the color the light emits when drawn as an object.
func (l *LightParams) Radiance() mgl32.Vec3 {
	return l.Color.Mul(l.Intensity)
}

// PushToShadingStage writes the light into lights[index] of p, which must be
// bound.
func (l *LightParams) PushToShadingStage(p *shader.Program, index int, position mgl32.Vec3) {
	prefix := fmt.Sprintf("lights[%d].", index)
	p.SetVec3(prefix+"position", position)
	p.SetVec3(prefix+"color", l.Color)
	p.SetFloat(prefix+"intensity", l.Intensity)
	p.SetVec3(prefix+"attenuation", l.Attenuation)
}

// PushLight writes this light model into lights[index] of p. It panics if m
// is not a light.
func (m *Model) PushLight(p *shader.Program, index int) {
	if m.Kind != KindLight || m.Light == nil {
		panic(fmt.Sprintf("scene: PushLight on %s model %q", m.Kind, m.Name))
	}
	m.Light.PushToShadingStage(p, index, m.Position)
}
