package render

import (
	"glscene/internal/gpu"
	"glscene/internal/shader"
)

// Names shared with assets/shaders/main.*.
const (
	transUniform      = "trans"
	lightCountUniform = "lightSourcesNumber"

	shadeModelSlot   = "shadeModel"
	toLocalCoordSlot = "toObjectLocalCoord"
	normalVecSlot    = "getNormalVec"

	phongSubroutine         = "PhongLight"
	lightSourceSubroutine   = "LighSourceLight"
	toLocalSubroutine       = "TransformToObjectLocal"
	normalFromTexSubroutine = "GetNormalFromTexture"
	noLocalSubroutine       = "NotTransformToObjectLocal"
	originalNormSubroutine  = "GetOriginalNormal"
)

// subroutineSet holds the fragment subroutine indices the selector chooses
// from.
type subroutineSet struct {
	phong       uint32
	lightSource uint32
	// normalMapped and plain hold {to-local transform, normal source}.
	normalMapped [2]uint32
	plain        [2]uint32
}

// handles is everything the draw loop addresses by location, resolved once
// per main program.
type handles struct {
	trans      int32
	lightCount int32

	subroutines subroutineSet

	// subroutine uniform slot positions, not assumed to follow declaration
	// order
	shadeSlot   int32
	toLocalSlot int32
	normalSlot  int32
	slotCount   int32
}

// slotsValid reports whether the three slots resolved and are the only
// active subroutine uniforms. GL rejects the whole upload if any entry does
// not match its slot, so a fourth slot cannot be filled.
func (h *handles) slotsValid() bool {
	if h.slotCount != numChoices {
		return false
	}
	for _, s := range [...]int32{h.shadeSlot, h.toLocalSlot, h.normalSlot} {
		if s < 0 || s >= h.slotCount {
			return false
		}
	}
	return true
}

// resolveHandles looks up every name the renderer needs. It always returns a
// usable handle set; unresolved entries keep their invalid markers and are
// reported in the error.
func resolveHandles(dev gpu.Device, p *shader.Program) (handles, error) {
	var missing []string
	uniform := func(name string) int32 {
		loc := p.UniformLocation(name)
		if loc == gpu.InvalidLocation {
			missing = append(missing, name)
		}
		return loc
	}
	subroutine := func(name string) uint32 {
		idx := dev.SubroutineIndex(p.ID(), gpu.FragmentStage, name)
		if idx == gpu.InvalidIndex {
			missing = append(missing, name)
		}
		return idx
	}
	slot := func(name string) int32 {
		loc := dev.SubroutineUniformLocation(p.ID(), gpu.FragmentStage, name)
		if loc == gpu.InvalidLocation {
			missing = append(missing, name)
		}
		return loc
	}

	h := handles{
		trans:      uniform(transUniform),
		lightCount: uniform(lightCountUniform),
		subroutines: subroutineSet{
			phong:        subroutine(phongSubroutine),
			lightSource:  subroutine(lightSourceSubroutine),
			normalMapped: [2]uint32{subroutine(toLocalSubroutine), subroutine(normalFromTexSubroutine)},
			plain:        [2]uint32{subroutine(noLocalSubroutine), subroutine(originalNormSubroutine)},
		},
		shadeSlot:   slot(shadeModelSlot),
		toLocalSlot: slot(toLocalCoordSlot),
		normalSlot:  slot(normalVecSlot),
		slotCount:   dev.ActiveSubroutineUniforms(p.ID(), gpu.FragmentStage),
	}
	if len(missing) > 0 {
		return h, &HandleError{Program: p.Tag(), Names: missing}
	}
	return h, nil
}
