package render

import (
	"log"

	"glscene/internal/gpu"
	"glscene/internal/scene"
)

// Positions in the triple returned by selectSubroutines.
const (
	shadeChoice = iota
	toLocalChoice
	normalChoice
	numChoices
)

// selectSubroutines picks the shading model from the object kind and the
// coordinate/normal pair from the material's normal-map capability.
func selectSubroutines(kind scene.Kind, hasNormalMap bool, set *subroutineSet) [numChoices]uint32 {
	var out [numChoices]uint32
	switch kind {
	case scene.KindCommon:
		out[shadeChoice] = set.phong
	case scene.KindLight:
		out[shadeChoice] = set.lightSource
	default:
		violate("unknown model kind %v", kind)
	}
	pair := set.plain
	if hasNormalMap {
		pair = set.normalMapped
	}
	out[toLocalChoice] = pair[0]
	out[normalChoice] = pair[1]
	return out
}

// activateSubroutines applies the selection for m in one call. With
// unresolved slots it leaves the bound subroutines untouched and logs once
// until the next Init.
func (r *Renderer) activateSubroutines(m *scene.Model) {
	h := &r.handles
	if !h.slotsValid() {
		if !r.slotWarned {
			log.Printf("renderer: subroutine uniform slots unresolved (shade=%d local=%d normal=%d of %d), skipping activation",
				h.shadeSlot, h.toLocalSlot, h.normalSlot, h.slotCount)
			r.slotWarned = true
		}
		return
	}

	sel := selectSubroutines(m.Kind, m.Material.HasNormalMap(), &h.subroutines)
	buf := r.subroutineBuf[:]
	buf[h.shadeSlot] = sel[shadeChoice]
	buf[h.toLocalSlot] = sel[toLocalChoice]
	buf[h.normalSlot] = sel[normalChoice]
	r.dev.UniformSubroutines(gpu.FragmentStage, buf)
}
