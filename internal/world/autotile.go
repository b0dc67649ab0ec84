package world

// NeighbourMask is the 4-neighbour same-type adjacency record used by the
// auto-tile selector. Grid north is +y and east is +x.
type NeighbourMask uint8

const (
	NeighbourNorth NeighbourMask = 1 << iota
	NeighbourEast
	NeighbourSouth
	NeighbourWest
)

// Count returns how many of the four neighbours are set.
func (m NeighbourMask) Count() int {
	n := 0
	for b := NeighbourNorth; b <= NeighbourWest; b <<= 1 {
		if m&b != 0 {
			n++
		}
	}
	return n
}

// Road variant keys. The sprite set is keyed to these exact names, so the
// naming conventions below are load-bearing: T-junctions are named by the
// side opposite the missing arm, dead-ends by the side opposite the single
// present arm.
const (
	VariantCrossroad  = "crossroad"
	VariantTJunctionN = "tjunction_n"
	VariantTJunctionE = "tjunction_e"
	VariantTJunctionS = "tjunction_s"
	VariantTJunctionW = "tjunction_w"
	VariantStraightNS = "straight_ns"
	VariantStraightEW = "straight_ew"
	VariantCornerNE   = "corner_ne"
	VariantCornerNW   = "corner_nw"
	VariantCornerSE   = "corner_se"
	VariantCornerSW   = "corner_sw"
	VariantDeadEndN   = "deadend_n"
	VariantDeadEndE   = "deadend_e"
	VariantDeadEndS   = "deadend_s"
	VariantDeadEndW   = "deadend_w"
)

// RoadVariants lists every key the selector can return for roads.
var RoadVariants = []string{
	VariantCrossroad,
	VariantTJunctionN, VariantTJunctionE, VariantTJunctionS, VariantTJunctionW,
	VariantStraightNS, VariantStraightEW,
	VariantCornerNE, VariantCornerNW, VariantCornerSE, VariantCornerSW,
	VariantDeadEndN, VariantDeadEndE, VariantDeadEndS, VariantDeadEndW,
}

// SelectVariant picks the sprite variant for a tile from its terrain type and
// same-type neighbour mask. It returns "" for terrain that is not
// auto-tileable. An isolated road deliberately falls back to the crossroad
// sprite rather than a dedicated "isolated" asset.
func SelectVariant(t Terrain, m NeighbourMask) string {
	if !t.AutoTileable() {
		return ""
	}
	n := m&NeighbourNorth != 0
	e := m&NeighbourEast != 0
	s := m&NeighbourSouth != 0
	w := m&NeighbourWest != 0

	switch m.Count() {
	case 4:
		return VariantCrossroad
	case 3:
		// Named opposite the missing arm.
		switch {
		case !n:
			return VariantTJunctionS
		case !e:
			return VariantTJunctionW
		case !s:
			return VariantTJunctionN
		default:
			return VariantTJunctionE
		}
	case 2:
		switch {
		case n && s:
			return VariantStraightNS
		case e && w:
			return VariantStraightEW
		case n && e:
			return VariantCornerNE
		case n && w:
			return VariantCornerNW
		case s && e:
			return VariantCornerSE
		default:
			return VariantCornerSW
		}
	case 1:
		// Named opposite the single present arm.
		switch {
		case n:
			return VariantDeadEndS
		case e:
			return VariantDeadEndW
		case s:
			return VariantDeadEndN
		default:
			return VariantDeadEndE
		}
	default:
		return VariantCrossroad
	}
}
