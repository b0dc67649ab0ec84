package world

// Terrain identifies the base surface of a tile.
type Terrain uint8

const (
	TerrainFreeLand  Terrain = iota // buildable open land, rendered as bare ground
	TerrainWater                    // rivers / coastline, not buildable
	TerrainRoad                     // paved road, auto-tiled by neighbour shape
	TerrainDirtTrack                // unpaved track
	TerrainTrees                    // woodland
	TerrainRocks                    // rocky outcrop
	terrainCount                    // sentinel
)

// String returns the wire/sprite name for a terrain type.
func (t Terrain) String() string {
	switch t {
	case TerrainFreeLand:
		return "free_land"
	case TerrainWater:
		return "water"
	case TerrainRoad:
		return "road"
	case TerrainDirtTrack:
		return "dirt_track"
	case TerrainTrees:
		return "trees"
	case TerrainRocks:
		return "rocks"
	default:
		return "unknown"
	}
}

// TerrainFromName maps a wire name back to a Terrain. Unknown names map to
// free land so a newer server vocabulary never crashes an older client.
func TerrainFromName(name string) Terrain {
	for t := TerrainFreeLand; t < terrainCount; t++ {
		if t.String() == name {
			return t
		}
	}
	return TerrainFreeLand
}

// AutoTileable returns true if the terrain selects a sprite variant from its
// same-type neighbour pattern. Currently only roads do.
func (t Terrain) AutoTileable() bool {
	return t == TerrainRoad
}

// FallbackColour returns the flat RGB drawn when the terrain sprite is
// missing or still loading.
func (t Terrain) FallbackColour() (r, g, b uint8) {
	switch t {
	case TerrainFreeLand:
		return 96, 118, 70
	case TerrainWater:
		return 44, 74, 122
	case TerrainRoad:
		return 84, 82, 78
	case TerrainDirtTrack:
		return 124, 102, 70
	case TerrainTrees:
		return 46, 84, 46
	case TerrainRocks:
		return 110, 108, 104
	default:
		return 96, 118, 70
	}
}

// SpecialBuilding marks a state-owned landmark occupying a tile.
type SpecialBuilding uint8

const (
	SpecialNone SpecialBuilding = iota
	SpecialTemple
	SpecialBank
	SpecialPoliceStation
	specialCount // sentinel
)

// String returns the wire/sprite name for a special building.
func (s SpecialBuilding) String() string {
	switch s {
	case SpecialTemple:
		return "temple"
	case SpecialBank:
		return "bank"
	case SpecialPoliceStation:
		return "police_station"
	default:
		return ""
	}
}

// SpecialFromName maps a wire name to a SpecialBuilding marker.
func SpecialFromName(name string) SpecialBuilding {
	for s := SpecialTemple; s < specialCount; s++ {
		if s.String() == name {
			return s
		}
	}
	return SpecialNone
}

// FallbackColour returns the flat RGB drawn when the landmark sprite is missing.
func (s SpecialBuilding) FallbackColour() (r, g, b uint8) {
	switch s {
	case SpecialTemple:
		return 214, 196, 120
	case SpecialBank:
		return 188, 188, 200
	case SpecialPoliceStation:
		return 70, 92, 150
	default:
		return 128, 128, 128
	}
}
