// Package pose tracks the composed transforms of the electrode groups.
// It replaces name-matched global transform state with a closed set of
// group and model identifiers and a driver-owned Store.
package pose

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/NanayasWorkshop/FT-Sim/internal/geom"
)

// Group identifies one transform group. TAG/TBG/TCG are the moving
// electrode groups driven by displacement data; Negative holds the
// stationary counter-electrodes; Positive is the parent group of the
// three moving groups.
type Group int

const (
	GroupTAG Group = iota
	GroupTBG
	GroupTCG
	GroupNegative
	GroupPositive
)

// MovingGroups lists the displacement-driven groups in processing order.
var MovingGroups = []Group{GroupTAG, GroupTBG, GroupTCG}

func (g Group) String() string {
	switch g {
	case GroupTAG:
		return "TAG"
	case GroupTBG:
		return "TBG"
	case GroupTCG:
		return "TCG"
	case GroupNegative:
		return "Negative"
	case GroupPositive:
		return "Positive"
	default:
		return "Unknown"
	}
}

// ModelID identifies one electrode body.
type ModelID int

const (
	ModelA1 ModelID = iota
	ModelA2
	ModelB1
	ModelB2
	ModelC1
	ModelC2
	ModelNegA
	ModelNegB
	ModelNegC
	SphereTAGA
	SphereTAGB
	SphereTAGC
	SphereTBGA
	SphereTBGB
	SphereTBGC
	SphereTCGA
	SphereTCGB
	SphereTCGC
)

// PositiveModels lists the moving electrodes in the fixed evaluation and
// output-column order.
var PositiveModels = []ModelID{ModelA1, ModelA2, ModelB1, ModelB2, ModelC1, ModelC2}

// TrackedSpheres lists the tracked reference sphere bodies, three per
// moving group in A/B/C order.
var TrackedSpheres = []ModelID{
	SphereTAGA, SphereTAGB, SphereTAGC,
	SphereTBGA, SphereTBGB, SphereTBGC,
	SphereTCGA, SphereTCGB, SphereTCGC,
}

// String returns the model's mesh/asset name.
func (m ModelID) String() string {
	switch m {
	case ModelA1:
		return "A1_model"
	case ModelA2:
		return "A2_model"
	case ModelB1:
		return "B1_model"
	case ModelB2:
		return "B2_model"
	case ModelC1:
		return "C1_model"
	case ModelC2:
		return "C2_model"
	case ModelNegA:
		return "stationary_negative_A"
	case ModelNegB:
		return "stationary_negative_B"
	case ModelNegC:
		return "stationary_negative_C"
	case SphereTAGA, SphereTBGA, SphereTCGA:
		return "A_sphere"
	case SphereTAGB, SphereTBGB, SphereTCGB:
		return "B_sphere"
	case SphereTAGC, SphereTBGC, SphereTCGC:
		return "C_sphere"
	default:
		return "unknown_model"
	}
}

// Short returns the column label used in the results file.
func (m ModelID) Short() string {
	switch m {
	case ModelA1:
		return "A1"
	case ModelA2:
		return "A2"
	case ModelB1:
		return "B1"
	case ModelB2:
		return "B2"
	case ModelC1:
		return "C1"
	case ModelC2:
		return "C2"
	case ModelNegA:
		return "NegA"
	case ModelNegB:
		return "NegB"
	case ModelNegC:
		return "NegC"
	case SphereTAGA:
		return "TAG_A"
	case SphereTAGB:
		return "TAG_B"
	case SphereTAGC:
		return "TAG_C"
	case SphereTBGA:
		return "TBG_A"
	case SphereTBGB:
		return "TBG_B"
	case SphereTBGC:
		return "TBG_C"
	case SphereTCGA:
		return "TCG_A"
	case SphereTCGB:
		return "TCG_B"
	case SphereTCGC:
		return "TCG_C"
	default:
		return "??"
	}
}

// ModelGroup maps each body to its transform group.
func ModelGroup(m ModelID) Group {
	switch m {
	case ModelA1, ModelA2, SphereTAGA, SphereTAGB, SphereTAGC:
		return GroupTAG
	case ModelB1, ModelB2, SphereTBGA, SphereTBGB, SphereTBGC:
		return GroupTBG
	case ModelC1, ModelC2, SphereTCGA, SphereTCGB, SphereTCGC:
		return GroupTCG
	default:
		return GroupNegative
	}
}

// PairedNegative maps each moving electrode to its stationary
// counter-electrode.
var PairedNegative = map[ModelID]ModelID{
	ModelA1: ModelNegA,
	ModelA2: ModelNegA,
	ModelB1: ModelNegB,
	ModelB2: ModelNegB,
	ModelC1: ModelNegC,
	ModelC2: ModelNegC,
}

// GroupRadiusMM is the distance from the assembly centre to each group
// centre, and SphereOffsetMM the diagonal tracked-sphere offset.
const (
	GroupRadiusMM = 24.85
	SphereArmMM   = 4.0
	tbgAngleDeg   = -30.0
	tcgAngleDeg   = -150.0
)

func groupAngleCenter(angleDeg float64) r3.Vec {
	a := angleDeg * math.Pi / 180.0
	return r3.Vec{X: GroupRadiusMM * math.Cos(a), Y: GroupRadiusMM * math.Sin(a)}
}

// GroupCenter returns the rotation centre of a moving group.
func GroupCenter(g Group) r3.Vec {
	switch g {
	case GroupTAG:
		return r3.Vec{Y: GroupRadiusMM}
	case GroupTBG:
		return groupAngleCenter(tbgAngleDeg)
	case GroupTCG:
		return groupAngleCenter(tcgAngleDeg)
	default:
		return r3.Vec{}
	}
}

// ModelWorldPosition returns the designed world position of a body.
// Each moving pair sits at its group centre, each stationary
// counter-electrode at the same position as its pair, and each tracked
// sphere at its resting reference position.
func ModelWorldPosition(m ModelID) r3.Vec {
	switch m {
	case ModelA1, ModelA2, ModelNegA:
		return GroupCenter(GroupTAG)
	case ModelB1, ModelB2, ModelNegB:
		return GroupCenter(GroupTBG)
	case ModelC1, ModelC2, ModelNegC:
		return GroupCenter(GroupTCG)
	case SphereTAGA, SphereTAGB, SphereTAGC,
		SphereTBGA, SphereTBGB, SphereTBGC,
		SphereTCGA, SphereTCGB, SphereTCGC:
		t := RestingTriple(ModelGroup(m))
		switch geomRef(m) {
		case geom.RefB:
			return t.B
		case geom.RefC:
			return t.C
		default:
			return t.A
		}
	default:
		return r3.Vec{}
	}
}

// geomRef maps a tracked sphere to its point label within the triple.
func geomRef(m ModelID) geom.RefPoint {
	switch m {
	case SphereTAGB, SphereTBGB, SphereTCGB:
		return geom.RefB
	case SphereTAGC, SphereTBGC, SphereTCGC:
		return geom.RefC
	default:
		return geom.RefA
	}
}

// ReferencePoint returns the tracked point anchoring each group's frame
// V axis: TAG uses sphere A, TBG sphere B, TCG sphere C.
func ReferencePoint(g Group) geom.RefPoint {
	switch g {
	case GroupTBG:
		return geom.RefB
	case GroupTCG:
		return geom.RefC
	default:
		return geom.RefA
	}
}

// RestingTriple returns the design positions of a group's three tracked
// spheres: one sphere 4 mm inward of the group centre, two spheres
// 4/sqrt(2) mm outward on the diagonals. The pattern rotates with the
// group's placement angle so the labels stay consistent per group.
func RestingTriple(g Group) geom.Triple {
	c := GroupCenter(g)
	off := SphereArmMM / math.Sqrt2
	switch g {
	case GroupTAG:
		return geom.Triple{
			A: r3.Vec{X: c.X, Y: c.Y - SphereArmMM},
			B: r3.Vec{X: c.X + off, Y: c.Y + off},
			C: r3.Vec{X: c.X - off, Y: c.Y + off},
		}
	case GroupTBG:
		return geom.Triple{
			A: r3.Vec{X: c.X - off, Y: c.Y + off},
			B: r3.Vec{X: c.X, Y: c.Y - SphereArmMM},
			C: r3.Vec{X: c.X + off, Y: c.Y + off},
		}
	case GroupTCG:
		return geom.Triple{
			A: r3.Vec{X: c.X + off, Y: c.Y + off},
			B: r3.Vec{X: c.X - off, Y: c.Y + off},
			C: r3.Vec{X: c.X, Y: c.Y - SphereArmMM},
		}
	default:
		return geom.Triple{}
	}
}
