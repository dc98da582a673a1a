// Package ras holds the entity types read from and written to HEC-RAS
// plain-text geometry files (.g01, .g02, ...), plus the error taxonomy
// shared by every codec in this module.
//
// Entities are plain data: they own copies of their numeric content and keep
// no reference to the source lines they were decoded from. The lifecycle is
// always read on demand, mutate, write back; nothing is cached between calls.
package ras

import "fmt"

// MaxPoints is the hard ceiling on station/elevation points in a single
// cross-section. HEC-RAS refuses profiles longer than this, so writes that
// would exceed it are rejected rather than truncated.
const MaxPoints = 450

// Point is one station/elevation pair of a cross-section or weir profile.
// Station is horizontal position (looking downstream), Elevation vertical.
type Point struct {
	Station   float64
	Elevation float64
}

// ManningSegment sets a roughness value from Station to the next segment's
// start (or the end of the cross-section).
type ManningSegment struct {
	Station float64
	N       float64
}

// CrossSection is a river transect identified by river, reach and station.
// Points are ordered by non-decreasing station; BankLeft and BankRight must
// each match a point station exactly.
type CrossSection struct {
	River   string
	Reach   string
	Station string

	Points    []Point
	BankLeft  float64
	BankRight float64

	Mannings    []ManningSegment
	Expansion   float64
	Contraction float64

	// Downstream distances to the next section: left overbank, channel,
	// right overbank.
	LengthLeft    float64
	LengthChannel float64
	LengthRight   float64
}

// CulvertShape is the barrel shape code stored in a Culvert= record.
// The code is part of the file format; it is never derived from text.
type CulvertShape int

const (
	ShapeCircular CulvertShape = iota + 1
	ShapeBox
	ShapePipeArch
	ShapeEllipse
	ShapeArch
	ShapeSemiCircle
	ShapeLowArch
	ShapeHighArch
	ShapeConSpan
)

func (s CulvertShape) String() string {
	switch s {
	case ShapeCircular:
		return "circular"
	case ShapeBox:
		return "box"
	case ShapePipeArch:
		return "pipe arch"
	case ShapeEllipse:
		return "ellipse"
	case ShapeArch:
		return "arch"
	case ShapeSemiCircle:
		return "semi-circle"
	case ShapeLowArch:
		return "low arch"
	case ShapeHighArch:
		return "high arch"
	case ShapeConSpan:
		return "con span"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// Valid reports whether the shape code is one of the nine defined barrels.
func (s CulvertShape) Valid() bool {
	return s >= ShapeCircular && s <= ShapeConSpan
}

// Culvert is one barrel group of a culvert or bridge node.
type Culvert struct {
	Name     string
	Shape    CulvertShape
	Rise     float64
	Span     float64
	Length   float64
	N        float64 // barrel Manning's n
	EntLoss  float64
	ExitLoss float64
	Chart    int
	Scale    int
	UpInvert float64
	DnInvert float64
	Barrels  int
	// CenterStations locates each barrel centerline on the upstream section.
	CenterStations []float64
}

// DeckPoint is one chord of a bridge deck/roadway profile: the high chord is
// the road surface, the low chord the deck underside.
type DeckPoint struct {
	Station float64
	High    float64
	Low     float64
}

// PierLevel is one elevation/width pair of a pier's vertical profile.
type PierLevel struct {
	Elevation float64
	Width     float64
}

// Pier is a bridge pier with its centerline station on the upstream and
// downstream faces and its width profile.
type Pier struct {
	UpStation float64
	DnStation float64
	Profile   []PierLevel
}

// Bridge is a bridge/culvert node (river station) with its deck geometry.
// DeckDown is empty when the downstream face mirrors the upstream one.
type Bridge struct {
	River   string
	Reach   string
	Station string

	Distance float64 // from the upstream cross-section
	Width    float64 // deck width along the flow direction
	WeirCoef float64
	Skew     float64

	DeckUp   []DeckPoint
	DeckDown []DeckPoint
	Piers    []Pier
	Culverts []Culvert

	// Coef carries the BR Coef record verbatim (method flags and loss
	// coefficients); the codec round-trips it without interpretation.
	Coef []float64
}

// DeckRange returns the station extent [min,max] covered by the deck on
// either face, and ok=false when no deck points exist.
func (b *Bridge) DeckRange() (min, max float64, ok bool) {
	first := true
	scan := func(pts []DeckPoint) {
		for _, p := range pts {
			if first || p.Station < min {
				min = p.Station
			}
			if first || p.Station > max {
				max = p.Station
			}
			first = false
		}
	}
	scan(b.DeckUp)
	scan(b.DeckDown)
	return min, max, !first
}

// Gate is a gate group on an inline weir, lateral structure or connection.
type Gate struct {
	Name     string
	Width    float64
	Height   float64
	Invert   float64
	Coef     float64
	Openings int
	// CenterStations locates each opening along the weir crest.
	CenterStations []float64
}

// InlineWeir is an inline structure node: a weir crest profile across the
// channel plus optional gate groups.
type InlineWeir struct {
	River   string
	Reach   string
	Station string

	Distance float64
	Width    float64
	WeirCoef float64

	Crest []Point // station/elevation crest profile
	Gates []Gate  // may be empty; absence is a valid state
}

// VolumePoint is one elevation/volume pair of a storage area curve.
type VolumePoint struct {
	Elevation float64
	Volume    float64
}

// StorageArea is a named storage area with its elevation-volume curve.
type StorageArea struct {
	Name  string
	Curve []VolumePoint
}

// LateralStructure is a lateral weir node along a reach: a crest profile
// parallel to the channel, optional gates, optional culvert barrels.
type LateralStructure struct {
	River   string
	Reach   string
	Station string

	Distance float64
	Width    float64
	WeirCoef float64

	Crest    []Point
	Gates    []Gate
	Culverts []Culvert
}

// Connection is a 2D-area / storage-area connection: a weir profile between
// two named areas, with optional gates and culverts.
type Connection struct {
	Name   string
	UpArea string
	DnArea string

	Width    float64
	WeirCoef float64

	Crest    []Point
	Gates    []Gate
	Culverts []Culvert
}

// StructureKind tags the closed set of structure grammars in a geometry
// file. The set is fixed by the file format.
type StructureKind int

const (
	KindCrossSection StructureKind = iota + 1
	KindCulvertNode
	KindBridge
	KindInlineWeir
	KindLateral
	KindStorageArea
	KindConnection
)

func (k StructureKind) String() string {
	switch k {
	case KindCrossSection:
		return "cross section"
	case KindCulvertNode:
		return "culvert"
	case KindBridge:
		return "bridge"
	case KindInlineWeir:
		return "inline weir"
	case KindLateral:
		return "lateral structure"
	case KindStorageArea:
		return "storage area"
	case KindConnection:
		return "connection"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}
