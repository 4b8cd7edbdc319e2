package domain

import "fmt"

// AssetKind classifies a network node (spec.md §3 "Asset").
type AssetKind int

const (
	AssetKindUnspecified AssetKind = iota
	AssetKindSource
	AssetKindSink
	AssetKindJunction
)

// String returns the asset kind's name.
func (k AssetKind) String() string {
	switch k {
	case AssetKindSource:
		return "source"
	case AssetKindSink:
		return "sink"
	case AssetKindJunction:
		return "junction"
	default:
		return "unspecified"
	}
}

// JunctionID names a synthesized transshipment node. Carrier is empty for a
// "free" junction (TS{Seq}) or the owning pipeline's name for a
// pipeline-attached junction (P_TS{Seq}) — spec.md §4.6, redesigned per §9
// to use a tagged struct instead of ad hoc string concatenation.
type JunctionID struct {
	Carrier string
	Seq     int
}

// String renders the junction id in the exported node-id format.
func (j JunctionID) String() string {
	if j.Carrier == "" {
		return fmt.Sprintf("TS%d", j.Seq)
	}
	return fmt.Sprintf("%s_TS%d", j.Carrier, j.Seq)
}

// Asset is a network node: a source, sink, or junction (spec.md §3).
type Asset struct {
	ID       string
	Kind     AssetKind
	Lat      float64
	Lon      float64
	Cell     Cell
	Capacity float64 // annual capture (source, MtCO2/yr) or storage (sink, MtCO2); 0 for junctions

	// Cost terms, populated for sources/sinks from the source/sink table
	// (spec.md §6); zero for junctions.
	FixedCost     float64 // $M
	VariableCost  float64 // $/tCO2
	TotalUnitCost float64 // $/tCO2, informational

	// JunctionOf records provenance for a Junction asset; zero value for
	// sources/sinks.
	JunctionOf JunctionID
}

// IsSource reports whether the asset is a capture source.
func (a Asset) IsSource() bool { return a.Kind == AssetKindSource }

// IsSink reports whether the asset is a storage sink.
func (a Asset) IsSink() bool { return a.Kind == AssetKindSink }

// IsJunction reports whether the asset is a synthesized transshipment node.
func (a Asset) IsJunction() bool { return a.Kind == AssetKindJunction }

// NodeBalance is the signed balance vector b: source → +capacity,
// sink → −capacity, junction → 0 (spec.md §3 "Node balance vector").
type NodeBalance map[string]float64

// BalanceFor computes the signed balance contribution of a single asset.
func BalanceFor(a Asset) float64 {
	switch a.Kind {
	case AssetKindSource:
		return a.Capacity
	case AssetKindSink:
		return -a.Capacity
	default:
		return 0
	}
}
