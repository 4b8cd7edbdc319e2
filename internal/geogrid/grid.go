// Package geogrid implements the deterministic (lat,lon)↔(x,y)↔cell index
// mapping and bounding-box subsetting over a regular raster grid
// (spec.md §4.1).
package geogrid

import (
	"math"
	"sort"

	"planner/internal/domain"
	"planner/pkg/apperror"
)

// Header describes the raster's geometry, as read from a cost file's
// leading rows (spec.md §6 "Cost file").
type Header struct {
	NCols     int
	NRows     int
	XLLCorner float64
	YLLCorner float64
	CellSize  float64
	NoData    string
}

// Grid is an immutable-after-load geo-raster index. Width/Height always
// equal the header's NCols/NRows; SubsetByBoundingBox leaves them unchanged
// and records the subset as per-row [left, right] cell bounds instead.
type Grid struct {
	Width, Height int
	LowerLeftX    float64
	LowerLeftY    float64
	CellSize      float64

	translation *translation // non-nil for legacy 1/120deg rasters

	leftBounds  []domain.Cell // per subsetted row, sorted ascending
	rightBounds []domain.Cell
}

// NewGrid constructs a Grid from a parsed header, applying the grid
// translation supplement (SPEC_FULL.md §3) when the cellsize matches the
// legacy 30 arc-second raster signature.
func NewGrid(h Header) *Grid {
	g := &Grid{
		Width:      h.NCols,
		Height:     h.NRows,
		LowerLeftX: h.XLLCorner,
		LowerLeftY: h.YLLCorner,
		CellSize:   h.CellSize,
	}

	if isLegacyCellSize(h.CellSize) {
		g.CellSize = 1
		g.translation = newTranslation(h.NCols, h.NRows)
	}

	return g
}

// isLegacyCellSize reports whether cellSize matches the 1/120 degree (30
// arc-second) NLCD-derived rasters the original implementation flips
// top-to-bottom/left-to-right before numbering cells.
func isLegacyCellSize(cellSize float64) bool {
	const legacy = 1.0 / 120.0
	return math.Abs(cellSize-legacy) < 1e-5
}

// translateCell remaps a raw file cell id through the grid translation, a
// no-op when the grid uses native numbering.
func (g *Grid) translateCell(cell domain.Cell) domain.Cell {
	if g.translation == nil {
		return cell
	}
	return g.translation.translate(cell)
}

// TranslateCell exposes translateCell for ingest: raw cell ids read from a
// legacy cost file must be translated before being stored as edges or
// checked against InBoundingBox.
func (g *Grid) TranslateCell(cell domain.Cell) domain.Cell {
	return g.translateCell(cell)
}

// XYToCell converts 1-based (x, y) coordinates to a 1-based row-major cell
// index (spec.md §4.1).
func (g *Grid) XYToCell(x, y int) domain.Cell {
	return domain.Cell((y-1)*g.Width + x)
}

// CellToXY converts a 1-based cell index back to (x, y).
func (g *Grid) CellToXY(cell domain.Cell) (x, y int) {
	c := int64(cell) - 1
	y = int(c/int64(g.Width)) + 1
	x = int(c%int64(g.Width)) + 1
	return x, y
}

// LatLonToCell maps a latitude/longitude to its containing cell, failing
// with apperror.CodeOutOfExtent when the point falls outside the grid.
func (g *Grid) LatLonToCell(lat, lon float64) (domain.Cell, error) {
	x, y, err := g.LatLonToXY(lat, lon)
	if err != nil {
		return 0, err
	}
	return g.XYToCell(x, y), nil
}

// LatLonToXY maps a latitude/longitude to 1-based (x, y), failing with
// apperror.CodeOutOfExtent when out of range (spec.md §4.1).
func (g *Grid) LatLonToXY(lat, lon float64) (x, y int, err error) {
	y = g.Height - int(math.Floor((lat-g.LowerLeftY)/g.CellSize))
	x = int(math.Floor((lon-g.LowerLeftX)/g.CellSize)) + 1

	if x < 1 || x > g.Width || y < 1 || y > g.Height {
		return 0, 0, apperror.NewWithField(apperror.CodeOutOfExtent,
			"coordinate falls outside the loaded raster", "lat_lon").
			WithDetails("lat", lat).WithDetails("lon", lon)
	}
	return x, y, nil
}

// CellToLatLon returns the centroid of a cell, offset by half a cell
// (spec.md §4.1: "subtract 0.5 from x and y before scaling").
func (g *Grid) CellToLatLon(cell domain.Cell) (lat, lon float64) {
	x, y := g.CellToXY(cell)
	lon = g.LowerLeftX + (float64(x)-0.5)*g.CellSize
	lat = g.LowerLeftY + (float64(g.Height-y)+0.5)*g.CellSize
	return lat, lon
}

// SubsetByBoundingBox computes the four corner cells of (south, west,
// north, east) and derives per-row [left, right] bound columns, stored as
// sorted vectors for InBoundingBox's two binary searches (spec.md §4.1).
func (g *Grid) SubsetByBoundingBox(south, west, north, east float64) error {
	sw, err := g.LatLonToCell(south, west)
	if err != nil {
		return err
	}
	se, err := g.LatLonToCell(south, east)
	if err != nil {
		return err
	}
	nw, err := g.LatLonToCell(north, west)
	if err != nil {
		return err
	}
	ne, err := g.LatLonToCell(north, east)
	if err != nil {
		return err
	}

	// Under spec.md's y = nrows - floor(...) convention, row numbers increase
	// southward, so the northwest corner carries the smallest cell index and
	// anchors the subset (the original source's bisect-based _subsetGrid
	// assumes the opposite row ordering and anchors on the southwest corner).
	width := int64(g.Width)
	newWidth := maxInt64(int64(ne)-int64(nw), int64(se)-int64(sw)) + 1
	newHeight := maxInt64(int64(sw)-int64(nw), int64(se)-int64(ne)) + width

	start := nw
	nRows := int(roundDiv(newHeight, width))

	g.leftBounds = make([]domain.Cell, nRows)
	g.rightBounds = make([]domain.Cell, nRows)
	for i := 0; i < nRows; i++ {
		startX := domain.Cell(int64(start) + int64(i)*width)
		g.leftBounds[i] = startX
		g.rightBounds[i] = domain.Cell(int64(startX) + newWidth - 1)
	}

	return nil
}

// InBoundingBox reports whether both endpoints of a cell pair lie within
// the subsetted bounding box: u must lie within some row's [left, right],
// and v must lie within the same or an adjacent row (spec.md §4.1/§4.2).
func (g *Grid) InBoundingBox(u, v domain.Cell) bool {
	if len(g.leftBounds) == 0 {
		return true // no subset configured: unrestricted
	}

	leftIdx := sort.Search(len(g.leftBounds), func(i int) bool {
		return g.leftBounds[i] > u
	}) - 1
	rightIdx := sort.Search(len(g.rightBounds), func(i int) bool {
		return g.rightBounds[i] >= v
	})

	validLeft := leftIdx >= 0 && g.leftBounds[leftIdx] <= u && u <= g.rightBounds[leftIdx]
	n := len(g.leftBounds)
	validRight := rightIdx < n && g.leftBounds[rightIdx] <= v && v <= g.rightBounds[rightIdx]
	adjacentRows := rightIdx >= leftIdx-1 && rightIdx <= leftIdx+1

	return validLeft && validRight && adjacentRows
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func roundDiv(a, b int64) int64 {
	return (a + b/2) / b
}
