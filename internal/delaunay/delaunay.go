// Package delaunay computes the 2-D Delaunay triangulation over asset
// coordinates and extracts its unique undirected edge set (spec.md §4.3).
package delaunay

import (
	fogleman "github.com/fogleman/delaunay"

	"planner/internal/domain"
)

// Point is an asset's planar coordinate, keyed by the asset's index in the
// input slice so the returned edges can be mapped back to asset ids by the
// caller.
type Point struct {
	X, Y float64
}

// Edge is an unordered pair of asset indices connected by a triangulation
// side. From is always the smaller index so the pair can be deduplicated by
// equality regardless of discovery order.
type Edge struct {
	From, To int
}

// normalize orders an edge's endpoints so From < To.
func normalize(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{From: a, To: b}
}

// Triangulate returns the unique undirected edges of the Delaunay
// triangulation over points, deduplicated irrespective of vertex order. Two
// points produce the single edge between them; fewer than two produce no
// edges (spec.md §4.3).
func Triangulate(points []Point) ([]Edge, error) {
	switch len(points) {
	case 0, 1:
		return nil, nil
	case 2:
		return []Edge{normalize(0, 1)}, nil
	}

	fp := make([]fogleman.Point, len(points))
	for i, p := range points {
		fp[i] = fogleman.Point{X: p.X, Y: p.Y}
	}

	tri, err := fogleman.Triangulate(fp)
	if err != nil {
		return nil, err
	}

	seen := make(map[Edge]bool)
	var edges []Edge
	for i := 0; i < len(tri.Triangles); i += 3 {
		a, b, c := tri.Triangles[i], tri.Triangles[i+1], tri.Triangles[i+2]
		for _, e := range []Edge{normalize(a, b), normalize(b, c), normalize(a, c)} {
			if !seen[e] {
				seen[e] = true
				edges = append(edges, e)
			}
		}
	}

	return edges, nil
}

// AssetPoints extracts planar coordinates from a list of assets, preserving
// order: X is the asset's longitude and Y its latitude, used as-is (no
// projection onto the raster's x/y).
func AssetPoints(assets []domain.Asset) []Point {
	points := make([]Point, len(assets))
	for i, a := range assets {
		points[i] = Point{X: a.Lon, Y: a.Lat}
	}
	return points
}
