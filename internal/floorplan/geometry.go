package floorplan

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Point is a 2D coordinate in floor-plan units.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside or on the edge of r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// ShapeKind tags which variant a Geometry holds.
type ShapeKind string

// Shape kinds.
const (
	ShapeRect    ShapeKind = "rect"
	ShapePolygon ShapeKind = "polygon"
)

// Geometry is a room outline: either a rectangle or a closed polygon.
// Construct with NewRect or NewPolygon.
type Geometry struct {
	kind    ShapeKind
	rect    Rect
	polygon []Point
}

// NewRect returns a rectangular geometry.
func NewRect(x, y, width, height float64) Geometry {
	return Geometry{kind: ShapeRect, rect: Rect{X: x, Y: y, Width: width, Height: height}}
}

// NewPolygon returns a polygon geometry. The slice is copied.
func NewPolygon(points ...Point) Geometry {
	return Geometry{kind: ShapePolygon, polygon: append([]Point(nil), points...)}
}

// Kind returns the variant tag. The zero Geometry has an empty kind.
func (g Geometry) Kind() ShapeKind {
	return g.kind
}

// Rect returns the rectangle and true when g is rectangular.
func (g Geometry) Rect() (Rect, bool) {
	return g.rect, g.kind == ShapeRect
}

// Polygon returns a copy of the vertices and true when g is a polygon.
func (g Geometry) Polygon() ([]Point, bool) {
	if g.kind != ShapePolygon {
		return nil, false
	}
	return append([]Point(nil), g.polygon...), true
}

// Bounds returns the axis-aligned bounding box for either variant.
func (g Geometry) Bounds() Rect {
	switch g.kind {
	case ShapeRect:
		return g.rect
	case ShapePolygon:
		if len(g.polygon) == 0 {
			return Rect{}
		}
		minX, minY := g.polygon[0].X, g.polygon[0].Y
		maxX, maxY := minX, minY
		for _, p := range g.polygon[1:] {
			minX = min(minX, p.X)
			minY = min(minY, p.Y)
			maxX = max(maxX, p.X)
			maxY = max(maxY, p.Y)
		}
		return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
	default:
		return Rect{}
	}
}

// Center returns the centre of the bounding box.
func (g Geometry) Center() Point {
	return g.Bounds().Center()
}

// geometryDoc is the serialised form: exactly one of the fields is set.
type geometryDoc struct {
	Kind    ShapeKind `yaml:"-" json:"kind"`
	Rect    *Rect     `yaml:"rect,omitempty" json:"rect,omitempty"`
	Polygon []Point   `yaml:"polygon,omitempty" json:"polygon,omitempty"`
}

func (g *Geometry) fromDoc(doc geometryDoc) error {
	switch {
	case doc.Rect != nil && len(doc.Polygon) > 0:
		return fmt.Errorf("%w: both rect and polygon given", ErrInvalidGeometry)
	case doc.Rect != nil:
		*g = NewRect(doc.Rect.X, doc.Rect.Y, doc.Rect.Width, doc.Rect.Height)
	case len(doc.Polygon) > 0:
		if len(doc.Polygon) < 3 {
			return fmt.Errorf("%w: polygon needs at least 3 points, got %d", ErrInvalidGeometry, len(doc.Polygon))
		}
		*g = NewPolygon(doc.Polygon...)
	default:
		return fmt.Errorf("%w: rect or polygon required", ErrInvalidGeometry)
	}
	return nil
}

func (g Geometry) toDoc() geometryDoc {
	doc := geometryDoc{Kind: g.kind}
	switch g.kind {
	case ShapeRect:
		r := g.rect
		doc.Rect = &r
	case ShapePolygon:
		doc.Polygon = g.polygon
	}
	return doc
}

// UnmarshalYAML accepts {rect: {...}} or {polygon: [...]}. Unknown keys
// are rejected as they are everywhere else in a floor plan.
func (g *Geometry) UnmarshalYAML(node *yaml.Node) error {
	var doc geometryDoc
	if err := decodeStrict(node, &doc); err != nil {
		return fmt.Errorf("%w: line %d: %v", ErrInvalidGeometry, node.Line, err)
	}
	return g.fromDoc(doc)
}

// MarshalYAML writes the same shape UnmarshalYAML reads.
func (g Geometry) MarshalYAML() (any, error) {
	return g.toDoc(), nil
}

// MarshalJSON includes the kind tag for clients.
func (g Geometry) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.toDoc())
}

// UnmarshalJSON accepts the MarshalJSON form; the kind tag is ignored.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	var doc geometryDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	return g.fromDoc(doc)
}
