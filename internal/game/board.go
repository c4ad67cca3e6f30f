package game

import "fmt"

// The grid is a fixed Dots x Dots field of dots. Lines run between adjacent
// dots and boxes are the unit cells between them.
const (
	Dots         = 6
	BoxesPerSide = Dots - 1
	TotalBoxes   = BoxesPerSide * BoxesPerSide
)

type Orientation string

const (
	Horizontal Orientation = "h"
	Vertical   Orientation = "v"
)

// Line identifies one edge segment between two adjacent dots. The JSON tags
// match the wire shape the browser client sends in its move payload.
type Line struct {
	Orient Orientation `json:"type"`
	Row    int         `json:"r"`
	Col    int         `json:"c"`
}

// Key is the stable string encoding used for claimed-line lookups. The client
// builds the exact same keys, so the format must not change.
func (l Line) Key() string {
	return fmt.Sprintf("%s-%d-%d", l.Orient, l.Row, l.Col)
}

// InRange reports whether the line exists on the grid. Horizontal lines span
// columns, vertical lines span rows, so the valid ranges differ per
// orientation.
func (l Line) InRange() bool {
	switch l.Orient {
	case Horizontal:
		return l.Row >= 0 && l.Row < Dots && l.Col >= 0 && l.Col < Dots-1
	case Vertical:
		return l.Row >= 0 && l.Row < Dots-1 && l.Col >= 0 && l.Col < Dots
	}
	return false
}

type Box struct {
	Row int
	Col int
}

// BoundingLines returns the 4 lines that close box b: top, bottom, left,
// right.
func BoundingLines(b Box) [4]Line {
	return [4]Line{
		{Orient: Horizontal, Row: b.Row, Col: b.Col},
		{Orient: Horizontal, Row: b.Row + 1, Col: b.Col},
		{Orient: Vertical, Row: b.Row, Col: b.Col},
		{Orient: Vertical, Row: b.Row, Col: b.Col + 1},
	}
}

// AdjacentBoxes returns the boxes whose boundary includes l: two for an
// interior line, one for a line on the grid's outer edge. Order is row-major
// so callers see deterministic completion order.
func AdjacentBoxes(l Line) []Box {
	boxes := make([]Box, 0, 2)
	switch l.Orient {
	case Horizontal:
		if l.Row > 0 {
			boxes = append(boxes, Box{Row: l.Row - 1, Col: l.Col})
		}
		if l.Row < Dots-1 {
			boxes = append(boxes, Box{Row: l.Row, Col: l.Col})
		}
	case Vertical:
		if l.Col > 0 {
			boxes = append(boxes, Box{Row: l.Row, Col: l.Col - 1})
		}
		if l.Col < Dots-1 {
			boxes = append(boxes, Box{Row: l.Row, Col: l.Col})
		}
	}
	return boxes
}
