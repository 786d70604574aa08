// seehuhn.de/go/feather - procedural feather geometry
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package render

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// edge is a line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0)
}

func (e *edge) yMin() float64 { return min(e.y0, e.y1) }
func (e *edge) yMax() float64 { return max(e.y0, e.y1) }

// Rasteriser converts paths to anti-aliased pixel coverage.
//
// A Rasteriser is meant to be reused for many paths. Its internal buffers
// grow as needed and are kept between calls.
type Rasteriser struct {
	// CTM maps user space to device space. It must be non-singular.
	CTM matrix.Matrix

	// Clip is the output region in device coordinates, with integer
	// coordinates.
	Clip rect.Rect

	// Flatness is the curve flattening tolerance in device pixels.
	Flatness float64

	// Width is the stroke width in user space units.
	Width float64

	Cap        graphics.LineCapStyle
	Join       graphics.LineJoinStyle
	MiterLimit float64

	cover     []float32 // per pixel change of the winding number
	area      []float32 // per pixel signed area right of the edges
	edges     []edge
	active    []int
	polys     []vec.Vec2 // stroke polygons, concatenated
	polyStart []int
	points    []vec.Vec2 // flattened subpath
}

// NewRasteriser returns a Rasteriser for the given clip rectangle, with
// the identity CTM and PDF default stroke parameters.
func NewRasteriser(clip rect.Rect) *Rasteriser {
	r := &Rasteriser{}
	r.Reset(clip)
	return r
}

// Reset restores the default parameters and sets a new clip rectangle.
// Buffer capacity is kept.
func (r *Rasteriser) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.Width = 1
	r.Cap = graphics.LineCapButt
	r.Join = graphics.LineJoinMiter
	r.MiterLimit = defaultMiterLimit

	r.cover = r.cover[:0]
	r.area = r.area[:0]
	r.edges = r.edges[:0]
	r.active = r.active[:0]
	r.polys = r.polys[:0]
	r.polyStart = r.polyStart[:0]
	r.points = r.points[:0]
}

func (r *Rasteriser) toDevice(p vec.Vec2) vec.Vec2 {
	m := &r.CTM
	return vec.Vec2{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// deviceLength returns the length of the user space vector v after
// applying the linear part of the CTM.
func (r *Rasteriser) deviceLength(v vec.Vec2) float64 {
	m := &r.CTM
	return math.Hypot(m[0]*v.X+m[2]*v.Y, m[1]*v.X+m[3]*v.Y)
}

// flattenCubic calls emit for the end points of the line segments which
// approximate the cubic from p0 to p3 within the flatness tolerance.
// The number of segments is given by Wang's formula.
func (r *Rasteriser) flattenCubic(p0, p1, p2, p3 vec.Vec2, emit func(vec.Vec2)) {
	dd := max(
		r.deviceLength(p0.Sub(p1.Mul(2)).Add(p2)),
		r.deviceLength(p1.Sub(p2.Mul(2)).Add(p3)),
	)
	n := 1
	if dd > 0 {
		n = max(int(math.Ceil(math.Sqrt(0.75*dd/r.Flatness))), 1)
	}
	for i := 1; i < n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		emit(pt)
	}
	emit(p3)
}

// walk flattens p and calls subpath once for every subpath, with the
// flattened points and a flag which tells whether the subpath was closed.
// Quadratic segments are raised to cubics.
// The point slice is only valid during the call.
func (r *Rasteriser) walk(p *path.Data, subpath func(pts []vec.Vec2, closed bool)) {
	r.points = r.points[:0]
	started := false
	flush := func(closed bool) {
		if started && len(r.points) > 0 {
			subpath(r.points, closed)
		}
		r.points = r.points[:0]
		started = false
	}
	add := func(pt vec.Vec2) { r.points = append(r.points, pt) }
	last := func() vec.Vec2 {
		if len(r.points) == 0 {
			return vec.Vec2{}
		}
		return r.points[len(r.points)-1]
	}

	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			flush(false)
			add(p.Coords[k])
			k++
		case path.CmdLineTo:
			add(p.Coords[k])
			k++
		case path.CmdQuadTo:
			q0, q1, q2 := last(), p.Coords[k], p.Coords[k+1]
			c1 := q0.Add(q1.Sub(q0).Mul(2.0 / 3))
			c2 := q2.Add(q1.Sub(q2).Mul(2.0 / 3))
			r.flattenCubic(q0, c1, c2, q2, add)
			k += 2
		case path.CmdCubeTo:
			r.flattenCubic(last(), p.Coords[k], p.Coords[k+1], p.Coords[k+2], add)
			k += 3
		case path.CmdClose:
			var start vec.Vec2
			if len(r.points) > 0 {
				start = r.points[0]
			}
			flush(true)
			// the current point moves back to the start of the subpath
			add(start)
			continue
		}
		started = true
	}
	flush(false)
}

// FillNonZero fills p using the nonzero winding rule. Open subpaths are
// closed implicitly.
//
// Coverage is delivered row by row through emit, as values in [0, 1]
// starting at pixel xMin. The coverage slice is only valid during the
// call.
func (r *Rasteriser) FillNonZero(p *path.Data, emit func(y, xMin int, coverage []float32)) {
	r.edges = r.edges[:0]
	r.walk(p, func(pts []vec.Vec2, _ bool) {
		r.addPolygon(pts)
	})
	r.fillEdges(emit)
}

// addPolygon adds the edges of the closed polygon pts, given in user space.
func (r *Rasteriser) addPolygon(pts []vec.Vec2) {
	if len(pts) < 2 {
		return
	}
	prev := r.toDevice(pts[len(pts)-1])
	for _, pt := range pts {
		cur := r.toDevice(pt)
		r.addEdge(prev, cur)
		prev = cur
	}
}

func (r *Rasteriser) addEdge(a, b vec.Vec2) {
	dy := b.Y - a.Y
	if math.Abs(dy) < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{
		x0: a.X, y0: a.Y,
		x1: b.X, y1: b.Y,
		dxdy: (b.X - a.X) / dy,
	})
}

// fillEdges scans the collected edges, one pixel row at a time.
func (r *Rasteriser) fillEdges(emit func(y, xMin int, coverage []float32)) {
	if len(r.edges) == 0 {
		return
	}

	devXMin, devXMax := math.Inf(1), math.Inf(-1)
	devYMin, devYMax := math.Inf(1), math.Inf(-1)
	for i := range r.edges {
		e := &r.edges[i]
		devXMin = min(devXMin, e.x0, e.x1)
		devXMax = max(devXMax, e.x0, e.x1)
		devYMin = min(devYMin, e.y0, e.y1)
		devYMax = max(devYMax, e.y0, e.y1)
	}
	xMin := max(int(math.Floor(devXMin)), int(r.Clip.LLx))
	xMax := min(int(math.Floor(devXMax))+1, int(r.Clip.URx))
	yMin := max(int(math.Floor(devYMin)), int(r.Clip.LLy))
	yMax := min(int(math.Floor(devYMax))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return
	}

	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.yMin(), b.yMin())
	})
	r.active = r.active[:0]
	next := 0

	for y := yMin; y < yMax; y++ {
		yTop, yBot := float64(y), float64(y+1)

		for next < len(r.edges) && r.edges[next].yMin() < yBot {
			r.active = append(r.active, next)
			next++
		}
		r.active = slices.DeleteFunc(r.active, func(i int) bool {
			return r.edges[i].yMax() <= yTop
		})
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		for _, i := range r.active {
			r.accumulate(&r.edges[i], yTop, yBot, xMin, xMax)
		}

		integrateNonZero(r.cover, r.area)
		if cov, off := trimZeros(r.cover); cov != nil {
			emit(y, xMin+off, cov)
		}
	}
}

// Coverage model: every edge piece inside a pixel adds its signed
// vertical extent to cover and the part of that extent lying to the right
// of the piece to area. The coverage of pixel i is then the sum of cover
// over all pixels left of i, plus area[i].

// accumulate adds the part of e inside the row [yTop, yBot) to the
// coverage buffers. The edge is cut at the vertical pixel boundaries.
func (r *Rasteriser) accumulate(e *edge, yTop, yBot float64, xMin, xMax int) {
	yTop = max(yTop, e.yMin())
	yBot = min(yBot, e.yMax())
	if yBot <= yTop {
		return
	}
	dy := yBot - yTop
	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xa := e.x0 + e.dxdy*(yTop-e.y0)
	xb := e.x0 + e.dxdy*(yBot-e.y0)
	if xa > xb {
		xa, xb = xb, xa
	}
	first, last := int(math.Floor(xa)), int(math.Floor(xb))
	if first == last {
		r.deposit(first, sign*float32(dy), (xa+xb)/2, xMin, xMax)
		return
	}

	// the edge is not vertical here, so dy is proportional to dx
	scale := dy / (xb - xa)
	for pix := max(first, xMin-1); pix <= last; pix++ {
		u0 := max(xa, float64(pix))
		u1 := min(xb, float64(pix+1))
		if pix == xMin-1 {
			u0 = xa
		}
		if u1 <= u0 {
			continue
		}
		r.deposit(pix, sign*float32((u1-u0)*scale), (u0+u1)/2, xMin, xMax)
		if pix >= xMax {
			break
		}
	}
}

// deposit adds an edge piece with vertical extent c and horizontal
// midpoint x to pixel pix.
func (r *Rasteriser) deposit(pix int, c float32, x float64, xMin, xMax int) {
	switch {
	case pix < xMin:
		// everything to the right is covered
		r.cover[0] += c
		r.area[0] += c
	case pix < xMax:
		i := pix - xMin
		r.cover[i] += c
		r.area[i] += c * float32(float64(pix+1)-x)
	}
}

// integrateNonZero turns the accumulated buffers into coverage values,
// in place in cover.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i := range cover {
		v := acc + area[i]
		acc += cover[i]
		if v < 0 {
			v = -v
		}
		cover[i] = min(v, 1)
	}
}

// trimZeros returns the part of coverage between the first and last
// non-zero value, together with its offset. If all values are zero, the
// result is nil.
func trimZeros(coverage []float32) ([]float32, int) {
	lo := slices.IndexFunc(coverage, func(v float32) bool { return v != 0 })
	if lo < 0 {
		return nil, 0
	}
	hi := len(coverage)
	for coverage[hi-1] == 0 {
		hi--
	}
	return coverage[lo:hi], lo
}

const (
	// defaultFlatness is below the threshold of visual perception.
	defaultFlatness = 0.25

	// defaultMiterLimit matches PDF and PostScript.
	defaultMiterLimit = 10.0

	horizontalEdgeThreshold = 1e-10
	zeroLengthThreshold     = 1e-10
)
