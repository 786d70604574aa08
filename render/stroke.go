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
	"math"
	"slices"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Stroke strokes p using Width, Cap, Join and MiterLimit.
//
// The stroke is assembled from one polygon per line segment, cap and join.
// All polygons are brought into the same orientation and filled together
// with the nonzero rule, so that overlaps are painted once.
//
// Coverage is delivered as for FillNonZero.
func (r *Rasteriser) Stroke(p *path.Data, emit func(y, xMin int, coverage []float32)) {
	r.polys = r.polys[:0]
	r.polyStart = r.polyStart[:0]

	d := r.Width / 2
	if !(d > 0) {
		return
	}
	r.walk(p, func(pts []vec.Vec2, closed bool) {
		r.strokeSubpath(pts, closed, d)
	})

	r.edges = r.edges[:0]
	for i := range r.polyStart {
		r.addPolygon(r.polygon(i))
	}
	r.fillEdges(emit)
}

// polygon returns stroke polygon i.
func (r *Rasteriser) polygon(i int) []vec.Vec2 {
	end := len(r.polys)
	if i+1 < len(r.polyStart) {
		end = r.polyStart[i+1]
	}
	return r.polys[r.polyStart[i]:end]
}

// strokeSubpath adds the stroke polygons for one flattened subpath.
// The points may be reordered in place.
func (r *Rasteriser) strokeSubpath(pts []vec.Vec2, closed bool, d float64) {
	pts = slices.CompactFunc(pts, func(a, b vec.Vec2) bool {
		return b.Sub(a).Length() < zeroLengthThreshold
	})
	if closed && len(pts) > 1 && pts[len(pts)-1].Sub(pts[0]).Length() < zeroLengthThreshold {
		pts = pts[:len(pts)-1]
	}

	if len(pts) == 1 {
		// A zero length subpath has no direction; only round caps
		// produce a mark.
		if r.Cap == graphics.LineCapRound {
			r.addCircle(pts[0], d)
		}
		return
	}

	n := len(pts)
	numSegs := n - 1
	if closed {
		numSegs = n
	}
	tangent := func(i int) vec.Vec2 {
		v := pts[(i+1)%n].Sub(pts[i])
		return v.Mul(1 / v.Length())
	}

	for i := range numSegs {
		a, b := pts[i], pts[(i+1)%n]
		nrm := normal(tangent(i)).Mul(d)
		r.addPoly(a.Add(nrm), b.Add(nrm), b.Sub(nrm), a.Sub(nrm))
	}

	for i := 1; i < numSegs; i++ {
		r.addJoin(pts[i], tangent(i-1), tangent(i), d)
	}
	if closed {
		r.addJoin(pts[0], tangent(n-1), tangent(0), d)
		return
	}

	r.addCap(pts[0], tangent(0).Mul(-1), d)
	r.addCap(pts[n-1], tangent(n-2), d)
}

// addCap adds the cap at the end point p of a line. The unit vector t
// points away from the line.
func (r *Rasteriser) addCap(p, t vec.Vec2, d float64) {
	switch r.Cap {
	case graphics.LineCapRound:
		r.addCircle(p, d)
	case graphics.LineCapSquare:
		nrm := normal(t).Mul(d)
		ext := t.Mul(d)
		r.addPoly(p.Add(nrm), p.Add(nrm).Add(ext), p.Sub(nrm).Add(ext), p.Sub(nrm))
	}
}

// addJoin adds the join at p, where the direction changes from t1 to t2.
// Only the outer side of the corner needs to be filled, since the inner
// side is covered by the segment polygons.
func (r *Rasteriser) addJoin(p, t1, t2 vec.Vec2, d float64) {
	cross := t1.X*t2.Y - t1.Y*t2.X
	dot := t1.Dot(t2)
	if math.Abs(cross) < collinearityThreshold && dot > 0 {
		return
	}

	if r.Join == graphics.LineJoinRound {
		r.addCircle(p, d)
		return
	}

	// the outer side is on the right of a left turn
	side := 1.0
	if cross > 0 {
		side = -1
	}
	n1 := normal(t1).Mul(side)
	n2 := normal(t2).Mul(side)
	a, b := p.Add(n1.Mul(d)), p.Add(n2.Mul(d))

	if r.Join == graphics.LineJoinMiter && dot > cuspCosineThreshold {
		// ratio of miter length and line width, 1/sin(phi/2)
		ratio := 1 / math.Sqrt((1+dot)/2)
		if ratio <= r.MiterLimit {
			bisector := n1.Add(n2)
			tip := p.Add(bisector.Mul(d * ratio / bisector.Length()))
			r.addPoly(p, a, tip, b)
			return
		}
	}
	r.addPoly(p, a, b)
}

// addCircle adds a polygon approximating the circle around c with radius
// d, fine enough to stay within the flatness tolerance.
func (r *Rasteriser) addCircle(c vec.Vec2, d float64) {
	rDev := d * max(
		r.deviceLength(vec.Vec2{X: 1}),
		r.deviceLength(vec.Vec2{Y: 1}),
	)
	n := 8
	if rDev > r.Flatness {
		step := math.Acos(1 - r.Flatness/rDev)
		n = min(max(int(math.Ceil(math.Pi/step)), 8), maxCircleSegments)
	}

	r.polyStart = append(r.polyStart, len(r.polys))
	for i := range n {
		phi := 2 * math.Pi * float64(i) / float64(n)
		r.polys = append(r.polys, vec.Vec2{
			X: c.X + d*math.Cos(phi),
			Y: c.Y + d*math.Sin(phi),
		})
	}
}

// addPoly adds a polygon, reversed if needed so that all stroke polygons
// have positive orientation. Polygons without area are dropped.
func (r *Rasteriser) addPoly(pts ...vec.Vec2) {
	var area float64
	prev := pts[len(pts)-1]
	for _, p := range pts {
		area += prev.X*p.Y - p.X*prev.Y
		prev = p
	}
	if math.Abs(area) < zeroLengthThreshold {
		return
	}

	start := len(r.polys)
	r.polyStart = append(r.polyStart, start)
	r.polys = append(r.polys, pts...)
	if area < 0 {
		slices.Reverse(r.polys[start:])
	}
}

// normal returns t rotated by 90 degrees counterclockwise.
func normal(t vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: -t.Y, Y: t.X}
}

const (
	collinearityThreshold = 1e-6

	// cuspCosineThreshold detects a path doubling back on itself,
	// cos(179.43°) ≈ -0.9999.
	cuspCosineThreshold = -0.9999

	maxCircleSegments = 1024
)
