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

// Package curve implements Bézier curves of arbitrary degree in three
// dimensions, evaluated with the de Casteljau algorithm.
//
// A Curve keeps a cache of evenly spaced samples which is filled lazily.
// The cache is invalidated whenever the control points or the level of
// detail change; CacheValid and RefreshSamples make the timing of the
// recomputation explicit.
//
// A Curve is not safe for concurrent use.
package curve

import (
	"errors"
	"slices"

	"github.com/ungerik/go3d/float64/vec3"
)

// DefaultLevelOfDetail is the number of samples used by a new Curve.
const DefaultLevelOfDetail = 30

// ErrInvalidLevelOfDetail is returned when a level of detail below one is
// requested.
var ErrInvalidLevelOfDetail = errors.New("curve: level of detail must be at least 1")

// Curve is a Bézier curve given by an ordered list of control points.
//
// The zero value is an empty curve with level of detail zero; use New to
// obtain a curve with DefaultLevelOfDetail.
type Curve struct {
	cp  []vec3.T // control points, order is significant
	lod int      // number of samples in the cache

	samples []vec3.T // samples at t = i/lod, valid only if cacheValid
	valid   bool

	scratch []vec3.T // reduction buffer for de Casteljau
}

// New returns a curve with the given control points and the default level
// of detail. The points are copied.
func New(points ...vec3.T) *Curve {
	return &Curve{
		cp:  slices.Clone(points),
		lod: DefaultLevelOfDetail,
	}
}

// Clone returns a deep copy of c, including a valid sample cache.
func (c *Curve) Clone() *Curve {
	return &Curve{
		cp:      slices.Clone(c.cp),
		lod:     c.lod,
		samples: slices.Clone(c.samples),
		valid:   c.valid,
	}
}

// AddControlPoint appends p to the list of control points.
// This raises the degree of the curve by one.
func (c *Curve) AddControlPoint(p vec3.T) {
	c.cp = append(c.cp, p)
	c.valid = false
}

// ControlPoints returns a copy of the control points.
func (c *Curve) ControlPoints() []vec3.T {
	return slices.Clone(c.cp)
}

// NumControlPoints returns the number of control points.
func (c *Curve) NumControlPoints() int {
	return len(c.cp)
}

// Degree returns the polynomial degree of the curve, which is one less than
// the number of control points. An empty curve has degree -1.
func (c *Curve) Degree() int {
	return len(c.cp) - 1
}

// LevelOfDetail returns the number of samples produced by Samples.
func (c *Curve) LevelOfDetail() int {
	return c.lod
}

// SetLevelOfDetail changes the number of samples produced by Samples.
// Setting the current value again keeps the cache.
func (c *Curve) SetLevelOfDetail(n int) error {
	if n < 1 {
		return ErrInvalidLevelOfDetail
	}
	if n != c.lod {
		c.lod = n
		c.valid = false
	}
	return nil
}

// CacheValid reports whether the sample cache is up to date.
func (c *Curve) CacheValid() bool {
	return c.valid
}

// RefreshSamples recomputes the sample cache.
//
// Sample i is the point at parameter t = i/lod, so the last sample lies
// strictly before the end point of the curve.
func (c *Curve) RefreshSamples() {
	if len(c.cp) == 0 || c.lod < 1 {
		c.samples = c.samples[:0]
		c.valid = true
		return
	}

	c.samples = slices.Grow(c.samples[:0], c.lod)[:c.lod]
	for i := range c.lod {
		t := float64(i) / float64(c.lod)
		c.samples[i] = c.deCasteljau(t)
	}
	c.valid = true
}

// Samples returns the sample cache, refreshing it first if needed.
// The returned slice is owned by the curve and must not be modified;
// it is valid until the next change to the curve.
func (c *Curve) Samples() []vec3.T {
	if !c.valid {
		c.RefreshSamples()
	}
	if len(c.samples) == 0 {
		return nil
	}
	return c.samples
}

// Evaluate returns the point on the curve at parameter t.
//
// Values of t outside [0, 1] are clamped, so that the result always lies on
// the curve segment. Use Extrapolate for the polynomial continuation.
// An empty curve evaluates to the origin.
func (c *Curve) Evaluate(t float64) vec3.T {
	return c.deCasteljau(min(max(t, 0), 1))
}

// Extrapolate evaluates the curve polynomial at t without clamping.
func (c *Curve) Extrapolate(t float64) vec3.T {
	return c.deCasteljau(t)
}

// deCasteljau reduces the control polygon by repeated linear interpolation
// until a single point remains. The reduction runs in place in c.scratch.
func (c *Curve) deCasteljau(t float64) vec3.T {
	switch len(c.cp) {
	case 0:
		return vec3.T{}
	case 1:
		return c.cp[0]
	}

	c.scratch = append(c.scratch[:0], c.cp...)
	buf := c.scratch
	for n := len(buf) - 1; n > 0; n-- {
		for i := range n {
			buf[i] = Lerp(t, buf[i], buf[i+1])
		}
	}
	return buf[0]
}

// Lerp interpolates linearly between a and b, computing a*(1-t) + b*t
// componentwise. The result is exactly a for t=0 and exactly b for t=1.
func Lerp(t float64, a, b vec3.T) vec3.T {
	s := 1 - t
	return vec3.T{
		a[0]*s + b[0]*t,
		a[1]*s + b[1]*t,
		a[2]*s + b[2]*t,
	}
}
