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

// Package feather generates the geometry of a feather from a small set of
// parameters.
//
// The feather consists of a rachis (the main shaft), a left and a right
// outline which bound the vane, and a field of barbs running from the
// rachis to the outlines. All of these are cubic Bézier curves. The
// outlines are anchored on the rachis and the barbs are anchored on both
// the rachis and the outlines, so the curves have to be built in this
// order.
//
// A Generator owns all curves. Changing a parameter does not rebuild any
// geometry; instead the affected stages are marked as stale, and Rebuild
// brings them up to date.
package feather

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/ungerik/go3d/float64/vec3"

	"seehuhn.de/go/feather/curve"
)

var (
	// ErrInvalidArgument indicates a parameter outside its domain.
	ErrInvalidArgument = errors.New("feather: invalid argument")

	// ErrPreconditionNotMet indicates that a stage was built before the
	// stages it depends on.
	ErrPreconditionNotMet = errors.New("feather: precondition not met")
)

// BarbParameter records where a barb is attached.
type BarbParameter struct {
	Rachis  float64 // curve parameter of the start point on the rachis
	Outline float64 // curve parameter of the end point on the outlines
}

// Generator builds and owns the curves of one feather.
//
// The curves returned by the accessor methods remain owned by the
// Generator and must not be modified. Rebuilding a stage replaces its
// curves by new ones; curves obtained earlier are not updated.
//
// A Generator is not safe for concurrent use.
type Generator struct {
	params Params

	rachis        *curve.Curve
	leftOutline   *curve.Curve
	rightOutline  *curve.Curve
	templateLeft  *curve.Curve
	templateRight *curve.Curve

	leftBarbs  []*curve.Curve
	rightBarbs []*curve.Curve
	barbParams []BarbParameter
	barbsBuilt bool

	stale Stage
}

// NewGenerator returns a Generator for the given parameters.
// No geometry is built until Rebuild or one of the Build methods is called.
func NewGenerator(p Params) (*Generator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		params: p,
		stale:  allStages,
	}, nil
}

// Params returns a copy of the current parameters.
func (g *Generator) Params() Params {
	return g.params
}

// State reports which stages have been built.
func (g *Generator) State() State {
	switch {
	case g.rachis == nil:
		return Empty
	case g.leftOutline == nil || g.rightOutline == nil:
		return RachisReady
	case !g.barbsBuilt:
		return OutlinesReady
	default:
		return BarbsReady
	}
}

// Stale returns the stages whose curves do not reflect the current
// parameters. Stages which have never been built are stale.
func (g *Generator) Stale() Stage {
	return g.stale
}

// IsStale reports whether any stage in s is stale.
func (g *Generator) IsStale(s Stage) bool {
	return g.stale&s != 0
}

func (g *Generator) invalidate(s Stage) {
	g.stale |= s.withDependents()
}

// Rebuild rebuilds all stale stages, in dependency order.
func (g *Generator) Rebuild() error {
	return g.rebuild(g.stale)
}

// RebuildAll rebuilds every stage from the current parameters.
func (g *Generator) RebuildAll() error {
	return g.rebuild(allStages)
}

func (g *Generator) rebuild(s Stage) error {
	s = s.withDependents()
	Logger().Debug("rebuilding feather", "stages", s)

	if s&StageRachis != 0 {
		r := &g.params.Rachis
		if err := g.BuildRachis(r[0], r[1], r[2], r[3], g.params.SampleCount); err != nil {
			return err
		}
	}
	if s&StageOutlines != 0 {
		if err := g.buildOutlines(); err != nil {
			return err
		}
	}
	if s&StageTemplateBarbs != 0 {
		if err := g.BuildTemplateBarbs(); err != nil {
			return err
		}
	}
	if s&StageBarbs != 0 {
		if err := g.BuildAllBarbs(); err != nil {
			return err
		}
	}
	return nil
}

// BuildRachis replaces the rachis by the cubic with control points p0 to
// p3, sampled at sampleCount points. The points and the sample count are
// stored as the new rachis parameters. Outlines and barbs become stale.
func (g *Generator) BuildRachis(p0, p1, p2, p3 vec3.T, sampleCount int) error {
	if sampleCount < 1 {
		return invalidArgument("sample count", sampleCount)
	}
	g.params.Rachis = [4]vec3.T{p0, p1, p2, p3}
	g.params.SampleCount = sampleCount

	c := curve.New(p0, p1, p2, p3)
	if err := c.SetLevelOfDetail(sampleCount); err != nil {
		return err
	}
	g.rachis = c

	g.invalidate(StageOutlines)
	g.stale &^= StageRachis
	Logger().Debug("rachis built", "samples", sampleCount)
	return nil
}

// ensureRachis builds the rachis from the stored parameters if there is
// none yet.
func (g *Generator) ensureRachis() error {
	if g.rachis != nil {
		return nil
	}
	r := &g.params.Rachis
	return g.BuildRachis(r[0], r[1], r[2], r[3], g.params.SampleCount)
}

// BuildOutlines replaces both outlines. The left outline runs from the
// anchor on the rachis through p1 and p2 to p3. The right outline either
// mirrors the left one or uses the stored right outline parameters, see
// Params.OutlineSymmetric.
//
// If no rachis has been built yet, one is built from the stored
// parameters first.
func (g *Generator) BuildOutlines(p1, p2, p3 vec3.T) error {
	g.params.LeftOutline = [3]vec3.T{p1, p2, p3}
	return g.buildOutlines()
}

func (g *Generator) buildOutlines() error {
	if err := g.ensureRachis(); err != nil {
		return err
	}

	anchor := g.Anchor()

	left := g.params.LeftOutline
	right := g.params.RightOutline
	if g.params.OutlineSymmetric {
		right = [3]vec3.T{mirrorX(left[0]), mirrorX(left[1]), left[2]}
	}

	// Outline density follows the density of the rachis beyond F0.
	n := g.rachis.LevelOfDetail()
	lod := max(int(float64(n)*(1-g.params.F0)), 1)

	l := curve.New(anchor, left[0], left[1], left[2])
	r := curve.New(anchor, right[0], right[1], right[2])
	if err := l.SetLevelOfDetail(lod); err != nil {
		return err
	}
	if err := r.SetLevelOfDetail(lod); err != nil {
		return err
	}
	g.leftOutline, g.rightOutline = l, r

	g.invalidate(StageTemplateBarbs | StageBarbs)
	g.stale &^= StageOutlines
	Logger().Debug("outlines built",
		"symmetric", g.params.OutlineSymmetric,
		"samples", lod)
	return nil
}

// Anchor returns the point on the rachis where both outlines start.
//
// The anchor is taken from the cached rachis samples, at index
// floor(F0*(n-1)) where n is the number of samples. Its accuracy is
// therefore limited by the level of detail of the rachis.
// If no rachis has been built, the origin is returned.
func (g *Generator) Anchor() vec3.T {
	if g.rachis == nil {
		return vec3.T{}
	}
	samples := g.rachis.Samples()
	if len(samples) == 0 {
		return vec3.T{}
	}
	idx := int(math.Floor(g.params.F0 * float64(len(samples)-1)))
	idx = min(max(idx, 0), len(samples)-1)
	return samples[idx]
}

// BuildBarb returns a new barb from p0 on the rachis to p3 on an outline,
// using the current value of Fb and the barb level of detail.
// The result is not stored in the Generator.
func (g *Generator) BuildBarb(p0, p3 vec3.T, shape BarbShape, side Side) *curve.Curve {
	c := Barb(p0, p3, g.params.Fb, shape, side)
	if err := c.SetLevelOfDetail(g.params.BarbLOD); err != nil {
		// BarbLOD is validated by every setter
		panic(err)
	}
	return c
}

// Barb returns the cubic barb from p0 to p3.
//
// With d = |p3 - p0|, the interior control points are displaced by
// multiples of fb*d: the x-offsets are controlled by shape.P1X and
// shape.P2X, with opposite signs on the two sides of the rachis, and the
// y-offsets by shape.P1Y and shape.P2Y mapped from [0, 1] to [-1, 1].
// Both interior control points lie in the plane z = p0.z.
func Barb(p0, p3 vec3.T, fb float64, shape BarbShape, side Side) *curve.Curve {
	s := fb * vec3.Distance(&p0, &p3)

	v1 := s * shape.P1X
	v3 := -s * shape.P2X
	if side == Left {
		v1, v3 = -v1, -v3
	}
	v2 := (2*shape.P1Y - 1) * s
	v4 := (2*shape.P2Y - 1) * s

	p1 := vec3.T{p0[0] + v1, p0[1] + v2, p0[2]}
	p2 := vec3.T{p3[0] + v3, p0[1] + v4, p0[2]}
	return curve.New(p0, p1, p2, p3)
}

// BuildAllBarbs replaces both barb collections.
//
// The NumBarbs barb positions are spread evenly over the rachis parameters
// from F0 to Fn, both inclusive. If NumBarbs is one, the single barb
// starts at F0. Each rachis parameter is mapped linearly from [F0, Fn]
// onto the outline range [OutlineMappingStart, OutlineMappingEnd].
func (g *Generator) BuildAllBarbs() error {
	if err := g.checkOutlines("barbs"); err != nil {
		return err
	}
	p := &g.params
	n := p.NumBarbs
	if n < 1 {
		return invalidArgument("number of barbs", n)
	}
	if p.Fn < p.F0 {
		return fmt.Errorf("%w: Fn = %g is smaller than F0 = %g",
			ErrInvalidArgument, p.Fn, p.F0)
	}
	region := min(max(p.Fn-p.F0, 0), 1)

	left := make([]*curve.Curve, 0, n)
	right := make([]*curve.Curve, 0, n)
	params := make([]BarbParameter, 0, n)
	for i := range n {
		tRachis := p.F0
		if n > 1 && region > 0 {
			tRachis = mix(p.F0, p.Fn, float64(i)/float64(n-1))
		}
		tOutline := p.OutlineMappingStart
		if region > 0 {
			u := (tRachis - p.F0) / region
			tOutline = mix(p.OutlineMappingStart, p.OutlineMappingEnd, u)
		}

		p0 := g.rachis.Evaluate(tRachis)
		leftP3 := g.leftOutline.Evaluate(tOutline)
		rightP3 := g.rightOutline.Evaluate(tOutline)

		left = append(left, g.BuildBarb(p0, leftP3, p.Shape, Left))
		right = append(right, g.BuildBarb(p0, rightP3, p.Shape, Right))
		params = append(params, BarbParameter{Rachis: tRachis, Outline: tOutline})
	}
	g.leftBarbs, g.rightBarbs = left, right
	g.barbParams = params
	g.barbsBuilt = true

	g.stale &^= StageBarbs
	Logger().Debug("barbs built", "count", n, "barbules", p.BarbLOD)
	return nil
}

// BuildTemplateBarbs replaces the two template barbs. These start in the
// middle of the part of the rachis beyond F0 and end at the outline
// parameters LeftBarbEnd and RightBarbEnd.
func (g *Generator) BuildTemplateBarbs() error {
	if err := g.checkOutlines("template barbs"); err != nil {
		return err
	}
	p := &g.params
	tRachis := p.F0 + (1-p.F0)/2

	p0 := g.rachis.Evaluate(tRachis)
	leftP3 := g.leftOutline.Evaluate(p.LeftBarbEnd)
	rightP3 := g.rightOutline.Evaluate(p.RightBarbEnd)
	g.templateLeft = g.BuildBarb(p0, leftP3, p.Shape, Left)
	g.templateRight = g.BuildBarb(p0, rightP3, p.Shape, Right)

	g.stale &^= StageTemplateBarbs
	Logger().Debug("template barbs built", "t", tRachis)
	return nil
}

func (g *Generator) checkOutlines(what string) error {
	if g.rachis == nil {
		return fmt.Errorf("%w: %s need a rachis", ErrPreconditionNotMet, what)
	}
	if g.leftOutline == nil || g.rightOutline == nil {
		return fmt.Errorf("%w: %s need outlines", ErrPreconditionNotMet, what)
	}
	return nil
}

// mix interpolates between a and b. The result is exactly a for u=0
// and exactly b for u=1.
func mix(a, b, u float64) float64 {
	return a*(1-u) + b*u
}

// Rachis returns the rachis, or nil if it has not been built.
func (g *Generator) Rachis() *curve.Curve {
	return g.rachis
}

// Outlines returns the left and right outline, or nil if they have not
// been built.
func (g *Generator) Outlines() (left, right *curve.Curve) {
	return g.leftOutline, g.rightOutline
}

// TemplateBarbs returns the left and right template barb, or nil if they
// have not been built.
func (g *Generator) TemplateBarbs() (left, right *curve.Curve) {
	return g.templateLeft, g.templateRight
}

// Barbs returns the barbs on both sides, ordered by increasing rachis
// parameter.
func (g *Generator) Barbs() (left, right []*curve.Curve) {
	return slices.Clone(g.leftBarbs), slices.Clone(g.rightBarbs)
}

// BarbParameters returns the attachment parameters of the barbs, in the
// same order as Barbs.
func (g *Generator) BarbParameters() []BarbParameter {
	return slices.Clone(g.barbParams)
}
