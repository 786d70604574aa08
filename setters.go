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

package feather

import (
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// The setters in this file only update the stored parameters and mark the
// affected stages as stale. Invalid values leave the Generator unchanged.

// SetRachisControlPoints sets the control points of the rachis.
func (g *Generator) SetRachisControlPoints(p0, p1, p2, p3 vec3.T) {
	g.params.Rachis = [4]vec3.T{p0, p1, p2, p3}
	g.invalidate(StageRachis)
}

// RachisControlPoints returns the stored control points of the rachis.
func (g *Generator) RachisControlPoints() [4]vec3.T {
	return g.params.Rachis
}

// SetSampleCount sets the level of detail of the rachis.
func (g *Generator) SetSampleCount(n int) error {
	if n < 1 {
		return invalidArgument("sample count", n)
	}
	g.params.SampleCount = n
	g.invalidate(StageRachis)
	return nil
}

// SetF0 sets the fraction along the rachis where the vane starts.
func (g *Generator) SetF0(f float64) error {
	if err := checkFraction("F0", f); err != nil {
		return err
	}
	g.params.F0 = f
	g.invalidate(StageOutlines)
	return nil
}

// SetFn sets the fraction along the rachis where the last barb starts.
func (g *Generator) SetFn(f float64) error {
	if err := checkFraction("Fn", f); err != nil {
		return err
	}
	g.params.Fn = f
	g.invalidate(StageBarbs)
	return nil
}

// SetFb sets the scale of the barb control point offsets.
func (g *Generator) SetFb(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return invalidArgument("Fb", f)
	}
	g.params.Fb = f
	g.invalidate(StageTemplateBarbs | StageBarbs)
	return nil
}

// SetNumBarbs sets the number of barbs on each side.
func (g *Generator) SetNumBarbs(n int) error {
	if n < 1 {
		return invalidArgument("number of barbs", n)
	}
	g.params.NumBarbs = n
	g.invalidate(StageBarbs)
	return nil
}

// SetBarbLOD sets the number of barbules of every barb.
func (g *Generator) SetBarbLOD(n int) error {
	if n < 1 {
		return invalidArgument("barb level of detail", n)
	}
	g.params.BarbLOD = n
	g.invalidate(StageTemplateBarbs | StageBarbs)
	return nil
}

// SetBarbShape sets the shape factors of all barbs.
func (g *Generator) SetBarbShape(s BarbShape) error {
	for _, f := range []struct {
		name string
		val  float64
	}{
		{"barb shape P1X", s.P1X},
		{"barb shape P1Y", s.P1Y},
		{"barb shape P2X", s.P2X},
		{"barb shape P2Y", s.P2Y},
	} {
		if err := checkFraction(f.name, f.val); err != nil {
			return err
		}
	}
	g.params.Shape = s
	g.invalidate(StageTemplateBarbs | StageBarbs)
	return nil
}

// SetBarbOutlineFactors sets the outline parameters where the template
// barbs end.
func (g *Generator) SetBarbOutlineFactors(left, right float64) error {
	if err := checkFraction("left barb end", left); err != nil {
		return err
	}
	if err := checkFraction("right barb end", right); err != nil {
		return err
	}
	g.params.LeftBarbEnd = left
	g.params.RightBarbEnd = right
	g.invalidate(StageTemplateBarbs)
	return nil
}

// SetOutlineMappingRange sets the range of outline parameters used by the
// barbs. The range may be reversed.
func (g *Generator) SetOutlineMappingRange(start, end float64) error {
	if err := checkFraction("outline mapping start", start); err != nil {
		return err
	}
	if err := checkFraction("outline mapping end", end); err != nil {
		return err
	}
	g.params.OutlineMappingStart = start
	g.params.OutlineMappingEnd = end
	g.invalidate(StageBarbs)
	return nil
}

// SetOutlineSymmetric selects whether the right outline mirrors the left
// one.
func (g *Generator) SetOutlineSymmetric(symmetric bool) {
	if g.params.OutlineSymmetric == symmetric {
		return
	}
	g.params.OutlineSymmetric = symmetric
	g.invalidate(StageOutlines)
}

// OutlineSymmetric reports whether the right outline mirrors the left one.
func (g *Generator) OutlineSymmetric() bool {
	return g.params.OutlineSymmetric
}

// SetSymmetricOutlineControlPoints sets the left outline and makes the
// right outline its mirror image.
func (g *Generator) SetSymmetricOutlineControlPoints(p1, p2, p3 vec3.T) {
	g.params.LeftOutline = [3]vec3.T{p1, p2, p3}
	g.params.RightOutline = [3]vec3.T{mirrorX(p1), mirrorX(p2), p3}
	g.params.OutlineSymmetric = true
	g.invalidate(StageOutlines)
}

// SetOutlineControlPoints sets both outlines independently. The two
// outlines share their end point p3.
func (g *Generator) SetOutlineControlPoints(leftP1, leftP2, rightP1, rightP2, p3 vec3.T) {
	g.params.LeftOutline = [3]vec3.T{leftP1, leftP2, p3}
	g.params.RightOutline = [3]vec3.T{rightP1, rightP2, p3}
	g.params.OutlineSymmetric = false
	g.invalidate(StageOutlines)
}
