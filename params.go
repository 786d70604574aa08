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
	"fmt"

	"github.com/ungerik/go3d/float64/vec3"
)

// Params is the complete set of user-tunable feather parameters.
type Params struct {
	// Rachis holds the four control points of the main shaft.
	Rachis [4]vec3.T

	// SampleCount is the level of detail of the rachis. Must be >= 1.
	SampleCount int

	// F0 is the fraction along the rachis where the vane starts, in [0, 1].
	F0 float64

	// Fn is the fraction along the rachis where the last barb is
	// attached, in [0, 1]. Barbs are only generated if Fn >= F0.
	Fn float64

	// Fb scales how far the interior control points of a barb may move
	// away from the straight line between its end points.
	Fb float64

	// Shape controls the interior control points of every barb.
	Shape BarbShape

	// LeftOutline holds control points 1 to 3 of the left outline.
	// Control point 0 is always the anchor on the rachis.
	LeftOutline [3]vec3.T

	// RightOutline holds control points 1 to 3 of the right outline.
	// It is ignored while OutlineSymmetric is set.
	RightOutline [3]vec3.T

	// OutlineSymmetric makes the right outline the mirror image of the
	// left outline with respect to the plane x=0.
	OutlineSymmetric bool

	// NumBarbs is the number of barbs on each side. Must be >= 1.
	NumBarbs int

	// BarbLOD is the level of detail (number of barbules) of every barb.
	// Must be >= 1.
	BarbLOD int

	// OutlineMappingStart and OutlineMappingEnd give the range of outline
	// parameters onto which the barb region of the rachis is mapped.
	// Both are in [0, 1]; a reversed range attaches the barbs in reverse
	// order.
	OutlineMappingStart float64
	OutlineMappingEnd   float64

	// LeftBarbEnd and RightBarbEnd are the outline parameters where the
	// template barbs end, in [0, 1].
	LeftBarbEnd  float64
	RightBarbEnd float64
}

// BarbShape holds the four factors, each in [0, 1], which place the
// interior control points of a barb relative to its end points.
type BarbShape struct {
	P1X, P1Y float64
	P2X, P2Y float64
}

// DefaultParams returns the parameters of the reference feather.
func DefaultParams() Params {
	return Params{
		Rachis: [4]vec3.T{
			{0, 0, 0},
			{0.3, 2, 0},
			{0.5, 4, 0},
			{0.2, 6, 0},
		},
		SampleCount: 200,
		F0:          0.25,
		Fn:          0.95,
		Fb:          0.5,
		Shape:       BarbShape{P1X: 0.3, P1Y: 1, P2X: 0.1, P2Y: 0},
		LeftOutline: [3]vec3.T{
			{-1.8, 3.5, 0},
			{-1.5, 5.5, 0},
			{-0.2, 6, 0},
		},
		RightOutline: [3]vec3.T{
			{1.8, 3.5, 0},
			{1.5, 5.5, 0},
			{-0.2, 6, 0},
		},
		OutlineSymmetric:    true,
		NumBarbs:            50,
		BarbLOD:             20,
		OutlineMappingStart: 0,
		OutlineMappingEnd:   1,
		LeftBarbEnd:         0.55,
		RightBarbEnd:        0.51,
	}
}

// Validate checks that all parameters are within their domains.
// The ordering Fn >= F0 is not checked here, since it only matters when
// barbs are generated.
func (p *Params) Validate() error {
	if p.SampleCount < 1 {
		return invalidArgument("sample count", p.SampleCount)
	}
	if p.NumBarbs < 1 {
		return invalidArgument("number of barbs", p.NumBarbs)
	}
	if p.BarbLOD < 1 {
		return invalidArgument("barb level of detail", p.BarbLOD)
	}
	fractions := []struct {
		name string
		val  float64
	}{
		{"F0", p.F0},
		{"Fn", p.Fn},
		{"barb shape P1X", p.Shape.P1X},
		{"barb shape P1Y", p.Shape.P1Y},
		{"barb shape P2X", p.Shape.P2X},
		{"barb shape P2Y", p.Shape.P2Y},
		{"outline mapping start", p.OutlineMappingStart},
		{"outline mapping end", p.OutlineMappingEnd},
		{"left barb end", p.LeftBarbEnd},
		{"right barb end", p.RightBarbEnd},
	}
	for _, f := range fractions {
		if err := checkFraction(f.name, f.val); err != nil {
			return err
		}
	}
	return nil
}

// mirrorX reflects p in the plane x=0.
func mirrorX(p vec3.T) vec3.T {
	return vec3.T{-p[0], p[1], p[2]}
}

func checkFraction(name string, x float64) error {
	if !(x >= 0 && x <= 1) {
		return invalidArgument(name, x)
	}
	return nil
}

func invalidArgument(name string, val any) error {
	return fmt.Errorf("%w: %s = %v", ErrInvalidArgument, name, val)
}
