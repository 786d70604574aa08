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

// Package testcases provides named feather parameter sets, shared by the
// tests, the benchmarks and the commands which generate reference output.
package testcases

import (
	"github.com/ungerik/go3d/float64/vec3"
	"seehuhn.de/go/feather"
	"seehuhn.de/go/pdf/graphics"
)

// Case is a single named feather.
type Case struct {
	Name   string         // lowercase a-z and _ only
	Params feather.Params // the feather to generate
	Width  int            // canvas width in pixels
	Height int            // canvas height in pixels
	Style  Style          // how lines are drawn
}

// Style describes the line style used for drawing a case.
type Style struct {
	LineScale  float64                // multiplier for all line widths (>0)
	Cap        graphics.LineCapStyle  // LineCapButt, LineCapRound, LineCapSquare
	Join       graphics.LineJoinStyle // LineJoinMiter, LineJoinRound, LineJoinBevel
	MiterLimit float64
}

// defaultStyle draws round lines at their nominal width.
var defaultStyle = Style{
	LineScale:  1,
	Cap:        graphics.LineCapRound,
	Join:       graphics.LineJoinRound,
	MiterLimit: 10,
}

// modify returns the default parameters, changed by f.
func modify(f func(p *feather.Params)) feather.Params {
	p := feather.DefaultParams()
	f(&p)
	return p
}

// pt is a helper to create a vec3.T in the plane z=0.
func pt(x, y float64) vec3.T {
	return vec3.T{x, y, 0}
}

// Generator returns a generator for the case, with all stages built.
func (c *Case) Generator() (*feather.Generator, error) {
	g, err := feather.NewGenerator(c.Params)
	if err != nil {
		return nil, err
	}
	if err := g.RebuildAll(); err != nil {
		return nil, err
	}
	return g, nil
}
