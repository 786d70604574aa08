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

package testcases

import (
	"github.com/ungerik/go3d/float64/vec3"
	"seehuhn.de/go/feather"
	"seehuhn.de/go/pdf/graphics"
)

var rachisCases = []Case{
	{
		Name:   "default",
		Params: feather.DefaultParams(),
		Width:  400,
		Height: 600,
		Style:  defaultStyle,
	},
	{
		Name: "straight",
		Params: modify(func(p *feather.Params) {
			p.Rachis = [4]vec3.T{pt(0, 0), pt(0, 2), pt(0, 4), pt(0, 6)}
		}),
		Width:  400,
		Height: 600,
		Style:  defaultStyle,
	},
	{
		Name: "s_curve",
		Params: modify(func(p *feather.Params) {
			p.Rachis = [4]vec3.T{pt(0, 0), pt(1, 2), pt(-1, 4), pt(0, 6)}
		}),
		Width:  400,
		Height: 600,
		Style:  defaultStyle,
	},
	{
		// few samples make the polyline visible
		Name: "coarse",
		Params: modify(func(p *feather.Params) {
			p.SampleCount = 6
		}),
		Width:  400,
		Height: 600,
		Style: Style{
			LineScale:  2,
			Cap:        graphics.LineCapButt,
			Join:       graphics.LineJoinMiter,
			MiterLimit: 4,
		},
	},
	{
		Name: "bevel",
		Params: modify(func(p *feather.Params) {
			p.SampleCount = 8
			p.Rachis = [4]vec3.T{pt(0, 0), pt(2, 1), pt(-2, 5), pt(0, 6)}
		}),
		Width:  400,
		Height: 600,
		Style: Style{
			LineScale:  3,
			Cap:        graphics.LineCapSquare,
			Join:       graphics.LineJoinBevel,
			MiterLimit: 10,
		},
	},
}
