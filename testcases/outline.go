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
)

var outlineCases = []Case{
	{
		Name:   "symmetric",
		Params: feather.DefaultParams(),
		Width:  400,
		Height: 600,
		Style:  defaultStyle,
	},
	{
		Name: "asymmetric",
		Params: modify(func(p *feather.Params) {
			p.OutlineSymmetric = false
			p.RightOutline = [3]vec3.T{pt(0.8, 2.5), pt(1.2, 5), pt(-0.2, 6)}
		}),
		Width:  400,
		Height: 600,
		Style:  defaultStyle,
	},
	{
		// the vane starts near the base of the rachis
		Name: "early_vane",
		Params: modify(func(p *feather.Params) {
			p.F0 = 0.05
		}),
		Width:  400,
		Height: 600,
		Style:  defaultStyle,
	},
	{
		Name: "late_vane",
		Params: modify(func(p *feather.Params) {
			p.F0 = 0.7
		}),
		Width:  400,
		Height: 600,
		Style:  defaultStyle,
	},
	{
		// outline points away from the z=0 plane, flattened by projection
		Name: "tilted",
		Params: modify(func(p *feather.Params) {
			p.LeftOutline = [3]vec3.T{{-1.8, 3.5, 1}, {-1.5, 5.5, 0.5}, {-0.2, 6, 0}}
		}),
		Width:  400,
		Height: 600,
		Style:  defaultStyle,
	},
}
