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

import "seehuhn.de/go/feather"

var barbCases = []Case{
	{
		Name:   "default",
		Params: feather.DefaultParams(),
		Width:  400,
		Height: 600,
		Style:  defaultStyle,
	},
	{
		Name: "single",
		Params: modify(func(p *feather.Params) {
			p.NumBarbs = 1
		}),
		Width:  400,
		Height: 600,
		Style:  defaultStyle,
	},
	{
		Name: "dense",
		Params: modify(func(p *feather.Params) {
			p.NumBarbs = 200
			p.BarbLOD = 40
		}),
		Width:  400,
		Height: 600,
		Style:  Style{LineScale: 0.5, Cap: defaultStyle.Cap, Join: defaultStyle.Join, MiterLimit: 10},
	},
	{
		Name: "straight",
		Params: modify(func(p *feather.Params) {
			p.Fb = 0
		}),
		Width:  400,
		Height: 600,
		Style:  defaultStyle,
	},
	{
		Name: "curly",
		Params: modify(func(p *feather.Params) {
			p.Fb = 1
			p.Shape = feather.BarbShape{P1X: 0.8, P1Y: 0.9, P2X: 0.6, P2Y: 0.2}
		}),
		Width:  400,
		Height: 600,
		Style:  defaultStyle,
	},
	{
		// all barbs end at the same point of the outline
		Name: "collapsed",
		Params: modify(func(p *feather.Params) {
			p.Fn = p.F0
			p.NumBarbs = 5
		}),
		Width:  400,
		Height: 600,
		Style:  defaultStyle,
	},
	{
		Name: "reversed_mapping",
		Params: modify(func(p *feather.Params) {
			p.OutlineMappingStart = 0.9
			p.OutlineMappingEnd = 0.1
		}),
		Width:  400,
		Height: 600,
		Style:  defaultStyle,
	},
	{
		Name: "partial_mapping",
		Params: modify(func(p *feather.Params) {
			p.OutlineMappingStart = 0.2
			p.OutlineMappingEnd = 0.6
			p.Fn = 0.6
		}),
		Width:  400,
		Height: 600,
		Style:  defaultStyle,
	},
}
