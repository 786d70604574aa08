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

// Package render draws the curves of a feather, either into a grayscale
// image or onto a PDF page.
//
// The curves are projected orthographically onto the xy-plane. Curves are
// drawn as polylines through their cached samples, so the level of detail
// of each curve is visible in the output.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ungerik/go3d/float64/vec3"
	"seehuhn.de/go/feather/curve"
	"seehuhn.de/go/geom/vec"
)

// Source gives access to the curves of a feather.
// It is implemented by *feather.Generator.
type Source interface {
	Rachis() *curve.Curve
	Outlines() (left, right *curve.Curve)
	TemplateBarbs() (left, right *curve.Curve)
	Barbs() (left, right []*curve.Curve)
}

// DrawMode selects which curves are drawn.
type DrawMode int

const (
	AllComponents DrawMode = iota
	RachisOnly
	OutlinesOnly
	BarbsOnly
)

var drawModeNames = []string{
	AllComponents: "all",
	RachisOnly:    "rachis",
	OutlinesOnly:  "outlines",
	BarbsOnly:     "barbs",
}

func (m DrawMode) String() string {
	if m >= 0 && int(m) < len(drawModeNames) {
		return drawModeNames[m]
	}
	return fmt.Sprintf("DrawMode(%d)", int(m))
}

// ErrUnknownDrawMode is returned by ParseDrawMode.
var ErrUnknownDrawMode = errors.New("render: unknown draw mode")

// ParseDrawMode converts the name of a draw mode, as returned by
// DrawMode.String, back to a DrawMode.
func ParseDrawMode(s string) (DrawMode, error) {
	for i, name := range drawModeNames {
		if strings.EqualFold(s, name) {
			return DrawMode(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownDrawMode, s)
}

// LayerKind describes how the curves of a layer are drawn.
type LayerKind int

const (
	// DrawCurve draws a polyline through the samples of each curve,
	// ending at the curve's end point.
	DrawCurve LayerKind = iota

	// DrawControlPolygon connects the control points of each curve.
	DrawControlPolygon

	// DrawControlPoints marks every control point with a dot.
	DrawControlPoints
)

// Layer is a group of curves drawn in the same style.
type Layer struct {
	Name   string
	Kind   LayerKind
	Curves []*curve.Curve

	// Gray is the ink color, from 0 (black) to 1 (white).
	Gray float64

	// Weight is the line width, or the dot diameter, in device pixels.
	Weight float64
}

// Layers returns the layers drawn in the given mode, from bottom to top.
// Curves which have not been built are skipped, and layers without curves
// are omitted.
func Layers(src Source, mode DrawMode) []Layer {
	rachis := src.Rachis()
	left, right := src.Outlines()
	tLeft, tRight := src.TemplateBarbs()

	var layers []Layer
	add := func(l Layer, curves ...*curve.Curve) {
		for _, c := range curves {
			if c != nil && c.NumControlPoints() > 0 {
				l.Curves = append(l.Curves, c)
			}
		}
		if len(l.Curves) > 0 {
			layers = append(layers, l)
		}
	}
	controls := func(name string, curves ...*curve.Curve) {
		add(Layer{Name: name + " hull", Kind: DrawControlPolygon, Gray: 0.7, Weight: 0.75}, curves...)
		add(Layer{Name: name + " points", Kind: DrawControlPoints, Gray: 0.4, Weight: 4}, curves...)
	}

	switch mode {
	case RachisOnly:
		controls("rachis", rachis)
		add(Layer{Name: "rachis", Gray: 0, Weight: 2}, rachis)
	case OutlinesOnly:
		controls("outlines", left, right)
		add(Layer{Name: "outlines", Gray: 0.3, Weight: 1.5}, left, right)
		add(Layer{Name: "rachis", Gray: 0, Weight: 2}, rachis)
	case BarbsOnly:
		controls("template barbs", tLeft, tRight)
		add(Layer{Name: "template barbs", Gray: 0.2, Weight: 1.5}, tLeft, tRight)
		add(Layer{Name: "rachis", Gray: 0, Weight: 2}, rachis)
	default:
		lb, rb := src.Barbs()
		add(Layer{Name: "barbs", Gray: 0.45, Weight: 0.75}, append(lb, rb...)...)
		add(Layer{Name: "outlines", Gray: 0.3, Weight: 1}, left, right)
		add(Layer{Name: "rachis", Gray: 0, Weight: 2.5}, rachis)
	}
	return layers
}

// polyline returns the projected points through which the curve is drawn.
func polyline(c *curve.Curve, kind LayerKind) []vec.Vec2 {
	if kind != DrawCurve {
		cp := c.ControlPoints()
		res := make([]vec.Vec2, len(cp))
		for i, p := range cp {
			res[i] = project(p)
		}
		return res
	}

	samples := c.Samples()
	res := make([]vec.Vec2, 0, len(samples)+1)
	for _, p := range samples {
		res = append(res, project(p))
	}
	return append(res, project(c.Evaluate(1)))
}

// project maps a point onto the xy-plane.
func project(p vec3.T) vec.Vec2 {
	return vec.Vec2{X: p[0], Y: p[1]}
}
