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
	"errors"
	"fmt"
	"image"
	"math"

	"seehuhn.de/go/feather"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// ErrNothingToDraw is returned when none of the curves selected by the
// draw mode have been built.
var ErrNothingToDraw = errors.New("render: nothing to draw")

// Options control the size and style of the output.
type Options struct {
	// Width and Height give the size of the canvas, in pixels for images
	// and in PDF points for PDF pages.
	Width, Height int

	// Margin is the minimum distance between the feather and the edge of
	// the canvas.
	Margin float64

	// Background is the gray level of the canvas, from 0 (black) to 1
	// (white).
	Background float64

	// LineScale multiplies all line widths and dot sizes.
	LineScale float64

	Cap        graphics.LineCapStyle
	Join       graphics.LineJoinStyle
	MiterLimit float64
}

// DefaultOptions returns the options used when nil is passed.
func DefaultOptions() *Options {
	return &Options{
		Width:      600,
		Height:     600,
		Margin:     20,
		Background: 1,
		LineScale:  1,
		Cap:        graphics.LineCapRound,
		Join:       graphics.LineJoinRound,
		MiterLimit: defaultMiterLimit,
	}
}

func (o *Options) validate() error {
	if o.Width < 1 || o.Height < 1 {
		return fmt.Errorf("render: invalid canvas size %dx%d", o.Width, o.Height)
	}
	if !(o.Margin >= 0) || 2*o.Margin >= float64(min(o.Width, o.Height)) {
		return fmt.Errorf("render: margin %g too large for %dx%d canvas",
			o.Margin, o.Width, o.Height)
	}
	if !(o.LineScale > 0) {
		return fmt.Errorf("render: invalid line scale %g", o.LineScale)
	}
	return nil
}

// Image draws the curves selected by mode into a new grayscale image.
// If opt is nil, DefaultOptions are used.
func Image(src Source, mode DrawMode, opt *Options) (*image.Gray, error) {
	if opt == nil {
		opt = DefaultOptions()
	}
	if err := opt.validate(); err != nil {
		return nil, err
	}
	layers := Layers(src, mode)
	if len(layers) == 0 {
		return nil, ErrNothingToDraw
	}

	w, h := opt.Width, opt.Height
	img := image.NewGray(image.Rect(0, 0, w, h))
	bg := toByte(opt.Background)
	for i := range img.Pix {
		img.Pix[i] = bg
	}

	ctm, scale := fit(layers, opt)
	clip := rect.Rect{URx: float64(w), URy: float64(h)}
	r := NewRasteriser(clip)
	for _, l := range layers {
		r.Reset(clip)
		r.CTM = ctm
		r.Cap = opt.Cap
		r.Join = opt.Join
		r.MiterLimit = opt.MiterLimit
		r.Width = l.Weight * opt.LineScale / scale

		p := layerPath(&l, r.Width/2)
		emit := paint(img, l.Gray)
		if l.Kind == DrawControlPoints {
			r.FillNonZero(p, emit)
		} else {
			r.Stroke(p, emit)
		}
		feather.Logger().Debug("layer drawn",
			"layer", l.Name,
			"curves", len(l.Curves),
			"mode", mode)
	}
	return img, nil
}

// paint returns an emit function which blends ink of the given gray level
// into img, weighted by coverage.
func paint(img *image.Gray, gray float64) func(y, xMin int, coverage []float32) {
	ink := float64(toByte(gray))
	return func(y, xMin int, coverage []float32) {
		row := img.Pix[y*img.Stride+xMin:]
		for i, a := range coverage {
			old := float64(row[i])
			row[i] = uint8(math.Round(old + (ink-old)*float64(a)))
		}
	}
}

func toByte(gray float64) uint8 {
	return uint8(math.Round(min(max(gray, 0), 1) * 255))
}

// fit returns the transformation which centers the xy-projection of all
// layers on the canvas and scales it to fill the canvas up to the margin,
// together with the scale factor. The y-axis is flipped, so that y points
// up in the output.
func fit(layers []Layer, opt *Options) (matrix.Matrix, float64) {
	box := rect.Rect{
		LLx: math.Inf(1), LLy: math.Inf(1),
		URx: math.Inf(-1), URy: math.Inf(-1),
	}
	for _, l := range layers {
		for _, c := range l.Curves {
			for _, p := range polyline(c, l.Kind) {
				box.LLx = min(box.LLx, p.X)
				box.LLy = min(box.LLy, p.Y)
				box.URx = max(box.URx, p.X)
				box.URy = max(box.URy, p.Y)
			}
		}
	}

	w := float64(opt.Width) - 2*opt.Margin
	h := float64(opt.Height) - 2*opt.Margin
	bw, bh := box.URx-box.LLx, box.URy-box.LLy
	s := 1.0
	if bw > 0 || bh > 0 {
		s = min(w/bw, h/bh) // one of the two may be +Inf
	}

	cx := (box.LLx + box.URx) / 2
	cy := (box.LLy + box.URy) / 2
	return matrix.Matrix{
		s, 0,
		0, -s,
		float64(opt.Width)/2 - s*cx, float64(opt.Height)/2 + s*cy,
	}, s
}

// layerPath converts the curves of a layer into a path. Control points
// become circles of the given radius, everything else becomes one open
// polyline per curve.
func layerPath(l *Layer, radius float64) *path.Data {
	p := &path.Data{}
	for _, c := range l.Curves {
		pts := polyline(c, l.Kind)
		if l.Kind == DrawControlPoints {
			for _, pt := range pts {
				addCircle(p, pt, radius)
			}
			continue
		}
		p.MoveTo(pts[0])
		for _, pt := range pts[1:] {
			p.LineTo(pt)
		}
	}
	return p
}

// addCircle appends a circle made of four cubic arcs.
func addCircle(p *path.Data, c vec.Vec2, r float64) {
	k := circleKappa * r
	p.MoveTo(vec.Vec2{X: c.X + r, Y: c.Y})
	p.CubeTo(
		vec.Vec2{X: c.X + r, Y: c.Y + k},
		vec.Vec2{X: c.X + k, Y: c.Y + r},
		vec.Vec2{X: c.X, Y: c.Y + r})
	p.CubeTo(
		vec.Vec2{X: c.X - k, Y: c.Y + r},
		vec.Vec2{X: c.X - r, Y: c.Y + k},
		vec.Vec2{X: c.X - r, Y: c.Y})
	p.CubeTo(
		vec.Vec2{X: c.X - r, Y: c.Y - k},
		vec.Vec2{X: c.X - k, Y: c.Y - r},
		vec.Vec2{X: c.X, Y: c.Y - r})
	p.CubeTo(
		vec.Vec2{X: c.X + k, Y: c.Y - r},
		vec.Vec2{X: c.X + r, Y: c.Y - k},
		vec.Vec2{X: c.X + r, Y: c.Y})
	p.Close()
}

// circleKappa places the control points of a cubic quarter circle.
const circleKappa = 0.5522847498
