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
	"seehuhn.de/go/feather"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"
)

// WritePDF writes the curves selected by mode to a single page PDF file.
// The page has the same layout as the image produced by Image, with one
// pixel corresponding to one PDF point. If opt is nil, DefaultOptions are
// used.
func WritePDF(fileName string, src Source, mode DrawMode, opt *Options) error {
	if opt == nil {
		opt = DefaultOptions()
	}
	if err := opt.validate(); err != nil {
		return err
	}
	layers := Layers(src, mode)
	if len(layers) == 0 {
		return ErrNothingToDraw
	}

	w, h := float64(opt.Width), float64(opt.Height)
	paper := &pdf.Rectangle{URx: w, URy: h}
	page, err := document.CreateSinglePage(fileName, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	page.SetFillColor(color.DeviceGray(opt.Background))
	page.Rectangle(0, 0, w, h)
	page.Fill()

	// The layout is computed in image coordinates, with y pointing down.
	ctm, scale := fit(layers, opt)
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, h})
	page.Transform(ctm)

	page.SetLineCap(opt.Cap)
	page.SetLineJoin(opt.Join)
	page.SetMiterLimit(opt.MiterLimit)

	for _, l := range layers {
		width := l.Weight * opt.LineScale / scale

		// graphics state must be set before the path is constructed
		gray := color.DeviceGray(l.Gray)
		if l.Kind == DrawControlPoints {
			page.SetFillColor(gray)
		} else {
			page.SetStrokeColor(gray)
			page.SetLineWidth(width)
		}

		for cmd, pts := range layerPath(&l, width/2).Iter() {
			switch cmd {
			case path.CmdMoveTo:
				page.MoveTo(pts[0].X, pts[0].Y)
			case path.CmdLineTo:
				page.LineTo(pts[0].X, pts[0].Y)
			case path.CmdCubeTo:
				page.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
			case path.CmdClose:
				page.ClosePath()
			}
		}

		if l.Kind == DrawControlPoints {
			page.Fill()
		} else {
			page.Stroke()
		}
		feather.Logger().Debug("layer written", "layer", l.Name, "file", fileName)
	}

	return page.Close()
}
