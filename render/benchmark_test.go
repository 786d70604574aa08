package render

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/vector"

	"seehuhn.de/go/feather/testcases"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// dotGrid returns the centers of an n×n grid of dots filling a square
// canvas of the given size, together with the dot radius.
func dotGrid(size, n int) ([]vec.Vec2, float64) {
	step := float64(size) / float64(n)
	var centers []vec.Vec2
	for i := range n {
		for j := range n {
			centers = append(centers, vec.Vec2{
				X: (float64(i) + 0.5) * step,
				Y: (float64(j) + 0.5) * step,
			})
		}
	}
	return centers, 0.4 * step
}

// BenchmarkRasteriserDots fills many small circles, as used for control
// points.
func BenchmarkRasteriserDots(b *testing.B) {
	for _, size := range []int{20, 200, 2000} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			clip := rect.Rect{URx: float64(size), URy: float64(size)}
			r := NewRasteriser(clip)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))

			centers, radius := dotGrid(size, 10)
			p := &path.Data{}
			for _, c := range centers {
				addCircle(p, c, radius)
			}

			b.ReportAllocs()
			for b.Loop() {
				r.Reset(clip)
				r.FillNonZero(p, func(y, xMin int, coverage []float32) {
					row := dst.Pix[y*dst.Stride+xMin:]
					for i, c := range coverage {
						row[i] = uint8(c * 255)
					}
				})
			}
		})
	}
}

// BenchmarkVectorDots fills the same circles using x/image/vector.
func BenchmarkVectorDots(b *testing.B) {
	for _, size := range []int{20, 200, 2000} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			r := vector.NewRasterizer(size, size)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			src := image.NewUniform(color.Alpha{255})

			centers, radius := dotGrid(size, 10)

			b.ReportAllocs()
			for b.Loop() {
				r.Reset(size, size)
				for _, c := range centers {
					addCircleToVector(r, float32(c.X), float32(c.Y), float32(radius))
				}
				r.Draw(dst, dst.Bounds(), src, image.Point{})
			}
		})
	}
}

// addCircleToVector adds a counterclockwise circle made of four cubic arcs.
func addCircleToVector(r *vector.Rasterizer, cx, cy, radius float32) {
	const k = float32(circleKappa)
	kr := k * radius

	r.MoveTo(cx+radius, cy)
	r.CubeTo(cx+radius, cy+kr, cx+kr, cy+radius, cx, cy+radius)
	r.CubeTo(cx-kr, cy+radius, cx-radius, cy+kr, cx-radius, cy)
	r.CubeTo(cx-radius, cy-kr, cx-kr, cy-radius, cx, cy-radius)
	r.CubeTo(cx+kr, cy-radius, cx+radius, cy-kr, cx+radius, cy)
	r.ClosePath()
}

// BenchmarkImageAll measures drawing complete feathers, reusing nothing
// between iterations.
func BenchmarkImageAll(b *testing.B) {
	tc := testcases.All["barbs"][0]
	g, err := tc.Generator()
	if err != nil {
		b.Fatal(err)
	}
	opt := options(&tc)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := Image(g, AllComponents, opt); err != nil {
			b.Fatal(err)
		}
	}
}
