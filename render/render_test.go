package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/feather"
	"seehuhn.de/go/feather/testcases"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

var allModes = []DrawMode{AllComponents, RachisOnly, OutlinesOnly, BarbsOnly}

// options returns the drawing options for a test case.
func options(tc *testcases.Case) *Options {
	opt := DefaultOptions()
	opt.Width = tc.Width
	opt.Height = tc.Height
	opt.LineScale = tc.Style.LineScale
	opt.Cap = tc.Style.Cap
	opt.Join = tc.Style.Join
	opt.MiterLimit = tc.Style.MiterLimit
	return opt
}

// coverageGrid collects the coverage emitted by a rasteriser.
type coverageGrid struct {
	w, h int
	data []float32
}

func newGrid(w, h int) *coverageGrid {
	return &coverageGrid{w: w, h: h, data: make([]float32, w*h)}
}

func (g *coverageGrid) emit(y, xMin int, coverage []float32) {
	copy(g.data[y*g.w+xMin:], coverage)
}

func (g *coverageGrid) at(x, y int) float32 {
	return g.data[y*g.w+x]
}

// The triangle (0,0)→(10,0)→(10,1)→close has a diagonal edge y = x/10.
// Each pixel X should have coverage (2X+1)/20: 0.05, 0.15, ..., 0.95.
func TestTriangleCoverage(t *testing.T) {
	trianglePath := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 0}).
		LineTo(vec.Vec2{X: 10, Y: 0}).
		LineTo(vec.Vec2{X: 10, Y: 1}).
		Close()

	r := NewRasteriser(rect.Rect{URx: 10, URy: 1})
	grid := newGrid(10, 1)
	r.FillNonZero(trianglePath, grid.emit)

	const epsilon = 1e-5
	for x := range 10 {
		expected := float32(2*x+1) / 20.0
		if actual := grid.at(x, 0); math.Abs(float64(actual-expected)) > epsilon {
			t.Errorf("pixel %d: expected coverage %.4f, got %.4f", x, expected, actual)
		}
	}
}

// TestOpenSubpathFill checks that open subpaths are closed implicitly and
// that shapes extending past the clip rectangle are cut off.
func TestOpenSubpathFill(t *testing.T) {
	square := (&path.Data{}).
		MoveTo(vec.Vec2{X: -5, Y: 2}).
		LineTo(vec.Vec2{X: 5, Y: 2}).
		LineTo(vec.Vec2{X: 5, Y: 6}).
		LineTo(vec.Vec2{X: -5, Y: 6})

	r := NewRasteriser(rect.Rect{URx: 10, URy: 10})
	grid := newGrid(10, 10)
	r.FillNonZero(square, grid.emit)

	for y := range 10 {
		for x := range 10 {
			want := float32(0)
			if x < 5 && y >= 2 && y < 6 {
				want = 1
			}
			if got := grid.at(x, y); math.Abs(float64(got-want)) > 1e-6 {
				t.Errorf("pixel (%d,%d): got %.3f, want %.0f", x, y, got, want)
			}
		}
	}
}

func TestCTM(t *testing.T) {
	unit := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 0}).
		LineTo(vec.Vec2{X: 1, Y: 0}).
		LineTo(vec.Vec2{X: 1, Y: 1}).
		LineTo(vec.Vec2{X: 0, Y: 1}).
		Close()

	r := NewRasteriser(rect.Rect{URx: 8, URy: 8})
	r.CTM = [6]float64{4, 0, 0, -4, 2, 6} // y flipped, as used by Image
	grid := newGrid(8, 8)
	r.FillNonZero(unit, grid.emit)

	var total float32
	for _, c := range grid.data {
		total += c
	}
	if math.Abs(float64(total)-16) > 1e-4 {
		t.Errorf("total coverage %g, want 16", total)
	}
	if grid.at(3, 3) != 1 || grid.at(1, 3) != 0 || grid.at(3, 6) != 0 {
		t.Error("square is not at [2,6)×[2,6)")
	}
}

func TestStrokeCaps(t *testing.T) {
	line := (&path.Data{}).
		MoveTo(vec.Vec2{X: 5, Y: 5}).
		LineTo(vec.Vec2{X: 15, Y: 5})

	cases := []struct {
		cap    graphics.LineCapStyle
		x0, x1 int // fully covered pixels in row 4
	}{
		{graphics.LineCapButt, 5, 15},
		{graphics.LineCapSquare, 4, 16},
	}
	for _, c := range cases {
		t.Run(c.cap.String(), func(t *testing.T) {
			r := NewRasteriser(rect.Rect{URx: 20, URy: 10})
			r.Width = 2
			r.Cap = c.cap
			grid := newGrid(20, 10)
			r.Stroke(line, grid.emit)

			for y := range 10 {
				for x := range 20 {
					want := float32(0)
					if (y == 4 || y == 5) && x >= c.x0 && x < c.x1 {
						want = 1
					}
					if got := grid.at(x, y); math.Abs(float64(got-want)) > 1e-5 {
						t.Errorf("pixel (%d,%d): got %.3f, want %.0f", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestStrokeRoundCap(t *testing.T) {
	line := (&path.Data{}).
		MoveTo(vec.Vec2{X: 10, Y: 10}).
		LineTo(vec.Vec2{X: 20, Y: 10})
	r := NewRasteriser(rect.Rect{URx: 40, URy: 20})
	r.Width = 6
	r.Cap = graphics.LineCapRound
	r.Flatness = 0.01
	grid := newGrid(40, 20)
	r.Stroke(line, grid.emit)

	// rectangle 10×6 plus a full circle of radius 3
	var total float64
	for _, c := range grid.data {
		total += float64(c)
	}
	want := 60 + math.Pi*9
	if math.Abs(total-want) > 0.5 {
		t.Errorf("total coverage %.2f, want %.2f", total, want)
	}
	if grid.at(8, 10) != 1 {
		t.Error("round cap not painted")
	}
}

// TestStrokeReversal checks that a path which doubles back on itself is
// painted, not cancelled out.
func TestStrokeReversal(t *testing.T) {
	p := (&path.Data{}).
		MoveTo(vec.Vec2{X: 2, Y: 5}).
		LineTo(vec.Vec2{X: 12, Y: 5}).
		LineTo(vec.Vec2{X: 4, Y: 5})

	for _, join := range []graphics.LineJoinStyle{graphics.LineJoinMiter, graphics.LineJoinBevel, graphics.LineJoinRound} {
		r := NewRasteriser(rect.Rect{URx: 20, URy: 10})
		r.Width = 2
		r.Join = join
		grid := newGrid(20, 10)
		r.Stroke(p, grid.emit)
		for x := 2; x < 12; x++ {
			if got := grid.at(x, 4); got != 1 {
				t.Errorf("%s: pixel (%d,4) has coverage %.3f", join, x, got)
			}
		}
	}
}

func TestStrokeJoins(t *testing.T) {
	// a right angle at (10,10)
	corner := (&path.Data{}).
		MoveTo(vec.Vec2{X: 2, Y: 10}).
		LineTo(vec.Vec2{X: 10, Y: 10}).
		LineTo(vec.Vec2{X: 10, Y: 2})

	area := func(join graphics.LineJoinStyle, limit float64) float64 {
		r := NewRasteriser(rect.Rect{URx: 20, URy: 20})
		r.Width = 4
		r.Join = join
		r.MiterLimit = limit
		r.Flatness = 0.01
		grid := newGrid(20, 20)
		r.Stroke(corner, grid.emit)
		var total float64
		for _, c := range grid.data {
			total += float64(c)
		}
		return total
	}

	// two 8×4 rectangles overlapping in a 2×2 square, plus the join
	base := 2*8*4 - 4.0
	cases := []struct {
		join  graphics.LineJoinStyle
		limit float64
		want  float64
	}{
		{graphics.LineJoinMiter, 10, base + 4},
		{graphics.LineJoinMiter, 1.2, base + 2}, // √2 > 1.2, bevelled
		{graphics.LineJoinBevel, 10, base + 2},
		{graphics.LineJoinRound, 10, base + math.Pi},
	}
	for _, c := range cases {
		got := area(c.join, c.limit)
		if math.Abs(got-c.want) > 0.3 {
			t.Errorf("%s (limit %g): area %.2f, want %.2f", c.join, c.limit, got, c.want)
		}
	}
}

func TestReset(t *testing.T) {
	r := NewRasteriser(rect.Rect{URx: 5, URy: 5})
	r.Width = 7
	r.Cap = graphics.LineCapSquare
	r.CTM = [6]float64{2, 0, 0, 2, 0, 0}

	clip := rect.Rect{URx: 10, URy: 10}
	r.Reset(clip)
	if r.Width != 1 || r.Cap != graphics.LineCapButt || r.Clip != clip {
		t.Errorf("Reset did not restore defaults: %+v", r)
	}
	if r.CTM != [6]float64{1, 0, 0, 1, 0, 0} {
		t.Errorf("CTM = %v after Reset", r.CTM)
	}
}

func TestParseDrawMode(t *testing.T) {
	for _, m := range allModes {
		got, err := ParseDrawMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseDrawMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseDrawMode("wings"); !errors.Is(err, ErrUnknownDrawMode) {
		t.Errorf("unknown mode: got %v", err)
	}
}

func layerNames(layers []Layer) []string {
	var names []string
	for _, l := range layers {
		names = append(names, l.Name)
	}
	return names
}

func TestLayers(t *testing.T) {
	g, err := feather.NewGenerator(feather.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if layers := Layers(g, AllComponents); len(layers) != 0 {
		t.Errorf("empty generator has layers %v", layerNames(layers))
	}
	if _, err := Image(g, AllComponents, nil); !errors.Is(err, ErrNothingToDraw) {
		t.Errorf("Image of empty generator: %v", err)
	}

	if err := g.RebuildAll(); err != nil {
		t.Fatal(err)
	}
	want := map[DrawMode][]string{
		RachisOnly:    {"rachis hull", "rachis points", "rachis"},
		OutlinesOnly:  {"outlines hull", "outlines points", "outlines", "rachis"},
		BarbsOnly:     {"template barbs hull", "template barbs points", "template barbs", "rachis"},
		AllComponents: {"barbs", "outlines", "rachis"},
	}
	for mode, names := range want {
		if d := cmp.Diff(names, layerNames(Layers(g, mode))); d != "" {
			t.Errorf("%s (-want +got):\n%s", mode, d)
		}
	}

	all := Layers(g, AllComponents)
	if n := len(all[0].Curves); n != 2*g.Params().NumBarbs {
		t.Errorf("barb layer has %d curves", n)
	}
}

func TestImage(t *testing.T) {
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			g, err := tc.Generator()
			if err != nil {
				t.Fatalf("%s_%s: %v", category, tc.Name, err)
			}
			for _, mode := range allModes {
				name := fmt.Sprintf("%s_%s_%s", category, tc.Name, mode)
				t.Run(name, func(t *testing.T) {
					img, err := Image(g, mode, options(&tc))
					if err != nil {
						t.Fatal(err)
					}
					if b := img.Bounds(); b.Dx() != tc.Width || b.Dy() != tc.Height {
						t.Fatalf("image size %v", b)
					}
					if img.Pix[0] != 255 {
						t.Errorf("corner pixel is %d, want background", img.Pix[0])
					}
					var darkest uint8 = 255
					for _, v := range img.Pix {
						darkest = min(darkest, v)
					}
					if darkest > 128 {
						t.Errorf("nothing drawn, darkest pixel %d", darkest)
					}

					compareReference(t, name, img)
				})
			}
		}
	}
}

// compareReference compares img to a reference rendering made by
// genpdf, if one is available.
func compareReference(t *testing.T, name string, img *image.Gray) {
	t.Helper()
	refPath := filepath.Join("..", "testdata", "reference", name+".png")
	ref, err := loadGray(refPath)
	if errors.Is(err, os.ErrNotExist) {
		return
	} else if err != nil {
		t.Fatalf("loading reference: %v", err)
	}
	if ref.Bounds() != img.Bounds() {
		t.Fatalf("reference has size %v, image %v", ref.Bounds(), img.Bounds())
	}
	if err := compareImages(name, ref, img); err != nil {
		t.Error(err)
	}
}

func loadGray(path string) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := range b.Dy() {
		for x := range b.Dx() {
			c := color.GrayModel.Convert(img.At(x+b.Min.X, y+b.Min.Y)).(color.Gray)
			gray.SetGray(x, y, c)
		}
	}
	return gray, nil
}

func compareImages(name string, expected, actual *image.Gray) error {
	const tolerance = 32
	const maxDiffPercent = 2

	total := len(expected.Pix)
	diffCount := 0
	for i, e := range expected.Pix {
		diff := int(e) - int(actual.Pix[i])
		if diff > tolerance || diff < -tolerance {
			diffCount++
		}
	}

	maxAllowed := total * maxDiffPercent / 100
	if diffCount > maxAllowed {
		writeDiffImage(name, expected, actual)
		return fmt.Errorf("%d pixels differ by >%d (max allowed: %d)",
			diffCount, tolerance, maxAllowed)
	}
	return nil
}

func writeDiffImage(name string, expected, actual *image.Gray) {
	os.MkdirAll("debug", 0755)

	b := expected.Bounds()
	img := image.NewRGBA(b)
	for y := range b.Dy() {
		for x := range b.Dx() {
			img.Set(x, y, color.RGBA{
				R: expected.GrayAt(x, y).Y, // expected in red
				G: actual.GrayAt(x, y).Y,   // actual in green
				A: 255,
			})
		}
	}

	f, err := os.Create(filepath.Join("debug", name+".png"))
	if err != nil {
		return
	}
	defer f.Close()
	png.Encode(f, img)
}

func TestWritePDF(t *testing.T) {
	tc := testcases.All["outline"][0]
	g, err := tc.Generator()
	if err != nil {
		t.Fatal(err)
	}
	fname := filepath.Join(t.TempDir(), "feather.pdf")
	if err := WritePDF(fname, g, OutlinesOnly, options(&tc)); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", data[:min(len(data), 16)])
	}
}

func TestInvalidOptions(t *testing.T) {
	g, err := feather.NewGenerator(feather.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if err := g.RebuildAll(); err != nil {
		t.Fatal(err)
	}
	for _, opt := range []*Options{
		{Width: 0, Height: 10, LineScale: 1},
		{Width: 10, Height: 10, Margin: 5, LineScale: 1},
		{Width: 10, Height: 10, LineScale: 0},
	} {
		if _, err := Image(g, AllComponents, opt); err == nil {
			t.Errorf("options %+v accepted", opt)
		}
	}
}
