// Command genpdf generates reference images for the render tests.
// It writes one PDF per test case and draw mode, and renders the PDFs to
// PNGs using Ghostscript.
// Run from the module root directory.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"seehuhn.de/go/feather"
	"seehuhn.de/go/feather/render"
	"seehuhn.de/go/feather/testcases"
)

const refDir = "testdata/reference"

func main() {
	noPNG := flag.Bool("no-png", false, "only write PDF files")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	feather.SetLogger(logger)

	if err := os.MkdirAll(refDir, 0755); err != nil {
		panic(err)
	}

	modes := []render.DrawMode{
		render.AllComponents,
		render.RachisOnly,
		render.OutlinesOnly,
		render.BarbsOnly,
	}
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			g, err := tc.Generator()
			if err != nil {
				panic(fmt.Errorf("%s_%s: %w", category, tc.Name, err))
			}

			for _, mode := range modes {
				name := fmt.Sprintf("%s_%s_%s", category, tc.Name, mode)
				pdfPath := filepath.Join(refDir, name+".pdf")
				pngPath := filepath.Join(refDir, name+".png")

				if err := render.WritePDF(pdfPath, g, mode, options(&tc)); err != nil {
					panic(fmt.Errorf("%s: %w", name, err))
				}
				if *noPNG {
					continue
				}
				if err := renderPNG(pdfPath, pngPath); err != nil {
					panic(fmt.Errorf("%s: %w", name, err))
				}
				logger.Info("reference written", "name", name)
			}
		}
	}
}

func options(tc *testcases.Case) *render.Options {
	opt := render.DefaultOptions()
	opt.Width = tc.Width
	opt.Height = tc.Height
	opt.LineScale = tc.Style.LineScale
	opt.Cap = tc.Style.Cap
	opt.Join = tc.Style.Join
	opt.MiterLimit = tc.Style.MiterLimit
	return opt
}

func renderPNG(pdfPath, pngPath string) error {
	// Render PDF to PNG using Ghostscript
	// -sDEVICE=pnggray: 8-bit grayscale
	// -r72: 72 DPI (1 point = 1 pixel)
	// -dGraphicsAlphaBits=4: 4x supersampling for anti-aliasing
	cmd := exec.Command(
		"gs", "-q",
		"-sDEVICE=pnggray",
		"-r72",
		"-dGraphicsAlphaBits=4",
		"-o", pngPath,
		pdfPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
