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

// Command feather generates a feather and draws it to PNG and/or PDF files.
//
// Usage:
//
//	feather [-preset category/name] [-config params.yaml] [-mode all]
//	        [-png out.png] [-pdf out.pdf] [-width n] [-height n] [-v]
//
// The parameter file is applied on top of the preset, or on top of the
// default feather if no preset is given. With -dump, the effective
// parameters are written to stdout in parameter file format.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"seehuhn.de/go/feather"
	"seehuhn.de/go/feather/render"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "feather:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("feather", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "YAML parameter file")
	preset := flags.String("preset", "", "start from a named test case (category/name)")
	modeName := flags.String("mode", "all", "what to draw: all, rachis, outlines or barbs")
	pngPath := flags.String("png", "", "write a PNG image to this file")
	pdfPath := flags.String("pdf", "", "write a PDF file to this file")
	width := flags.Int("width", 0, "canvas width (overrides the parameter file)")
	height := flags.Int("height", 0, "canvas height (overrides the parameter file)")
	dump := flags.Bool("dump", false, "print the effective parameters")
	verbose := flags.Bool("v", false, "log progress messages")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() > 0 {
		return fmt.Errorf("unexpected arguments %q", flags.Args())
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	feather.SetLogger(logger)

	mode, err := render.ParseDrawMode(*modeName)
	if err != nil {
		return err
	}

	cfg := DefaultConfig()
	if *preset != "" {
		cfg, err = PresetConfig(*preset)
		if err != nil {
			return err
		}
	}
	if *configPath != "" {
		cfg, err = LoadConfig(*configPath, cfg)
		if err != nil {
			return err
		}
		logger.Debug("parameters loaded", "file", *configPath)
	}
	if *width > 0 {
		cfg.Image.Width = *width
	}
	if *height > 0 {
		cfg.Image.Height = *height
	}

	if *dump {
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	}

	opt, err := cfg.Options()
	if err != nil {
		return err
	}
	g, err := feather.NewGenerator(cfg.Params())
	if err != nil {
		return err
	}
	if err := g.Rebuild(); err != nil {
		return err
	}
	left, _ := g.Barbs()
	logger.Info("feather generated", "state", g.State(), "barbs", len(left))

	if *pngPath != "" {
		if err := writePNG(*pngPath, g, mode, opt); err != nil {
			return err
		}
		logger.Info("image written", "file", *pngPath)
	}
	if *pdfPath != "" {
		if err := render.WritePDF(*pdfPath, g, mode, opt); err != nil {
			return fmt.Errorf("%s: %w", *pdfPath, err)
		}
		logger.Info("PDF written", "file", *pdfPath)
	}
	if *pngPath == "" && *pdfPath == "" && !*dump {
		logger.Warn("no output requested, use -png or -pdf")
	}
	return nil
}

func writePNG(fileName string, src render.Source, mode render.DrawMode, opt *render.Options) error {
	img, err := render.Image(src, mode, opt)
	if err != nil {
		return err
	}

	f, err := os.Create(fileName)
	if err != nil {
		return err
	}
	err = png.Encode(f, img)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", fileName, err)
	}
	return nil
}
