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

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ungerik/go3d/float64/vec3"
	"gopkg.in/yaml.v3"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/feather"
	"seehuhn.de/go/feather/render"
	"seehuhn.de/go/feather/testcases"
)

// Config is the contents of a parameter file.
// Keys which are missing from the file keep their default values.
type Config struct {
	Rachis      [4]Point `yaml:"rachis"`
	SampleCount int      `yaml:"sample_count"`

	F0 float64 `yaml:"f0"`
	Fn float64 `yaml:"fn"`
	Fb float64 `yaml:"fb"`

	Shape ShapeConfig `yaml:"barb_shape"`

	LeftOutline      [3]Point `yaml:"left_outline"`
	RightOutline     [3]Point `yaml:"right_outline"`
	OutlineSymmetric bool     `yaml:"outline_symmetric"`

	NumBarbs int `yaml:"num_barbs"`
	BarbLOD  int `yaml:"barb_lod"`

	OutlineMappingStart float64 `yaml:"outline_mapping_start"`
	OutlineMappingEnd   float64 `yaml:"outline_mapping_end"`
	LeftBarbEnd         float64 `yaml:"left_barb_end"`
	RightBarbEnd        float64 `yaml:"right_barb_end"`

	Image ImageConfig `yaml:"image"`
}

// ShapeConfig holds the barb shape factors.
type ShapeConfig struct {
	P1X float64 `yaml:"p1x"`
	P1Y float64 `yaml:"p1y"`
	P2X float64 `yaml:"p2x"`
	P2Y float64 `yaml:"p2y"`
}

// ImageConfig describes the output canvas.
type ImageConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Margin     float64 `yaml:"margin"`
	Background float64 `yaml:"background"`
	LineScale  float64 `yaml:"line_scale"`
	Cap        string  `yaml:"cap"`  // butt, round or square
	Join       string  `yaml:"join"` // miter, round or bevel
	MiterLimit float64 `yaml:"miter_limit"`
}

// Point is a control point. In parameter files it is written as a
// sequence of two or three numbers; z defaults to 0.
type Point vec3.T

// UnmarshalYAML implements yaml.Unmarshaler for Point.
func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	var xs []float64
	if err := value.Decode(&xs); err != nil {
		return err
	}
	if len(xs) != 2 && len(xs) != 3 {
		return fmt.Errorf("line %d: invalid point %v: want 2 or 3 coordinates",
			value.Line, xs)
	}
	*p = Point{}
	copy(p[:], xs)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Point.
func (p Point) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, x := range p {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: strconv.FormatFloat(x, 'g', -1, 64),
		})
	}
	return node, nil
}

// DefaultConfig returns the configuration of the reference feather.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.setParams(feather.DefaultParams())

	opt := render.DefaultOptions()
	cfg.Image = ImageConfig{
		Width:      opt.Width,
		Height:     opt.Height,
		Margin:     opt.Margin,
		Background: opt.Background,
		LineScale:  opt.LineScale,
		Cap:        capNames[opt.Cap],
		Join:       joinNames[opt.Join],
		MiterLimit: opt.MiterLimit,
	}
	return cfg
}

// PresetConfig returns the configuration of a named test case.
// The name has the form "category/name".
func PresetConfig(name string) (*Config, error) {
	for category, cases := range testcases.All {
		for i := range cases {
			tc := &cases[i]
			if category+"/"+tc.Name != name {
				continue
			}
			cfg := DefaultConfig()
			cfg.setParams(tc.Params)
			cfg.Image.Width = tc.Width
			cfg.Image.Height = tc.Height
			cfg.Image.LineScale = tc.Style.LineScale
			cfg.Image.Cap = capNames[tc.Style.Cap]
			cfg.Image.Join = joinNames[tc.Style.Join]
			cfg.Image.MiterLimit = tc.Style.MiterLimit
			return cfg, nil
		}
	}
	return nil, fmt.Errorf("unknown preset %q", name)
}

// LoadConfig reads a parameter file on top of base.
// Unknown keys are an error.
func LoadConfig(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parameter file: %w", err)
	}
	return parseConfig(data, base)
}

func parseConfig(data []byte, base *Config) (*Config, error) {
	cfg := *base

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing parameter file: %w", err)
	}
	return &cfg, nil
}

func (c *Config) setParams(p feather.Params) {
	for i, pt := range p.Rachis {
		c.Rachis[i] = Point(pt)
	}
	c.SampleCount = p.SampleCount
	c.F0 = p.F0
	c.Fn = p.Fn
	c.Fb = p.Fb
	c.Shape = ShapeConfig(p.Shape)
	for i := range 3 {
		c.LeftOutline[i] = Point(p.LeftOutline[i])
		c.RightOutline[i] = Point(p.RightOutline[i])
	}
	c.OutlineSymmetric = p.OutlineSymmetric
	c.NumBarbs = p.NumBarbs
	c.BarbLOD = p.BarbLOD
	c.OutlineMappingStart = p.OutlineMappingStart
	c.OutlineMappingEnd = p.OutlineMappingEnd
	c.LeftBarbEnd = p.LeftBarbEnd
	c.RightBarbEnd = p.RightBarbEnd
}

// Params returns the feather parameters described by c.
func (c *Config) Params() feather.Params {
	var p feather.Params
	for i, pt := range c.Rachis {
		p.Rachis[i] = vec3.T(pt)
	}
	p.SampleCount = c.SampleCount
	p.F0 = c.F0
	p.Fn = c.Fn
	p.Fb = c.Fb
	p.Shape = feather.BarbShape(c.Shape)
	for i := range 3 {
		p.LeftOutline[i] = vec3.T(c.LeftOutline[i])
		p.RightOutline[i] = vec3.T(c.RightOutline[i])
	}
	p.OutlineSymmetric = c.OutlineSymmetric
	p.NumBarbs = c.NumBarbs
	p.BarbLOD = c.BarbLOD
	p.OutlineMappingStart = c.OutlineMappingStart
	p.OutlineMappingEnd = c.OutlineMappingEnd
	p.LeftBarbEnd = c.LeftBarbEnd
	p.RightBarbEnd = c.RightBarbEnd
	return p
}

// Options returns the render options described by c.
func (c *Config) Options() (*render.Options, error) {
	opt := render.DefaultOptions()
	opt.Width = c.Image.Width
	opt.Height = c.Image.Height
	opt.Margin = c.Image.Margin
	opt.Background = c.Image.Background
	opt.LineScale = c.Image.LineScale
	opt.MiterLimit = c.Image.MiterLimit

	var ok bool
	opt.Cap, ok = parseName(capNames, c.Image.Cap)
	if !ok {
		return nil, fmt.Errorf("unknown line cap %q", c.Image.Cap)
	}
	opt.Join, ok = parseName(joinNames, c.Image.Join)
	if !ok {
		return nil, fmt.Errorf("unknown line join %q", c.Image.Join)
	}
	return opt, nil
}

var capNames = map[graphics.LineCapStyle]string{
	graphics.LineCapButt:   "butt",
	graphics.LineCapRound:  "round",
	graphics.LineCapSquare: "square",
}

var joinNames = map[graphics.LineJoinStyle]string{
	graphics.LineJoinMiter: "miter",
	graphics.LineJoinRound: "round",
	graphics.LineJoinBevel: "bevel",
}

func parseName[T comparable](names map[T]string, s string) (T, bool) {
	for k, v := range names {
		if v == s {
			return k, true
		}
	}
	var zero T
	return zero, false
}
