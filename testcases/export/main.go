// Command export writes the generated geometry of all test cases to JSON,
// for comparison against other implementations.
// Run from the module root directory.
package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/ungerik/go3d/float64/vec3"
	"seehuhn.de/go/feather/curve"
	"seehuhn.de/go/feather/testcases"
)

func main() {
	var out struct {
		TestCases []jsonTestCase `json:"testcases"`
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			jtc, err := toJSON(category, &tc)
			if err != nil {
				panic(err)
			}
			out.TestCases = append(out.TestCases, jtc)
		}
	}

	if err := os.MkdirAll("testdata", 0755); err != nil {
		panic(err)
	}
	f, err := os.Create("testdata/geometry.json")
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}

type jsonTestCase struct {
	Name          string       `json:"name"`
	F0            float64      `json:"f0"`
	Fn            float64      `json:"fn"`
	Fb            float64      `json:"fb"`
	Rachis        jsonCurve    `json:"rachis"`
	LeftOutline   jsonCurve    `json:"left_outline"`
	RightOutline  jsonCurve    `json:"right_outline"`
	LeftTemplate  jsonCurve    `json:"left_template"`
	RightTemplate jsonCurve    `json:"right_template"`
	LeftBarbs     []jsonCurve  `json:"left_barbs"`
	RightBarbs    []jsonCurve  `json:"right_barbs"`
	BarbParams    [][2]float64 `json:"barb_params"`
}

type jsonCurve struct {
	ControlPoints [][3]float64 `json:"control_points"`
	Samples       [][3]float64 `json:"samples"`
}

func toJSON(category string, tc *testcases.Case) (jsonTestCase, error) {
	name := category + "_" + tc.Name
	g, err := tc.Generator()
	if err != nil {
		return jsonTestCase{}, fmt.Errorf("%s: %w", name, err)
	}

	p := g.Params()
	jtc := jsonTestCase{
		Name:   name,
		F0:     p.F0,
		Fn:     p.Fn,
		Fb:     p.Fb,
		Rachis: curveToJSON(g.Rachis()),
	}
	left, right := g.Outlines()
	jtc.LeftOutline = curveToJSON(left)
	jtc.RightOutline = curveToJSON(right)
	left, right = g.TemplateBarbs()
	jtc.LeftTemplate = curveToJSON(left)
	jtc.RightTemplate = curveToJSON(right)

	leftBarbs, rightBarbs := g.Barbs()
	for _, c := range leftBarbs {
		jtc.LeftBarbs = append(jtc.LeftBarbs, curveToJSON(c))
	}
	for _, c := range rightBarbs {
		jtc.RightBarbs = append(jtc.RightBarbs, curveToJSON(c))
	}
	for _, bp := range g.BarbParameters() {
		jtc.BarbParams = append(jtc.BarbParams, [2]float64{bp.Rachis, bp.Outline})
	}
	return jtc, nil
}

func curveToJSON(c *curve.Curve) jsonCurve {
	if c == nil {
		return jsonCurve{}
	}
	return jsonCurve{
		ControlPoints: pointsToJSON(c.ControlPoints()),
		Samples:       pointsToJSON(c.Samples()),
	}
}

func pointsToJSON(pts []vec3.T) [][3]float64 {
	res := make([][3]float64, len(pts))
	for i, p := range pts {
		res[i] = p
	}
	return res
}
