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

package feather

import "strings"

// Stage is a set of generation stages. Each stage derives its curves from
// the stages before it.
type Stage uint8

const (
	StageRachis Stage = 1 << iota
	StageOutlines
	StageTemplateBarbs
	StageBarbs

	allStages = StageRachis | StageOutlines | StageTemplateBarbs | StageBarbs
)

// withDependents returns s together with every stage which reads geometry
// from a stage in s.
func (s Stage) withDependents() Stage {
	if s&StageRachis != 0 {
		s |= StageOutlines
	}
	if s&StageOutlines != 0 {
		s |= StageTemplateBarbs | StageBarbs
	}
	return s
}

func (s Stage) String() string {
	if s == 0 {
		return "none"
	}
	var parts []string
	for _, x := range []struct {
		bit  Stage
		name string
	}{
		{StageRachis, "rachis"},
		{StageOutlines, "outlines"},
		{StageTemplateBarbs, "template-barbs"},
		{StageBarbs, "barbs"},
	} {
		if s&x.bit != 0 {
			parts = append(parts, x.name)
		}
	}
	return strings.Join(parts, "|")
}

// State describes how far the geometry of a Generator has been built.
type State int

const (
	Empty State = iota
	RachisReady
	OutlinesReady
	BarbsReady
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case RachisReady:
		return "rachis-ready"
	case OutlinesReady:
		return "outlines-ready"
	case BarbsReady:
		return "barbs-ready"
	default:
		return "invalid state"
	}
}

// Side selects the left or right half of the vane.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}
