/**
 * Licensed to the Apache Software Foundation (ASF) under one
 * or more contributor license agreements.  See the NOTICE file
 * distributed with this work for additional information
 * regarding copyright ownership.  The ASF licenses this file
 * to you under the Apache License, Version 2.0 (the
 * "License"); you may not use this file except in compliance
 * with the License.  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package flash

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cast"

	"mynewt.apache.org/bootutil/util"
)

// DescribedArea is one named region of a device's flash layout: a slot, the
// bootloader area, or a scratch area. It is pure geometry, independent of
// how the bytes backing it are stored.
type DescribedArea struct {
	Name   string `json:"name"`
	Id     int    `json:"id"`
	Device int    `json:"device"`
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
}

// Map describes every flash area on a (possibly simulated) device, along
// with the write alignment and erased-value that apply to all of them.
type Map struct {
	Areas          map[string]DescribedArea `json:"areas"`
	WriteAlignment int                      `json:"write_alignment"`
	ErasedValue    int                      `json:"erased_value"`

	// BackingFile is the path of the single flash-image file that backs
	// every area in this map; each area occupies its own (device, offset,
	// size) byte range within it.
	BackingFile string `json:"backing_file"`
}

func newMap() Map {
	return Map{Areas: map[string]DescribedArea{}}
}

func mapErr(areaName string, format string, args ...interface{}) error {
	return util.NewNewtError(
		"failure while parsing flash area \"" + areaName + "\": " +
			fmt.Sprintf(format, args...))
}

// parseIntField coerces fields[key] to a string with spf13/cast, then
// parses it with util.AtoiNoOct, mirroring newt/flash/flash.go's
// parseFlashArea: every area field is base-10 or base-16 ("0x..."), never
// implicitly octal, regardless of whether the JSON document spelled it as
// a bare number or a hex string.
func parseIntField(name, key string, fields map[string]interface{}) (int, bool, error) {
	v, ok := fields[key]
	if !ok {
		return 0, false, nil
	}

	n, err := util.AtoiNoOct(cast.ToString(v))
	if err != nil {
		return 0, true, mapErr(name, "invalid %s: %s", key, v)
	}
	return n, true, nil
}

// parseArea decodes one area's JSON fields, mirroring how the teacher's
// flash-map loader coerces its generic, YAML-decoded fields.
func parseArea(name string, fields map[string]interface{}) (DescribedArea, error) {
	area := DescribedArea{Name: name}

	id, ok, err := parseIntField(name, "id", fields)
	if err != nil {
		return area, err
	} else if !ok {
		return area, mapErr(name, "required field \"id\" missing")
	}
	area.Id = id

	if device, ok, err := parseIntField(name, "device", fields); err != nil {
		return area, err
	} else if ok {
		area.Device = device
	}

	offset, ok, err := parseIntField(name, "offset", fields)
	if err != nil {
		return area, err
	} else if !ok {
		return area, mapErr(name, "required field \"offset\" missing")
	}
	area.Offset = offset

	size, ok, err := parseIntField(name, "size", fields)
	if err != nil {
		return area, err
	} else if !ok {
		return area, mapErr(name, "required field \"size\" missing")
	}
	area.Size = size

	return area, nil
}

// ReadMap parses a JSON flash-map document (see DescribedArea/Map for the
// expected shape).
func ReadMap(data []byte) (Map, error) {
	m := newMap()

	var doc struct {
		Areas          map[string]interface{} `json:"areas"`
		WriteAlignment int                     `json:"write_alignment"`
		ErasedValue    int                     `json:"erased_value"`
		BackingFile    string                  `json:"backing_file"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return m, util.FmtChildNewtError(err, "invalid flash map JSON")
	}

	m.WriteAlignment = doc.WriteAlignment
	m.ErasedValue = doc.ErasedValue
	m.BackingFile = doc.BackingFile

	for name, raw := range doc.Areas {
		fields := cast.ToStringMap(raw)
		area, err := parseArea(name, fields)
		if err != nil {
			return m, err
		}
		m.Areas[name] = area
	}

	if overlaps, conflicts := m.DetectErrors(); len(overlaps) > 0 || len(conflicts) > 0 {
		return m, util.NewNewtError(ErrorText(overlaps, conflicts))
	}

	return m, nil
}

// ReadMapFile loads a Map from a JSON file on disk.
func ReadMapFile(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Map{}, util.ChildNewtError(err)
	}
	return ReadMap(data)
}

// ByID returns the area in m whose Id matches id.
func (m Map) ByID(id int) (DescribedArea, bool) {
	for _, a := range m.Areas {
		if a.Id == id {
			return a, true
		}
	}
	return DescribedArea{}, false
}

// SortedAreas returns every area in m, ordered by Id.
func (m Map) SortedAreas() []DescribedArea {
	areas := make([]DescribedArea, 0, len(m.Areas))
	for _, a := range m.Areas {
		areas = append(areas, a)
	}
	sort.Slice(areas, func(i, j int) bool { return areas[i].Id < areas[j].Id })
	return areas
}

func areasDistinct(a, b DescribedArea) bool {
	lo, hi := a, b
	if b.Offset < a.Offset {
		lo, hi = b, a
	}

	return lo.Device != hi.Device || lo.Offset+lo.Size <= hi.Offset
}

// DetectErrors reports overlapping byte ranges and duplicate IDs among m's
// areas, adapted from the teacher's artifact/flash.DetectErrors — pure
// geometry, unchanged by the switch from a build-time flash map to a
// runtime one.
func (m Map) DetectErrors() ([][]DescribedArea, [][]DescribedArea) {
	areas := m.SortedAreas()

	var overlaps, conflicts [][]DescribedArea
	for i := 0; i < len(areas)-1; i++ {
		for j := i + 1; j < len(areas); j++ {
			if !areasDistinct(areas[i], areas[j]) {
				overlaps = append(overlaps, []DescribedArea{areas[i], areas[j]})
			}
			if areas[i].Id == areas[j].Id {
				conflicts = append(conflicts, []DescribedArea{areas[i], areas[j]})
			}
		}
	}

	return overlaps, conflicts
}

// ErrorText renders the overlaps/conflicts DetectErrors reports as a
// human-readable diagnostic.
func ErrorText(overlaps [][]DescribedArea, conflicts [][]DescribedArea) string {
	str := ""

	if len(conflicts) > 0 {
		str += "Conflicting flash area IDs detected:\n"
		for _, pair := range conflicts {
			str += fmt.Sprintf("    %s =/= %s (both id=%d)\n",
				pair[0].Name, pair[1].Name, pair[0].Id)
		}
	}

	if len(overlaps) > 0 {
		str += "Overlapping flash areas detected:\n"
		for _, pair := range overlaps {
			str += fmt.Sprintf("    %s =/= %s\n", pair[0].Name, pair[1].Name)
		}
	}

	return str
}
