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

package bootutil_test

import (
	"fmt"

	"mynewt.apache.org/bootutil/flash"
)

// scenario constants, §8.2: A=8, MAX_ALIGN=8, erased_value=0xFF, S=0x10000.
const (
	testAlign       = 8
	testErasedValue = 0xff
	testSlotSize    = 0x10000
)

// memOpener maps well-known flash area IDs to in-memory SimAreas, the
// bootutil_test stand-in for a real flash.Opener.
type memOpener map[int]*flash.SimArea

func (o memOpener) Open(areaID int) (flash.Area, flash.Closer, error) {
	a, ok := o[areaID]
	if !ok {
		return nil, nil, fmt.Errorf("memOpener: no area with id=%d", areaID)
	}
	return a, flash.NopCloser(), nil
}

// newTestOpener returns an opener with freshly-erased primary and
// secondary areas for imageIndex 0.
func newTestOpener() (memOpener, *flash.SimArea, *flash.SimArea) {
	primary := flash.NewMemArea(testSlotSize, testAlign, testErasedValue)
	secondary := flash.NewMemArea(testSlotSize, testAlign, testErasedValue)

	o := memOpener{
		flash.PrimaryID(0):   primary,
		flash.SecondaryID(0): secondary,
	}
	return o, primary, secondary
}
