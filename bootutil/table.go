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

package bootutil

import (
	log "github.com/sirupsen/logrus"

	"mynewt.apache.org/bootutil/flash"
)

// swapTableRow is one row of the static swap decision table: primary_p,
// secondary_s. Declarative data rather than nested conditionals, so that
// adding a row can't disturb existing ones (§9 "Static table").
type swapTableRow struct {
	magicP    MagicState
	magicS    MagicState
	imageOkP  FlagState
	imageOkS  FlagState
	copyDoneP FlagState
	result    SwapType
}

// swapTable is evaluated top to bottom; the first fully-matching row wins.
// Order is load-bearing (§4.5): secondary-slot state takes priority over
// primary, which is why magicS is pinned to GOOD in both of the first two
// rows and image_ok_s is what distinguishes them.
var swapTable = []swapTableRow{
	{
		magicP: MagicAny, magicS: MagicGood,
		imageOkP: FlagAny, imageOkS: FlagUnset,
		copyDoneP: FlagAny,
		result:    SwapTypeTest,
	},
	{
		magicP: MagicAny, magicS: MagicGood,
		imageOkP: FlagAny, imageOkS: FlagSet,
		copyDoneP: FlagAny,
		result:    SwapTypePerm,
	},
	{
		magicP: MagicGood, magicS: MagicUnset,
		imageOkP: FlagUnset, imageOkS: FlagAny,
		copyDoneP: FlagSet,
		result:    SwapTypeRevert,
	},
}

func (r swapTableRow) matches(primary, secondary SwapState) bool {
	return magicCompatible(r.magicP, primary.Magic) &&
		magicCompatible(r.magicS, secondary.Magic) &&
		flagCompatible(r.imageOkP, primary.ImageOk) &&
		flagCompatible(r.imageOkS, secondary.ImageOk) &&
		flagCompatible(r.copyDoneP, primary.CopyDone)
}

// lookupSwapType scans swapTable in order and returns the first matching
// row's result, or SwapTypeNone if nothing matches (T2, T3).
func lookupSwapType(primary, secondary SwapState) SwapType {
	for _, row := range swapTable {
		if row.matches(primary, secondary) {
			return row.result
		}
	}
	return SwapTypeNone
}

// readPrimaryState reads the primary slot's state, consulting hook first
// (§4.6.1 step 1, §9 "Hook interception"). A nil hook, or one that returns
// ErrUseDefault, falls through to the default flash read.
func readPrimaryState(opener flash.Opener, imageIndex int, hook PrimaryStateHook) (SwapState, error) {
	if hook != nil {
		state, err := hook.ReadPrimaryState(imageIndex)
		if err == nil {
			return state, nil
		}
		if err != ErrUseDefault {
			return SwapState{}, err
		}
	}
	return ReadSwapStateByID(opener, flash.PrimaryID(imageIndex))
}

// SwapTypeMulti implements §4.6.1: it determines what swap action, if
// any, should be taken for the image pair at imageIndex. It is not safe
// for concurrent use with another operation on the same imageIndex.
func SwapTypeMulti(opener flash.Opener, imageIndex int, hook PrimaryStateHook) (SwapType, error) {
	primary, err := readPrimaryState(opener, imageIndex, hook)
	if err != nil {
		log.WithError(err).Warn("primary slot state unreadable, panicking")
		return SwapTypePanic, nil
	}

	secondary, err := ReadSwapStateByID(opener, flash.SecondaryID(imageIndex))
	if err != nil {
		if be, ok := err.(*Error); ok && ErrFlash.Is(be) {
			// Secondary unreachable: treated as empty, not fatal (§4.6.1
			// step 2, scenario 6).
			secondary = emptyState()
		} else {
			return SwapTypePanic, nil
		}
	}

	log.WithFields(primary.logFields("primary")).WithFields(
		secondary.logFields("secondary")).Debug("evaluating swap decision table")

	result := lookupSwapType(primary, secondary)

	switch result {
	case SwapTypeNone, SwapTypeTest, SwapTypePerm, SwapTypeRevert:
		return result, nil
	default:
		// Unreachable with the table above; defensive per §4.5's final
		// paragraph and §9's "assertion on unreachable default".
		log.WithField("result", result).Error(
			"swap decision table produced an impossible result")
		return SwapTypePanic, nil
	}
}

// SwapType is the legacy single-image shim for SwapTypeMulti (§4.6.4).
func SwapType(opener flash.Opener, hook PrimaryStateHook) (SwapType, error) {
	return SwapTypeMulti(opener, 0, hook)
}
