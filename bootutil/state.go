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

// SwapState is one slot's trailer, decoded into its structured form
// (§3.4).
type SwapState struct {
	Magic     MagicState
	SwapType  SwapType
	CopyDone  FlagState
	ImageOk   FlagState
	ImageNum  uint8
}

// emptyState is the state of a slot that could not be read at all (§4.6.1
// step 2, "secondary unreachable" is treated as empty).
func emptyState() SwapState {
	return SwapState{
		Magic:    MagicUnset,
		SwapType: SwapTypeNone,
		CopyDone: FlagUnset,
		ImageOk:  FlagUnset,
		ImageNum: 0,
	}
}

func (s SwapState) logFields(label string) log.Fields {
	return log.Fields{
		"slot":      label,
		"magic":     s.Magic.String(),
		"swap_type": s.SwapType.String(),
		"copy_done": s.CopyDone.String(),
		"image_ok":  s.ImageOk.String(),
	}
}

// readSwapInfo reads and normalizes the packed swap-info byte at off,
// per §4.4 step 2: an erased byte or an out-of-range swap type both
// normalize to {NONE, image_num=0}.
func readSwapInfo(area flash.Area, off uint32) (SwapType, uint8, error) {
	var b [1]byte
	if err := area.Read(off, b[:]); err != nil {
		return SwapTypeNone, 0, ErrFlash.wrapErr(err)
	}

	imageNum, swapType := UnpackSwapInfo(b[0])
	if b[0] == area.ErasedValue() || swapType > SwapTypeRevert {
		return SwapTypeNone, 0, nil
	}

	return swapType, imageNum, nil
}

// ReadSwapState reads area's full trailer into a SwapState (§4.4). Any
// flash read failure is reported as an *Error with code CodeFlash.
func ReadSwapState(area flash.Area) (SwapState, error) {
	var state SwapState

	align, err := effectiveAlign(area)
	if err != nil {
		return state, err
	}

	magicBuf := make([]byte, MagicSize)
	if err := area.Read(magicOff(area), magicBuf); err != nil {
		return state, ErrFlash.wrapErr(err)
	}
	state.Magic = DecodeMagicFromFlash(magicBuf, area.ErasedValue())

	swapType, imageNum, err := readSwapInfo(area, SwapInfoOff(area, align))
	if err != nil {
		return state, err
	}
	state.SwapType = swapType
	state.ImageNum = imageNum

	copyDone, err := ReadFlag(area, copyDoneOff(area, align))
	if err != nil {
		return state, err
	}
	state.CopyDone = copyDone

	imageOk, err := ReadFlag(area, imageOkOff(area, align))
	if err != nil {
		return state, err
	}
	state.ImageOk = imageOk

	return state, nil
}

// ReadSwapStateByID opens the flash area identified by areaID through
// opener, reads its trailer, and closes the area on every exit path
// (§4.4, §5).
func ReadSwapStateByID(opener flash.Opener, areaID int) (SwapState, error) {
	area, closer, err := opener.Open(areaID)
	if err != nil {
		return SwapState{}, ErrFlash.wrapErr(err)
	}
	defer closer.Close()

	return ReadSwapState(area)
}
