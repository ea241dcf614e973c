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

// SetPendingMulti implements §4.6.2: it stages the secondary slot for the
// image index to be installed on the next boot. It is not safe for
// concurrent use with another operation on the same imageIndex.
func SetPendingMulti(opener flash.Opener, imageIndex int, permanent bool) error {
	area, closer, err := opener.Open(flash.SecondaryID(imageIndex))
	if err != nil {
		return ErrFlash.wrapErr(err)
	}
	defer closer.Close()

	state, err := ReadSwapState(area)
	if err != nil {
		return err
	}

	switch state.Magic {
	case MagicGood:
		// T8: already pending, no-op.
		log.WithField("image_index", imageIndex).Debug(
			"secondary already pending, nothing to do")
		return nil

	case MagicUnset:
		return writePendingTrailer(area, permanent)

	case MagicBad:
		log.WithField("image_index", imageIndex).Warn(
			"secondary magic bad, erasing slot")
		if eraseErr := area.Erase(0, area.Size()); eraseErr != nil {
			return ErrFlash.wrapErr(eraseErr)
		}
		return ErrBadImage.wrap("secondary slot magic corrupt, slot erased")

	default:
		return ErrBadImage.wrapf("secondary slot in unexpected state: %s",
			state.Magic.String())
	}
}

// writePendingTrailer performs the UNSET-branch write sequence magic →
// image_ok (if permanent) → swap_info, in that order (§5 "Write
// ordering": the order is deliberate so that any interruption still
// leaves a well-defined trailer, which reads as TEST until image_ok is
// written and as PERM once it is — see §9's open question).
func writePendingTrailer(area flash.Area, permanent bool) error {
	if err := WriteMagic(area); err != nil {
		return err
	}

	if permanent {
		if err := WriteImageOk(area); err != nil {
			return err
		}
	}

	swapType := SwapTypeTest
	if permanent {
		swapType = SwapTypePerm
	}
	return WriteSwapInfo(area, 0, swapType)
}

// SetConfirmedMulti implements §4.6.3: it marks the primary slot's
// currently-running image as confirmed. It is not safe for concurrent use
// with another operation on the same imageIndex.
func SetConfirmedMulti(opener flash.Opener, imageIndex int) error {
	area, closer, err := opener.Open(flash.PrimaryID(imageIndex))
	if err != nil {
		return ErrFlash.wrapErr(err)
	}
	defer closer.Close()

	state, err := ReadSwapState(area)
	if err != nil {
		return err
	}

	switch state.Magic {
	case MagicUnset:
		// No swap ever occurred; already confirmed.
		return nil

	case MagicBad:
		return ErrBadVect.wrap("primary slot magic corrupt")

	case MagicGood:
		// copy_done is intentionally never inspected here: this permits
		// confirming an image flashed externally, without a swap (§4.6.3).
		if state.ImageOk != FlagUnset {
			// T7: already confirmed (or BAD, which this core cannot
			// repair); no write either way.
			return nil
		}
		return WriteImageOk(area)

	default:
		return ErrBadVect.wrapf("primary slot in unexpected state: %s",
			state.Magic.String())
	}
}

// SetPending and SetConfirmed are the §4.6.4 legacy shims for the
// mutating operations; SwapType's is declared alongside SwapTypeMulti in
// table.go.

// SetPending forwards to SetPendingMulti with image_index = 0.
func SetPending(opener flash.Opener, permanent bool) error {
	return SetPendingMulti(opener, 0, permanent)
}

// SetConfirmed forwards to SetConfirmedMulti with image_index = 0.
func SetConfirmed(opener flash.Opener) error {
	return SetConfirmedMulti(opener, 0)
}
