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
	"mynewt.apache.org/bootutil/flash"
)

const (
	// MagicSize is the byte length of the trailer magic (four 32-bit
	// words).
	MagicSize = 16

	// MinAlign is the smallest alignment this package ever uses for a
	// trailer field, regardless of what an area reports.
	MinAlign = 1

	// MaxAlign bounds the alignment a trailer field write can pad out to.
	// It mirrors BOOT_MAX_ALIGN in the original C sources: the stack
	// buffer write_trailer builds is sized to this constant, so an area
	// reporting a larger write alignment cannot be supported.
	MaxAlign = 8
)

// effectiveAlign computes the platform alignment A described in §3.5: the
// greater of the area's own write alignment and MinAlign. A write alignment
// above MaxAlign is rejected with an error rather than capped, and a zero
// write alignment means "unsupported" and is an error too.
func effectiveAlign(area flash.Area) (uint32, error) {
	a := area.WriteAlignment()
	if a == 0 {
		return 0, ErrFlash.wrap("flash area reports no write alignment")
	}
	if a < MinAlign {
		a = MinAlign
	}
	if a > MaxAlign {
		return 0, ErrFlash.wrapf(
			"flash write alignment %d exceeds MaxAlign (%d)", a, MaxAlign)
	}
	return a, nil
}

// magicOff returns the offset of the 16-byte magic field: the last
// MagicSize bytes of the area.
func magicOff(area flash.Area) uint32 {
	return area.Size() - MagicSize
}

// imageOkOff returns the offset of the image_ok flag, one alignment unit
// before the magic.
func imageOkOff(area flash.Area, align uint32) uint32 {
	return magicOff(area) - align
}

// copyDoneOff returns the offset of the copy_done flag, one alignment unit
// before image_ok.
func copyDoneOff(area flash.Area, align uint32) uint32 {
	return imageOkOff(area, align) - align
}

// SwapInfoOff returns the offset of the packed swap_info byte, one
// alignment unit before copy_done. Exported to match the programmatic
// surface (§6.2's boot_swap_info_off).
func SwapInfoOff(area flash.Area, align uint32) uint32 {
	return copyDoneOff(area, align) - align
}
