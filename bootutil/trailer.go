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

// alignedField returns a buffer of length align, containing b followed by
// erasedValue padding, per §4.3's "a single field write is padded out to
// one alignment unit" rule.
func alignedField(align uint32, erasedValue byte, b byte) []byte {
	buf := make([]byte, align)
	buf[0] = b
	for i := 1; i < len(buf); i++ {
		buf[i] = erasedValue
	}
	return buf
}

// writeAlignedByte writes a single logical byte at off, padded out to
// align bytes with the area's erased value, in one Write call (§4.3:
// trailer fields are never written with more than one flash write).
func writeAlignedByte(area flash.Area, off uint32, b byte) error {
	align, err := effectiveAlign(area)
	if err != nil {
		return err
	}
	buf := alignedField(align, area.ErasedValue(), b)
	if err := area.Write(off, buf); err != nil {
		return ErrFlash.wrapErr(err)
	}
	return nil
}

// ReadFlag reads and decodes the flag byte at off (§4.2).
func ReadFlag(area flash.Area, off uint32) (FlagState, error) {
	var b [1]byte
	if err := area.Read(off, b[:]); err != nil {
		return FlagUnset, ErrFlash.wrapErr(err)
	}
	return DecodeFlag(b[0], area.ErasedValue()), nil
}

// WriteTrailerFlag writes value (0x01 for set) to the flag at off.
// WriteImageOk and WriteCopyDone both route through this one primitive so
// every flag write obeys the same padding rule; the flag reads
// (ReadImageOk) go through ReadFlag.
func WriteTrailerFlag(area flash.Area, off uint32, value byte) error {
	log.WithFields(log.Fields{"off": off, "value": value}).Debug(
		"writing trailer flag")
	return writeAlignedByte(area, off, value)
}

// ReadImageOk reads the image_ok flag (§6.2's boot_read_image_ok).
func ReadImageOk(area flash.Area) (FlagState, error) {
	align, err := effectiveAlign(area)
	if err != nil {
		return FlagUnset, err
	}
	return ReadFlag(area, imageOkOff(area, align))
}

// WriteImageOk sets the image_ok flag to SET (§6.2's boot_write_image_ok).
func WriteImageOk(area flash.Area) error {
	align, err := effectiveAlign(area)
	if err != nil {
		return err
	}
	return WriteTrailerFlag(area, imageOkOff(area, align), flagSetByte)
}

// WriteCopyDone sets the copy_done flag to SET.
func WriteCopyDone(area flash.Area) error {
	align, err := effectiveAlign(area)
	if err != nil {
		return err
	}
	return WriteTrailerFlag(area, copyDoneOff(area, align), flagSetByte)
}

// WriteSwapInfo packs imageNum/swapType and writes the result to the
// swap_info field (§6.2's boot_write_swap_info).
func WriteSwapInfo(area flash.Area, imageNum uint8, swapType SwapType) error {
	align, err := effectiveAlign(area)
	if err != nil {
		return err
	}
	b := PackSwapInfo(imageNum, swapType)
	log.WithFields(log.Fields{
		"image_num": imageNum,
		"swap_type": swapType.String(),
	}).Debug("writing swap info")
	return writeAlignedByte(area, SwapInfoOff(area, align), b)
}

// WriteMagic writes the canonical magic to its fixed field at the end of
// the area (§6.2's boot_write_magic). Unlike the single-byte fields, the
// magic is never padded: its length already equals MagicSize.
func WriteMagic(area flash.Area) error {
	log.Debug("writing trailer magic")
	if err := area.Write(magicOff(area), canonicalMagic[:]); err != nil {
		return ErrFlash.wrapErr(err)
	}
	return nil
}
