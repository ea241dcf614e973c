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
	"testing"

	"mynewt.apache.org/bootutil/bootutil"
	"mynewt.apache.org/bootutil/flash"
)

// T4: every single-byte trailer field write occupies exactly testAlign
// bytes, padded with the area's erased value.
func TestWriteImageOkPadding(t *testing.T) {
	area := flash.NewMemArea(testSlotSize, testAlign, testErasedValue)

	if err := bootutil.WriteImageOk(area); err != nil {
		t.Fatalf("WriteImageOk: %s", err)
	}

	off := area.Size() - bootutil.MagicSize - testAlign
	buf := make([]byte, testAlign)
	if err := area.Read(off, buf); err != nil {
		t.Fatalf("Read: %s", err)
	}

	if buf[0] != 0x01 {
		t.Fatalf("image_ok byte = 0x%02x, want 0x01", buf[0])
	}
	for i, b := range buf[1:] {
		if b != testErasedValue {
			t.Errorf("padding byte %d = 0x%02x, want erased value 0x%02x",
				i+1, b, testErasedValue)
		}
	}
}

func TestWriteSwapInfoPadding(t *testing.T) {
	area := flash.NewMemArea(testSlotSize, testAlign, testErasedValue)

	if err := bootutil.WriteSwapInfo(area, 3, bootutil.SwapTypePerm); err != nil {
		t.Fatalf("WriteSwapInfo: %s", err)
	}

	off := bootutil.SwapInfoOff(area, testAlign)
	buf := make([]byte, testAlign)
	if err := area.Read(off, buf); err != nil {
		t.Fatalf("Read: %s", err)
	}

	wantByte := bootutil.PackSwapInfo(3, bootutil.SwapTypePerm)
	if buf[0] != wantByte {
		t.Fatalf("swap_info byte = 0x%02x, want 0x%02x", buf[0], wantByte)
	}
	for i, b := range buf[1:] {
		if b != testErasedValue {
			t.Errorf("padding byte %d = 0x%02x, want erased value 0x%02x",
				i+1, b, testErasedValue)
		}
	}
}

func TestWriteMagicOccupiesExactlySixteenBytes(t *testing.T) {
	area := flash.NewMemArea(testSlotSize, testAlign, testErasedValue)

	if err := bootutil.WriteMagic(area); err != nil {
		t.Fatalf("WriteMagic: %s", err)
	}

	state, err := bootutil.ReadSwapState(area)
	if err != nil {
		t.Fatalf("ReadSwapState: %s", err)
	}
	if state.Magic != bootutil.MagicGood {
		t.Fatalf("magic = %s, want good", state.Magic)
	}

	// The byte immediately before the magic field must be untouched
	// (still erased), proving the magic write didn't spill past its
	// fixed 16-byte field.
	before := make([]byte, 1)
	if err := area.Read(area.Size()-bootutil.MagicSize-1, before); err != nil {
		t.Fatalf("Read: %s", err)
	}
	if before[0] != testErasedValue {
		t.Errorf("byte before magic = 0x%02x, want erased value 0x%02x",
			before[0], testErasedValue)
	}
}

func TestReadFlagUnsetAndBad(t *testing.T) {
	area := flash.NewMemArea(testSlotSize, testAlign, testErasedValue)

	off := bootutil.SwapInfoOff(area, testAlign)
	flagState, err := bootutil.ReadFlag(area, off)
	if err != nil {
		t.Fatalf("ReadFlag: %s", err)
	}
	if flagState != bootutil.FlagUnset {
		t.Fatalf("flag on erased area = %s, want unset", flagState)
	}

	if err := bootutil.WriteTrailerFlag(area, off, 0x07); err != nil {
		t.Fatalf("WriteTrailerFlag: %s", err)
	}
	flagState, err = bootutil.ReadFlag(area, off)
	if err != nil {
		t.Fatalf("ReadFlag: %s", err)
	}
	if flagState != bootutil.FlagBad {
		t.Fatalf("flag after writing 0x07 = %s, want bad", flagState)
	}
}
