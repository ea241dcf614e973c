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
)

// T5
func TestDecodeMagicByteExact(t *testing.T) {
	good := []byte{
		0x77, 0xc2, 0x95, 0xf3,
		0x60, 0xd2, 0xef, 0x7f,
		0x35, 0x52, 0x50, 0x0f,
		0x2c, 0xb6, 0x79, 0x80,
	}
	if got := bootutil.DecodeMagic(good); got != bootutil.MagicGood {
		t.Fatalf("canonical magic decoded as %s, want good", got)
	}

	bad := append([]byte{}, good...)
	bad[0] ^= 0xff
	if got := bootutil.DecodeMagic(bad); got != bootutil.MagicBad {
		t.Fatalf("corrupted magic decoded as %s, want bad", got)
	}
}

func TestDecodeMagicFromFlashUnset(t *testing.T) {
	for _, erased := range []byte{0xff, 0x00} {
		buf := make([]byte, bootutil.MagicSize)
		for i := range buf {
			buf[i] = erased
		}
		if got := bootutil.DecodeMagicFromFlash(buf, erased); got != bootutil.MagicUnset {
			t.Fatalf("erased_value=0x%02x: got %s, want unset", erased, got)
		}
	}
}

// T6
func TestSwapInfoRoundTrip(t *testing.T) {
	for imageNum := uint8(0); imageNum < 16; imageNum++ {
		for swapType := uint8(0); swapType < 16; swapType++ {
			packed := bootutil.PackSwapInfo(imageNum, bootutil.SwapType(swapType))
			gotNum, gotType := bootutil.UnpackSwapInfo(packed)
			if gotNum != imageNum || uint8(gotType) != swapType {
				t.Fatalf("round trip failed for (%d,%d): got (%d,%d)",
					imageNum, swapType, gotNum, gotType)
			}
		}
	}
}

func TestDecodeFlag(t *testing.T) {
	cases := []struct {
		b, erased byte
		want      bootutil.FlagState
	}{
		{0xff, 0xff, bootutil.FlagUnset},
		{0x01, 0xff, bootutil.FlagSet},
		{0x07, 0xff, bootutil.FlagBad},
		{0x00, 0x00, bootutil.FlagUnset},
		{0x01, 0x00, bootutil.FlagSet},
	}
	for _, c := range cases {
		if got := bootutil.DecodeFlag(c.b, c.erased); got != c.want {
			t.Errorf("DecodeFlag(0x%02x, 0x%02x) = %s, want %s",
				c.b, c.erased, got, c.want)
		}
	}
}

func TestBufferIsFilled(t *testing.T) {
	if bootutil.BufferIsFilled(nil, 0xff) {
		t.Error("nil buffer must not be considered filled")
	}
	if bootutil.BufferIsFilled([]byte{}, 0xff) {
		t.Error("empty buffer must not be considered filled")
	}
	if !bootutil.BufferIsFilled([]byte{0xff, 0xff, 0xff}, 0xff) {
		t.Error("uniform buffer should be filled")
	}
	if bootutil.BufferIsFilled([]byte{0xff, 0x00, 0xff}, 0xff) {
		t.Error("non-uniform buffer must not be considered filled")
	}
}
