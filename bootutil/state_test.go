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

	"github.com/google/go-cmp/cmp"

	"mynewt.apache.org/bootutil/bootutil"
	"mynewt.apache.org/bootutil/flash"
)

// T1
func TestReadSwapStateFreshlyErased(t *testing.T) {
	for _, erased := range []byte{0xff, 0x00} {
		area := flash.NewMemArea(testSlotSize, testAlign, erased)

		state, err := bootutil.ReadSwapState(area)
		if err != nil {
			t.Fatalf("erased_value=0x%02x: unexpected error: %s", erased, err)
		}

		want := bootutil.SwapState{
			Magic:    bootutil.MagicUnset,
			SwapType: bootutil.SwapTypeNone,
			CopyDone: bootutil.FlagUnset,
			ImageOk:  bootutil.FlagUnset,
			ImageNum: 0,
		}
		if diff := cmp.Diff(want, state); diff != "" {
			t.Errorf("erased_value=0x%02x: state mismatch (-want +got):\n%s",
				erased, diff)
		}
	}
}

func TestReadSwapStateByIDOpenError(t *testing.T) {
	o := memOpener{}
	if _, err := bootutil.ReadSwapStateByID(o, flash.PrimaryID(0)); err == nil {
		t.Fatal("expected error for unopenable area")
	}
}
