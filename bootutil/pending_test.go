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

// Scenario 4: confirm-after-boot, plus T7 idempotence.
func TestSetConfirmedMultiIdempotent(t *testing.T) {
	o, primary, _ := newTestOpener()

	if err := bootutil.WriteMagic(primary); err != nil {
		t.Fatalf("WriteMagic: %s", err)
	}

	if err := bootutil.SetConfirmedMulti(o, 0); err != nil {
		t.Fatalf("first SetConfirmedMulti: %s", err)
	}
	imageOk, err := bootutil.ReadImageOk(primary)
	if err != nil {
		t.Fatalf("ReadImageOk: %s", err)
	}
	if imageOk != bootutil.FlagSet {
		t.Fatalf("image_ok = %s after confirm, want set", imageOk)
	}

	primary.AssertEraseBeforeReprogram = true
	if err := bootutil.SetConfirmedMulti(o, 0); err != nil {
		t.Fatalf("second SetConfirmedMulti should be a no-op, got error: %s", err)
	}
}

func TestSetConfirmedMultiUnsetIsNoop(t *testing.T) {
	o, _, _ := newTestOpener()

	if err := bootutil.SetConfirmedMulti(o, 0); err != nil {
		t.Fatalf("SetConfirmedMulti on erased primary: %s", err)
	}
}

func TestSetConfirmedMultiBadMagic(t *testing.T) {
	o, primary, _ := newTestOpener()

	if err := primary.Write(primary.Size()-bootutil.MagicSize,
		[]byte("0123456789abcdef")); err != nil {
		t.Fatalf("write bad magic: %s", err)
	}

	err := bootutil.SetConfirmedMulti(o, 0)
	if err == nil {
		t.Fatal("expected EBADVECT for corrupt primary magic")
	}
	be, ok := err.(*bootutil.Error)
	if !ok || be.Code() != bootutil.CodeBadVect {
		t.Fatalf("got %v, want an *Error with CodeBadVect", err)
	}
}

// Scenario 5: corrupt pending.
func TestSetPendingMultiCorruptSecondary(t *testing.T) {
	o, _, secondary := newTestOpener()

	if err := secondary.Write(secondary.Size()-bootutil.MagicSize,
		[]byte("\xad\xde\xef\xbexxxxxxxxxxxx")); err != nil {
		t.Fatalf("write corrupt magic: %s", err)
	}

	err := bootutil.SetPendingMulti(o, 0, false)
	if err == nil {
		t.Fatal("expected EBADIMAGE for corrupt secondary magic")
	}
	be, ok := err.(*bootutil.Error)
	if !ok || be.Code() != bootutil.CodeBadImage {
		t.Fatalf("got %v, want an *Error with CodeBadImage", err)
	}

	state, err := bootutil.ReadSwapState(secondary)
	if err != nil {
		t.Fatalf("ReadSwapState after erase: %s", err)
	}
	if state.Magic != bootutil.MagicUnset {
		t.Errorf("secondary magic = %s after corrupt-pending erase, want unset",
			state.Magic)
	}
}

// T8
func TestSetPendingMultiAlreadyGoodIsNoop(t *testing.T) {
	o, _, secondary := newTestOpener()

	if err := bootutil.WriteMagic(secondary); err != nil {
		t.Fatalf("WriteMagic: %s", err)
	}

	secondary.AssertEraseBeforeReprogram = true
	if err := bootutil.SetPendingMulti(o, 0, false); err != nil {
		t.Fatalf("SetPendingMulti on already-pending secondary: %s", err)
	}
}

func TestLegacyShimsForwardToIndexZero(t *testing.T) {
	o, primary, _ := newTestOpener()

	if err := bootutil.SetPending(o, true); err != nil {
		t.Fatalf("SetPending: %s", err)
	}

	swapType, err := bootutil.SwapType(o, nil)
	if err != nil {
		t.Fatalf("SwapType: %s", err)
	}
	if swapType != bootutil.SwapTypePerm {
		t.Fatalf("swap type = %s, want perm", swapType)
	}

	if err := bootutil.WriteMagic(primary); err != nil {
		t.Fatalf("WriteMagic: %s", err)
	}
	if err := bootutil.SetConfirmed(o); err != nil {
		t.Fatalf("SetConfirmed: %s", err)
	}
}
