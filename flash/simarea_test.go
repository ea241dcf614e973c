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

package flash_test

import (
	"errors"
	"testing"

	"mynewt.apache.org/bootutil/flash"
)

func TestMemAreaFreshlyErased(t *testing.T) {
	area := flash.NewMemArea(64, 8, 0xff)

	buf := make([]byte, 64)
	if err := area.Read(0, buf); err != nil {
		t.Fatalf("Read: %s", err)
	}
	for i, b := range buf {
		if b != 0xff {
			t.Fatalf("byte %d = 0x%02x, want 0xff", i, b)
		}
	}
}

func TestMemAreaUnalignedWriteRejected(t *testing.T) {
	area := flash.NewMemArea(64, 8, 0xff)

	if err := area.Write(1, []byte{0x01}); err == nil {
		t.Fatal("expected error for unaligned offset")
	}
	if err := area.Write(0, []byte{0x01, 0x02, 0x03}); err == nil {
		t.Fatal("expected error for unaligned length")
	}
}

func TestMemAreaFaultInjection(t *testing.T) {
	area := flash.NewMemArea(64, 8, 0xff)
	wantErr := errors.New("injected failure")
	area.SetFault(func(op string, off, length uint32) error {
		if op == "read" {
			return wantErr
		}
		return nil
	})

	if err := area.Read(0, make([]byte, 8)); err != wantErr {
		t.Fatalf("Read error = %v, want %v", err, wantErr)
	}
	if err := area.Write(0, make([]byte, 8)); err != nil {
		t.Fatalf("Write should not be faulted: %s", err)
	}
}

func TestMemAreaAssertEraseBeforeReprogramPanics(t *testing.T) {
	area := flash.NewMemArea(64, 8, 0xff)
	area.AssertEraseBeforeReprogram = true

	if err := area.Write(0, make([]byte, 8)); err != nil {
		t.Fatalf("first write: %s", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on reprogram without erase")
		}
	}()
	area.Write(0, make([]byte, 8))
}

func TestMemAreaEraseResetsProgrammedTracking(t *testing.T) {
	area := flash.NewMemArea(64, 8, 0xff)
	area.AssertEraseBeforeReprogram = true

	if err := area.Write(0, make([]byte, 8)); err != nil {
		t.Fatalf("write: %s", err)
	}
	if err := area.Erase(0, 8); err != nil {
		t.Fatalf("erase: %s", err)
	}
	if err := area.Write(0, make([]byte, 8)); err != nil {
		t.Fatalf("rewrite after erase should succeed: %s", err)
	}
}

func TestMemAreaOutOfBounds(t *testing.T) {
	area := flash.NewMemArea(64, 8, 0xff)
	if err := area.Read(60, make([]byte, 8)); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
}
