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

package flash

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"mynewt.apache.org/bootutil/util"
)

// FaultFunc lets a test or CLI simulate a flash driver failure or an
// unreachable device. It is consulted before every Read/Write/Erase; a
// non-nil return aborts the operation with that error.
type FaultFunc func(op string, off uint32, length uint32) error

// SimArea is a memory- or file-backed Area, standing in for a real flash
// driver the way the qcow2 example's BlockBackend stands in for a real
// disk: both wrap an addressable byte range behind the same read/write
// contract a production driver would expose.
type SimArea struct {
	store          byteStore
	size           uint32
	writeAlignment uint32
	erasedValue    byte
	fault          FaultFunc

	// AssertEraseBeforeReprogram, when true, panics if a byte is written a
	// second time without an intervening erase — a development aid for
	// verifying the "never overwrite without erasing first" invariant
	// trailer writes depend on (§3.5, §5). Off by default: it's a
	// correctness aid for this repository's own tests, not a behavior a
	// production flash driver is expected to enforce.
	AssertEraseBeforeReprogram bool

	programmed []bool
}

type byteStore interface {
	readAt(off uint32, buf []byte) error
	writeAt(off uint32, buf []byte) error
}

type memStore struct {
	buf []byte
}

func (s *memStore) readAt(off uint32, buf []byte) error {
	copy(buf, s.buf[off:int(off)+len(buf)])
	return nil
}

func (s *memStore) writeAt(off uint32, buf []byte) error {
	copy(s.buf[off:int(off)+len(buf)], buf)
	return nil
}

type fileStore struct {
	f    *os.File
	base int64
}

func (s *fileStore) readAt(off uint32, buf []byte) error {
	_, err := s.f.ReadAt(buf, s.base+int64(off))
	return err
}

func (s *fileStore) writeAt(off uint32, buf []byte) error {
	_, err := s.f.WriteAt(buf, s.base+int64(off))
	return err
}

// NewMemArea returns a SimArea backed by an in-memory buffer, pre-filled
// with erasedValue — the Go equivalent of a freshly-erased slot (T1).
func NewMemArea(size uint32, writeAlignment uint32, erasedValue byte) *SimArea {
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = erasedValue
	}

	return &SimArea{
		store:          &memStore{buf: buf},
		size:           size,
		writeAlignment: writeAlignment,
		erasedValue:    erasedValue,
		programmed:     make([]bool, size),
	}
}

// NewFileArea returns a SimArea whose [offset, offset+size) byte range
// within f is treated as one flash area. f is not erased by this call; use
// Erase to reset the range.
func NewFileArea(f *os.File, offset int64, size uint32, writeAlignment uint32,
	erasedValue byte) *SimArea {

	return &SimArea{
		store:          &fileStore{f: f, base: offset},
		size:           size,
		writeAlignment: writeAlignment,
		erasedValue:    erasedValue,
		programmed:     make([]bool, size),
	}
}

// SetFault installs (or clears, with nil) a fault injector.
func (a *SimArea) SetFault(f FaultFunc) {
	a.fault = f
}

func (a *SimArea) Size() uint32           { return a.size }
func (a *SimArea) WriteAlignment() uint32 { return a.writeAlignment }
func (a *SimArea) ErasedValue() byte      { return a.erasedValue }

func (a *SimArea) checkBounds(off, length uint32) error {
	if uint64(off)+uint64(length) > uint64(a.size) {
		return util.FmtNewtError(
			"flash access out of bounds: off=%d len=%d area_size=%d",
			off, length, a.size)
	}
	return nil
}

func (a *SimArea) Read(off uint32, buf []byte) error {
	if a.fault != nil {
		if err := a.fault("read", off, uint32(len(buf))); err != nil {
			return err
		}
	}
	if err := a.checkBounds(off, uint32(len(buf))); err != nil {
		return err
	}

	return a.store.readAt(off, buf)
}

func (a *SimArea) Write(off uint32, buf []byte) error {
	if a.fault != nil {
		if err := a.fault("write", off, uint32(len(buf))); err != nil {
			return err
		}
	}
	if err := a.checkBounds(off, uint32(len(buf))); err != nil {
		return err
	}
	if a.writeAlignment == 0 {
		return util.NewNewtError("flash area does not support writes")
	}
	if off%a.writeAlignment != 0 || uint32(len(buf))%a.writeAlignment != 0 {
		return util.FmtNewtError(
			"unaligned flash write: off=%d len=%d align=%d",
			off, len(buf), a.writeAlignment)
	}

	for i := 0; i < len(buf); i++ {
		idx := int(off) + i
		if a.AssertEraseBeforeReprogram && a.programmed[idx] {
			panic(fmt.Sprintf(
				"flash: byte at offset %d written twice without erase", idx))
		}
		a.programmed[idx] = true
	}

	log.WithFields(log.Fields{"off": off, "len": len(buf)}).Debug("flash write")
	return a.store.writeAt(off, buf)
}

func (a *SimArea) Erase(off uint32, length uint32) error {
	if a.fault != nil {
		if err := a.fault("erase", off, length); err != nil {
			return err
		}
	}
	if err := a.checkBounds(off, length); err != nil {
		return err
	}

	fill := make([]byte, length)
	for i := range fill {
		fill[i] = a.erasedValue
	}

	for i := uint32(0); i < length; i++ {
		a.programmed[off+i] = false
	}

	log.WithFields(log.Fields{"off": off, "len": length}).Debug("flash erase")
	return a.store.writeAt(off, fill)
}
