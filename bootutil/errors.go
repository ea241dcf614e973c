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
	"fmt"

	log "github.com/sirupsen/logrus"

	"mynewt.apache.org/bootutil/util"
)

// Code is one of the stable integer error identities from §7, kept
// numerically identical to BOOT_EFLASH/BOOT_EBADIMAGE/BOOT_EBADVECT in the
// original C sources so tooling that talks to both a C bootloader and this
// package agree on error identity.
type Code int

const (
	CodeFlash    Code = 1
	CodeBadImage Code = 2
	CodeBadVect  Code = 3
)

// Error is a *util.NewtError tagged with one of the §7 error codes.
type Error struct {
	*util.NewtError
	code Code
}

// Code returns the error's stable category.
func (e *Error) Code() Code {
	return e.code
}

type errKind struct {
	code Code
	name string
}

var (
	// ErrFlash signals that a flash driver operation (read, write, erase,
	// or open) failed.
	ErrFlash = errKind{code: CodeFlash, name: "EFLASH"}

	// ErrBadImage signals a BAD trailer magic where only GOOD/UNSET is
	// acceptable, or a slot erased during SetPendingMulti.
	ErrBadImage = errKind{code: CodeBadImage, name: "EBADIMAGE"}

	// ErrBadVect signals a BAD trailer magic in the primary slot during
	// SetConfirmedMulti.
	ErrBadVect = errKind{code: CodeBadVect, name: "EBADVECT"}
)

func (k errKind) wrap(msg string) *Error {
	log.WithField("code", k.name).Warn(msg)
	return &Error{NewtError: util.NewNewtError(msg), code: k.code}
}

func (k errKind) wrapf(format string, args ...interface{}) *Error {
	return k.wrap(fmt.Sprintf(format, args...))
}

func (k errKind) wrapErr(parent error) *Error {
	log.WithField("code", k.name).Warn(parent.Error())
	return &Error{NewtError: util.ChildNewtError(parent), code: k.code}
}

// Is reports whether err is a *Error carrying this kind's code. Every call
// to wrap/wrapf/wrapErr mints a fresh *Error, so callers compare by code
// via this helper rather than by identity.
func (k errKind) Is(err error) bool {
	be, ok := err.(*Error)
	return ok && be.code == k.code
}
