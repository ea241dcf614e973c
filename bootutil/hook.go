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

import "errors"

// ErrUseDefault is the sentinel a PrimaryStateHook returns to decline
// overriding the primary-slot read for a given image index, deferring to
// the default flash-backed read (§9 "Hook interception").
var ErrUseDefault = errors.New("bootutil: hook declines, use default primary read")

// PrimaryStateHook lets a platform substitute its own source of truth for
// a primary slot's trailer state — for example, one backed by a status
// area rather than the in-slot trailer (§9's SWAP_USING_STATUS variant
// reads this way). SwapTypeMulti consults it before falling back to
// ReadSwapStateByID.
type PrimaryStateHook interface {
	// ReadPrimaryState returns the primary slot's state for imageIndex.
	// Returning ErrUseDefault tells the caller to perform the default
	// read instead; any other non-nil error is treated as fatal and
	// propagated as a PANIC by SwapTypeMulti.
	ReadPrimaryState(imageIndex int) (SwapState, error)
}
