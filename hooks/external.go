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

// Package hooks provides bootutil.PrimaryStateHook implementations.
package hooks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	shellquote "github.com/kballard/go-shellquote"
	"github.com/kardianos/osext"
	log "github.com/sirupsen/logrus"

	"mynewt.apache.org/bootutil/bootutil"
	"mynewt.apache.org/bootutil/util"
)

// wireState is the on-the-wire shape an external hook command prints to
// stdout: a JSON object whose fields name-match bootutil.SwapState.
type wireState struct {
	Magic    string `json:"magic"`
	SwapType string `json:"swap_type"`
	CopyDone string `json:"copy_done"`
	ImageOk  string `json:"image_ok"`
	ImageNum uint8  `json:"image_num"`
}

var magicNames = map[string]bootutil.MagicState{
	"good":  bootutil.MagicGood,
	"unset": bootutil.MagicUnset,
	"bad":   bootutil.MagicBad,
}

var flagNames = map[string]bootutil.FlagState{
	"unset": bootutil.FlagUnset,
	"set":   bootutil.FlagSet,
	"bad":   bootutil.FlagBad,
}

var swapTypeNames = map[string]bootutil.SwapType{
	"none":   bootutil.SwapTypeNone,
	"test":   bootutil.SwapTypeTest,
	"perm":   bootutil.SwapTypePerm,
	"revert": bootutil.SwapTypeRevert,
	"fail":   bootutil.SwapTypeFail,
	"panic":  bootutil.SwapTypePanic,
}

func (w wireState) toSwapState() (bootutil.SwapState, error) {
	magic, ok := magicNames[w.Magic]
	if !ok {
		return bootutil.SwapState{}, util.FmtNewtError(
			"external hook: unrecognized magic state %q", w.Magic)
	}
	swapType, ok := swapTypeNames[w.SwapType]
	if !ok {
		return bootutil.SwapState{}, util.FmtNewtError(
			"external hook: unrecognized swap type %q", w.SwapType)
	}
	copyDone, ok := flagNames[w.CopyDone]
	if !ok {
		return bootutil.SwapState{}, util.FmtNewtError(
			"external hook: unrecognized copy_done state %q", w.CopyDone)
	}
	imageOk, ok := flagNames[w.ImageOk]
	if !ok {
		return bootutil.SwapState{}, util.FmtNewtError(
			"external hook: unrecognized image_ok state %q", w.ImageOk)
	}

	return bootutil.SwapState{
		Magic:    magic,
		SwapType: swapType,
		CopyDone: copyDone,
		ImageOk:  imageOk,
		ImageNum: w.ImageNum,
	}, nil
}

// ExternalHook implements bootutil.PrimaryStateHook by shelling out to a
// platform-supplied command: the command is expected to print a wireState
// JSON document to stdout and exit 0, or exit nonzero to decline (the
// hook then reports bootutil.ErrUseDefault).
type ExternalHook struct {
	// CmdLine is a shell-style command string, e.g. "read-primary-state
	// --device $BOOT_DEV". Environment variables are expanded from this
	// process's own environment before the command runs; the image index
	// is not among them, and reaches the command only through the
	// BOOTCTL_IMAGE_INDEX variable set in the command's environment.
	CmdLine string
}

// ReadPrimaryState implements bootutil.PrimaryStateHook.
func (h ExternalHook) ReadPrimaryState(imageIndex int) (bootutil.SwapState, error) {
	toks, err := shellquote.Split(h.CmdLine)
	if err != nil {
		return bootutil.SwapState{}, util.FmtNewtError(
			"external hook: invalid command string %q: %s", h.CmdLine, err)
	}
	if len(toks) == 0 {
		return bootutil.SwapState{}, bootutil.ErrUseDefault
	}

	for i, tok := range toks {
		toks[i] = os.ExpandEnv(tok)
	}

	// A sibling hook script bundled next to this binary takes priority
	// over one resolved from $PATH.
	if exeDir, err := osext.ExecutableFolder(); err == nil {
		sibling := filepath.Join(exeDir, toks[0])
		if _, statErr := os.Stat(sibling); statErr == nil {
			toks[0] = sibling
		}
	}
	if resolved, err := exec.LookPath(toks[0]); err == nil {
		toks[0] = resolved
	}

	cmd := exec.Command(toks[0], toks[1:]...)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("BOOTCTL_IMAGE_INDEX=%d", imageIndex))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	util.StatusMessage(util.VERBOSITY_VERBOSE,
		"invoking primary-state hook: %s\n", h.CmdLine)

	if err := cmd.Run(); err != nil {
		log.WithFields(log.Fields{
			"cmd":    h.CmdLine,
			"stderr": stderr.String(),
		}).Debug("primary-state hook declined or failed, using default read")
		return bootutil.SwapState{}, bootutil.ErrUseDefault
	}

	var w wireState
	if err := json.Unmarshal(stdout.Bytes(), &w); err != nil {
		return bootutil.SwapState{}, util.FmtNewtError(
			"external hook: malformed output: %s", err)
	}

	return w.toSwapState()
}
