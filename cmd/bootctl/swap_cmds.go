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

package main

import (
	"github.com/spf13/cobra"

	"mynewt.apache.org/bootutil/bootutil"
	"mynewt.apache.org/bootutil/flash"
	"mynewt.apache.org/bootutil/hooks"
	"mynewt.apache.org/bootutil/util"
)

func openMap(cmd *cobra.Command) flash.Map {
	if mapFile == "" {
		nmUsage(cmd, util.NewNewtError("--map is required"))
	}
	m, err := flash.ReadMapFile(mapFile)
	if err != nil {
		nmUsage(cmd, err)
	}
	return m
}

func newSwapTypeCmd() *cobra.Command {
	var imageIndex int
	var hookCmd string

	cmd := &cobra.Command{
		Use:   "swap-type",
		Short: "Print the swap type this image pair decides for the next boot",
		Run: func(cmd *cobra.Command, args []string) {
			m := openMap(cmd)

			var hook bootutil.PrimaryStateHook
			if hookCmd != "" {
				hook = hooks.ExternalHook{CmdLine: hookCmd}
			}

			swapType, err := bootutil.SwapTypeMulti(m, imageIndex, hook)
			if err != nil {
				nmUsage(cmd, err)
			}

			util.StatusMessage(util.VERBOSITY_SILENT, "%s\n", swapType.String())
		},
	}

	cmd.Flags().IntVar(&imageIndex, "index", 0, "image pair index")
	cmd.Flags().StringVar(&hookCmd, "hook", "",
		"shell command consulted for the primary slot's state before the default read")

	return cmd
}

func newSetPendingCmd() *cobra.Command {
	var imageIndex int
	var permanent bool

	cmd := &cobra.Command{
		Use:   "set-pending",
		Short: "Stage the secondary slot to be installed on the next boot",
		Run: func(cmd *cobra.Command, args []string) {
			m := openMap(cmd)

			if err := bootutil.SetPendingMulti(m, imageIndex, permanent); err != nil {
				nmUsage(cmd, err)
			}

			util.StatusMessage(util.VERBOSITY_DEFAULT, "secondary slot staged\n")
		},
	}

	cmd.Flags().IntVar(&imageIndex, "index", 0, "image pair index")
	cmd.Flags().BoolVar(&permanent, "permanent", false,
		"install permanently rather than as a one-boot test")

	return cmd
}

func newSetConfirmedCmd() *cobra.Command {
	var imageIndex int

	cmd := &cobra.Command{
		Use:   "set-confirmed",
		Short: "Confirm the currently-running image",
		Run: func(cmd *cobra.Command, args []string) {
			m := openMap(cmd)

			if err := bootutil.SetConfirmedMulti(m, imageIndex); err != nil {
				nmUsage(cmd, err)
			}

			util.StatusMessage(util.VERBOSITY_DEFAULT, "primary slot confirmed\n")
		},
	}

	cmd.Flags().IntVar(&imageIndex, "index", 0, "image pair index")

	return cmd
}
