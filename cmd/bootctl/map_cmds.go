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

	"mynewt.apache.org/bootutil/artifact/image"
	"mynewt.apache.org/bootutil/bootutil"
	"mynewt.apache.org/bootutil/flash"
	"mynewt.apache.org/bootutil/util"
)

// areaNameByID finds the DescribedArea name whose Id matches id, needed
// because flash.Map.StageImage addresses areas by name while the rest of
// this command set addresses them by the well-known PRIMARY(i)/
// SECONDARY(i) IDs.
func areaNameByID(m flash.Map, id int) (string, bool) {
	for _, a := range m.SortedAreas() {
		if a.Id == id {
			return a.Name, true
		}
	}
	return "", false
}

func newDumpTrailerCmd() *cobra.Command {
	var imageIndex int
	var slot string

	cmd := &cobra.Command{
		Use:   "dump-trailer",
		Short: "Print the decoded trailer of one slot",
		Run: func(cmd *cobra.Command, args []string) {
			m := openMap(cmd)

			var areaID int
			switch slot {
			case "primary":
				areaID = flash.PrimaryID(imageIndex)
			case "secondary":
				areaID = flash.SecondaryID(imageIndex)
			default:
				nmUsage(cmd, util.FmtNewtError(
					"--slot must be \"primary\" or \"secondary\", got %q", slot))
			}

			state, err := bootutil.ReadSwapStateByID(m, areaID)
			if err != nil {
				nmUsage(cmd, err)
			}

			util.StatusMessage(util.VERBOSITY_SILENT,
				"magic=%s swap_type=%s copy_done=%s image_ok=%s image_num=%d\n",
				state.Magic, state.SwapType, state.CopyDone, state.ImageOk,
				state.ImageNum)
		},
	}

	cmd.Flags().IntVar(&imageIndex, "index", 0, "image pair index")
	cmd.Flags().StringVar(&slot, "slot", "primary", "primary or secondary")

	return cmd
}

func newInitMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-map",
		Short: "Create a fresh, fully-erased backing file for a flash map",
		Run: func(cmd *cobra.Command, args []string) {
			m := openMap(cmd)

			if err := m.InitBackingFile(); err != nil {
				nmUsage(cmd, err)
			}

			util.StatusMessage(util.VERBOSITY_DEFAULT,
				"initialized %q\n", m.BackingFile)
		},
	}

	return cmd
}

func newStageCmd() *cobra.Command {
	var imageIndex int
	var imagePath string

	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Copy a built image into the secondary slot ahead of set-pending",
		Run: func(cmd *cobra.Command, args []string) {
			m := openMap(cmd)

			if imagePath == "" {
				nmUsage(cmd, util.NewNewtError("--image is required"))
			}

			img, err := image.ReadImage(imagePath)
			if err != nil {
				nmUsage(cmd, util.FmtChildNewtError(err,
					"%q does not parse as a valid image", imagePath))
			}
			if _, err := img.Hash(); err != nil {
				nmUsage(cmd, util.FmtChildNewtError(err,
					"%q has no recoverable hash TLV", imagePath))
			}

			name, ok := areaNameByID(m, flash.SecondaryID(imageIndex))
			if !ok {
				nmUsage(cmd, util.FmtNewtError(
					"flash map has no area for secondary slot of index %d",
					imageIndex))
			}

			area := m.Areas[name]
			if fits, err := img.FitsArea(area.Size); err != nil {
				nmUsage(cmd, err)
			} else if !fits {
				nmUsage(cmd, util.FmtNewtError(
					"image %q overflows secondary area %q (%d bytes)",
					imagePath, name, area.Size))
			}

			if err := m.StageImage(name, imagePath); err != nil {
				nmUsage(cmd, err)
			}

			util.StatusMessage(util.VERBOSITY_DEFAULT,
				"staged %q into %q\n", imagePath, name)
		},
	}

	cmd.Flags().IntVar(&imageIndex, "index", 0, "image pair index")
	cmd.Flags().StringVar(&imagePath, "image", "", "path to the built image file")

	return cmd
}
