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

// Command bootctl exercises the in-slot trailer state machine against a
// JSON-described flash map, for manual testing, provisioning scripts, and
// CI smoke tests — the role a serial-connected newtmgr plays against a
// real device, here aimed at a local flash-image file instead.
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mynewt.apache.org/bootutil/util"
)

var (
	mapFile  string
	verbose  bool
	logLevel string
)

func nmUsage(cmd *cobra.Command, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
	}
	if cmd != nil {
		cmd.Usage()
	}
	os.Exit(1)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bootctl",
		Short: "Inspect and drive a dual-slot image trailer state machine",
	}

	root.PersistentFlags().StringVar(&mapFile, "map", "",
		"path to the JSON flash map file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose status output")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"logrus level: debug, info, warn, error")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		lvl, err := log.ParseLevel(logLevel)
		if err != nil {
			return util.FmtNewtError("invalid --log-level %q: %s", logLevel, err)
		}
		verbosity := util.VERBOSITY_DEFAULT
		if verbose {
			verbosity = util.VERBOSITY_VERBOSE
		}
		return util.Init(lvl, "", verbosity)
	}

	root.AddCommand(newSwapTypeCmd())
	root.AddCommand(newSetPendingCmd())
	root.AddCommand(newSetConfirmedCmd())
	root.AddCommand(newDumpTrailerCmd())
	root.AddCommand(newInitMapCmd())
	root.AddCommand(newStageCmd())

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
