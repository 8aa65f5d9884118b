// Copyright 2023 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bufio"
	"os"

	"github.com/maruel/thermview/thermaltest"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var fakeCmd = &cobra.Command{
	Use:   "fake <output.t16>",
	Short: "Write a synthetic raw recording, for testing without a camera",
	Args:  cobra.ExactArgs(1),
	RunE:  runFake,
}

func init() {
	addGeometryFlags(fakeCmd.Flags())
	fakeCmd.Flags().Int("frames", 24, "number of frames")
	rootCmd.AddCommand(fakeCmd)
}

func runFake(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("frames")
	cmd.SilenceUsage = true
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	l := thermaltest.New(config.GetInt("width"), config.GetInt("height"))
	logrus.WithFields(logrus.Fields{"path": args[0], "frames": n}).Info("Writing synthetic recording")
	err = l.Write(w, n)
	if err == nil {
		err = w.Flush()
	}
	if err2 := f.Close(); err == nil {
		err = err2
	}
	return err
}
