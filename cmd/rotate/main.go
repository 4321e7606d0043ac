// Copyright (c) Picsafe. All rights reserved.
// Licensed under the MIT License.

// Command rotate losslessly rotates JPEG and PNG images in place, backing
// up the original before every replacement.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/picsafe/rotate/cliout"
	"github.com/picsafe/rotate/version"
)

// Set via ldflags at build time.
var (
	buildVersion = "0.0.0-dev"
	buildDate    = "unknown"
	gitCommit    = "unknown"
)

func main() {
	info := version.New("rotate")
	info.Version = buildVersion
	info.BuildDate = buildDate
	info.GitCommit = gitCommit

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(info)
	if err := root.ExecuteContext(ctx); err != nil {
		cliout.Error("%v", err)
		os.Exit(1)
	}
}
