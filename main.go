//go:build !js

package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/seqsense/pcdviewer/desktop"
	"github.com/seqsense/pcdviewer/viewer"
	"github.com/seqsense/pcdviewer/xyzrgb"
)

const windowTitle = "Point Cloud Display Window"

var errUsage = errors.New("usage: pcdviewer [flags] <points_file>")

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, errUsage) {
			slog.Error("exiting", "error", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("pcdviewer", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file")
	exportPath := fs.String("export", "", "write the loaded points as a PCD file and exit")
	snapshotPath := fs.String("snapshot", "", "render one frame to a PNG file and exit")
	verbose := fs.Bool("v", false, "enable debug logging")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), errUsage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}
	path := fs.Arg(0)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := viewer.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	cloud, err := xyzrgb.LoadFile(path)
	if err != nil {
		return fmt.Errorf("problem loading points from %q: %w", path, err)
	}
	logger.Info("points successfully loaded", "file", path, "points", cloud.Len())
	if min, max, err := cloud.Bounds(); err == nil {
		logger.Debug("bounds", "min", min, "max", max)
	}

	switch {
	case *exportPath != "":
		return writeFile(*exportPath, cloud.WritePCD)
	case *snapshotPath != "":
		s := viewer.NewSession(cfg, cloud, logger)
		return writeFile(*snapshotPath, s.Snapshot)
	}

	return desktop.Run(viewer.NewSession(cfg, cloud, logger), windowTitle)
}
