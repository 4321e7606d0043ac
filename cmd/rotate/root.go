// Copyright (c) Picsafe. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/picsafe/rotate/backup"
	"github.com/picsafe/rotate/cliout"
	"github.com/picsafe/rotate/config"
	"github.com/picsafe/rotate/doctor"
	"github.com/picsafe/rotate/logutil"
	"github.com/picsafe/rotate/mcpserver"
	"github.com/picsafe/rotate/notify"
	"github.com/picsafe/rotate/rotator"
	"github.com/picsafe/rotate/selection"
	"github.com/picsafe/rotate/session"
	"github.com/picsafe/rotate/transform"
	"github.com/picsafe/rotate/version"
)

// rootFlags holds the persistent flag values for the root command.
type rootFlags struct {
	persistent    bool
	debug         bool
	structuredLog bool
	notifications bool
	configPath    string
}

func newRootCommand(info *version.Info) *cobra.Command {
	flags := &rootFlags{}
	var cfg config.Config

	cmd := &cobra.Command{
		Use:   "rotate [image_path] <direction>",
		Short: "Losslessly rotate JPEG and PNG images in place",
		Long: `Losslessly rotate JPEG and PNG images in place.

JPEG files are rotated with jpegtran (no re-encode, metadata preserved);
PNG files are rotated with ImageMagick. The original file is copied to a
backup directory before it is replaced, with collision-safe naming.

Direction tokens: l (90 counterclockwise), r (90 clockwise), f (180).`,
		Example: `  rotate /photos/cat.jpg r
  rotate r                  # rotates the file selected in the file manager
  rotate --persistent       # interactive mode`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logutil.SetupLogger(flags.debug, flags.structuredLog)
			if flags.debug {
				cmd.Flags().Visit(func(f *pflag.Flag) {
					logutil.Debug("flag set", "name", f.Name, "value", f.Value.String())
				})
			}
			var err error
			cfg, err = config.Load(flags.configPath)
			if err != nil {
				return err
			}
			if flags.notifications {
				cfg.Notifications = true
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			r := buildRotator(cfg)
			selector := buildSelector(cfg)

			if flags.persistent {
				s := session.New(session.Options{
					Rotator:  r,
					Selector: selector,
					Notifier: notify.New(notify.Config{AppName: info.Name, Enabled: cfg.Notifications}),
				})
				return s.Run(cmd.Context())
			}

			switch len(args) {
			case 2:
				return rotateOnce(cmd, r, args[0], args[1])
			case 1:
				path, ok, err := selector.Current(cmd.Context())
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no file selected: select a single image in the file manager or pass a path")
				}
				return rotateOnce(cmd, r, path, args[0])
			default:
				return cmd.Help()
			}
		},
	}

	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&flags.structuredLog, "structured-log", false, "Emit JSON-formatted logs")
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file path (default ~/.config/rotate/config.yaml)")
	cmd.Flags().BoolVarP(&flags.persistent, "persistent", "p", false, "Run an interactive session reading commands from stdin")
	cmd.Flags().BoolVar(&flags.notifications, "notify", false, "Send a desktop notification after each rotation")

	cmd.AddCommand(version.NewCommand(info))
	cmd.AddCommand(newDoctorCommand(&cfg))
	cmd.AddCommand(newMCPCommand(&cfg, info))

	return cmd
}

func rotateOnce(cmd *cobra.Command, r *rotator.Rotator, path, token string) error {
	result, err := r.Rotate(cmd.Context(), path, token)
	if err != nil {
		return err
	}
	cliout.Success("Rotated %s (%s)", result.Path, result.Direction)
	cliout.Item("Original backed up to: %s", result.BackupPath)
	return nil
}

func buildRotator(cfg config.Config) *rotator.Rotator {
	transformer := transform.New(transform.Options{
		JpegtranPath: cfg.JpegtranPath,
		MagickPath:   cfg.MagickPath,
		Timeout:      cfg.ToolTimeout(),
	})
	replacer := backup.NewReplacer(backup.Options{
		DirName:     cfg.BackupDirName,
		FallbackDir: cfg.BackupFallbackDir,
	})
	return rotator.New(transformer, replacer)
}

func buildSelector(cfg config.Config) selection.Selector {
	inner := selection.New(selection.Options{Timeout: cfg.SelectionTimeout()})
	return selection.NewGuarded(inner, selection.GuardOptions{})
}

func newDoctorCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools, the file manager bridge, and backup directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := doctor.Run(*cfg)
			doctor.Print(checks)
			if doctor.HasFailure(checks) {
				return fmt.Errorf("environment checks failed")
			}
			return nil
		},
	}
}

func newMCPCommand(cfg *config.Config, info *version.Info) *cobra.Command {
	return &cobra.Command{
		Use:    "mcp",
		Short:  "Serve image rotation as an MCP tool over stdio",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := mcpserver.New(buildRotator(*cfg), info.Version)
			return s.Serve()
		},
	}
}
