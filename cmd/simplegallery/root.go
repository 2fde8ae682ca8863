package main

import (
	"errors"

	"github.com/spf13/cobra"
)

const (
	annotationSkipConfig    = "skipConfigLoad"
	annotationSkipDirectory = "skipDirectory"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var archiveFlag bool
	directory := &directoryValue{}

	ctx := newCommandContext(&configFlag, directory, &archiveFlag)

	rootCmd := &cobra.Command{
		Use:           "simplegallery",
		Short:         "Create a simple web gallery from an image directory",
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.HasParent() || cmd.Name() == "help" {
				return nil
			}
			if !hasAnnotation(cmd, annotationSkipDirectory) && ctx.directoryPath() == "" {
				return errors.New(`required flag(s) "directory" not set`)
			}
			// Arguments are valid from here on; later failures are not usage errors.
			cmd.SilenceUsage = true
			if hasAnnotation(cmd, annotationSkipConfig) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("missing command: expected one of prepare, process, status, check")
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.VarP(directory, "directory", "d", "the directory you want to work with")
	flags.BoolVarP(&archiveFlag, "archive", "A", false, "create a tarball of the images")
	flags.StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newPrepareCommand(ctx))
	rootCmd.AddCommand(newProcessCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
