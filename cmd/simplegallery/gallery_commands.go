package main

import (
	"github.com/spf13/cobra"

	"simplegallery/internal/gallery"
	"simplegallery/internal/metrics"
)

func newPrepareCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prepare",
		Short: "Prepare directory",
		Long: "Scan the directory for images and write sg.json, the editable list of\n" +
			"images and captions, and create the _web output directory.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGalleryCommand(cmd, ctx)
		},
	}
}

func newProcessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Process directory, i.e. produce the gallery",
		Long: "Read sg.json and render thumbnails, medium-size images and\n" +
			"_web/index.html for every listed image.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGalleryCommand(cmd, ctx)
		},
	}
}

// runGalleryCommand runs the pipeline command named like cmd.
func runGalleryCommand(cmd *cobra.Command, ctx *commandContext) error {
	command, err := gallery.ParseCommand(cmd.Name())
	if err != nil {
		return err
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.logger(cmd)
	if err != nil {
		return err
	}

	opts := []gallery.Option{gallery.WithOutput(cmd.OutOrStdout())}
	if cfg.Metrics.Textfile != "" {
		opts = append(opts, gallery.WithMetrics(metrics.New()))
	}
	pipeline := gallery.New(cfg, logger, opts...)

	return pipeline.Run(ctx.runContext(cmd), command, gallery.Options{
		Dir:     ctx.directoryPath(),
		Archive: ctx.archiveRequested(),
	})
}
