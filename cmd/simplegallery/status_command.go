package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"simplegallery/internal/gallery"
	"simplegallery/internal/sidecar"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "status",
		Short:       "Show the gallery's images and which renditions exist",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSkipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := gallery.Inspect(ctx.directoryPath())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderGalleryStatus(status, colorize) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func renderGalleryStatus(status gallery.Status, colorize bool) []string {
	lines := renderSectionHeader("Gallery", colorize)
	lines = append(lines, renderStatusLine("Directory", statusInfo, status.Layout.Dir, colorize))

	switch {
	case !status.Prepared:
		lines = append(lines, renderStatusLine(sidecar.FileName, statusWarn, "missing; run simplegallery prepare", colorize))
	case status.ManifestErr != nil:
		lines = append(lines, renderStatusLine(sidecar.FileName, statusError, "not valid json", colorize))
	default:
		lines = append(lines, renderStatusLine(sidecar.FileName, statusOK, fmt.Sprintf("%d images", len(status.Entries)), colorize))
	}

	if status.Index {
		lines = append(lines, renderStatusLine(gallery.IndexName, statusOK, fmt.Sprintf("%d of %d images rendered", status.Rendered(), len(status.Entries)), colorize))
	} else {
		lines = append(lines, renderStatusLine(gallery.IndexName, statusWarn, "not generated; run simplegallery process", colorize))
	}
	archiveKind := statusInfo
	if status.Archive {
		archiveKind = statusOK
	}
	lines = append(lines, renderStatusLine("Archive", archiveKind, yesNo(status.Archive), colorize))

	if len(status.Entries) == 0 {
		return lines
	}

	rows := make([][]string, 0, len(status.Entries))
	for _, entry := range status.Entries {
		rows = append(rows, []string{
			entry.Filename,
			entry.Title,
			yesNo(entry.Source),
			yesNo(entry.Thumbnail),
			yesNo(entry.Medium),
		})
	}
	lines = append(lines, "")
	table := renderTable(
		[]string{"File", "Title", "Source", "Thumbnail", "Medium"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignCenter, alignCenter, alignCenter},
		colorize,
	)
	return append(lines, strings.Split(table, "\n")...)
}
