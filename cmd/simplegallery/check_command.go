package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"simplegallery/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check external tools and directory permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cfg, ctx.directoryPath())

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Checks", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
					if r.Optional {
						kind = statusWarn
					}
				}
				fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}
			if preflight.Failed(results) {
				if missing := preflight.MissingRequiredTools(cfg); len(missing) > 0 {
					return fmt.Errorf("required checks failed; missing %s", strings.Join(missing, ", "))
				}
				return errors.New("required checks failed")
			}
			return nil
		},
	}
}
