// Package samples implements the command that lists the built-in articles.
package samples

import (
	"fmt"

	"github.com/jonesrussell/newscheck/internal/domain"
	"github.com/jonesrussell/newscheck/internal/render"
	"github.com/spf13/cobra"
)

// Command returns the samples command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "samples [id]",
		Short: "List the built-in sample articles",
		Long:  `List the built-in sample articles, or print one in full when an id is given.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				render.Samples(out, domain.Samples())
				return nil
			}

			sample, ok := domain.SampleByID(args[0])
			if !ok {
				return fmt.Errorf("unknown sample %q", args[0])
			}
			_, err := fmt.Fprintf(out, "%s\n\n%s\n", sample.Title, sample.Content)
			return err
		},
	}
}
