// Package analyze implements the one-shot analysis command.
package analyze

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonesrussell/newscheck/cmd/common"
	"github.com/jonesrussell/newscheck/internal/analyzer"
	"github.com/jonesrussell/newscheck/internal/bootstrap"
	"github.com/jonesrussell/newscheck/internal/domain"
	"github.com/jonesrussell/newscheck/internal/highlight"
	"github.com/jonesrussell/newscheck/internal/render"
	"github.com/jonesrussell/newscheck/internal/session"
	"github.com/spf13/cobra"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatHTML = "html"
)

// ErrAmbiguousInput is returned when more than one input source is given.
var ErrAmbiguousInput = errors.New("use only one of --file, --sample or text arguments")

// Params holds the analyze command flags.
type Params struct {
	File      string
	Sample    string
	Format    string
	NoColor   bool
	Overlap   string
	Malformed string
}

// Command returns the analyze command.
func Command() *cobra.Command {
	var p Params

	cmd := &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Analyze one article",
		Long: `Analyze one article and print the verdict with suspicious passages
highlighted. The text comes from the arguments, --file (- for stdin) or
--sample.`,
		Example: `  newscheck analyze --sample sample2
  newscheck analyze --file article.txt --format json
  cat article.txt | newscheck analyze --file - --no-color`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps(cmd, common.Options{Quiet: true})
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}
			defer func() { _ = deps.Logger.Sync() }()

			app, err := bootstrap.NewApp(deps.Config, deps.Logger)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}

			if !cmd.Flags().Changed("no-color") {
				p.NoColor = !deps.Config.Render.Color
			}
			return Run(cmd, app, p, args)
		},
	}

	cmd.Flags().StringVarP(&p.File, "file", "f", "", "read the article from a file (- for stdin)")
	cmd.Flags().StringVarP(&p.Sample, "sample", "s", "", "analyze a built-in sample by id")
	cmd.Flags().StringVarP(&p.Format, "format", "o", FormatText, "output format: text, json or html")
	cmd.Flags().BoolVar(&p.NoColor, "no-color", false, "mark highlights with [[...]] instead of colours")
	cmd.Flags().StringVar(&p.Overlap, "overlap", "", "overlap policy: clip or verbatim")
	cmd.Flags().StringVar(&p.Malformed, "malformed", "", "malformed highlight policy: clamp or skip")

	return cmd
}

// Run performs the analysis through a session so empty input and backend
// failures surface exactly as the form shows them.
func Run(cmd *cobra.Command, app *bootstrap.App, p Params, args []string) error {
	switch p.Format {
	case FormatText, FormatJSON, FormatHTML:
	default:
		return fmt.Errorf("unknown format %q", p.Format)
	}

	opts, err := mergeOptions(app.Merge, p)
	if err != nil {
		return err
	}

	s := session.New()
	if err := loadInput(cmd.InOrStdin(), s, p, args); err != nil {
		return err
	}

	snap, err := s.Run(cmd.Context(), app.Service)
	if err != nil {
		app.Logger.Debug("Analysis session ended", common.SessionField(snap))
		return errors.New(snap.Message)
	}

	report := app.Service.BuildReport(snap.Submitted, snap.Result, opts)
	return write(cmd.OutOrStdout(), report, p)
}

func mergeOptions(base highlight.Options, p Params) (highlight.Options, error) {
	opts := base
	if p.Overlap != "" {
		o, err := highlight.ParseOverlapPolicy(p.Overlap)
		if err != nil {
			return opts, err
		}
		opts.Overlap = o
	}
	if p.Malformed != "" {
		m, err := highlight.ParseMalformedPolicy(p.Malformed)
		if err != nil {
			return opts, err
		}
		opts.Malformed = m
	}
	return opts, nil
}

func loadInput(stdin io.Reader, s *session.Session, p Params, args []string) error {
	sources := 0
	for _, set := range []bool{p.File != "", p.Sample != "", len(args) > 0} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return ErrAmbiguousInput
	}

	switch {
	case p.Sample != "":
		sample, ok := domain.SampleByID(p.Sample)
		if !ok {
			return fmt.Errorf("unknown sample %q", p.Sample)
		}
		return s.SelectSample(sample.Content)

	case p.File == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		s.SetInput(string(data))

	case p.File != "":
		data, err := os.ReadFile(p.File)
		if err != nil {
			return fmt.Errorf("read %s: %w", p.File, err)
		}
		s.SetInput(string(data))

	default:
		s.SetInput(strings.Join(args, " "))
	}
	return nil
}

func write(w io.Writer, report *analyzer.Report, p Params) error {
	switch p.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)

	case FormatHTML:
		if err := render.WriteHTML(w, report.Segments); err != nil {
			return fmt.Errorf("render html: %w", err)
		}
		_, err := fmt.Fprintln(w)
		return err

	default:
		render.Summary(w, report)
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := (render.Terminal{NoColor: p.NoColor}).Render(w, report.Segments); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	}
}
