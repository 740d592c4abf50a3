package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jonathan/jd-analyser/internal/analysis"
	"github.com/jonathan/jd-analyser/internal/fetch"
	"github.com/jonathan/jd-analyser/internal/ingestion"
	"github.com/jonathan/jd-analyser/internal/observability"
	"github.com/jonathan/jd-analyser/internal/types"
)

// errAnalysisFailed makes the command exit non-zero after the failure has
// been printed.
var errAnalysisFailed = errors.New("analysis failed")

type analyseOptions struct {
	inFile     string
	url        string
	browser    bool
	jsonOutput bool
}

func newAnalyseCmd(root *rootOptions) *cobra.Command {
	opts := &analyseOptions{}

	cmd := &cobra.Command{
		Use:   "analyse",
		Short: "Analyse a job description from a file, stdin or a job posting URL",
		Long: `Analyse a job description and print the extracted skills, resume improvements
and cover letter snippet. Text is read from --in, from --url, or from stdin.
Running the command counts as accepting the privacy policy.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyse(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.inFile, "in", "i", "", "Path to a text file containing the job description")
	cmd.Flags().StringVarP(&opts.url, "url", "u", "", "Job posting URL to fetch")
	cmd.Flags().BoolVar(&opts.browser, "browser", false, "Render the URL with a headless browser")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the outcome as JSON")
	cmd.MarkFlagsMutuallyExclusive("in", "url")
	return cmd
}

func runAnalyse(cmd *cobra.Command, root *rootOptions, opts *analyseOptions) error {
	if opts.browser && opts.url == "" {
		return fmt.Errorf("--browser requires --url")
	}

	env, err := root.loadEnv()
	if err != nil {
		return err
	}
	logger, err := newLogger(env)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	text, err := readJobDescription(ctx, cmd.InOrStdin(), opts, logger)
	if err != nil {
		return err
	}

	svc := analysis.NewService(env, analysis.WithLogger(logger))
	outcome := svc.Analyse(ctx, types.AnalyseRequest{JobDescription: text, PrivacyAccepted: true})

	out := cmd.OutOrStdout()
	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(outcome); err != nil {
			return fmt.Errorf("failed to encode outcome: %w", err)
		}
	} else {
		printer := observability.NewPrinter(out)
		if outcome.Success {
			printer.PrintExtraction(outcome.Data)
		} else {
			printer.PrintFailure(outcome)
		}
	}

	if !outcome.Success {
		return errAnalysisFailed
	}
	return nil
}

// readJobDescription returns the text named by opts, falling back to stdin.
func readJobDescription(ctx context.Context, stdin io.Reader, opts *analyseOptions, logger *logrus.Logger) (string, error) {
	switch {
	case opts.url != "":
		text, err := fetch.JobPage(ctx, opts.url, fetch.PageOptions{
			ForceBrowser:    opts.browser,
			BrowserFallback: true,
			BrowserTimeout:  60 * time.Second,
			Logger:          logrus.NewEntry(logger),
		})
		if err != nil {
			return "", fmt.Errorf("failed to fetch job posting: %w", err)
		}
		return text, nil

	case opts.inFile != "":
		return ingestion.ReadFile(opts.inFile)

	default:
		return ingestion.Read(stdin)
	}
}
