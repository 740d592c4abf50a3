package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-analyser/internal/ingestion"
	"github.com/jonathan/jd-analyser/internal/redact"
)

func newRedactCmd() *cobra.Command {
	var inFile string

	cmd := &cobra.Command{
		Use:   "redact",
		Short: "Print text with personal data replaced by placeholder tokens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in io.Reader = cmd.InOrStdin()
			if inFile != "" {
				f, err := os.Open(inFile)
				if err != nil {
					return fmt.Errorf("failed to open input file: %w", err)
				}
				defer func() { _ = f.Close() }()
				in = f
			}

			text, err := ingestion.ReadAll(in)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), redact.Redact(text))
			return err
		},
	}
	cmd.Flags().StringVarP(&inFile, "in", "i", "", "Path to a text file (defaults to stdin)")
	return cmd
}
