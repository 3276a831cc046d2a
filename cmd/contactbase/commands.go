package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"contactbase/internal"
	"contactbase/internal/config"
	"contactbase/internal/dataset"
	"contactbase/internal/logger"
	"contactbase/internal/normalizer"
	"contactbase/internal/pipeline"
)

type app struct {
	cfg           config.Config
	log           logger.Logger
	newNormalizer func(config.Config) normalizer.Normalizer
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "contactbase",
		Short:         "Clean Dealfront contact exports for e-mail outreach",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(a.processCmd(), a.normalizeCmd(), a.inspectCmd())
	return root
}

func (a *app) processCmd() *cobra.Command {
	var (
		input, output, policy, encoding string
		workers                         int
		opts                            internal.ProcessingOptions
	)

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Deduplicate, filter and normalize a ;-separated contact list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			cfg.NormalizeWorkers = workers
			cfg.NormalizeFailurePolicy = policy
			settings, err := pipeline.SettingsFromConfig(cfg)
			if err != nil {
				return err
			}

			p := pipeline.NewPipeline(a.newNormalizer(cfg), settings, a.log)
			res, err := p.ProcessFile(cmd.Context(), pipeline.FileRequest{
				InputPath:  input,
				OutputPath: cfg.OutputPath(output),
				Options:    opts,
				Read:       dataset.ReadOptions{Encoding: encoding},
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Processed file saved to: %s\n", res.OutputPath)
			fmt.Fprintf(out, "Number of rows removed: %d\n", res.RowsRemoved)
			for _, w := range res.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w.Message)
			}
			for _, re := range res.RowErrors {
				fmt.Fprintf(out, "row %d %s: %v\n", re.Row+1, re.Column, re.Err)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&input, "input", "", "input file (.csv with ; separator or .xlsx)")
	f.StringVar(&output, "output", "processed_contacts.csv", "output file, relative paths resolve against OUTPUT_DIR")
	f.BoolVar(&opts.DeduplicateByEmail, "dedupe", false, "delete duplicate rows based on personal email address")
	f.BoolVar(&opts.RequireSalutation, "require-salutation", false, "delete rows without a salutation")
	f.BoolVar(&opts.NormalizeCompanyNames, "clean-companies", false, "clean company names for email usage")
	f.BoolVar(&opts.NormalizeJobTitles, "clean-job-titles", false, "clean job titles for email usage")
	f.IntVar(&workers, "workers", a.cfg.NormalizeWorkers, "concurrent normalization calls")
	f.StringVar(&policy, "failure-policy", a.cfg.NormalizeFailurePolicy, "fail-fast|skip")
	f.StringVar(&encoding, "encoding", a.cfg.InputEncoding, "input encoding, e.g. utf-8 or windows-1252")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func (a *app) normalizeCmd() *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "normalize TEXT",
		Short: "Normalize a single company name or job title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := internal.ParseFieldKind(kindFlag)
			if err != nil {
				return err
			}
			if err := a.cfg.Require("OPENAI_API_KEY", a.cfg.OpenAIAPIKey); err != nil {
				return err
			}
			text := strings.TrimSpace(args[0])
			if text == "" {
				return fmt.Errorf("text is required")
			}
			out, err := a.newNormalizer(a.cfg).Normalize(cmd.Context(), text, kind)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&kindFlag, "kind", "company", "company|job-title")
	return cmd
}

func (a *app) inspectCmd() *cobra.Command {
	var input, encoding string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show columns and row count of an input file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := pipeline.LoadDataset(input, dataset.ReadOptions{Encoding: encoding})
			if err != nil {
				return err
			}
			cols := pipeline.ColumnsFromConfig(a.cfg)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rows=%d columns=%d\n", ds.Len(), len(ds.Columns))
			for _, c := range ds.Columns {
				fmt.Fprintf(out, "  %s\n", c)
			}
			for _, expected := range []struct{ role, name string }{
				{"email", cols.Email},
				{"salutation", cols.Salutation},
				{"company", cols.Company},
				{"job_title", cols.JobTitle},
			} {
				_, ok := ds.Column(expected.name)
				fmt.Fprintf(out, "%s column %q present=%t\n", expected.role, expected.name, ok)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "input file")
	cmd.Flags().StringVar(&encoding, "encoding", a.cfg.InputEncoding, "input encoding")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
