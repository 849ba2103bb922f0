package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sickstat/adapters/excel"
	"sickstat/adapters/stats/senses"
	"sickstat/app"
	"sickstat/domain/leave"
	"sickstat/internal"
	"sickstat/internal/config"
)

func main() {
	// Load environment variables from .env file when present
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliOptions are the flags shared by every command
type cliOptions struct {
	encoding string
	sheet    string
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:           "sickstat",
		Short:         "Compare sick-leave absences between groups of employees",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.encoding, "encoding", "", "Source encoding: windows-1251|utf-8|auto (default from SOURCE_ENCODING)")
	rootCmd.PersistentFlags().StringVar(&opts.sheet, "sheet", "", "XLSX sheet name (default: first sheet)")

	rootCmd.AddCommand(
		newAnalyzeCmd(opts),
		newInspectCmd(opts),
	)
	return rootCmd
}

// newService builds the analysis pipeline from the environment and the global flags
func newService(opts *cliOptions) (*app.AnalysisService, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.encoding != "" {
		enc, err := excel.ParseSourceEncoding(opts.encoding)
		if err != nil {
			return nil, nil, err
		}
		cfg.Data.Encoding = enc
	}
	if opts.sheet != "" {
		cfg.Data.Sheet = opts.sheet
	}

	logger := internal.NewLoggerWithOutput(cfg.Logging.Level, os.Stderr)
	reader := excel.NewDataReader(cfg.ReaderConfig()).WithLogger(logger)
	service := app.NewAnalysisService(reader, senses.NewWelchTTestSense(), cfg.Analysis).WithLogger(logger)
	return service, cfg, nil
}

func newInspectCmd(opts *cliOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect [data-file]",
		Short: "Parse a data file and show its size and value ranges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, _, err := newService(opts)
			if err != nil {
				return err
			}
			dataset, err := service.LoadFile(args[0])
			if err != nil {
				return err
			}

			summary := service.Describe(dataset)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}

// analyzeFlags mirror the report form fields
type analyzeFlags struct {
	paramsFile   string
	ageMin       int
	ageMax       int
	workDaysMin  int
	workDaysMax  int
	ageThreshold int
	alpha        float64
	asJSON       bool
}

func newAnalyzeCmd(opts *cliOptions) *cobra.Command {
	flags := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze [data-file]",
		Short: "Test whether sick-leave absences differ by gender and by age",
		Long: `Run both comparisons on a sick-leave export.

Parameters come from an optional YAML file and are overridden by flags:

  age_range:       {min: 20, max: 60}
  work_days_range: {min: 0, max: 8}
  age_threshold:   35
  alpha:           0.05

Unset ranges default to the values observed in the file.

Example: sickstat analyze stat.csv --age-threshold 40 --alpha 0.01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			service, _, err := newService(opts)
			if err != nil {
				return err
			}
			dataset, err := service.LoadFile(args[0])
			if err != nil {
				return err
			}

			report, err := service.Analyze(dataset, params)
			if err != nil {
				return err
			}

			if flags.asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.paramsFile, "params", "", "YAML file with analysis parameters")
	cmd.Flags().IntVar(&flags.ageMin, "age-min", 0, "Lower age bound (inclusive)")
	cmd.Flags().IntVar(&flags.ageMax, "age-max", 0, "Upper age bound (inclusive)")
	cmd.Flags().IntVar(&flags.workDaysMin, "work-days-min", 0, "Lower work_days bound (inclusive)")
	cmd.Flags().IntVar(&flags.workDaysMax, "work-days-max", 0, "Upper work_days bound (inclusive)")
	cmd.Flags().IntVar(&flags.ageThreshold, "age-threshold", 0, "Age at which an employee counts as older (default from DEFAULT_AGE_THRESHOLD)")
	cmd.Flags().Float64Var(&flags.alpha, "alpha", 0, "Significance level (default from DEFAULT_ALPHA)")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Print the report as JSON")
	cmd.MarkFlagsRequiredTogether("age-min", "age-max")
	cmd.MarkFlagsRequiredTogether("work-days-min", "work-days-max")

	return cmd
}

// resolve merges the YAML parameters file with the flags that were set explicitly
func (f *analyzeFlags) resolve(cmd *cobra.Command) (app.AnalysisParams, error) {
	var params app.AnalysisParams
	if f.paramsFile != "" {
		raw, err := os.ReadFile(f.paramsFile)
		if err != nil {
			return params, fmt.Errorf("failed to read params file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &params); err != nil {
			return params, fmt.Errorf("invalid params file %s: %w", f.paramsFile, err)
		}
	}

	changed := cmd.Flags().Changed
	if changed("age-min") {
		bounds, err := leave.NewRangeBounds("age", f.ageMin, f.ageMax)
		if err != nil {
			return params, err
		}
		params.AgeRange = &bounds
	}
	if changed("work-days-min") {
		bounds, err := leave.NewRangeBounds("work_days", f.workDaysMin, f.workDaysMax)
		if err != nil {
			return params, err
		}
		params.WorkDaysRange = &bounds
	}
	if changed("age-threshold") {
		params.AgeThreshold = &f.ageThreshold
	}
	if changed("alpha") {
		params.Alpha = &f.alpha
	}
	return params, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSummary(w io.Writer, s app.DatasetSummary) {
	fmt.Fprintf(w, "Source:   %s\n", s.Source)
	fmt.Fprintf(w, "Hash:     %s\n", s.Hash)
	fmt.Fprintf(w, "Records:  %d (men %d, women %d)\n", s.Records, s.Men, s.Women)
	if s.AgeRange != nil {
		fmt.Fprintf(w, "Age:      %d..%d\n", s.AgeRange.Min, s.AgeRange.Max)
		fmt.Fprintf(w, "WorkDays: %d..%d\n", s.WorkDaysRange.Min, s.WorkDaysRange.Max)
	}
}

func printReport(w io.Writer, r *app.Report) {
	fmt.Fprintf(w, "Analysis %s\n", r.ID)
	printSummary(w, r.Dataset)
	fmt.Fprintf(w, "Filters:  age %d..%d, work_days %d..%d -> %d records, %d bins\n",
		r.Params.AgeRange.Min, r.Params.AgeRange.Max,
		r.Params.WorkDaysRange.Min, r.Params.WorkDaysRange.Max,
		r.FilteredCount, r.BinCount)

	for _, cmp := range r.Comparisons() {
		fmt.Fprintf(w, "\n== %s: %s (n=%d) vs %s (n=%d)\n", cmp.Dimension,
			cmp.Groups.First.Name, cmp.Groups.First.Size(),
			cmp.Groups.Second.Name, cmp.Groups.Second.Size())
		if o := cmp.Outcome; o != nil {
			fmt.Fprintf(w, "mean %.3f vs %.3f, t = %.4f, df = %.2f, p = %.4g\n",
				o.First.Mean, o.Second.Mean, o.Statistic, o.DegreesOfFreedom, o.PValue)
		}
		fmt.Fprintf(w, "H0: %s\nH1: %s\n%s\n", cmp.Summary.Null, cmp.Summary.Alternative, cmp.Summary.Criterion)
		if cmp.Summary.PValueLine != "" {
			fmt.Fprintln(w, cmp.Summary.PValueLine)
		}
		fmt.Fprintln(w, cmp.Summary.Verdict)
	}
}
