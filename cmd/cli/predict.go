package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"text/tabwriter"

	"glycorisk/adapters/api"
	"glycorisk/adapters/excel"
	"glycorisk/domain/patient"
	"glycorisk/domain/prediction"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	outputText = "text"
	outputJSON = "json"
)

func newPredictCmd() *cobra.Command {
	var (
		flags  artifactFlags
		output string
		gender string
		values = make(map[patient.FieldKey]*float64, patient.FeatureCount)
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict diabetes risk for one patient",
		Long: `Predict diabetes risk for one patient. Every field has a flag; omitted
fields take their default and out-of-range values are clamped.

Example: glycorisk-cli predict --gender male --age 52 --hba1c 8.4 --bmi 31.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fv := vectorFromFlags(gender, values)

			c, err := flags.loadContainer()
			if err != nil {
				return err
			}
			result, err := c.PredictionService.Predict(cmd.Context(), fv)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), output, result)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text or json")
	cmd.Flags().StringVar(&gender, "gender", string(patient.GenderFemale), "Patient gender: male or female")
	registerFieldFlags(cmd.Flags(), values)
	return cmd
}

func registerFieldFlags(fs *pflag.FlagSet, values map[patient.FieldKey]*float64) {
	for _, f := range patient.Schema {
		if f.Categorical() {
			continue
		}
		usage := fmt.Sprintf("%s [%g, %g]", f.Label, f.Min, f.Max)
		values[f.Key] = fs.Float64(string(f.Key), f.Default, usage)
	}
}

// vectorFromFlags applies the same defaulting and clamping as the web form
func vectorFromFlags(gender string, values map[patient.FieldKey]*float64) patient.FeatureVector {
	form := url.Values{}
	form.Set(string(patient.FieldGender), gender)
	for key, v := range values {
		form.Set(string(key), strconv.FormatFloat(*v, 'f', -1, 64))
	}
	return patient.ParseForm(form)
}

func printResult(out io.Writer, output string, result prediction.Result) error {
	switch output {
	case outputJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(api.NewPredictResponse(result))
	case outputText:
		fmt.Fprintln(out, result.Verdict().Text)
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, class := range prediction.Classes {
			fmt.Fprintf(w, "  %s\t%.1f%%\n", class.Label(), result.Probability(class)*100)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", output)
	}
}

func newPredictFileCmd() *cobra.Command {
	var (
		flags  artifactFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "predict-file [patients.xlsx|patients.csv]",
		Short: "Predict diabetes risk for every patient row in a workbook or CSV",
		Long: `Predict diabetes risk for every patient row. The header row names the
fields by key or short label; a workbook exported from the web UI works as-is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patients, err := excel.NewDataReader(args[0]).ReadPatients()
			if err != nil {
				return err
			}

			c, err := flags.loadContainer()
			if err != nil {
				return err
			}

			results := make([]prediction.Result, len(patients))
			for i, fv := range patients {
				if results[i], err = c.PredictionService.Predict(cmd.Context(), fv); err != nil {
					return fmt.Errorf("row %d: %w", i+1, err)
				}
			}
			return printResults(cmd.OutOrStdout(), output, results)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text or json")
	return cmd
}

func printResults(out io.Writer, output string, results []prediction.Result) error {
	switch output {
	case outputJSON:
		responses := make([]api.PredictResponse, len(results))
		for i, r := range results {
			responses[i] = api.NewPredictResponse(r)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(responses)
	case outputText:
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ROW\tCLASS\tPROBABILITY\tVERDICT")
		for i, r := range results {
			fmt.Fprintf(w, "%d\t%s\t%.1f%%\t%s\n", i+1, r.Class.Label(), r.Probability(r.Class)*100, r.Verdict().Text)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", output)
	}
}
