package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"glycorisk/domain/patient"
	"glycorisk/internal"
	"glycorisk/internal/config"
	"glycorisk/internal/container"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type artifactFlags struct {
	modelPath  string
	scalerPath string
}

func (f *artifactFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.modelPath, "model", "", "Classifier artifact (defaults to MODEL_PATH)")
	cmd.Flags().StringVar(&f.scalerPath, "scaler", "", "Scaler artifact (defaults to SCALER_PATH)")
}

// loadContainer builds the prediction stack from env config plus flag overrides
func (f *artifactFlags) loadContainer() (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if f.modelPath != "" {
		cfg.Artifacts.ModelPath = f.modelPath
	}
	if f.scalerPath != "" {
		cfg.Artifacts.ScalerPath = f.scalerPath
	}

	c, err := container.New(cfg, internal.NewLogger(internal.LogLevelWarn))
	if err != nil {
		return nil, err
	}
	if err := c.InitPrediction(); err != nil {
		return nil, err
	}
	return c, nil
}

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "glycorisk-cli",
		Short:        "Diabetes risk predictions from the command line",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newPredictCmd(),
		newPredictFileCmd(),
		newFieldsCmd(),
		newCheckArtifactsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the patient fields, their ranges and defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printFields(cmd.OutOrStdout())
		},
	}
}

func printFields(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tLABEL\tMIN\tMAX\tDEFAULT")
	for _, f := range patient.Schema {
		if f.Categorical() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", f.Key, f.Label, "female", "male", patient.GenderFemale)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\n", f.Key, f.Label, f.Min, f.Max, f.Default)
	}
	return w.Flush()
}

func newCheckArtifactsCmd() *cobra.Command {
	var flags artifactFlags

	cmd := &cobra.Command{
		Use:   "check-artifacts",
		Short: "Load the model and scaler and verify they agree with the patient schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.loadContainer()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "model:    %s\n", c.Config.Artifacts.ModelPath)
			fmt.Fprintf(out, "scaler:   %s\n", c.Config.Artifacts.ScalerPath)
			fmt.Fprintf(out, "features: %v\n", c.Classifier.FeatureNames())
			fmt.Fprintf(out, "classes:  %v\n", c.Classifier.Classes())
			fmt.Fprintln(out, "OK")
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
