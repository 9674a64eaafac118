package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/turbolytics/lightcurves/internal/cmd/archiver"
	"github.com/turbolytics/lightcurves/internal/cmd/fixtures"
	"github.com/turbolytics/lightcurves/internal/cmd/schema"
	"github.com/turbolytics/lightcurves/internal/cmd/sources"
)

func NewRootCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "lightcurves",
		Short: "Loads, inspects and exports transient light-curve datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringP("file", "f", "", "Path to a light-curve file (.parquet, .arrow)")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	viper.BindPFlag("file", cmd.PersistentFlags().Lookup("file"))
	viper.BindPFlag("log-level", cmd.PersistentFlags().Lookup("log-level"))
	viper.SetEnvPrefix("LIGHTCURVES")
	viper.AutomaticEnv()

	cmd.AddCommand(sources.NewInspectCommand())
	cmd.AddCommand(sources.NewLabelsCommand())
	cmd.AddCommand(sources.NewPlotCommand())
	cmd.AddCommand(archiver.NewCommand())
	cmd.AddCommand(schema.NewCommand())
	cmd.AddCommand(fixtures.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
