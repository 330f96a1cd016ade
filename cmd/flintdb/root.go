package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/VictoriaMetrics/metrics"
	"github.com/joho/godotenv"
	"github.com/kjk/flintdb/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	Version = "0.1.0"
)

var (
	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "flintdb",
		Short: "flat-file key-value database",
		Long: fmt.Sprintf(`flintdb (v%s)

Inspect and modify flintdb databases: one text file per database,
one key=value record per line.

Every flag can also be set with an environment variable FLINTDB_<FLAG>,
e.g. FLINTDB_DIR=./data, or in .env / .env.local files.`, Version),
		SilenceUsage:       true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of flintdb",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "flintdb v%s\n", Version)
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.AddCommand(versionCmd)
	addCommands(RootCmd)
	setupFlags(RootCmd)
}

// initConfig loads .env files and makes viper read FLINTDB_* env variables
func initConfig() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix("flintdb")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

func setup(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	log.Verbose = viper.GetBool("verbose")
	if dir := viper.GetString("log-dir"); dir != "" {
		log.Init(&log.Config{Dir: dir})
	}
	// stdout is for command output
	log.Output = cmd.ErrOrStderr()
	return nil
}

func teardown(cmd *cobra.Command, _ []string) error {
	if viper.GetBool("metrics") {
		metrics.WritePrometheus(cmd.ErrOrStderr(), false)
	}
	log.Close()
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
