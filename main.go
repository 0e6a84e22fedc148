package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ossyrian/mintywad/internal/config"
	"github.com/ossyrian/mintywad/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config

	// appFs is the filesystem every command reads and writes through
	appFs = afero.NewOsFs()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:               "mintywad",
	Short:             "Inspect, extract and repack WAD archives",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")

	// lump selection
	rootCmd.PersistentFlags().StringSlice("include", nil, "lump name patterns to select (repeatable)")
	rootCmd.PersistentFlags().StringSlice("exclude", nil, "lump name patterns to skip (repeatable)")
	rootCmd.PersistentFlags().Bool("case-insensitive", false, "match lump name patterns case-insensitively")

	// other opts
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().String("log-output-dir", "", "directory to write log files (if set, logs are written to both stderr and file)")

	viper.BindPFlag("include", rootCmd.PersistentFlags().Lookup("include"))
	viper.BindPFlag("exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	viper.BindPFlag("case_insensitive", rootCmd.PersistentFlags().Lookup("case-insensitive"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_output_dir", rootCmd.PersistentFlags().Lookup("log-output-dir"))

	rootCmd.AddCommand(listCmd, infoCmd, extractCmd, repackCmd)
}

// initConfig reads in config file and environment variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "mintywad"))
		}
		viper.AddConfigPath("/etc/mintywad")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("MINTYWAD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setup decodes the merged configuration and installs the logger
// before any subcommand runs
func setup(cmd *cobra.Command, args []string) error {
	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if _, err := logging.Setup(appFs, logging.Options{
		Level:     cfg.LogLevel,
		OutputDir: cfg.LogOutputDir,
		Console:   cmd.ErrOrStderr(),
	}); err != nil {
		return fmt.Errorf("could not set up logging: %w", err)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
