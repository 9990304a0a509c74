// Package commands implements the CLI commands for markshift.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/markshift/internal/logger"
	"github.com/jmylchreest/markshift/internal/registry"
)

var rootCmd = &cobra.Command{
	Use:   "markshift",
	Short: "Pattern-based markup migration between component vocabularies",
	Long: `Markshift rewrites markup written for one site's component vocabulary
into another's.

Each site is a named list of parts: a part pairs a name with an HTML
pattern containing {{placeholders}}. Parts found in the input are replaced
by the same-named part of the target site, and emptied elements are pruned.

Examples:
  # Migrate a file between two registered sites
  markshift migrate --from bootstrap3 --to bootstrap5 -i page.html

  # Migrate a page region fetched over HTTP and write a highlighted preview
  markshift migrate --from bootstrap3 --to bootstrap5 \
      --url https://example.com --selector main --preview preview.html

  # Register a site from a part definition document
  markshift sites import --id legacy --name "Legacy theme" legacy.md`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logger.Options{
			Debug: viper.GetBool("debug"),
			Quiet: viper.GetBool("quiet"),
			JSON:  viper.GetBool("json_logs"),
		})
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/.markshift.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "suppress progress output")
	flags.Bool("json-logs", false, "emit logs as JSON")
	flags.String("registry", "", "site registry file (default $XDG_CONFIG_HOME/markshift/sites.yaml)")
	flags.Bool("no-defaults", false, "do not merge the built-in sites into the registry")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("json_logs", flags.Lookup("json-logs"))
	_ = viper.BindPFlag("registry", flags.Lookup("registry"))
	_ = viper.BindPFlag("no_defaults", flags.Lookup("no-defaults"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".markshift")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("MARKSHIFT")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadRegistry opens the configured registry. Built-in sites are merged in
// memory unless disabled or withDefaults is false.
func loadRegistry(withDefaults bool) (*registry.Registry, error) {
	path := viper.GetString("registry")
	if path == "" {
		path = registry.DefaultPath()
	}

	logger.Debug("loading registry", "path", path)
	reg, err := registry.Load(path)
	if err != nil {
		return nil, err
	}

	if withDefaults && !viper.GetBool("no_defaults") {
		defaults, err := registry.Defaults()
		if err != nil {
			return nil, err
		}
		sites, parts := reg.MergeDefaults(defaults)
		logger.Debug("merged built-in sites", "sites", sites, "parts", parts)
	}
	return reg, nil
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
