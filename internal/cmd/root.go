package cmd

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/Iron-Ham/jdiff/internal/config"
	jerrors "github.com/Iron-Ham/jdiff/internal/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd builds the jdiff command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jdiff",
		Short: "API difference reports for Maven projects",
		Long: `jdiff compares the public API of a Maven project against an earlier
published version of itself. The earlier sources are checked out from the
project's SCM, both sides are described by the JDiff javadoc doclet, and
the differences are rendered as an HTML report.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}

	root.PersistentFlags().StringP("config", "c", "", "config file (default is $XDG_CONFIG_HOME/jdiff/config.yaml or ./jdiff.yaml)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newReportCmd())
	root.AddCommand(newDescriptorCmd())
	root.AddCommand(newPackagesCmd())
	root.AddCommand(newConfigCmd())
	return root
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func initConfig(cmd *cobra.Command, _ []string) error {
	// Values already in the environment win over .env
	_ = godotenv.Load()

	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	cfgFile, _ := cmd.Flags().GetString("config")
	switch {
	case cfgFile != "":
		viper.SetConfigFile(cfgFile)
	case fileExists(config.ProjectConfigFile):
		viper.SetConfigFile(config.ProjectConfigFile)
	default:
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	// e.g., JDIFF_REPORT_OUTPUT_DIR for report.output_dir
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return jerrors.NewConfigError("failed to read config file", err).WithValue(viper.ConfigFileUsed())
		}
	}

	return bindFlags(cmd, flagBinding{key: "logging.level", flag: "log-level"})
}

// flagBinding ties a command-line flag to a config key.
type flagBinding struct {
	key  string
	flag string
}

// bindFlags binds the flags of the running command to their config keys.
// Binding happens per run since several commands share keys.
func bindFlags(cmd *cobra.Command, bindings ...flagBinding) error {
	for _, b := range bindings {
		f := cmd.Flags().Lookup(b.flag)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(b.key, f); err != nil {
			return err
		}
	}
	return nil
}

func loadConfig(cmd *cobra.Command, bindings ...flagBinding) (*config.Config, error) {
	if err := bindFlags(cmd, bindings...); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, jerrors.NewConfigError("invalid configuration", err)
	}
	return cfg, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
