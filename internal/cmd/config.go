package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Iron-Ham/jdiff/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View or create jdiff configuration",
		Long: `View or create jdiff configuration.

Without arguments, displays the current configuration.`,
		RunE: runConfigShow,
	}

	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}

	configInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default config file",
		Long: `Create a default config file at $XDG_CONFIG_HOME/jdiff/config.yaml
with all available options. With --local, create ./jdiff.yaml instead.`,
		Args: cobra.NoArgs,
		RunE: runConfigInit,
	}
	configInitCmd.Flags().Bool("local", false, "create ./jdiff.yaml for the current project")

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show the config file path",
		Args:  cobra.NoArgs,
		RunE:  runConfigPath,
	}

	configCmd.AddCommand(configShowCmd, configInitCmd, configPathCmd)
	return configCmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	st := newStyles(out)

	if used := viper.ConfigFileUsed(); used != "" && fileExists(used) {
		fmt.Fprintf(out, "%s %s\n\n", st.muted.Render("# Config file:"), used)
	} else {
		fmt.Fprintf(out, "%s\n\n", st.muted.Render("# Config file: (none - using defaults)"))
	}

	data, err := yaml.Marshal(viper.AllSettings())
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if _, err := out.Write(data); err != nil {
		return err
	}

	if _, err := config.Load(); err != nil {
		fmt.Fprintf(out, "\n%s\n%v\n", st.failure.Render("Configuration is invalid:"), err)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	configFile := config.ConfigFile()
	if local, _ := cmd.Flags().GetBool("local"); local {
		configFile = config.ProjectConfigFile
	}

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s", configFile)
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configFile, []byte(defaultConfigFile), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if used := viper.ConfigFileUsed(); used != "" && fileExists(used) {
		fmt.Fprintf(out, "Active config: %s\n", used)
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", config.ConfigFile())
	}

	fmt.Fprintln(out, "\nSearch order:")
	fmt.Fprintf(out, "  1. --config flag\n")
	fmt.Fprintf(out, "  2. ./%s (current directory)\n", config.ProjectConfigFile)
	fmt.Fprintf(out, "  3. %s\n", config.ConfigFile())
	fmt.Fprintf(out, "\nEnvironment variables: %s_* (e.g., %s_REPORT_OUTPUT_DIR)\n", config.EnvPrefix, config.EnvPrefix)
	return nil
}

const defaultConfigFile = `# jdiff configuration

report:
  # Site directory for the summary page (default: <project>/target/site)
  output_dir: ""
  # Report directory under output_dir (default: apidocs, or testapidocs for the test variant)
  dest_dir: ""
  # Sources to compare: main or test
  variant: main
  name: JDiff API Difference Report
  description: ""
  # Summary page name, without .html
  summary_file: jdiff
  # Checkouts of the comparison version (default: <project>/target/jdiff)
  working_dir: ""

versions:
  # Maven version range of the old side (default: (,<project.version>))
  comparison: ""
  # Version range of the new side (default: <project.version>)
  base: ""
  # Delete and re-create existing checkouts
  force_checkout: false

javadoc:
  # javadoc binary or JDK directory; when empty, toolchains.xml, the JDK
  # of java on PATH, then JAVA_HOME are tried
  executable: ""
  toolchains_file: ""
  # <provides> requirements for the toolchain, e.g. version: "17"
  toolchain: {}
  # Doclet jars; when empty, the artifacts below are taken from the
  # local repository
  docletpath: []
  doclet: jdiff:jdiff:1.0.9
  xerces: xerces:xercesImpl:2.12.2

scm:
  providers: [git, svn]

repository:
  # Local Maven repository (default: ~/.m2/repository)
  local_dir: ""
  remote_url: https://repo.maven.apache.org/maven2
  offline: false
  timeout_seconds: 30
  # Metadata documents kept in memory; 0 disables the cache
  cache_size: 256

classpath:
  # Added to every javadoc classpath
  entries: []
  # Ask mvn for each module's dependency classpath
  maven: false
  maven_executable: ""

logging:
  # debug, info, warn or error
  level: info
  # Write jdiff.log into the working directory instead of stderr
  file: false
  # json or text
  format: text
`
