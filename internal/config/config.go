package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all jdiff configuration
type Config struct {
	Report     ReportConfig     `mapstructure:"report"`
	Versions   VersionsConfig   `mapstructure:"versions"`
	Javadoc    JavadocConfig    `mapstructure:"javadoc"`
	SCM        SCMConfig        `mapstructure:"scm"`
	Repository RepositoryConfig `mapstructure:"repository"`
	Classpath  ClasspathConfig  `mapstructure:"classpath"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ReportConfig controls where and how the report is written
type ReportConfig struct {
	// OutputDir is the site directory holding the summary page.
	// Empty means "<project>/target/site"; relative paths are resolved
	// against the project directory.
	OutputDir string `mapstructure:"output_dir"`
	// DestDir is the directory below OutputDir for the JDiff pages.
	// Empty selects the variant's default ("apidocs" or "testapidocs").
	DestDir string `mapstructure:"dest_dir"`
	// Variant is "main" or "test"
	Variant string `mapstructure:"variant"`
	// Name is the report title
	Name string `mapstructure:"name"`
	// Description is an optional paragraph on the summary page
	Description string `mapstructure:"description"`
	// SummaryFile is the summary page name without the .html extension
	SummaryFile string `mapstructure:"summary_file"`
	// WorkingDir holds checkouts of the comparison version.
	// Empty means "<root project>/target/jdiff".
	WorkingDir string `mapstructure:"working_dir"`
}

// VersionsConfig selects the two sides of the comparison
type VersionsConfig struct {
	// Comparison is a Maven version range for the old side.
	// Empty means "(,<project version>)".
	Comparison string `mapstructure:"comparison"`
	// Base is the version range for the new side.
	// Empty means the project's own version.
	Base string `mapstructure:"base"`
	// ForceCheckout deletes and re-creates existing checkouts
	ForceCheckout bool `mapstructure:"force_checkout"`
}

// JavadocConfig controls how javadoc and the JDiff doclet are found
type JavadocConfig struct {
	// Executable is an explicit javadoc binary or JDK directory
	Executable string `mapstructure:"executable"`
	// ToolchainsFile is a Maven toolchains.xml consulted for a JDK.
	// Empty means ~/.m2/toolchains.xml.
	ToolchainsFile string `mapstructure:"toolchains_file"`
	// Toolchain holds <provides> requirements, e.g. version: "17"
	Toolchain map[string]string `mapstructure:"toolchain"`
	// DocletPath lists the doclet jars explicitly. When empty, the Doclet
	// and Xerces artifacts are taken from the local repository.
	DocletPath []string `mapstructure:"docletpath"`
	// Doclet is the groupId:artifactId:version of the JDiff doclet
	Doclet string `mapstructure:"doclet"`
	// Xerces is the groupId:artifactId:version of the XML parser the
	// doclet needs
	Xerces string `mapstructure:"xerces"`
}

// SCMConfig controls source-control access
type SCMConfig struct {
	// Providers lists the enabled provider ids
	Providers []string `mapstructure:"providers"`
}

// RepositoryConfig controls where versions and poms are looked up
type RepositoryConfig struct {
	// LocalDir is the local Maven repository.
	// Empty means ~/.m2/repository.
	LocalDir string `mapstructure:"local_dir"`
	// RemoteURL is the remote Maven repository consulted after the local one
	RemoteURL string `mapstructure:"remote_url"`
	// Offline disables the remote repository
	Offline bool `mapstructure:"offline"`
	// TimeoutSeconds bounds each remote request
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// CacheSize is the number of metadata documents kept in memory
	CacheSize int `mapstructure:"cache_size"`
}

// ClasspathConfig controls how the javadoc classpath is built
type ClasspathConfig struct {
	// Entries are added to every classpath
	Entries []string `mapstructure:"entries"`
	// Maven asks mvn for each module's dependency classpath
	Maven bool `mapstructure:"maven"`
	// MavenExecutable overrides the mvn binary.
	// Empty means MAVEN_HOME, M2_HOME, then PATH.
	MavenExecutable string `mapstructure:"maven_executable"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// File writes the log to jdiff.log in the working directory instead of stderr
	File bool `mapstructure:"file"`
	// Format is "json" or "text"
	Format string `mapstructure:"format"`
}

// Timeout returns the remote request timeout as a time.Duration
func (c *RepositoryConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ResolveLocalDir returns the local repository path, expanding ~ and
// falling back to ~/.m2/repository.
func (c *RepositoryConfig) ResolveLocalDir() string {
	if c.LocalDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".m2", "repository")
		}
		return filepath.Join(home, ".m2", "repository")
	}
	return expandHome(c.LocalDir)
}

// ResolveWorkingDir returns the configured working directory with ~
// expanded, or "" when unset.
func (c *ReportConfig) ResolveWorkingDir() string {
	return expandHome(c.WorkingDir)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Report: ReportConfig{
			Variant:     "main",
			Name:        "JDiff API Difference Report",
			SummaryFile: "jdiff",
		},
		Javadoc: JavadocConfig{
			Toolchain:  map[string]string{},
			DocletPath: []string{},
			Doclet:     "jdiff:jdiff:1.0.9",
			Xerces:     "xerces:xercesImpl:2.12.2",
		},
		SCM: SCMConfig{
			Providers: []string{"git", "svn"},
		},
		Repository: RepositoryConfig{
			RemoteURL:      "https://repo.maven.apache.org/maven2",
			TimeoutSeconds: 30,
			CacheSize:      256,
		},
		Classpath: ClasspathConfig{
			Entries: []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Report defaults
	viper.SetDefault("report.output_dir", defaults.Report.OutputDir)
	viper.SetDefault("report.dest_dir", defaults.Report.DestDir)
	viper.SetDefault("report.variant", defaults.Report.Variant)
	viper.SetDefault("report.name", defaults.Report.Name)
	viper.SetDefault("report.description", defaults.Report.Description)
	viper.SetDefault("report.summary_file", defaults.Report.SummaryFile)
	viper.SetDefault("report.working_dir", defaults.Report.WorkingDir)

	// Versions defaults
	viper.SetDefault("versions.comparison", defaults.Versions.Comparison)
	viper.SetDefault("versions.base", defaults.Versions.Base)
	viper.SetDefault("versions.force_checkout", defaults.Versions.ForceCheckout)

	// Javadoc defaults
	viper.SetDefault("javadoc.executable", defaults.Javadoc.Executable)
	viper.SetDefault("javadoc.toolchains_file", defaults.Javadoc.ToolchainsFile)
	viper.SetDefault("javadoc.toolchain", defaults.Javadoc.Toolchain)
	viper.SetDefault("javadoc.docletpath", defaults.Javadoc.DocletPath)
	viper.SetDefault("javadoc.doclet", defaults.Javadoc.Doclet)
	viper.SetDefault("javadoc.xerces", defaults.Javadoc.Xerces)

	// SCM defaults
	viper.SetDefault("scm.providers", defaults.SCM.Providers)

	// Repository defaults
	viper.SetDefault("repository.local_dir", defaults.Repository.LocalDir)
	viper.SetDefault("repository.remote_url", defaults.Repository.RemoteURL)
	viper.SetDefault("repository.offline", defaults.Repository.Offline)
	viper.SetDefault("repository.timeout_seconds", defaults.Repository.TimeoutSeconds)
	viper.SetDefault("repository.cache_size", defaults.Repository.CacheSize)

	// Classpath defaults
	viper.SetDefault("classpath.entries", defaults.Classpath.Entries)
	viper.SetDefault("classpath.maven", defaults.Classpath.Maven)
	viper.SetDefault("classpath.maven_executable", defaults.Classpath.MavenExecutable)

	// Logging defaults
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
	viper.SetDefault("logging.format", defaults.Logging.Format)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "jdiff")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jdiff"
	}
	return filepath.Join(home, ".config", "jdiff")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ProjectConfigFile is the per-project config file name, read from the
// current directory.
const ProjectConfigFile = "jdiff.yaml"

// EnvPrefix prefixes every environment variable bound to a config key.
const EnvPrefix = "JDIFF"
