package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/Iron-Ham/jdiff/internal/artifact"
	"github.com/Iron-Ham/jdiff/internal/checkout"
	"github.com/Iron-Ham/jdiff/internal/config"
	"github.com/Iron-Ham/jdiff/internal/errors"
	"github.com/Iron-Ham/jdiff/internal/javadoc"
	"github.com/Iron-Ham/jdiff/internal/logging"
	"github.com/Iron-Ham/jdiff/internal/pom"
	"github.com/Iron-Ham/jdiff/internal/report"
	"github.com/Iron-Ham/jdiff/internal/scm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// addProjectFlags registers the flags every javadoc-running command shares.
func addProjectFlags(fs *pflag.FlagSet) {
	fs.String("project-dir", ".", "directory holding the project's pom.xml")
	fs.String("javadoc", "", "javadoc executable or JDK directory")
	fs.StringSlice("docletpath", nil, "JDiff doclet jars (default: from the local repository)")
	fs.StringArray("classpath", nil, "extra classpath entry (repeatable)")
	fs.Bool("offline", false, "do not contact the remote repository")
	fs.String("local-repository", "", "local Maven repository (default ~/.m2/repository)")
}

var projectBindings = []flagBinding{
	{key: "javadoc.executable", flag: "javadoc"},
	{key: "javadoc.docletpath", flag: "docletpath"},
	{key: "classpath.entries", flag: "classpath"},
	{key: "repository.offline", flag: "offline"},
	{key: "repository.local_dir", flag: "local-repository"},
}

// addComparisonFlags registers the flags that pick the two sides.
func addComparisonFlags(fs *pflag.FlagSet) {
	fs.String("comparison-version", "", "version range of the old side (default (,<project.version>))")
	fs.String("base-version", "", "version range of the new side (default <project.version>)")
	fs.Bool("force-checkout", false, "discard existing checkouts instead of updating them")
	fs.String("working-dir", "", "directory for checkouts (default <project>/target/jdiff)")
	fs.String("variant", "", "sources to compare: main or test")
}

var comparisonBindings = []flagBinding{
	{key: "versions.comparison", flag: "comparison-version"},
	{key: "versions.base", flag: "base-version"},
	{key: "versions.force_checkout", flag: "force-checkout"},
	{key: "report.working_dir", flag: "working-dir"},
	{key: "report.variant", flag: "variant"},
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the API difference report",
		Long: `Generate the API difference report for every module of the project.

The comparison version is resolved against the local and remote Maven
repositories, its sources are checked out from the SCM declared in its
published pom, and JDiff compares them with the sources on disk.`,
		Args: cobra.NoArgs,
		RunE: runReport,
	}

	addProjectFlags(cmd.Flags())
	addComparisonFlags(cmd.Flags())
	cmd.Flags().String("output-dir", "", "site directory for the summary page (default <project>/target/site)")
	cmd.Flags().String("dest-dir", "", "report directory under the output directory (default apidocs or testapidocs)")
	cmd.Flags().String("name", "", "report title")
	cmd.Flags().String("description", "", "paragraph added to the summary page")
	return cmd
}

// comparison is an initialized orchestrator for one reactor.
type comparison struct {
	cfg     *config.Config
	reactor *pom.Reactor
	orch    *report.Orchestrator
	logger  *logging.Logger
}

// Close releases the log file.
func (c *comparison) Close() error {
	return c.logger.Close()
}

// openComparison loads the reactor at --project-dir, wires the
// orchestrator from cfg and runs its initialization.
func openComparison(cmd *cobra.Command, cfg *config.Config) (*comparison, error) {
	flagDir, _ := cmd.Flags().GetString("project-dir")
	dir, err := projectDir(flagDir)
	if err != nil {
		return nil, err
	}
	reactor, err := pom.LoadReactor(dir)
	if err != nil {
		return nil, err
	}
	root := reactor.First().Project

	workingDir := cfg.Report.ResolveWorkingDir()
	if workingDir == "" {
		workingDir = filepath.Join(root.Build.Directory, "jdiff")
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr(), workingDir)
	if err != nil {
		return nil, err
	}

	c := &comparison{cfg: cfg, reactor: reactor, logger: logger}
	if err := c.init(cmd, root, workingDir); err != nil {
		_ = logger.Close()
		return nil, err
	}
	return c, nil
}

func (c *comparison) init(cmd *cobra.Command, root *pom.Project, workingDir string) error {
	ctx := cmd.Context()
	cfg := c.cfg

	tc, err := newToolchain(ctx, cfg, c.logger)
	if err != nil {
		return err
	}
	src, err := metadataSource(cfg, tc.local)
	if err != nil {
		return err
	}

	variant := report.MainVariant
	if cfg.Report.Variant != "" {
		if variant, err = report.VariantByName(cfg.Report.Variant); err != nil {
			return err
		}
	}

	c.orch, err = report.New(report.Config{
		ComparisonVersion: cfg.Versions.Comparison,
		BaseVersion:       cfg.Versions.Base,
		ForceCheckout:     cfg.Versions.ForceCheckout,
		WorkingDir:        workingDir,
		OutputDir:         cfg.Report.OutputDir,
		Name:              cfg.Report.Name,
		Description:       cfg.Report.Description,
		SummaryFile:       cfg.Report.SummaryFile,
		Variant:           variant.WithDestDir(cfg.Report.DestDir),
		Javadoc:           tc.javadoc,
		DocletPath:        tc.docletPath,
		Resolver:          artifact.NewResolver(src, c.logger),
		Projects:          src,
		Fetcher:           scm.NewFetcher(registry(cfg, tc.exec), c.logger),
		Session:           checkout.NewSession(),
		Runner:            javadoc.NewExecutor(tc.exec, cmd.OutOrStdout(), cmd.ErrOrStderr(), c.logger),
		Classpath:         tc.classpath,
	}, report.WithLogger(c.logger))
	if err != nil {
		return err
	}

	return c.orch.Init(ctx, root)
}

// noPreviousVersion reports a comparison version that matched nothing.
// That outcome is not an error.
func noPreviousVersion(cmd *cobra.Command, cfg *config.Config) {
	st := newStyles(cmd.OutOrStdout())
	spec := cfg.Versions.Comparison
	if spec == "" {
		spec = "(,<project.version>)"
	}
	fmt.Fprintln(cmd.OutOrStdout(), st.warning.Render("Unable to find a previous version of the project in the repository matching "+spec+"; no report generated."))
}

func runReport(cmd *cobra.Command, _ []string) error {
	bindings := append(append([]flagBinding{}, projectBindings...), comparisonBindings...)
	bindings = append(bindings,
		flagBinding{key: "report.output_dir", flag: "output-dir"},
		flagBinding{key: "report.dest_dir", flag: "dest-dir"},
		flagBinding{key: "report.name", flag: "name"},
		flagBinding{key: "report.description", flag: "description"},
	)
	cfg, err := loadConfig(cmd, bindings...)
	if err != nil {
		return err
	}

	c, err := openComparison(cmd, cfg)
	if err != nil {
		if errors.IsSoftFailure(err) {
			noPreviousVersion(cmd, cfg)
			return nil
		}
		return err
	}
	defer func() { _ = c.Close() }()

	out := cmd.OutOrStdout()
	st := newStyles(out)
	lhs, rhs := c.orch.Sides()
	fmt.Fprintf(out, "%s %s\n", st.title.Render(cfg.Report.Name), st.muted.Render(lhs.Version+" -> "+rhs.Version))

	generated := 0
	for _, module := range c.reactor.Modules {
		loc, err := c.orch.Run(cmd.Context(), module)
		if err != nil {
			fmt.Fprintf(out, "  %s %s\n", st.failure.Render("FAILED"), module.Name())
			return err
		}
		if loc.Skipped {
			fmt.Fprintf(out, "  %s %s\n", st.muted.Render("skipped"), module.Name())
			continue
		}
		generated++
		fmt.Fprintf(out, "  %s %s %s\n", st.success.Render("done"), st.key.Render(module.Name()), loc.Summary)
	}
	fmt.Fprintf(out, "%d of %d modules reported\n", generated, len(c.reactor.Modules))
	return nil
}
