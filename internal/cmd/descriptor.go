package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/Iron-Ham/jdiff/internal/javadoc"
	"github.com/Iron-Ham/jdiff/internal/pom"
	"github.com/Iron-Ham/jdiff/internal/report"
	"github.com/Iron-Ham/jdiff/internal/source"
	"github.com/spf13/cobra"
)

func newDescriptorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "descriptor",
		Short: "Write the XML API description of the current project",
		Long: `Write the XML API description of the project on disk, as the JDiff
doclet sees it, to target/jdiff/<api-name>.xml. Nothing is compared.`,
		Args: cobra.NoArgs,
		RunE: runDescriptor,
	}

	addProjectFlags(cmd.Flags())
	cmd.Flags().String("api-name", "", "name of the API description (default <artifactId>-<version>)")
	cmd.Flags().String("include-packages", "", "space separated packages to document instead of scanning the sources")
	return cmd
}

func runDescriptor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, projectBindings...)
	if err != nil {
		return err
	}

	flagDir, _ := cmd.Flags().GetString("project-dir")
	dir, err := projectDir(flagDir)
	if err != nil {
		return err
	}
	project, err := pom.Load(dir)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr(), filepath.Join(project.Build.Directory, "jdiff"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	tc, err := newToolchain(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	apiName, _ := cmd.Flags().GetString("api-name")
	include, _ := cmd.Flags().GetString("include-packages")
	d := &report.Descriptor{
		Javadoc:    tc.javadoc,
		DocletPath: tc.docletPath,
		Runner:     javadoc.NewExecutor(tc.exec, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger),
		Classpath:  tc.classpath,
		Logger:     logger,
	}
	path, err := d.Generate(cmd.Context(), project, apiName, source.Parse(include))
	if err != nil {
		return err
	}

	st := newStyles(cmd.OutOrStdout())
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", st.success.Render("API description written to"), path)
	return nil
}
