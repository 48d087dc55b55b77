package cmd

import (
	"fmt"
	"io"

	"github.com/Iron-Ham/jdiff/internal/errors"
	"github.com/Iron-Ham/jdiff/internal/source"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
)

func newPackagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packages",
		Short: "Show the packages each side of the comparison documents",
		Long: `Resolve and check out the comparison version like "jdiff report", then
print, per module, a unified diff of the package lists of the two sides.
Javadoc is not run.`,
		Args: cobra.NoArgs,
		RunE: runPackages,
	}

	addProjectFlags(cmd.Flags())
	addComparisonFlags(cmd.Flags())
	return cmd
}

func runPackages(cmd *cobra.Command, _ []string) error {
	bindings := append(append([]flagBinding{}, projectBindings...), comparisonBindings...)
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
	lhsSide, rhsSide := c.orch.Sides()
	for _, module := range c.reactor.Modules {
		if !c.orch.CanGenerate(module) {
			continue
		}
		lhs, rhs, err := c.orch.Packages(module)
		if err != nil {
			return err
		}

		fmt.Fprintln(out, st.title.Render(module.Name()))
		from := module.Name() + "-" + lhsSide.Version
		to := module.Name() + "-" + rhsSide.Version
		if err := writePackageDiff(out, from, to, lhs, rhs); err != nil {
			return err
		}
	}
	return nil
}

// writePackageDiff prints a unified diff of two package sets, one package
// per line, or a note when they are equal.
func writePackageDiff(w io.Writer, from, to string, lhs, rhs source.PackageSet) error {
	diff := difflib.UnifiedDiff{
		A:        lines(lhs.Sorted()),
		B:        lines(rhs.Sorted()),
		FromFile: from,
		ToFile:   to,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return err
	}
	if text == "" {
		_, err = fmt.Fprintf(w, "no package changes (%d packages)\n", lhs.Len())
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

func lines(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = s + "\n"
	}
	return out
}
