package report

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/Iron-Ham/jdiff/internal/logging"
	"github.com/Iron-Ham/jdiff/internal/sink"
)

// ImageFile is the auxiliary image JDiff's pages reference.
const ImageFile = "black.gif"

//go:embed assets/black.gif
var blackGIF []byte

// SinkFactory opens the summary page at path.
type SinkFactory func(path string) (sink.Sink, error)

// HTMLSink is the default SinkFactory.
func HTMLSink(path string) (sink.Sink, error) {
	s, err := sink.CreateHTML(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// render writes the summary page and copies the image into the report
// directory. Only the summary page can fail the run.
func (o *Orchestrator) render(loc *Location, logger *logging.Logger) error {
	href, err := filepath.Rel(filepath.Dir(loc.Summary), loc.Index)
	if err != nil {
		href = loc.Index
	}

	s, err := o.opts.newSink(loc.Summary)
	if err != nil {
		return err
	}
	s.Title(o.cfg.Name)
	s.Section(o.cfg.Name)
	if o.cfg.Description != "" {
		s.Paragraph(sink.Text(o.cfg.Description))
	}
	s.Paragraph(
		sink.Text("The pages generated by JDiff are on a separate page. It can be found "),
		sink.Link("here", filepath.ToSlash(href)),
		sink.Text("."),
	)
	if err := s.Close(); err != nil {
		return err
	}

	if err := copyImage(loc.Dir); err != nil {
		logger.Warn("failed to copy report image", "error", err.Error())
	}
	return nil
}

func copyImage(dir string) error {
	return os.WriteFile(filepath.Join(dir, ImageFile), blackGIF, 0644)
}
