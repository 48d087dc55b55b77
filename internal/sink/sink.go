// Package sink writes small structured documents, such as the report
// summary page.
package sink

import (
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/Iron-Ham/jdiff/internal/errors"
)

// Inline is a run of paragraph text, optionally a link.
type Inline struct {
	Text string
	Href string
}

// Text returns a plain inline.
func Text(s string) Inline { return Inline{Text: s} }

// Link returns a hyperlink inline.
func Link(text, href string) Inline { return Inline{Text: text, Href: href} }

// Sink receives a document as a stream of structural events.
type Sink interface {
	// Title sets the document title.
	Title(text string)
	// Section starts a new top-level section; paragraphs that follow
	// belong to it.
	Section(title string)
	// Paragraph appends a paragraph to the current section.
	Paragraph(inlines ...Inline)
	// Close renders the document and releases the underlying writer.
	Close() error
}

type paragraph struct {
	Inlines []Inline
}

type section struct {
	Title      string
	Paragraphs []paragraph
}

type document struct {
	Title    string
	Sections []*section
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{- range .Sections}}
<section>
<h2>{{.Title}}</h2>
{{- range .Paragraphs}}
<p>{{range .Inlines}}{{if .Href}}<a href="{{.Href}}">{{.Text}}</a>{{else}}{{.Text}}{{end}}{{end}}</p>
{{- end}}
</section>
{{- end}}
</body>
</html>
`))

// HTML renders the document as a standalone HTML page on Close.
type HTML struct {
	w      io.Writer
	closer io.Closer
	doc    document
}

// NewHTML creates a sink writing to w. Close does not close w.
func NewHTML(w io.Writer) *HTML {
	return &HTML{w: w}
}

// CreateHTML creates (or truncates) the file at path, including parent
// directories, and returns a sink writing to it.
func CreateHTML(path string) (*HTML, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", filepath.Dir(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", path)
	}
	return &HTML{w: f, closer: f}, nil
}

// Title implements Sink.
func (h *HTML) Title(text string) {
	h.doc.Title = text
}

// Section implements Sink.
func (h *HTML) Section(title string) {
	h.doc.Sections = append(h.doc.Sections, &section{Title: title})
}

// Paragraph implements Sink. A paragraph before any section opens an
// untitled one.
func (h *HTML) Paragraph(inlines ...Inline) {
	if len(h.doc.Sections) == 0 {
		h.Section("")
	}
	cur := h.doc.Sections[len(h.doc.Sections)-1]
	cur.Paragraphs = append(cur.Paragraphs, paragraph{Inlines: inlines})
}

// Close implements Sink.
func (h *HTML) Close() error {
	err := page.Execute(h.w, h.doc)
	if h.closer != nil {
		if cerr := h.closer.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return errors.Wrap(err, "rendering document")
	}
	return nil
}
