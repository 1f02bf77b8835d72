package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/arthur-debert/fgroup/pkg/errors"
	"github.com/arthur-debert/fgroup/pkg/logging"
	"github.com/arthur-debert/fgroup/pkg/types"
	"github.com/arthur-debert/fgroup/pkg/weights"
	"github.com/beevik/etree"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// DefaultIndent is used when indentation is requested without a width.
const DefaultIndent = 4

// DefaultTop is the number of weights listed when no count is given.
const DefaultTop = 10

// Options control how a Writer encodes results.
type Options struct {
	Format Format

	// Indent is the indentation width for json, yaml, toml and xml. Zero
	// selects the compact form.
	Indent int
}

// Writer renders grouping results to a stream in one format.
type Writer struct {
	w      io.Writer
	opts   Options
	styles Styles
	plain  bool
}

// NewWriter creates a Writer for a concrete stream format. FormatAuto must
// be resolved first and FormatFolder has its own writer.
func NewWriter(w io.Writer, opts Options) (*Writer, error) {
	switch opts.Format {
	case FormatAuto:
		return nil, errors.New(errors.ErrInternal, "output format must be resolved before writing")
	case FormatFolder:
		return nil, errors.New(errors.ErrInvalidInput, "output format \"folder\" requires an output directory")
	}
	if opts.Indent < 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, "indent must not be negative, got %d", opts.Indent)
	}

	out := &Writer{w: w, opts: opts}
	if opts.Format == FormatTerminal {
		r := lipgloss.NewRenderer(w)
		styles, err := LoadStyles(nil, r)
		if err != nil {
			return nil, err
		}
		out.styles = styles
		out.plain = r.ColorProfile() == termenv.Ascii

		logger := logging.GetLogger("output")
		logger.Debug().
			Str("colorProfile", fmt.Sprintf("%v", r.ColorProfile())).
			Msg("Terminal renderer created")
	}
	return out, nil
}

// Groups writes every group. Stream formats list groups sorted by name.
func (w *Writer) Groups(groups map[string][]string) error {
	names := sortedGroups(groups)
	logger := logging.GetLogger("output")
	logger.Debug().
		Str("format", w.opts.Format.String()).
		Int("groups", len(names)).
		Msg("Writing groups")

	switch w.opts.Format {
	case FormatTerminal:
		var b strings.Builder
		for i, name := range names {
			if i > 0 {
				b.WriteString("\n")
			}
			w.termGroup(&b, name, groups[name])
		}
		return w.write(b.String())
	case FormatJSON:
		return w.json(groups)
	case FormatYAML:
		return w.yaml(groups)
	case FormatTOML:
		return w.toml(groups)
	case FormatXML:
		doc, root := newXML("groups")
		for _, name := range names {
			xmlGroup(root, name, groups[name])
		}
		return w.xml(doc)
	default:
		var b strings.Builder
		for _, name := range names {
			b.WriteString(name + "\n")
			for _, p := range groups[name] {
				b.WriteString(p + "\n")
			}
			b.WriteString("\n")
		}
		return w.write(b.String())
	}
}

// Group writes the paths of a single group.
func (w *Writer) Group(name string, paths []string) error {
	switch w.opts.Format {
	case FormatTerminal:
		var b strings.Builder
		w.termGroup(&b, name, paths)
		return w.write(b.String())
	case FormatJSON:
		return w.json(nonNil(paths))
	case FormatYAML:
		return w.yaml(nonNil(paths))
	case FormatTOML:
		return w.toml(map[string][]string{name: nonNil(paths)})
	case FormatXML:
		doc, root := newXML("groups")
		xmlGroup(root, name, paths)
		return w.xml(doc)
	default:
		var b strings.Builder
		for _, p := range paths {
			b.WriteString(p + "\n")
		}
		return w.write(b.String())
	}
}

// Weights writes a weight table, heaviest first as given.
func (w *Writer) Weights(ws []weights.Weight) error {
	if ws == nil {
		ws = []weights.Weight{}
	}

	switch w.opts.Format {
	case FormatTerminal:
		return w.termWeights(ws)
	case FormatJSON:
		return w.json(ws)
	case FormatYAML:
		return w.yaml(ws)
	case FormatTOML:
		return w.toml(struct {
			Weights []weights.Weight `toml:"weights"`
		}{ws})
	case FormatXML:
		doc, root := newXML("weights")
		for _, e := range ws {
			el := root.CreateElement("path")
			el.CreateAttr("weight", strconv.Itoa(e.Weight))
			el.SetText(e.Path)
		}
		return w.xml(doc)
	default:
		width := weightWidth(ws)
		var b strings.Builder
		for _, e := range ws {
			fmt.Fprintf(&b, "%*d  %s\n", width, e.Weight, e.Path)
		}
		return w.write(b.String())
	}
}

func (w *Writer) termGroup(b *strings.Builder, name string, paths []string) {
	header := w.styles.Get("Group")
	if name == types.DefaultGroup {
		header = w.styles.Get("Unknown")
	}
	b.WriteString(header.Render(name))
	b.WriteString(" ")
	b.WriteString(w.styles.Get("Count").Render(fmt.Sprintf("(%d)", len(paths))))
	b.WriteString("\n")
	for _, p := range paths {
		b.WriteString(w.styles.Get("Path").Render(p))
		b.WriteString("\n")
	}
}

func (w *Writer) termWeights(ws []weights.Weight) error {
	width := weightWidth(ws)
	weightStyle := w.styles.Get("Weight").Width(width)

	data := pterm.TableData{{"Weight", "Path"}}
	for _, e := range ws {
		data = append(data, []string{weightStyle.Render(strconv.Itoa(e.Weight)), e.Path})
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(data)
	if w.plain {
		none := pterm.NewStyle()
		table = table.WithStyle(none).WithHeaderStyle(none).WithSeparatorStyle(none)
	}
	s, err := table.Srender()
	if err != nil {
		return errors.Wrap(err, errors.ErrOutput, "failed to render weight table")
	}
	return w.write(s + "\n")
}

func (w *Writer) json(v interface{}) error {
	var (
		data []byte
		err  error
	)
	if w.opts.Indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", w.opts.Indent))
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrOutput, "failed to encode json")
	}
	return w.write(string(data) + "\n")
}

func (w *Writer) yaml(v interface{}) error {
	enc := yaml.NewEncoder(w.w)
	if w.opts.Indent > 0 {
		enc.SetIndent(w.opts.Indent)
	}
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, errors.ErrOutput, "failed to encode yaml")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, errors.ErrOutput, "failed to encode yaml")
	}
	return nil
}

func (w *Writer) toml(v interface{}) error {
	enc := toml.NewEncoder(w.w)
	if w.opts.Indent > 0 {
		enc.SetIndentSymbol(strings.Repeat(" ", w.opts.Indent))
		enc.SetIndentTables(true)
		enc.SetArraysMultiline(true)
	}
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, errors.ErrOutput, "failed to encode toml")
	}
	return nil
}

func newXML(rootTag string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return doc, doc.CreateElement(rootTag)
}

func xmlGroup(parent *etree.Element, name string, paths []string) {
	g := parent.CreateElement("group")
	g.CreateAttr("name", name)
	for _, p := range paths {
		g.CreateElement("path").SetText(p)
	}
}

func (w *Writer) xml(doc *etree.Document) error {
	if w.opts.Indent > 0 {
		doc.Indent(w.opts.Indent)
	}
	s, err := doc.WriteToString()
	if err != nil {
		return errors.Wrap(err, errors.ErrOutput, "failed to encode xml")
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return w.write(s)
}

func (w *Writer) write(s string) error {
	if _, err := io.WriteString(w.w, s); err != nil {
		return errors.Wrap(err, errors.ErrOutput, "failed to write output")
	}
	return nil
}

func sortedGroups(groups map[string][]string) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func weightWidth(ws []weights.Weight) int {
	width := 1
	for _, e := range ws {
		if n := len(strconv.Itoa(e.Weight)); n > width {
			width = n
		}
	}
	return width
}

func nonNil(paths []string) []string {
	if paths == nil {
		return []string{}
	}
	return paths
}
