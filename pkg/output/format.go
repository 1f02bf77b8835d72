package output

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/fgroup/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format represents the output format type
type Format int

const (
	// FormatAuto picks FormatTerminal or FormatText from the destination
	FormatAuto Format = iota
	// FormatTerminal renders styled headers and tables
	FormatTerminal
	// FormatText renders plain, header-separated text
	FormatText
	FormatJSON
	FormatYAML
	FormatTOML
	FormatXML
	// FormatFolder writes one <group>.txt file per group into a directory
	FormatFolder
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerminal:
		return "term"
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatXML:
		return "xml"
	case FormatFolder:
		return "folder"
	default:
		return "unknown"
	}
}

// Names lists the accepted format names, for flag help and completion.
func Names() []string {
	return []string{"auto", "term", "text", "json", "yaml", "toml", "xml", "folder"}
}

// ParseFormat parses a string into a Format value
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "xml":
		return FormatXML, nil
	case "folder":
		return FormatFolder, nil
	default:
		return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format: %s", s).
			WithDetail("options", Names())
	}
}

// DetectFormat determines the appropriate output format based on environment and terminal capabilities
func DetectFormat(output *os.File) Format {
	// Check if NO_COLOR is set
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}

	// Check if we're being piped or redirected
	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}

	// Check terminal color support
	colorProfile := termenv.ColorProfile()
	if colorProfile == termenv.Ascii {
		return FormatText
	}

	// Terminal supports colors
	return FormatTerminal
}

// FormatForPath picks a format from an output path: an existing directory
// is a folder, known extensions map to their encodings and anything else
// is plain text.
func FormatForPath(path string) Format {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return FormatFolder
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".xml":
		return FormatXML
	}
	return FormatText
}

// Resolve turns FormatAuto into a concrete format. With an output path the
// path decides; on stdout the terminal does.
func Resolve(f Format, path string, stdout *os.File) Format {
	if f != FormatAuto {
		return f
	}
	if path != "" {
		return FormatForPath(path)
	}
	return DetectFormat(stdout)
}
