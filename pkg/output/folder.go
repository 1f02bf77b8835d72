package output

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/fgroup/pkg/errors"
	"github.com/arthur-debert/fgroup/pkg/logging"
	"github.com/arthur-debert/fgroup/pkg/types"
)

// Folder writes one "<group>.txt" file per group, one path per line.
type Folder struct {
	fs  types.FS
	dir string
}

// NewFolder returns a folder writer rooted at dir. The directory is
// created on first write.
func NewFolder(fs types.FS, dir string) *Folder {
	return &Folder{fs: fs, dir: dir}
}

// Groups writes every group.
func (f *Folder) Groups(groups map[string][]string) error {
	for _, name := range sortedGroups(groups) {
		if err := f.Group(name, groups[name]); err != nil {
			return err
		}
	}
	return nil
}

// Group writes a single group's file.
func (f *Folder) Group(name string, paths []string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return errors.Newf(errors.ErrOutput, "group %q cannot be used as a file name", name).
			WithDetail("group", name)
	}

	if err := f.fs.MkdirAll(f.dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrOutput, "cannot create output directory %s", f.dir).
			WithDetail("path", f.dir)
	}

	var b strings.Builder
	for _, p := range paths {
		b.WriteString(p + "\n")
	}

	path := filepath.Join(f.dir, name+".txt")
	if err := f.fs.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrOutput, "cannot write %s", path).
			WithDetail("path", path)
	}

	logger := logging.GetLogger("output")
	logger.Debug().
		Str("group", name).
		Str("path", path).
		Int("paths", len(paths)).
		Msg("Group file written")
	return nil
}
