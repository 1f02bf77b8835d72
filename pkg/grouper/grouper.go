package grouper

import (
	"path/filepath"

	"github.com/arthur-debert/fgroup/pkg/errors"
	"github.com/arthur-debert/fgroup/pkg/filesystem"
	"github.com/arthur-debert/fgroup/pkg/logging"
	"github.com/arthur-debert/fgroup/pkg/matchtree"
	"github.com/arthur-debert/fgroup/pkg/overrides"
	"github.com/arthur-debert/fgroup/pkg/types"
	"github.com/arthur-debert/fgroup/pkg/weights"
	"github.com/rs/zerolog"
)

// Options configures one grouping run.
type Options struct {
	// Root is the directory to group. It is cleaned but not resolved
	// against the working directory; callers pass an absolute path.
	Root string

	// Tree is the compiled configuration tree. Nil groups nothing by
	// configuration.
	Tree *matchtree.Node

	// Manual patterns outrank every configuration entry.
	Manual *matchtree.ManualList

	// Distinct classifies every path on its own: no child blocking and no
	// default group.
	Distinct bool

	// Absolute reports absolute paths instead of paths relative to Root.
	Absolute bool

	// FollowSymlinks descends into symlinked directories.
	FollowSymlinks bool

	Overrides *overrides.Resolver

	// FS defaults to the OS filesystem.
	FS types.FS

	// OnError receives every non-fatal PATH_IO error as it happens.
	OnError func(error)

	Logger *zerolog.Logger
}

// Result is the outcome of a grouping run.
type Result struct {
	// Groups maps a group name to its paths in discovery order.
	Groups map[string][]string

	// Order lists group names in order of first assignment.
	Order []string

	Weights *weights.Table

	// Errors collects the non-fatal errors of the run.
	Errors []error

	// Paths is every path the run kept track of, in discovery order.
	Paths []types.PathState
}

// Group returns the paths of one group, nil if the group is empty.
func (r *Result) Group(name string) []string {
	return r.Groups[name]
}

// Has reports whether the group received any path.
func (r *Result) Has(name string) bool {
	_, ok := r.Groups[name]
	return ok
}

// Group walks opts.Root and classifies every path under it.
//
// Pattern and configuration errors must be raised before calling Group,
// when the tree is compiled. Group itself only fails when the root cannot
// be read; every other I/O problem excludes the affected path and is
// reported through Options.OnError and Result.Errors.
func Group(opts Options) (*Result, error) {
	if opts.Root == "" {
		return nil, errors.New(errors.ErrInvalidInput, "no root directory given")
	}
	if opts.FS == nil {
		opts.FS = filesystem.NewOS()
	}
	opts.Root = filepath.Clean(opts.Root)

	logger := logging.GetLogger("grouper")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	e := &engine{
		opts:    opts,
		fs:      opts.FS,
		logger:  logger,
		weights: weights.New(),
	}
	return e.run()
}
