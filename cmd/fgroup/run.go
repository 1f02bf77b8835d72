package fgroup

import (
	"io"
	"os"

	"github.com/arthur-debert/fgroup/pkg/config"
	"github.com/arthur-debert/fgroup/pkg/errors"
	"github.com/arthur-debert/fgroup/pkg/filesystem"
	"github.com/arthur-debert/fgroup/pkg/grouper"
	"github.com/arthur-debert/fgroup/pkg/hooks"
	"github.com/arthur-debert/fgroup/pkg/logging"
	"github.com/arthur-debert/fgroup/pkg/matchtree"
	"github.com/arthur-debert/fgroup/pkg/output"
	"github.com/arthur-debert/fgroup/pkg/overrides"
	"github.com/arthur-debert/fgroup/pkg/types"
	"github.com/spf13/cobra"
)

// run groups the root and hands the result to hooks or an output writer.
func run(cmd *cobra.Command, opts *options, out string) error {
	logger := logging.GetLogger("cmd.fgroup")
	flags := cmd.Flags()
	opts.topSet = flags.Changed("top")
	opts.groupSet = flags.Changed("group")

	hooked := opts.exec != "" || opts.execAll != ""
	if hooked && (flags.Changed("format") || opts.topSet || opts.groupSet || flags.Changed("indent")) {
		return errors.New(errors.ErrInvalidInput, MsgErrExecFlags)
	}
	if len(opts.args) > 0 && opts.execAll == "" {
		return errors.New(errors.ErrInvalidInput, MsgErrArgsNoExecAll)
	}
	if opts.topSet && opts.groupSet {
		return errors.New(errors.ErrInvalidInput, MsgErrTopGroup)
	}
	if opts.top < 0 {
		return errors.Newf(errors.ErrInvalidInput, MsgErrNegativeTop, opts.top)
	}

	manual := make([]types.ManualPattern, 0, len(opts.manual))
	for _, m := range opts.manual {
		p, ok := types.ParseManualPattern(m)
		if !ok {
			return errors.Newf(errors.ErrInvalidInput, MsgErrInvalidManual, m).WithDetail("manual", m)
		}
		manual = append(manual, p)
	}
	manualList, err := matchtree.CompileManual(manual)
	if err != nil {
		return err
	}
	cliOverrides, err := overrides.ParsePairs(opts.overrides)
	if err != nil {
		return err
	}

	if opts.config == "" && len(manual) == 0 {
		return errors.New(errors.ErrInvalidInput, MsgErrNoGlobs)
	}

	// A root given on the command line is always relative to the working
	// directory.
	settings := map[string]interface{}{}
	if flags.Changed("root") {
		settings[config.KeyRoot] = opts.root
		settings[config.KeyConfigRelativeRoot] = false
	}
	cfg, err := config.Load(opts.config, settings)
	if err != nil {
		return err
	}
	tree, err := matchtree.Compile(cfg.Tree(manual))
	if err != nil {
		return err
	}

	root, err := cfg.RootDir()
	if err != nil {
		return err
	}
	info, err := os.Stat(root)
	if err != nil {
		return errors.Wrapf(err, errors.ErrNotFound, MsgErrRootNotFound, root).WithDetail("path", root)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrInvalidInput, MsgErrRootNotDir, root).WithDetail("path", root)
	}

	result, err := grouper.Group(grouper.Options{
		Root:           root,
		Tree:           tree,
		Manual:         manualList,
		Distinct:       opts.distinct,
		Absolute:       opts.absolute,
		FollowSymlinks: opts.followSymlinks,
		Overrides:      overrides.New(overrides.Merge(cfg.Overrides, cliOverrides)),
		FS:             filesystem.NewOS(),
		OnError: func(err error) {
			logger.Warn().
				Interface("path", errors.GetErrorDetails(err)["path"]).
				Err(err).
				Msg(MsgPathError)
		},
	})
	if err != nil {
		return err
	}

	if hooked {
		runner := hooks.NewRunner(root)
		runner.Stdout = cmd.OutOrStdout()
		runner.Stderr = cmd.ErrOrStderr()
		if opts.exec != "" {
			if err := runner.EachGroup(cmd.Context(), opts.exec, result.Groups); err != nil {
				return err
			}
		}
		if opts.execAll != "" {
			if err := runner.All(cmd.Context(), opts.execAll, result.Groups, opts.args); err != nil {
				return err
			}
		}
		return nil
	}

	return write(cmd, opts, out, result)
}

// write renders the result in the requested shape and format.
func write(cmd *cobra.Command, opts *options, out string, result *grouper.Result) error {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if format == output.FormatAuto {
		stdout, _ := cmd.OutOrStdout().(*os.File)
		switch {
		case out != "":
			format = output.FormatForPath(out)
		case stdout != nil:
			format = output.DetectFormat(stdout)
		default:
			format = output.FormatText
		}
	}

	var paths []string
	if opts.groupSet {
		var ok bool
		if paths, ok = result.Groups[opts.group]; !ok {
			return errors.Newf(errors.ErrInvalidInput, MsgErrUnknownGroup, opts.group).WithDetail("group", opts.group)
		}
	}

	if format == output.FormatFolder {
		if out == "" {
			return errors.New(errors.ErrInvalidInput, MsgErrFolderNoOutput)
		}
		if opts.topSet {
			return errors.New(errors.ErrInvalidInput, MsgErrTopFolder)
		}
		folder := output.NewFolder(filesystem.NewOS(), out)
		if opts.groupSet {
			return folder.Group(opts.group, paths)
		}
		return folder.Groups(result.Groups)
	}

	if out == "" {
		return render(cmd.OutOrStdout(), format, opts, paths, result)
	}

	f, err := os.Create(out)
	if err != nil {
		return errors.Wrapf(err, errors.ErrOutput, MsgErrCreateOutput, out).WithDetail("path", out)
	}
	if err := render(f, format, opts, paths, result); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrOutput, MsgErrCreateOutput, out).WithDetail("path", out)
	}
	return nil
}

func render(dest io.Writer, format output.Format, opts *options, paths []string, result *grouper.Result) error {
	w, err := output.NewWriter(dest, output.Options{Format: format, Indent: opts.indent})
	if err != nil {
		return err
	}

	switch {
	case opts.topSet:
		return w.Weights(result.Weights.Top(opts.top))
	case opts.groupSet:
		return w.Group(opts.group, paths)
	default:
		return w.Groups(result.Groups)
	}
}
