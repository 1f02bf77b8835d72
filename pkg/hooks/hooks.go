package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	ferrors "github.com/arthur-debert/fgroup/pkg/errors"
	"github.com/arthur-debert/fgroup/pkg/logging"
	"github.com/rs/zerolog"
)

const (
	// GroupEnv names the group a per-group command runs for.
	GroupEnv = "FGROUP_GROUP"
	// CountEnv holds the number of paths handed to the command.
	CountEnv = "FGROUP_COUNT"

	// argv0 is $0 for exec-all commands, so extra arguments start at $1.
	argv0 = "fgroup"
)

// Runner executes shell commands over grouping results.
type Runner struct {
	// Shell runs the command string, as "Shell -c CMD". Defaults to sh.
	Shell string
	// Dir is the working directory, usually the grouping root.
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
	logger zerolog.Logger
}

// NewRunner returns a runner that forwards command output to the process's
// own stdout and stderr.
func NewRunner(dir string) *Runner {
	return &Runner{
		Shell:  "sh",
		Dir:    dir,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		logger: logging.GetLogger("hooks"),
	}
}

// EachGroup runs command once per group, in group name order. The paths
// arrive on stdin one per line and the group name in FGROUP_GROUP. The first
// failing command stops the run.
func (r *Runner) EachGroup(ctx context.Context, command string, groups map[string][]string) error {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		paths := groups[name]
		var stdin bytes.Buffer
		for _, p := range paths {
			stdin.WriteString(p + "\n")
		}

		env := []string{GroupEnv + "=" + name, CountEnv + "=" + strconv.Itoa(len(paths))}
		if err := r.run(ctx, command, nil, env, &stdin); err != nil {
			return err.WithDetail("group", name)
		}
	}
	return nil
}

// All runs command once with every group as a JSON object on stdin. args
// become the positional parameters $1, $2, ...
func (r *Runner) All(ctx context.Context, command string, groups map[string][]string, args []string) error {
	data, err := json.Marshal(groups)
	if err != nil {
		return ferrors.Wrap(err, ferrors.ErrInternal, "failed to encode groups")
	}

	count := 0
	for _, paths := range groups {
		count += len(paths)
	}

	env := []string{CountEnv + "=" + strconv.Itoa(count)}
	if err := r.run(ctx, command, args, env, bytes.NewReader(data)); err != nil {
		return err
	}
	return nil
}

func (r *Runner) run(ctx context.Context, command string, args, env []string, stdin io.Reader) *ferrors.FgroupError {
	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}

	argv := append([]string{"-c", command}, argv0)
	argv = append(argv, args...)
	logging.LogCommand(shell, argv)

	cmd := exec.CommandContext(ctx, shell, argv...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdin = stdin

	var stderr bytes.Buffer
	cmd.Stdout = r.Stdout
	cmd.Stderr = &stderr
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(r.Stderr, &stderr)
	}

	err := cmd.Run()
	if err == nil {
		r.logger.Debug().
			Str("command", command).
			Strs("env", env).
			Msg("Command executed successfully")
		return nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	r.logger.Error().
		Err(err).
		Str("command", command).
		Int("exitCode", exitCode).
		Str("stderr", strings.TrimSpace(stderr.String())).
		Msg("Command execution failed")

	return ferrors.Wrapf(err, ferrors.ErrHookExecute, "command %q failed with exit status %d", command, exitCode).
		WithDetail("command", command).
		WithDetail("exitCode", exitCode)
}
