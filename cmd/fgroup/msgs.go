package fgroup

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Group files and directories with glob patterns"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgSyntaxShort     = "Show the pattern and configuration reference"
	MsgManShort        = "Generate the man page"

	// Flag descriptions
	MsgFlagVerbose        = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig         = "Configuration file (.yaml or .toml)"
	MsgFlagManual         = "Pattern P, relative to the root, grouped as G; beats the config (repeatable)"
	MsgFlagOverride       = "Use group N wherever group G is assigned (repeatable)"
	MsgFlagRoot           = "Directory to group, beats the config (-r alone: /)"
	MsgFlagAbsolute       = "Print absolute paths instead of paths relative to the root"
	MsgFlagDistinct       = "Group every path on its own; unmatched paths are left out"
	MsgFlagFollowSymlinks = "Descend into symlinked directories"
	MsgFlagFormat         = "Output format: auto, term, text, json, yaml, toml, xml or folder"
	MsgFlagTop            = "List the N heaviest paths instead of groups (-t alone: 10, -t0: all)"
	MsgFlagGroup          = "Only print the paths of GROUP"
	MsgFlagIndent         = "Indent json, yaml, toml and xml output by N spaces (-i alone: 4)"
	MsgFlagExec           = "Run CMD once per group, paths on stdin and the group in $FGROUP_GROUP"
	MsgFlagExecAll        = "Run CMD once with every group as JSON on stdin"
	MsgFlagArgs           = "Extra argument for --exec-all, passed as $1, $2, ... (repeatable)"
	MsgFlagPlain          = "Print the raw markdown"

	// Status messages
	MsgVersionFormat = "fgroup version %s\n  commit: %s\n  built:  %s\n"
	MsgPathError     = "skipping unreadable path"

	// Error messages
	MsgErrNoGlobs        = "no globs given, provide some with -m or supply a config with -c"
	MsgErrInvalidManual  = "invalid manual %q: expected PATTERN:GROUP"
	MsgErrRootNotFound   = "root filepath %q not found"
	MsgErrRootNotDir     = "root filepath %q is not a directory"
	MsgErrExecFlags      = "--exec and --exec-all are not compatible with -f, -t, -g or -i"
	MsgErrArgsNoExecAll  = "-A needs --exec-all"
	MsgErrTopGroup       = "options -t and -g are not compatible with each other"
	MsgErrTopFolder      = "option -t does not support output format \"folder\""
	MsgErrFolderNoOutput = "output format \"folder\" requires an output path"
	MsgErrUnknownGroup   = "no paths were given the group %q"
	MsgErrCreateOutput   = "cannot create output file %s"
	MsgErrNegativeTop    = "-t must not be negative, got %d"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/syntax.md
	MsgSyntax string
)
