package fgroup

import (
	"fmt"
	"os"

	"github.com/arthur-debert/fgroup/internal/version"
	"github.com/arthur-debert/fgroup/pkg/logging"
	"github.com/arthur-debert/fgroup/pkg/output"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// options holds the parsed root command flags.
type options struct {
	verbosity int

	config         string
	manual         []string
	overrides      []string
	root           string
	absolute       bool
	distinct       bool
	followSymlinks bool

	format   string
	top      int
	topSet   bool
	group    string
	groupSet bool
	indent   int

	exec    string
	execAll string
	args    []string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "fgroup [output]",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var out string
			if len(args) > 0 {
				out = args[0]
			}
			return run(cmd, opts, out)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)

	flags := rootCmd.Flags()
	flags.SortFlags = false

	flags.StringVarP(&opts.config, "config", "c", "", MsgFlagConfig)
	flags.StringArrayVarP(&opts.manual, "manual", "m", nil, MsgFlagManual)
	flags.StringArrayVarP(&opts.overrides, "override", "o", nil, MsgFlagOverride)
	flags.StringVarP(&opts.root, "root", "r", "", MsgFlagRoot)
	flags.Lookup("root").NoOptDefVal = "/"
	flags.BoolVarP(&opts.absolute, "absolute", "a", false, MsgFlagAbsolute)
	flags.BoolVarP(&opts.distinct, "distinct", "d", false, MsgFlagDistinct)
	flags.BoolVarP(&opts.followSymlinks, "follow-symlinks", "L", false, MsgFlagFollowSymlinks)

	flags.StringVarP(&opts.format, "format", "f", "auto", MsgFlagFormat)
	flags.IntVarP(&opts.top, "top", "t", output.DefaultTop, MsgFlagTop)
	flags.Lookup("top").NoOptDefVal = fmt.Sprint(output.DefaultTop)
	flags.StringVarP(&opts.group, "group", "g", "", MsgFlagGroup)
	flags.IntVarP(&opts.indent, "indent", "i", 0, MsgFlagIndent)
	flags.Lookup("indent").NoOptDefVal = fmt.Sprint(output.DefaultIndent)

	flags.StringVar(&opts.exec, "exec", "", MsgFlagExec)
	flags.StringVar(&opts.execAll, "exec-all", "", MsgFlagExecAll)
	flags.StringArrayVarP(&opts.args, "arg", "A", nil, MsgFlagArgs)

	_ = rootCmd.MarkFlagFilename("config", "yaml", "yml", "toml")
	_ = rootCmd.MarkFlagDirname("root")
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return output.Names(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newSyntaxCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
		},
	}
}

func newSyntaxCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "syntax",
		Short: MsgSyntaxShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := MsgSyntax
			if !plain && os.Getenv("NO_COLOR") == "" {
				out = renderMarkdown(MsgSyntax)
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, MsgFlagPlain)
	return cmd
}

// renderMarkdown renders markdown for the terminal, falling back to the
// source on any error.
func renderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// newManCmd writes the fgroup(1) man page, for packaging.
func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "man",
		Short:  MsgManShort,
		Args:   cobra.NoArgs,
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "FGROUP",
				Section: "1",
				Source:  "fgroup " + version.Version,
				Manual:  "fgroup manual",
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}
