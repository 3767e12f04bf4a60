package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"logscope/internal/app/filter"
	"logscope/internal/config"
)

// CommandType represents the type of CLI command
type CommandType int

// Command type values
const (
	CommandUI CommandType = iota
	CommandHeadless
	CommandSearch
	CommandTail
	CommandVersion
	CommandHelp
)

// Options contains the parsed command-line arguments
type Options struct {
	Type   CommandType
	Filter filter.Options
	Dir    string
	Replay bool
	NoUI   bool
	Name   string
	Last   int
	Max    int
	Newest bool
}

// rootFlags holds flag values shared by every command
type rootFlags struct {
	levels  []string
	sources []string
	version bool
}

// Parse parses command-line args and returns an Options struct
func Parse(args []string) (*Options, error) {
	result := &Options{
		Type: CommandUI,
	}

	var flags rootFlags

	root := buildRootCommand(result, &flags)
	root.AddCommand(
		buildSearchCommand(result),
		buildTailCommand(result),
		buildVersionCommand(result),
	)

	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		return nil, err
	}

	result.Filter.Levels = splitList(flags.levels)
	result.Filter.Sources = splitList(flags.sources)

	if flags.version {
		result.Type = CommandVersion
	}

	if result.Type == CommandUI && result.NoUI {
		result.Type = CommandHeadless
	}

	return result, nil
}

// Apply copies the engine flags onto the configuration
func (o *Options) Apply(cfg *config.Config) {
	if o.Dir != "" {
		cfg.Sources.Dir = o.Dir
	}

	if o.Replay || o.Type == CommandSearch {
		cfg.Tail.Start = config.StartFromStart
	}
}

// Interactive reports whether the command takes over the terminal
func (o *Options) Interactive() bool {
	return o.Type == CommandUI
}

// buildRootCommand creates the root cobra command
func buildRootCommand(result *Options, flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logscope",
		Short: "Real-time log viewer for multi-source robot logs",
		Long: `Logscope tails a directory of log files, parses each record and
keeps a bounded history that live views filter by level, source, text and mode.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandUI
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&result.NoUI, "no-ui", false, "Print matching entries to stdout instead of the TUI")
	pf.StringSliceVar(&flags.levels, "level", nil, "Levels to show (DEBUG, INFO, WARNING, ERROR, CRITICAL)")
	pf.StringSliceVar(&flags.sources, "source", nil, "Sources to show")
	pf.StringVar(&result.Filter.Text, "search", "", "Only show entries whose message contains the text")
	pf.BoolVar(&result.Filter.Regex, "regex", false, "Treat the search text as a regular expression")
	pf.BoolVar(&result.Filter.CaseSensitive, "case-sensitive", false, "Match the search text case-sensitively")
	pf.StringVar(&result.Filter.Mode, "mode", "", "Preset view (crash, dialogue)")
	pf.StringVar(&result.Dir, "dir", "", "Directory holding the log files")
	pf.BoolVar(&result.Replay, "replay", false, "Read the log files from the start instead of only new lines")

	cmd.Flags().BoolVarP(&flags.version, "version", "v", false, "Show version information")

	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		result.Type = CommandHelp
	})

	return cmd
}

// buildSearchCommand creates the search subcommand
func buildSearchCommand(result *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "search [text]",
		Aliases: []string{"s"},
		Short:   "Read the log files from the start and print matching entries",
		Args:    cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandSearch
			if len(args) > 0 {
				result.Filter.Text = args[0]
			}
		},
	}

	cmd.Flags().IntVar(&result.Max, "max", 0, "Maximum number of results (0 for all)")
	cmd.Flags().BoolVar(&result.Newest, "newest", false, "Print the newest entries first")

	return cmd
}

// buildTailCommand creates the tail subcommand
func buildTailCommand(result *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tail",
		Aliases: []string{"t"},
		Short:   "Stream entries from a running logscope instance",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandTail
		},
	}

	cmd.Flags().StringVar(&result.Name, "name", "", "Instance to attach to when several are running")
	cmd.Flags().IntVar(&result.Last, "last", 0, "Number of stored entries to show before live ones")

	return cmd
}

// buildVersionCommand creates the version subcommand
func buildVersionCommand(result *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			result.Type = CommandVersion
		},
	}

	return cmd
}

// splitList trims flag values and drops empty ones
func splitList(values []string) []string {
	out := make([]string, 0, len(values))

	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	if len(out) == 0 {
		return nil
	}

	return out
}
