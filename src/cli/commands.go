package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mxls/src/internal/common"
	versionpkg "mxls/src/internal/version"
)

// CLI Constants
const (
	CmdServe           = "serve"
	CmdStatus          = "status"
	CmdReferences      = "references"
	CmdImplementations = "implementations"
	CmdCodeAction      = "code-action"
	CmdConfig          = "config"
	CmdVersion         = "version"
	FlagConfig         = "config"
	FlagVerbose        = "verbose"
	FlagDiagnostics    = "diagnostics"
	FlagApply          = "apply"
	FlagAction         = "action"
	FlagForce          = "force"
	FlagNoWatch        = "no-watch"
)

// CLI Variables
var (
	configPath  string
	verbose     bool
	diagnostics string
	apply       bool
	actionIndex int
	force       bool
	noWatch     bool
)

// Root command
var rootCmd = &cobra.Command{
	Use:   "mxls",
	Short: "mxls - code intelligence for ActionScript and MXML",
	Long: `mxls answers quick fix, find references and find implementations requests
for ActionScript and MXML projects, working from the semantic snapshot the
compiler exports for each workspace folder.

QUICK START:
  mxls serve                               # Language server over stdio
  mxls references src/app/Main.as 12 9     # Find references offline

AVAILABLE COMMANDS:
  mxls serve                               # Start the language server on stdin/stdout
  mxls status                              # Show folders and loaded snapshots
  mxls references <file> <line> <col>      # List references of the symbol at a position
  mxls implementations <file> <line> <col> # List implementations of an interface
  mxls code-action <file> --diagnostics d.json
                                           # Offer quick fixes for diagnostics
  mxls config init                         # Write a default configuration file

Positions are 1-based. Use 'mxls <command> --help' for detailed command information.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			common.SetGlobalLevel(common.LogDebug)
		}
		return nil
	},
}

// Command definitions
var (
	serveCmd = &cobra.Command{
		Use:   CmdServe,
		Short: "Start the language server over stdio",
		Long: `Start the language server speaking LSP on stdin and stdout.

Folders come from the configuration file. When none are configured, the
folders the editor sends at initialize are served from their .mxls/snapshot.json.
Snapshots are reloaded when their files change unless --no-watch is given.`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	statusCmd = &cobra.Command{
		Use:   CmdStatus,
		Short: "Show workspace folders and snapshot status",
		Args:  cobra.NoArgs,
		RunE:  runStatusCmd,
	}

	referencesCmd = &cobra.Command{
		Use:   CmdReferences + " <file> <line> <column>",
		Short: "List references of the symbol at a position",
		Long: `List every use of the symbol at the given position across the folder's
project, including uses in MXML markup. Output is a JSON array of LSP locations.

Examples:
  mxls references src/ui/Widget.as 4 17
  mxls references src/app/View.mxml 9 14 --config app.yaml`,
		Args: cobra.ExactArgs(3),
		RunE: runReferencesCmd,
	}

	implementationsCmd = &cobra.Command{
		Use:   CmdImplementations + " <file> <line> <column>",
		Short: "List classes implementing the interface at a position",
		Args:  cobra.ExactArgs(3),
		RunE:  runImplementationsCmd,
	}

	codeActionCmd = &cobra.Command{
		Use:   CmdCodeAction + " <file>",
		Short: "Offer quick fixes for compiler diagnostics",
		Long: `Offer quick fixes for the compiler diagnostics of a file.

Diagnostics are read from a JSON file ("-" for stdin) holding either an
array of LSP diagnostics or a textDocument/publishDiagnostics payload.
Output is a JSON array of code actions. With --apply the chosen action's
edits are applied and the resulting text is printed instead.

Examples:
  mxls code-action src/app/Main.as --diagnostics diags.json
  mxls code-action src/app/Main.as --diagnostics - --apply --action 1 < diags.json`,
		Args: cobra.ExactArgs(1),
		RunE: runCodeActionCmd,
	}

	configCmd = &cobra.Command{
		Use:   CmdConfig,
		Short: "Manage the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	versionCmd = &cobra.Command{
		Use:   CmdVersion,
		Short: "Show version information",
		Long: `Display version information for mxls.

By default, shows only the version number. Use --verbose for detailed build information
including commit hash, build date, and Go version.`,
		Args: cobra.NoArgs,
		RunE: runVersionCmd,
	}
)

// Config subcommands
var (
	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write a configuration serving the current directory to --config or to
~/.mxls/config.yaml. An existing file is kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: runConfigInitCmd,
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigShowCmd,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, FlagConfig, "c", "", "Configuration file path (optional, will use defaults if not provided)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, FlagVerbose, "v", false, "Enable debug logging and detailed version information")

	serveCmd.Flags().BoolVar(&noWatch, FlagNoWatch, false, "Do not reload snapshots when they change")

	codeActionCmd.Flags().StringVarP(&diagnostics, FlagDiagnostics, "d", "", "JSON file with the diagnostics, - for stdin")
	codeActionCmd.Flags().BoolVar(&apply, FlagApply, false, "Apply an action and print the edited text")
	codeActionCmd.Flags().IntVar(&actionIndex, FlagAction, 0, "Index of the action to apply")
	_ = codeActionCmd.MarkFlagRequired(FlagDiagnostics)

	configInitCmd.Flags().BoolVarP(&force, FlagForce, "f", false, "Overwrite an existing configuration file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(referencesCmd)
	rootCmd.AddCommand(implementationsCmd)
	rootCmd.AddCommand(codeActionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func runServeCmd(cmd *cobra.Command, args []string) error {
	return RunServer(configPath, !noWatch)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	return ShowStatus(cmd.OutOrStdout(), configPath)
}

func runReferencesCmd(cmd *cobra.Command, args []string) error {
	return FindReferences(cmd.OutOrStdout(), configPath, args[0], args[1], args[2])
}

func runImplementationsCmd(cmd *cobra.Command, args []string) error {
	return FindImplementations(cmd.OutOrStdout(), configPath, args[0], args[1], args[2])
}

func runCodeActionCmd(cmd *cobra.Command, args []string) error {
	if apply {
		return ApplyCodeAction(cmd.OutOrStdout(), configPath, args[0], diagnostics, actionIndex)
	}
	return ListCodeActions(cmd.OutOrStdout(), configPath, args[0], diagnostics)
}

func runConfigInitCmd(cmd *cobra.Command, args []string) error {
	return InitConfig(cmd.OutOrStdout(), configPath, force)
}

func runConfigShowCmd(cmd *cobra.Command, args []string) error {
	return ShowConfig(cmd.OutOrStdout(), configPath)
}

func runVersionCmd(cmd *cobra.Command, args []string) error {
	if verbose {
		fmt.Fprintln(cmd.OutOrStdout(), versionpkg.GetFullVersionInfo())
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "mxls %s\n", versionpkg.GetVersion())
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
