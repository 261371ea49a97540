package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/studiowebux/catalog/internal/cli"
	"github.com/studiowebux/catalog/internal/config"
)

var (
	appVersion = "0.1.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Catalog - terminal editor for projects, areas and content",
	Long: `Catalog edits the projects, areas and markdown content of a PostgREST or
Supabase backend.

Run without arguments to start the TUI, or use a subcommand for scripting.

Examples:
  catalog                               # Start interactive TUI
  catalog mock                          # Serve a seeded local backend
  catalog projects list -o json         # List projects as JSON
  catalog areas list --query '[].title' # Narrow output with JMESPath
  catalog content show 1                # Render the content of project 1
  catalog links sync 2 1 4              # Link areas 1 and 4 to project 2
  catalog login demo@example.com        # Sign in (prompts for the password)
  catalog -p staging whoami             # Use the 'staging' profile`,
	Version:       appVersion,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		opts := globalOptions()
		// The TUI owns the terminal
		opts.LogFile = config.LogFile
		env, err := cli.Open(opts)
		if err != nil {
			return err
		}
		defer env.Close()
		return env.RunTUI()
	},
}

// Global flags
var (
	flagProfile string
	flagOutput  string
	flagQuery   string
	flagVerbose bool
)

func globalOptions() cli.Options {
	return cli.Options{
		Profile: flagProfile,
		Output:  flagOutput,
		Query:   flagQuery,
		Verbose: flagVerbose,
	}
}

// withEnv initializes the configuration and opens the environment a
// subcommand runs with
func withEnv(run func(ctx context.Context, env *cli.Env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		env, err := cli.Open(globalOptions())
		if err != nil {
			return err
		}
		defer env.Close()
		return run(cmd.Context(), env, args)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagProfile, "profile", "p", "", "Profile to use")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Output format (json/yaml/text)")
	rootCmd.PersistentFlags().StringVar(&flagQuery, "query", "", "JMESPath expression applied to the output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(areasCmd)
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(linksCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(recoverCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mockCmd)
	rootCmd.AddCommand(versionCmd)
}
