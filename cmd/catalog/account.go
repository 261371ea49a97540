package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/studiowebux/catalog/internal/cli"
	"github.com/studiowebux/catalog/internal/version"
)

var (
	flagPassword string
	flagName     string
	flagLimit    int
	flagAll      bool
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in to the backend of the active profile",
	Long: `Sign in with an email and password. The password is asked for unless
--password is given; piped input is read as the password.`,
	Args: cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		return env.Login(ctx, args[0], flagPassword)
	}),
}

var signupCmd = &cobra.Command{
	Use:   "signup <email> <password>",
	Short: "Create an account on the backend of the active profile",
	Args:  cobra.ExactArgs(2),
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		return env.SignUp(ctx, args[0], args[1], flagName)
	}),
}

var recoverCmd = &cobra.Command{
	Use:   "recover <email>",
	Short: "Send a password recovery email",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		return env.Recover(ctx, args[0])
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		return env.Logout(ctx)
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account of the active profile",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		return env.WhoAmI(ctx)
	}),
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the writes sent to the backend",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		return env.ListHistory(flagLimit)
	}),
}

var historyShowCmd = &cobra.Command{
	Use:   "show <request-id>",
	Short: "Show one recorded write with its body",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		return env.HistoryShow(args[0])
	}),
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the history of the active profile",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		return env.HistoryClear(flagAll)
	}),
}

var historyEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Record writes in the history",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		return env.SetHistoryEnabled(true)
	}),
}

var historyDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Stop recording writes",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		return env.SetHistoryEnabled(false)
	}),
}

var profilesCmd = &cobra.Command{
	Use:     "profiles",
	Aliases: []string{"profile"},
	Short:   "List and switch backend profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		return env.ListProfiles()
	}),
}

var profilesUseCmd = &cobra.Command{
	Use:   "use [name]",
	Short: "Activate a profile",
	Long:  "Activate a profile. Without a name the profile is picked from a list.",
	Args:  cobra.MaximumNArgs(1),
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		return env.UseProfile(name)
	}),
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		return env.ShowConfig()
	}),
}

var configKeybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "Print every key binding in the keybinds.jsonc format",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		return env.ExportKeybinds()
	}),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Check whether a newer release is available",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		return env.CheckVersion(ctx, version.NewChecker(), appVersion)
	}),
}

var mockOpts cli.MockOptions

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Serve a seeded in-memory backend",
	Long: `Serve a local stand-in for a Supabase project: the projects, areas, content
and catalog tables, password sign-in and realtime change events.

The default profile points at it, so 'catalog mock' in one terminal and
'catalog' in another is enough to try the editor.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		level := ""
		if !flagVerbose {
			level = "error"
		}
		logger, err := cli.NewLogger(flagVerbose, level, "")
		if err != nil {
			return err
		}
		defer logger.Sync()
		return cli.RunMock(cmd.Context(), mockOpts, cmd.OutOrStdout(), logger)
	},
}

func init() {
	loginCmd.Flags().StringVar(&flagPassword, "password", "", "Password (asked for when omitted)")
	signupCmd.Flags().StringVar(&flagName, "name", "", "Display name")
	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 50, "Number of entries")
	historyClearCmd.Flags().BoolVar(&flagAll, "all", false, "Delete the history of every profile")

	mockCmd.Flags().StringVar(&mockOpts.Seed, "seed", "", "Seed file (yaml or json) with port, users and tables")
	mockCmd.Flags().StringVar(&mockOpts.Host, "host", "", "Host to listen on (default localhost)")
	mockCmd.Flags().IntVar(&mockOpts.Port, "port", 0, "Port to listen on (default 54321)")
	mockCmd.Flags().StringVar(&mockOpts.Export, "export", "", "Write the default seed to a file and exit")
	mockCmd.Flags().BoolVarP(&mockOpts.Quiet, "quiet", "q", false, "Do not print requests")

	historyCmd.AddCommand(historyShowCmd, historyClearCmd, historyEnableCmd, historyDisableCmd)
	profilesCmd.AddCommand(profilesListCmd, profilesUseCmd)
	configCmd.AddCommand(configShowCmd, configKeybindsCmd)
}

