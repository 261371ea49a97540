package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studiowebux/catalog/internal/cli"
	"github.com/studiowebux/catalog/internal/forms"
	"github.com/studiowebux/catalog/internal/record"
)

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"project"},
	Short:   "List and edit projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects in display order",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		return env.ListProjects(ctx)
	}),
}

var projectsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a project and its areas",
	Long:  "Show a project and its areas. Without an id the project is picked from a list.",
	Args:  cobra.MaximumNArgs(1),
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		id, err := projectArg(ctx, env, args)
		if err != nil {
			return err
		}
		return env.ShowProject(ctx, id)
	}),
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		return env.SaveProject(ctx, 0, changedEdits(projectFlags))
	}),
}

var projectsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update the given fields of a project",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		id, err := cli.ParseID(args[0])
		if err != nil {
			return err
		}
		return env.SaveProject(ctx, id, changedEdits(projectFlags))
	}),
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project with its links and content",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		id, err := cli.ParseID(args[0])
		if err != nil {
			return err
		}
		if err := confirm(fmt.Sprintf("Delete project #%d?", id)); err != nil {
			return err
		}
		return env.DeleteProject(ctx, id)
	}),
}

var areasCmd = &cobra.Command{
	Use:     "areas",
	Aliases: []string{"area"},
	Short:   "List and edit areas",
}

var flagCategory string

var areasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List areas by category",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		return env.ListAreas(ctx, flagCategory)
	}),
}

var areasCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an area",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		return env.SaveArea(ctx, 0, changedEdits(areaFlags))
	}),
}

var areasUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update the given fields of an area",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		id, err := cli.ParseID(args[0])
		if err != nil {
			return err
		}
		return env.SaveArea(ctx, id, changedEdits(areaFlags))
	}),
}

var areasDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an area",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		id, err := cli.ParseID(args[0])
		if err != nil {
			return err
		}
		if err := confirm(fmt.Sprintf("Delete area #%d?", id)); err != nil {
			return err
		}
		return env.DeleteArea(ctx, id)
	}),
}

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Show and replace the markdown content of a project",
}

var (
	flagRaw  bool
	flagFile string
)

var contentShowCmd = &cobra.Command{
	Use:   "show [project-id]",
	Short: "Render the content of a project",
	Args:  cobra.MaximumNArgs(1),
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		id, err := projectArg(ctx, env, args)
		if err != nil {
			return err
		}
		return env.ShowContent(ctx, id, flagRaw)
	}),
}

var contentSetCmd = &cobra.Command{
	Use:   "set <project-id>",
	Short: "Replace the content of a project from a file or stdin",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		id, err := cli.ParseID(args[0])
		if err != nil {
			return err
		}
		return env.SetContent(ctx, id, flagFile)
	}),
}

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Manage the areas linked to projects",
}

var linksSyncCmd = &cobra.Command{
	Use:   "sync <project-id> [area-id...]",
	Short: "Replace the areas linked to a project",
	Long:  "Replace the areas linked to a project. Without area ids every link of the project is removed.",
	Args:  cobra.MinimumNArgs(1),
	RunE: withEnv(func(ctx context.Context, env *cli.Env, args []string) error {
		projectID, err := cli.ParseID(args[0])
		if err != nil {
			return err
		}
		areaIDs := make([]int64, 0, len(args)-1)
		for _, a := range args[1:] {
			id, err := cli.ParseID(a)
			if err != nil {
				return err
			}
			areaIDs = append(areaIDs, id)
		}
		return env.SyncLinks(ctx, projectID, areaIDs)
	}),
}

// fieldFlag binds a string flag to a form field
type fieldFlag struct {
	field record.Field
	cmds  []*cobra.Command
	value string
}

var projectFlags = []*fieldFlag{
	{field: forms.FieldTitle},
	{field: forms.FieldOrder},
	{field: forms.FieldDesc},
}

var areaFlags = []*fieldFlag{
	{field: forms.FieldTitle},
	{field: forms.FieldCategory},
	{field: forms.FieldDesc},
	{field: forms.FieldOrder},
	{field: forms.FieldFormat},
}

// changedEdits collects the flags given on the command line
func changedEdits(flags []*fieldFlag) cli.Edits {
	edits := make(cli.Edits)
	for _, f := range flags {
		for _, cmd := range f.cmds {
			if cmd.Flags().Changed(string(f.field)) {
				edits[f.field] = f.value
			}
		}
	}
	return edits
}

func bindFieldFlags(flags []*fieldFlag, cmds ...*cobra.Command) {
	for _, f := range flags {
		f.cmds = append(f.cmds, cmds...)
		usage := forms.Labels[f.field]
		if f.field == forms.FieldFormat {
			usage += " (Exponential, Decimal, Percentage, Time, Currency, Date or empty)"
		}
		for _, cmd := range cmds {
			cmd.Flags().StringVar(&f.value, string(f.field), "", usage)
		}
	}
}

// projectArg parses the optional project id, picking one when it is absent
func projectArg(ctx context.Context, env *cli.Env, args []string) (int64, error) {
	if len(args) == 0 {
		return env.PickProject(ctx)
	}
	return cli.ParseID(args[0])
}

var flagYes bool

// confirm asks before destructive commands unless --yes was given
func confirm(question string) error {
	if flagYes {
		return nil
	}
	if !cli.Confirm(os.Stdin, os.Stderr, question) {
		return cli.ErrCancelled
	}
	return nil
}

func init() {
	bindFieldFlags(projectFlags, projectsCreateCmd, projectsUpdateCmd)
	bindFieldFlags(areaFlags, areasCreateCmd, areasUpdateCmd)

	projectsDeleteCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask for confirmation")
	areasDeleteCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Do not ask for confirmation")
	areasListCmd.Flags().StringVarP(&flagCategory, "category", "c", "", "Only list this category")
	contentShowCmd.Flags().BoolVar(&flagRaw, "raw", false, "Print the markdown source")
	contentSetCmd.Flags().StringVarP(&flagFile, "file", "f", "-", "Markdown file to upload (- reads stdin)")

	projectsCmd.AddCommand(projectsListCmd, projectsShowCmd, projectsCreateCmd, projectsUpdateCmd, projectsDeleteCmd)
	areasCmd.AddCommand(areasListCmd, areasCreateCmd, areasUpdateCmd, areasDeleteCmd)
	contentCmd.AddCommand(contentShowCmd, contentSetCmd)
	linksCmd.AddCommand(linksSyncCmd)
}
