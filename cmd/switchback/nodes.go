package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stefanpenner/switchback/pkg/graph"
	"github.com/stefanpenner/switchback/pkg/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List nodes in curriculum order",
	Args:  cobra.NoArgs,
	RunE:  withApp(runList),
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a node, its prerequisites and what it unlocks",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runShow),
}

var addFlags struct {
	name        string
	nodeType    string
	parent      string
	requires    []string
	description string
}

var addCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add a node",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runAdd),
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Delete a node and every link to it",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE:    withApp(runDelete),
}

var renameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Change a node's display name",
	Args:  cobra.MinimumNArgs(2),
	RunE:  withApp(runRename),
}

var requireCmd = &cobra.Command{
	Use:   "require <id> <prerequisite>",
	Short: "Make one node a prerequisite of another",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(runRequire),
}

var unrequireCmd = &cobra.Command{
	Use:   "unrequire <id> <prerequisite>",
	Short: "Remove a prerequisite link",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(runUnrequire),
}

var moveCmd = &cobra.Command{
	Use:       "move <id> up|down",
	Short:     "Move a node in the curriculum order",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"up", "down"},
	RunE:      withApp(runMove),
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search node ids, names and descriptions",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withApp(runSearch),
}

func init() {
	addCmd.Flags().StringVar(&addFlags.name, "name", "", "display name (default: the id)")
	addCmd.Flags().StringVar(&addFlags.nodeType, "type", "", "node type, e.g. lesson or course")
	addCmd.Flags().StringVar(&addFlags.parent, "parent", "", "containing node")
	addCmd.Flags().StringSliceVar(&addFlags.requires, "requires", nil, "prerequisite node ids")
	addCmd.Flags().StringVar(&addFlags.description, "description", "", "markdown description")
	addRequiresFlagAliases(addCmd)

	rootCmd.AddCommand(listCmd, showCmd, addCmd, deleteCmd, renameCmd, requireCmd, unrequireCmd, moveCmd, searchCmd)
}

func runList(a *app, cmd *cobra.Command, args []string) error {
	nodes, err := a.store.LoadNodes()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if jsonFlag {
		return outputJSON(out, nodesToJSON(nodes))
	}

	if len(nodes) == 0 {
		fmt.Fprintln(out, "No nodes yet. Add one with 'switchback add <id>'.")
		return nil
	}
	for _, n := range nodes {
		line := fmt.Sprintf("%s %s", statusIcon(n.GraphNode().Status), n.ID)
		if n.Name != n.ID {
			line += "  " + n.Name
		}
		if len(n.Prerequisites) > 0 {
			line += "  (requires " + strings.Join(n.Prerequisites, ", ") + ")"
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func runShow(a *app, cmd *cobra.Command, args []string) error {
	n, err := a.store.LoadNode(args[0])
	if err != nil {
		return err
	}
	g, err := a.store.LoadGraph()
	if err != nil {
		return err
	}
	unlocks := graph.BuildAdjacency(g.Links)[n.ID]
	out := cmd.OutOrStdout()

	if jsonFlag {
		if unlocks == nil {
			unlocks = []string{}
		}
		return outputJSON(out, struct {
			nodeJSON
			Unlocks []string `json:"unlocks"`
		}{nodeToJSON(n), unlocks})
	}

	fmt.Fprintf(out, "%s: %s\n", n.Name, n.GraphNode().Status)
	if n.Type != "" {
		fmt.Fprintf(out, "Type: %s\n", n.Type)
	}
	if n.Parent != "" {
		fmt.Fprintf(out, "Part of: %s\n", n.Parent)
	}
	if len(n.Prerequisites) > 0 {
		fmt.Fprintf(out, "Requires: %s\n", strings.Join(n.Prerequisites, ", "))
	}
	if len(unlocks) > 0 {
		fmt.Fprintf(out, "Unlocks: %s\n", strings.Join(unlocks, ", "))
	}
	if n.Description != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, n.Description)
	}
	return nil
}

func runAdd(a *app, cmd *cobra.Command, args []string) error {
	n, err := a.store.CreateNode(store.NewNode{
		ID:            args[0],
		Name:          addFlags.name,
		Type:          addFlags.nodeType,
		Parent:        addFlags.parent,
		Prerequisites: addFlags.requires,
		Description:   addFlags.description,
	})
	if err != nil {
		return err
	}

	if jsonFlag {
		return outputJSON(cmd.OutOrStdout(), nodeToJSON(n))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", n.ID)
	return nil
}

func runDelete(a *app, cmd *cobra.Command, args []string) error {
	if err := a.store.DeleteNode(args[0]); err != nil {
		return err
	}

	if jsonFlag {
		return outputJSON(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", args[0])
	return nil
}

func runRename(a *app, cmd *cobra.Command, args []string) error {
	n, err := a.store.RenameNode(args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}

	if jsonFlag {
		return outputJSON(cmd.OutOrStdout(), nodeToJSON(n))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s → %s\n", n.ID, n.Name)
	return nil
}

func runRequire(a *app, cmd *cobra.Command, args []string) error {
	n, err := a.store.AddPrerequisite(args[0], args[1])
	if err != nil {
		return err
	}

	if jsonFlag {
		return outputJSON(cmd.OutOrStdout(), nodeToJSON(n))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s now requires %s\n", n.ID, args[1])
	return nil
}

func runUnrequire(a *app, cmd *cobra.Command, args []string) error {
	n, err := a.store.RemovePrerequisite(args[0], args[1])
	if err != nil {
		return err
	}

	if jsonFlag {
		return outputJSON(cmd.OutOrStdout(), nodeToJSON(n))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s no longer requires %s\n", n.ID, args[1])
	return nil
}

func runMove(a *app, cmd *cobra.Command, args []string) error {
	var delta int
	switch args[1] {
	case "up":
		delta = -1
	case "down":
		delta = 1
	default:
		return fmt.Errorf("invalid direction: %s (use up or down)", args[1])
	}
	if err := a.store.MoveNode(args[0], delta); err != nil {
		return err
	}
	c, err := a.store.LoadCurriculum()
	if err != nil {
		return err
	}

	if jsonFlag {
		return outputJSON(cmd.OutOrStdout(), map[string][]string{"order": c.Order})
	}
	for i, id := range c.Order {
		fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, id)
	}
	return nil
}

func runSearch(a *app, cmd *cobra.Command, args []string) error {
	matches, err := a.store.SearchNodes(strings.Join(args, " "))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if jsonFlag {
		return outputJSON(out, nodesToJSON(matches))
	}
	if len(matches) == 0 {
		fmt.Fprintln(out, "No matches found.")
		return nil
	}
	for _, n := range matches {
		fmt.Fprintf(out, "%s (%s)\n", n.Name, n.ID)
	}
	return nil
}
