package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stefanpenner/switchback/pkg/graph"
	"github.com/stefanpenner/switchback/pkg/store"
)

var topoFrom string

var topoCmd = &cobra.Command{
	Use:   "topo",
	Short: "Print nodes reachable from a start node in study order",
	Long: `Print the nodes reachable from --from so that every prerequisite comes
before the nodes that require it. Without --from the walk starts at the root,
the first node that requires nothing.`,
	Args: cobra.NoArgs,
	RunE: withApp(runTopo),
}

var ancestorsCmd = &cobra.Command{
	Use:   "ancestors <id>",
	Short: "List everything a node transitively requires",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		return runClosure(a, cmd, args[0], graph.BuildReverseAdjacency)
	}),
}

var descendantsCmd = &cobra.Command{
	Use:   "descendants <id>",
	Short: "List everything that transitively requires a node",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		return runClosure(a, cmd, args[0], graph.BuildAdjacency)
	}),
}

var subgraphCmd = &cobra.Command{
	Use:   "subgraph <parent>",
	Short: "Show the nodes inside a parent and the links among them",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runSubgraph),
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report unreadable nodes, missing prerequisites, cycles and extra roots",
	Args:  cobra.NoArgs,
	RunE:  withApp(runCheck),
}

func init() {
	topoCmd.Flags().StringVar(&topoFrom, "from", "", "start node (default: the root)")

	rootCmd.AddCommand(topoCmd, ancestorsCmd, descendantsCmd, subgraphCmd, checkCmd)
}

func printIDs(cmd *cobra.Command, ids []string) error {
	out := cmd.OutOrStdout()
	if ids == nil {
		ids = []string{}
	}
	if jsonFlag {
		return outputJSON(out, ids)
	}
	for _, id := range ids {
		fmt.Fprintln(out, id)
	}
	return nil
}

func runTopo(a *app, cmd *cobra.Command, args []string) error {
	g, err := a.store.LoadGraph()
	if err != nil {
		return err
	}

	start := topoFrom
	if start == "" {
		if roots := graph.Roots(g); len(roots) > 0 {
			start = roots[0]
		}
	} else if _, ok := g.Node(start); !ok {
		return fmt.Errorf("%w: %s", store.ErrNodeNotFound, start)
	}

	return printIDs(cmd, graph.TopologicalSort(graph.BuildAdjacency(g.Links), start))
}

// runClosure prints the transitive closure of id over the adjacency built
// by build, without id itself, in curriculum order.
func runClosure(a *app, cmd *cobra.Command, id string, build func([]graph.Link) graph.Adjacency) error {
	g, err := a.store.LoadGraph()
	if err != nil {
		return err
	}
	if _, ok := g.Node(id); !ok {
		return fmt.Errorf("%w: %s", store.ErrNodeNotFound, id)
	}

	closure := graph.AllPreviousNodes(build(g.Links), id)
	var ids []string
	for _, n := range g.Nodes {
		if n.ID != id && closure.Has(n.ID) {
			ids = append(ids, n.ID)
		}
	}
	return printIDs(cmd, ids)
}

func runSubgraph(a *app, cmd *cobra.Command, args []string) error {
	g, err := a.store.LoadGraph()
	if err != nil {
		return err
	}
	parent := args[0]
	if _, ok := g.Node(parent); !ok {
		return fmt.Errorf("%w: %s", store.ErrNodeNotFound, parent)
	}

	sub := graph.Filter(g, func(n graph.Node) bool { return n.ParentID == parent })
	out := cmd.OutOrStdout()

	if jsonFlag {
		if sub.Nodes == nil {
			sub.Nodes = []graph.Node{}
		}
		if sub.Links == nil {
			sub.Links = []graph.Link{}
		}
		return outputJSON(out, sub)
	}

	if len(sub.Nodes) == 0 {
		fmt.Fprintf(out, "%s contains no nodes.\n", parent)
		return nil
	}
	for _, n := range sub.Nodes {
		fmt.Fprintf(out, "%s %s\n", statusIcon(n.Status), n.ID)
	}
	for _, l := range sub.Links {
		fmt.Fprintf(out, "%s -> %s\n", l.Source, l.Target)
	}
	return nil
}

// Kinds for problems found in node files rather than in the graph.
const (
	problemUnreadable graph.ProblemKind = "unreadable-node"
	problemMissing    graph.ProblemKind = "missing-prerequisite"
)

func nodeProblem(e store.NodeError) graph.Problem {
	kind := problemUnreadable
	if errors.Is(e, store.ErrNodeNotFound) {
		kind = problemMissing
	}
	return graph.Problem{Kind: kind, Message: e.Error(), IDs: []string{e.ID}}
}

func runCheck(a *app, cmd *cobra.Command, args []string) error {
	g, nodeErrs, err := a.store.ScanGraph()
	if err != nil {
		return err
	}
	var problems []graph.Problem
	for _, e := range nodeErrs {
		problems = append(problems, nodeProblem(e))
	}
	problems = append(problems, graph.Validate(g)...)
	out := cmd.OutOrStdout()

	if jsonFlag {
		if problems == nil {
			problems = []graph.Problem{}
		}
		if err := outputJSON(out, problems); err != nil {
			return err
		}
	} else if len(problems) == 0 {
		fmt.Fprintf(out, "OK: %d nodes, %d links\n", len(g.Nodes), len(g.Links))
	} else {
		for _, p := range problems {
			if p.Kind == problemUnreadable || p.Kind == problemMissing {
				fmt.Fprintln(out, p.Message)
				continue
			}
			fmt.Fprintln(out, p.String())
		}
	}

	var blocking []string
	for _, p := range problems {
		if p.Kind != graph.ProblemMultipleRoot {
			blocking = append(blocking, string(p.Kind))
		}
	}
	if len(blocking) > 0 {
		return fmt.Errorf("%d problem(s) found: %s", len(blocking), strings.Join(blocking, ", "))
	}
	return nil
}
