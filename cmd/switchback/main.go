// Package main implements the switchback CLI.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/stefanpenner/switchback/pkg/config"
	"github.com/stefanpenner/switchback/pkg/graph"
	"github.com/stefanpenner/switchback/pkg/store"
	"github.com/stefanpenner/switchback/pkg/study"
	"go.uber.org/zap"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var (
	dirFlag  string
	jsonFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "switchback",
	Short: "Plan a route through a prerequisite graph to a learning goal",
	Long: `switchback keeps a curriculum of topics linked by prerequisites. Pick a
goal and it plans the path from the first topic to the goal, tells you what
to study next, and updates the graph as you answer right or wrong.

With no command it opens the interactive view.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dirFlag, "dir", "", "data directory (default $SWITCHBACK_DIR or the OS data dir)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "print JSON instead of text")
}

// app holds everything a command needs for one data directory.
type app struct {
	dir    string
	cfg    *config.Config
	store  *store.Store
	svc    *study.Service
	logger *zap.Logger
}

// openApp resolves the data directory and wires config, logging and the
// study service.
func openApp(tui bool) (*app, error) {
	dir := store.ResolveDataDir(dirFlag)
	s, err := store.NewStore(dir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	var logger *zap.Logger
	if tui {
		logger, err = config.NewTUILogger(cfg.Log)
	} else {
		logger, err = config.NewLogger(cfg.Log)
	}
	if err != nil {
		return nil, err
	}
	logger = logger.With(zap.String("dir", dir))

	return &app{
		dir:    dir,
		cfg:    cfg,
		store:  s,
		svc:    study.NewService(s, logger),
		logger: logger,
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// withApp adapts a command body that needs an app to cobra's RunE.
func withApp(fn func(a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(false)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(a, cmd, args)
	}
}

// JSON helpers

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type nodeJSON struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type,omitempty"`
	Status        string   `json:"status"`
	Parent        string   `json:"parent,omitempty"`
	Prerequisites []string `json:"prerequisites"`
	Description   string   `json:"description,omitempty"`
}

func nodeToJSON(n *store.Node) nodeJSON {
	prereqs := n.Prerequisites
	if prereqs == nil {
		prereqs = []string{}
	}
	return nodeJSON{
		ID:            n.ID,
		Name:          n.Name,
		Type:          n.Type,
		Status:        string(n.GraphNode().Status),
		Parent:        n.Parent,
		Prerequisites: prereqs,
		Description:   n.Description,
	}
}

func nodesToJSON(nodes []*store.Node) []nodeJSON {
	out := make([]nodeJSON, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, nodeToJSON(n))
	}
	return out
}

type planJSON struct {
	Goal         string        `json:"goal"`
	Path         []string      `json:"path"`
	Steps        graph.PathMap `json:"steps"`
	Next         string        `json:"next,omitempty"`
	HasNext      bool          `json:"has_next"`
	GoalFinished bool          `json:"goal_finished"`
}

func planToJSON(p *study.Plan) planJSON {
	path := p.Sequence
	if path == nil {
		path = []string{}
	}
	steps := p.Path
	if steps == nil {
		steps = graph.PathMap{}
	}
	return planJSON{
		Goal:         p.Goal,
		Path:         path,
		Steps:        steps,
		Next:         p.Next,
		HasNext:      p.HasNext,
		GoalFinished: p.GoalFinished,
	}
}

// statusIcon is the plain-text marker for a status.
func statusIcon(s graph.Status) string {
	switch s {
	case graph.StatusFinished:
		return "✓"
	case graph.StatusStarted:
		return "◐"
	case graph.StatusWatched:
		return "◉"
	case graph.StatusNext:
		return "→"
	default:
		return "○"
	}
}
