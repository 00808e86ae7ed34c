// Package study applies learner actions to a curriculum: it loads a fresh
// snapshot, runs the graph engine over it, persists the result and re-plans.
package study

import (
	"errors"
	"fmt"
	"sync"

	"github.com/stefanpenner/switchback/pkg/graph"
	"github.com/stefanpenner/switchback/pkg/store"
	"go.uber.org/zap"
)

// Plan is everything a view needs about the current state of a curriculum.
type Plan struct {
	Graph *graph.Graph
	// Goal is the target node id, empty when none is set.
	Goal     string
	Path     graph.PathMap
	Sequence []string
	// Next is the first unfinished node on the path. HasNext is false when
	// there is no goal, no path, or everything on the path is finished.
	Next         string
	HasNext      bool
	GoalFinished bool
	// Problems lists nodes and links left out of Graph because their files
	// could not be used.
	Problems []store.NodeError
}

// OnPath reports whether id is part of the current path to the goal.
func (p *Plan) OnPath(id string) bool {
	for _, s := range p.Sequence {
		if s == id {
			return true
		}
	}
	return false
}

// Result is the outcome of a mutating action.
type Result struct {
	Plan    *Plan
	Changed []string
}

// Service serialises every mutation of one curriculum.
type Service struct {
	store  *store.Store
	logger *zap.Logger
	mu     sync.Mutex
}

// NewService returns a Service backed by s. A nil logger discards logs.
func NewService(s *store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: s, logger: logger}
}

// Store returns the underlying store.
func (svc *Service) Store() *store.Store {
	return svc.store
}

// Snapshot loads the curriculum and plans the route to the goal.
func (svc *Service) Snapshot() (*Plan, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.plan()
}

func (svc *Service) plan() (*Plan, error) {
	g, problems, err := svc.store.ScanGraph()
	if err != nil {
		return nil, fmt.Errorf("loading graph: %w", err)
	}
	for _, p := range problems {
		svc.logger.Warn("node left out of the graph", zap.String("node", p.ID), zap.Error(p.Err))
	}
	goal, err := svc.store.LoadGoal()
	if err != nil {
		return nil, fmt.Errorf("loading goal: %w", err)
	}
	plan := buildPlan(g, goal.Node)
	plan.Problems = problems
	return plan, nil
}

func buildPlan(g *graph.Graph, goal string) *Plan {
	p := &Plan{Graph: g, Goal: goal}
	if goal == "" {
		return p
	}
	p.Path = graph.ComputePathToGoal(g, goal)
	p.Sequence = p.Path.Sequence()
	p.Next, p.HasNext = graph.NextNodeToGoal(g, p.Path, goal)
	n, ok := g.Node(goal)
	if ok {
		p.GoalFinished = n.IsFinished()
	}

	// A goal that is the root has a one-step path and no pairs to link.
	if len(p.Sequence) == 0 && ok {
		if list := graph.PathToGoalList(g, goal); len(list) == 1 && list[0] == goal {
			p.Sequence = list
			if !p.GoalFinished {
				p.Next, p.HasNext = goal, true
			}
		}
	}
	return p
}

// Answer records a right or wrong answer for id and propagates it.
// The answer is appended to the history before any status is written, so a
// failed write can leave history ahead of the nodes but never behind them.
func (svc *Service) Answer(id string, correct bool) (*Result, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	res, err := svc.apply(id, func(g *graph.Graph) *graph.Graph {
		return graph.UpdateGraph(g, id, correct)
	}, func(changed []string) error {
		if _, err := svc.store.AppendAnswer(id, correct, changed); err != nil {
			return fmt.Errorf("recording answer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	svc.logger.Info("answer recorded",
		zap.String("node", id),
		zap.Bool("correct", correct),
		zap.Int("changed", len(res.Changed)),
		zap.String("next", res.Plan.Next),
	)
	return res, nil
}

// MarkKnown finishes id and all of its prerequisites without recording an
// answer.
func (svc *Service) MarkKnown(id string) (*Result, error) {
	return svc.action("marked known", id, func(g *graph.Graph) *graph.Graph {
		return graph.MarkKnown(g, id)
	})
}

// MarkWatched sets id to watched.
func (svc *Service) MarkWatched(id string) (*Result, error) {
	return svc.action("marked watched", id, func(g *graph.Graph) *graph.Graph {
		return graph.SetStatus(g, id, graph.StatusWatched)
	})
}

// Reset sets id back to unseen. Other nodes keep their status.
func (svc *Service) Reset(id string) (*Result, error) {
	return svc.action("reset", id, func(g *graph.Graph) *graph.Graph {
		return graph.SetStatus(g, id, graph.StatusUnseen)
	})
}

func (svc *Service) action(msg, id string, fn func(*graph.Graph) *graph.Graph) (*Result, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	res, err := svc.apply(id, fn, nil)
	if err != nil {
		return nil, err
	}
	svc.logger.Info(msg, zap.String("node", id), zap.Int("changed", len(res.Changed)))
	return res, nil
}

// apply runs fn over a fresh snapshot and writes back changed statuses.
// record, when set, sees the changed ids first and can abort the write.
// Callers hold mu.
func (svc *Service) apply(id string, fn func(*graph.Graph) *graph.Graph, record func(changed []string) error) (*Result, error) {
	if _, err := svc.store.LoadNode(id); err != nil {
		return nil, err
	}
	before, err := svc.plan()
	if err != nil {
		return nil, err
	}

	after := fn(before.Graph)
	if record != nil {
		if err := record(graph.Changed(before.Graph, after)); err != nil {
			return nil, err
		}
	}
	changed, err := svc.store.SaveStatuses(after)
	if err != nil {
		return nil, fmt.Errorf("saving statuses: %w", err)
	}

	plan, err := svc.plan()
	if err != nil {
		return nil, err
	}
	return &Result{Plan: plan, Changed: changed}, nil
}

// SetGoal points the learner at id and returns the new plan.
func (svc *Service) SetGoal(id string) (*Plan, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if _, err := svc.store.SaveGoal(id); err != nil {
		return nil, err
	}
	plan, err := svc.plan()
	if err != nil {
		return nil, err
	}
	svc.logger.Info("goal set", zap.String("goal", id), zap.Int("path", len(plan.Sequence)))
	if len(plan.Sequence) == 0 {
		svc.logger.Warn("goal has no path from the root", zap.String("goal", id))
	}
	return plan, nil
}

// ClearGoal removes the goal.
func (svc *Service) ClearGoal() error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	goal, err := svc.store.LoadGoal()
	if err != nil {
		return err
	}
	if goal.Node == "" {
		return store.ErrNoGoal
	}
	if err := svc.store.ClearGoal(); err != nil {
		return err
	}
	svc.logger.Info("goal cleared", zap.String("goal", goal.Node))
	return nil
}

// Goal returns the current goal id or store.ErrNoGoal.
func (svc *Service) Goal() (string, error) {
	goal, err := svc.store.LoadGoal()
	if err != nil {
		return "", err
	}
	if goal.Node == "" {
		return "", store.ErrNoGoal
	}
	return goal.Node, nil
}

// IsNotFound reports whether err means a node id did not resolve.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNodeNotFound)
}
