package graph

import (
	"fmt"
	"strings"
)

// ProblemKind classifies a data-integrity issue.
type ProblemKind string

const (
	ProblemDuplicateID  ProblemKind = "duplicate-id"
	ProblemDanglingLink ProblemKind = "dangling-link"
	ProblemSelfLink     ProblemKind = "self-link"
	ProblemCycle        ProblemKind = "cycle"
	ProblemMultipleRoot ProblemKind = "multiple-roots"
)

// Problem describes one issue found by Validate.
type Problem struct {
	Kind    ProblemKind `json:"kind"`
	Message string      `json:"message"`
	IDs     []string    `json:"ids,omitempty"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Kind, p.Message)
}

// Validate reports integrity problems. The engine tolerates all of them; this
// exists so a curriculum author can find them.
//
// Several roots are reported because path planning only follows the first.
func Validate(g *Graph) []Problem {
	var problems []Problem

	ids := make(IDSet, len(g.Nodes))
	for _, n := range g.Nodes {
		if ids.Has(n.ID) {
			problems = append(problems, Problem{
				Kind:    ProblemDuplicateID,
				Message: fmt.Sprintf("node %q appears more than once", n.ID),
				IDs:     []string{n.ID},
			})
		}
		ids.add(n.ID)
	}

	for _, l := range g.Links {
		if l.Source == l.Target {
			problems = append(problems, Problem{
				Kind:    ProblemSelfLink,
				Message: fmt.Sprintf("%q requires itself", l.Source),
				IDs:     []string{l.Source},
			})
			continue
		}
		for _, end := range []string{l.Source, l.Target} {
			if !ids.Has(end) {
				problems = append(problems, Problem{
					Kind:    ProblemDanglingLink,
					Message: fmt.Sprintf("link %s -> %s references missing node %q", l.Source, l.Target, end),
					IDs:     []string{l.Source, l.Target},
				})
			}
		}
	}

	if cycle := FindCycle(BuildAdjacency(g.Links), g.IDs()); cycle != nil {
		problems = append(problems, Problem{
			Kind:    ProblemCycle,
			Message: strings.Join(cycle, " -> "),
			IDs:     cycle[:len(cycle)-1],
		})
	}

	if roots := Roots(g); len(roots) > 1 {
		problems = append(problems, Problem{
			Kind:    ProblemMultipleRoot,
			Message: fmt.Sprintf("%d nodes have no prerequisites; paths start at %q", len(roots), roots[0]),
			IDs:     roots,
		})
	}

	return problems
}
