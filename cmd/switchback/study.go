package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stefanpenner/switchback/pkg/graph"
	"github.com/stefanpenner/switchback/pkg/store"
	"github.com/stefanpenner/switchback/pkg/study"
)

var goalClear bool

var goalCmd = &cobra.Command{
	Use:   "goal [id]",
	Short: "Show, set or clear the learning goal",
	Args:  cobra.MaximumNArgs(1),
	RunE:  withApp(runGoal),
}

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the ordered path from the root to the goal",
	Args:  cobra.NoArgs,
	RunE:  withApp(runPath),
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next node to study",
	Args:  cobra.NoArgs,
	RunE:  withApp(runNext),
}

var answerCmd = &cobra.Command{
	Use:       "answer <id> right|wrong",
	Short:     "Record an answer and propagate it through the graph",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"right", "wrong"},
	RunE:      withApp(runAnswer),
}

var knownCmd = &cobra.Command{
	Use:   "known <id>",
	Short: "Mark a node and everything it requires as finished",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		return runAction(cmd, "known", args[0], a.svc.MarkKnown)
	}),
}

var watchedCmd = &cobra.Command{
	Use:   "watched <id>",
	Short: "Mark a node as watched",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		return runAction(cmd, "watched", args[0], a.svc.MarkWatched)
	}),
}

var resetCmd = &cobra.Command{
	Use:   "reset <id>",
	Short: "Set a node back to unseen",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		return runAction(cmd, "reset", args[0], a.svc.Reset)
	}),
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded answers, newest last",
	Args:  cobra.NoArgs,
	RunE:  withApp(runHistory),
}

func init() {
	goalCmd.Flags().BoolVar(&goalClear, "clear", false, "clear the goal")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show only the last n answers")

	rootCmd.AddCommand(goalCmd, pathCmd, nextCmd, answerCmd, knownCmd, watchedCmd, resetCmd, historyCmd)
}

func runGoal(a *app, cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if goalClear {
		if len(args) > 0 {
			return fmt.Errorf("--clear takes no id")
		}
		if err := a.svc.ClearGoal(); err != nil {
			return err
		}
		if jsonFlag {
			return outputJSON(out, map[string]string{"goal": ""})
		}
		fmt.Fprintln(out, "Goal cleared")
		return nil
	}

	if len(args) == 1 {
		plan, err := a.svc.SetGoal(args[0])
		if err != nil {
			return err
		}
		if jsonFlag {
			return outputJSON(out, planToJSON(plan))
		}
		warnProblems(cmd, plan)
		fmt.Fprintf(out, "Goal: %s (%d steps)\n", plan.Goal, len(plan.Sequence))
		if len(plan.Sequence) == 0 {
			fmt.Fprintln(out, "No path leads from the root to this goal.")
		}
		return nil
	}

	goal, err := a.svc.Goal()
	if err != nil {
		return err
	}
	if jsonFlag {
		return outputJSON(out, map[string]string{"goal": goal})
	}
	fmt.Fprintln(out, goal)
	return nil
}

func runPath(a *app, cmd *cobra.Command, args []string) error {
	plan, err := a.svc.Snapshot()
	if err != nil {
		return err
	}
	if plan.Goal == "" {
		return store.ErrNoGoal
	}
	warnProblems(cmd, plan)
	out := cmd.OutOrStdout()

	if jsonFlag {
		return outputJSON(out, planToJSON(plan))
	}
	if len(plan.Sequence) == 0 {
		fmt.Fprintf(out, "No path from the root to %s.\n", plan.Goal)
		return nil
	}
	for i, id := range plan.Sequence {
		n, _ := plan.Graph.Node(id)
		marker := statusIcon(n.Status)
		if plan.HasNext && id == plan.Next {
			marker = statusIcon(graph.StatusNext)
		}
		fmt.Fprintf(out, "%d. %s %s\n", i+1, marker, id)
	}
	return nil
}

func runNext(a *app, cmd *cobra.Command, args []string) error {
	plan, err := a.svc.Snapshot()
	if err != nil {
		return err
	}
	if plan.Goal == "" {
		return store.ErrNoGoal
	}
	warnProblems(cmd, plan)
	out := cmd.OutOrStdout()

	if jsonFlag {
		return outputJSON(out, planToJSON(plan))
	}
	switch {
	case plan.HasNext:
		fmt.Fprintln(out, plan.Next)
	case plan.GoalFinished:
		fmt.Fprintf(out, "Goal %s finished.\n", plan.Goal)
	default:
		fmt.Fprintf(out, "Nothing to study on the way to %s.\n", plan.Goal)
	}
	return nil
}

func runAnswer(a *app, cmd *cobra.Command, args []string) error {
	var correct bool
	switch strings.ToLower(args[1]) {
	case "right", "y", "yes", "correct":
		correct = true
	case "wrong", "n", "no", "incorrect":
		correct = false
	default:
		return fmt.Errorf("invalid answer: %s (use right or wrong)", args[1])
	}

	res, err := a.svc.Answer(args[0], correct)
	if err != nil {
		return err
	}
	verdict := "Wrong"
	if correct {
		verdict = "Right"
	}
	return printResult(cmd, res, verdict+": "+args[0])
}

func runAction(cmd *cobra.Command, label, id string, fn func(string) (*study.Result, error)) error {
	res, err := fn(id)
	if err != nil {
		return err
	}
	return printResult(cmd, res, fmt.Sprintf("%s: %s", label, id))
}

// warnProblems tells the user which nodes the plan was built without.
func warnProblems(cmd *cobra.Command, plan *study.Plan) {
	for _, p := range plan.Problems {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", p)
	}
}

func printResult(cmd *cobra.Command, res *study.Result, headline string) error {
	out := cmd.OutOrStdout()
	changed := res.Changed
	if changed == nil {
		changed = []string{}
	}

	if jsonFlag {
		return outputJSON(out, struct {
			Changed []string `json:"changed"`
			Plan    planJSON `json:"plan"`
		}{changed, planToJSON(res.Plan)})
	}

	warnProblems(cmd, res.Plan)
	fmt.Fprintln(out, headline)
	if len(changed) > 0 {
		fmt.Fprintf(out, "Changed: %s\n", strings.Join(changed, ", "))
	}
	if res.Plan.HasNext {
		fmt.Fprintf(out, "Next: %s\n", res.Plan.Next)
	} else if res.Plan.GoalFinished {
		fmt.Fprintf(out, "Goal %s finished.\n", res.Plan.Goal)
	}
	return nil
}

func runHistory(a *app, cmd *cobra.Command, args []string) error {
	answers, err := a.store.LoadHistory()
	if err != nil {
		return err
	}
	if historyLimit > 0 && len(answers) > historyLimit {
		answers = answers[len(answers)-historyLimit:]
	}
	out := cmd.OutOrStdout()

	if jsonFlag {
		if answers == nil {
			answers = []store.Answer{}
		}
		return outputJSON(out, answers)
	}
	if len(answers) == 0 {
		fmt.Fprintln(out, "No answers yet.")
		return nil
	}
	for _, ans := range answers {
		verdict := "wrong"
		if ans.Correct {
			verdict = "right"
		}
		fmt.Fprintf(out, "%s %s %s\n", ans.At.Format("2006-01-02 15:04"), verdict, ans.Node)
	}
	return nil
}
