// Package sync keeps a curriculum directory in a git repository and
// synchronizes it with a remote.
package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// ErrNotRepo is returned when the data directory has no .git.
var ErrNotRepo = errors.New("not a git repository, run 'switchback init' first")

const gitignore = "switchback.log\n"

func git(ctx context.Context, dir string, out io.Writer, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
	cmd.Stdout = out
	cmd.Stderr = out
	return cmd
}

// IsRepo reports whether dir is the top of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// InitRepo makes dir a git repository if it is not one yet and, when remote
// is non-empty, points origin at it.
func InitRepo(ctx context.Context, dir, remote string, out io.Writer) error {
	if !IsRepo(dir) {
		if err := git(ctx, dir, out, "init", "--quiet").Run(); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
		ignorePath := filepath.Join(dir, ".gitignore")
		if _, err := os.Stat(ignorePath); os.IsNotExist(err) {
			if err := os.WriteFile(ignorePath, []byte(gitignore), 0644); err != nil {
				return fmt.Errorf("writing .gitignore: %w", err)
			}
		}
		fmt.Fprintf(out, "Initialized git repository in %s\n", dir)
	}

	if remote == "" {
		fmt.Fprintln(out, "No remote specified. Use --remote <url> to set one.")
		return nil
	}

	// Remove existing origin first (ignore error if doesn't exist)
	_ = git(ctx, dir, io.Discard, "remote", "remove", "origin").Run()

	if err := git(ctx, dir, out, "remote", "add", "origin", remote).Run(); err != nil {
		return fmt.Errorf("setting remote: %w", err)
	}
	fmt.Fprintf(out, "Remote set to: %s\n", remote)
	return nil
}

// Commit stages everything and commits if there is anything to commit.
// It reports whether a commit was made.
func Commit(ctx context.Context, dir string, out io.Writer) (bool, error) {
	if !IsRepo(dir) {
		return false, ErrNotRepo
	}
	if err := git(ctx, dir, out, "add", "-A").Run(); err != nil {
		return false, fmt.Errorf("staging: %w", err)
	}
	if err := git(ctx, dir, io.Discard, "diff", "--cached", "--quiet").Run(); err == nil {
		return false, nil
	}
	msg := "sync " + time.Now().Format("2006-01-02 15:04:05")
	if err := git(ctx, dir, out, "commit", "--quiet", "-m", msg).Run(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

// SyncRepo synchronizes the data directory with the remote.
// Strategy: commit local changes, rebase, fallback to merge, push.
// A branch without an upstream is pushed with -u and not pulled.
func SyncRepo(ctx context.Context, dir string, out io.Writer) error {
	fmt.Fprintln(out, "Staging changes...")
	if _, err := Commit(ctx, dir, out); err != nil {
		return err
	}

	if err := git(ctx, dir, io.Discard, "remote", "get-url", "origin").Run(); err != nil {
		return fmt.Errorf("no remote configured, run 'switchback init --remote <url>'")
	}

	hasUpstream := git(ctx, dir, io.Discard, "rev-parse", "--abbrev-ref", "@{u}").Run() == nil
	if hasUpstream {
		fmt.Fprintln(out, "Pulling...")
		if err := git(ctx, dir, out, "pull", "--rebase").Run(); err != nil {
			fmt.Fprintln(out, "Rebase failed, trying merge...")
			_ = git(ctx, dir, io.Discard, "rebase", "--abort").Run()

			if err := git(ctx, dir, out, "pull", "--no-rebase").Run(); err != nil {
				_ = git(ctx, dir, io.Discard, "merge", "--abort").Run()
				return fmt.Errorf("sync failed: could not rebase or merge. Resolve conflicts manually")
			}
		}
	}

	fmt.Fprintln(out, "Pushing...")
	push := []string{"push"}
	if !hasUpstream {
		push = append(push, "-u", "origin", "HEAD")
	}
	if err := git(ctx, dir, out, push...).Run(); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}

	fmt.Fprintln(out, "Sync complete.")
	return nil
}
