// Package testsupport builds the switchback binary for script tests.
package testsupport

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
	"github.com/stefanpenner/switchback/pkg/store"
)

var (
	buildOnce      sync.Once
	switchbackPath string
	buildErr       error
)

// BuildSwitchback builds the switchback binary once and returns its path.
func BuildSwitchback(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "switchback-bin-")
		if err != nil {
			buildErr = err
			return
		}

		switchbackPath = filepath.Join(binDir, "switchback")
		cmd := exec.Command("go", "build", "-o", switchbackPath, "./cmd/switchback")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build switchback: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return switchbackPath
}

// SetupScriptEnv points the binary at a private home and data directory
// inside the script's work dir.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("SWITCHBACK", BuildSwitchback(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := os.MkdirAll(filepath.Join(homeDir, ".config", "switchback"), 0o755); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	env.Setenv(store.EnvDataDir, filepath.Join(env.WorkDir, "data"))
	return nil
}

// CmdStatus asserts the stored status of a node: status ID STATUS.
func CmdStatus(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 2 {
		ts.Fatalf("usage: status ID STATUS")
	}

	s, err := store.NewStore(ts.Getenv(store.EnvDataDir))
	ts.Check(err)
	n, err := s.LoadNode(args[0])
	ts.Check(err)

	got := string(n.GraphNode().Status)
	if neg && got == args[1] {
		ts.Fatalf("%s is %s", args[0], got)
	}
	if !neg && got != args[1] {
		ts.Fatalf("%s is %s, want %s", args[0], got, args[1])
	}
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
