// Package executor runs a staged program against one input inside its
// language's execution container and classifies the raw process result.
// Output comparison is not its job; the orchestrator owns that.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/common"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/model"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/judge/workspace"
)

// Timeouts carries the three wall-clock bounds an adapter works under.
// Inner is the shell-level `timeout` inside the container and must be
// strictly shorter than Outer, so the inner timeout is the primary TLE
// signal and Outer is a backstop against a hung toolchain.
type Timeouts struct {
	Inner   time.Duration
	Outer   time.Duration
	Compile time.Duration
}

// Outcome is the transient result of one execution. It is created and
// consumed within a single testcase evaluation.
type Outcome struct {
	Success  bool
	Output   string // right-trimmed stdout, set on success
	Kind     Kind
	Stderr   string // diagnostic payload on failure
	Duration time.Duration
}

// Adapter compiles (if needed) and runs one staged program.
// Program-behavior failures (non-zero exit, timeout) are captured in the
// Outcome; the error return is reserved for infrastructure problems.
type Adapter interface {
	Language() model.Language
	Run(ctx context.Context, p workspace.Paths, t Timeouts) (Outcome, error)
}

// dockerCLI shells one command into a running container via docker exec.
type dockerCLI struct {
	bin string
}

type processResult struct {
	stdout   string
	stderr   string
	exitCode int
	killed   bool // terminated by the outer deadline
}

func (d dockerCLI) exec(ctx context.Context, timeout time.Duration, container, workdir, script string) (processResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, d.bin, "exec", "-w", workdir, container, "sh", "-c", script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := processResult{stdout: stdout.String(), stderr: stderr.String()}
	if err == nil {
		return res, nil
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		res.killed = true
		return res, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if daemonFailure(res.stderr) {
			return res, fmt.Errorf("docker exec in %q: %s: %w", container, strings.TrimSpace(res.stderr), common.ErrInfrastructure)
		}
		res.exitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, fmt.Errorf("docker exec in %q: %v: %w", container, err, common.ErrInfrastructure)
}

// daemonFailure distinguishes "docker itself failed" from "the program
// inside failed"; both surface as a non-zero docker exit.
func daemonFailure(stderr string) bool {
	return strings.Contains(stderr, "Error response from daemon") ||
		strings.Contains(stderr, "No such container")
}

func trimOutput(s string) string {
	return strings.TrimRight(s, " \t\r\n")
}

// outcomeFrom applies the uniform classification rule to a settled process
// and stamps the measured duration.
func outcomeFrom(res processResult, d time.Duration) Outcome {
	kind := Classify(res.killed, res.exitCode, res.stderr)
	out := Outcome{Kind: kind, Duration: d}
	if kind == KindOK {
		out.Success = true
		out.Output = trimOutput(res.stdout)
		return out
	}
	out.Stderr = strings.TrimSpace(res.stderr)
	return out
}
