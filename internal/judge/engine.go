// Package judge orchestrates sandboxed executions: it stages code through
// the workspace manager, runs it through the language adapter, and turns
// raw outcomes into verdicts.
package judge

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/common"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/model"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/judge/executor"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/judge/sanitizer"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/judge/workspace"
)

// workspaceRunner is the slice of the workspace manager the engine needs.
type workspaceRunner interface {
	With(ctx context.Context, lang model.Language, testID, source, input string, fn func(workspace.Paths) error) error
}

// slotLimiter bounds concurrent executions per language.
type slotLimiter interface {
	Acquire(ctx context.Context, lang model.Language) error
	Release(ctx context.Context, lang model.Language) error
}

// RunRequest is a one-off execution against caller-supplied input.
type RunRequest struct {
	RunID      string
	Language   model.Language
	SourceCode string
	Input      string
}

// RunResult is what a one-off execution reports back. Error carries the
// program's diagnostic output with workspace paths scrubbed out.
type RunResult struct {
	Success         bool
	Output          string
	Error           string
	ExecutionTimeMs int64
}

// TestcaseInput is one judged testcase.
type TestcaseInput struct {
	ID             string
	Input          string
	ExpectedOutput string
}

// SubmissionJob is a full judging run over an ordered set of testcases.
type SubmissionJob struct {
	RunID      string
	Language   model.Language
	SourceCode string
	Testcases  []TestcaseInput
}

// SubmissionVerdict aggregates a judging run. TestResults covers only the
// testcases that actually ran; evaluation stops at the first failure.
type SubmissionVerdict struct {
	Verdict     model.Verdict
	TestResults []model.TestCaseResult
	TotalTimeMs int64
}

type Engine struct {
	ws       workspaceRunner
	adapters map[model.Language]executor.Adapter
	limiter  slotLimiter
	san      *sanitizer.Sanitizer
	timeouts executor.Timeouts
}

func NewEngine(ws workspaceRunner, adapters []executor.Adapter, limiter slotLimiter, san *sanitizer.Sanitizer, timeouts executor.Timeouts) *Engine {
	byLang := make(map[model.Language]executor.Adapter, len(adapters))
	for _, a := range adapters {
		byLang[a.Language()] = a
	}
	return &Engine{ws: ws, adapters: byLang, limiter: limiter, san: san, timeouts: timeouts}
}

// Supports reports whether an adapter is registered for lang.
func (e *Engine) Supports(lang model.Language) bool {
	_, ok := e.adapters[lang]
	return ok
}

// runStaged executes source against input in a fresh workspace, holding a
// language slot for the duration. The returned error is always an
// infrastructure failure; program behavior lives in the Outcome.
func (e *Engine) runStaged(ctx context.Context, lang model.Language, testID, source, input string) (executor.Outcome, error) {
	adapter, ok := e.adapters[lang]
	if !ok {
		return executor.Outcome{}, fmt.Errorf("no adapter for language %q: %w", lang, common.ErrUnsupportedLanguage)
	}

	if err := e.limiter.Acquire(ctx, lang); err != nil {
		return executor.Outcome{}, err
	}
	defer e.limiter.Release(context.WithoutCancel(ctx), lang)

	var out executor.Outcome
	err := e.ws.With(ctx, lang, testID, e.san.Sanitize(source, lang), input, func(p workspace.Paths) error {
		res, err := adapter.Run(ctx, p, e.timeouts)
		if err != nil {
			return err
		}
		res.Stderr = scrub(res.Stderr, p)
		out = res
		return nil
	})
	return out, err
}

// Execute runs source once against the given input.
func (e *Engine) Execute(ctx context.Context, req RunRequest) (RunResult, error) {
	out, err := e.runStaged(ctx, req.Language, req.RunID, req.SourceCode, req.Input)
	if err != nil {
		return RunResult{}, err
	}

	res := RunResult{
		Success:         out.Success,
		ExecutionTimeMs: out.Duration.Milliseconds(),
	}
	if out.Success {
		res.Output = out.Output
		return res, nil
	}
	res.Error = out.Stderr
	if res.Error == "" {
		res.Error = failureText(out.Kind)
	}
	return res, nil
}

// JudgeSubmission evaluates testcases in order and stops at the first
// failure; the failing testcase's verdict becomes the submission verdict.
func (e *Engine) JudgeSubmission(ctx context.Context, job SubmissionJob) (*SubmissionVerdict, error) {
	verdict := &SubmissionVerdict{Verdict: model.VerdictAccepted}
	for i, tc := range job.Testcases {
		testID := fmt.Sprintf("%s-%d", job.RunID, i+1)
		out, err := e.runStaged(ctx, job.Language, testID, job.SourceCode, tc.Input)
		if err != nil {
			return nil, err
		}

		v := verdictFor(out, tc.ExpectedOutput)
		verdict.TestResults = append(verdict.TestResults, model.TestCaseResult{
			TestcaseID:      tc.ID,
			Verdict:         v,
			ExecutionTimeMs: out.Duration.Milliseconds(),
		})
		verdict.TotalTimeMs += out.Duration.Milliseconds()
		if v != model.VerdictAccepted {
			verdict.Verdict = v
			break
		}
	}
	return verdict, nil
}

func verdictFor(out executor.Outcome, expected string) model.Verdict {
	switch out.Kind {
	case executor.KindTimeLimit:
		return model.VerdictTimeLimit
	case executor.KindRuntime:
		return model.VerdictRuntime
	}
	if out.Output == strings.TrimRight(expected, " \t\r\n") {
		return model.VerdictAccepted
	}
	return model.VerdictWrongAnswer
}

func failureText(k executor.Kind) string {
	if k == executor.KindTimeLimit {
		return "time limit exceeded"
	}
	return "runtime error"
}

// scrub removes workspace-specific paths from diagnostic text so users
// never see sandbox internals in their error output.
func scrub(text string, p workspace.Paths) string {
	for _, s := range []string{p.HostDir, p.Dir, p.ID} {
		if s != "" {
			text = strings.ReplaceAll(text, s, "")
		}
	}
	return text
}
