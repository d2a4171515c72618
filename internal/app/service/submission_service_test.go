package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/common"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/model"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/judge"
)

type fakeEngine struct {
	verdict    *judge.SubmissionVerdict
	judgeErr   error
	runResult  judge.RunResult
	runErr     error
	lastJob    judge.SubmissionJob
	lastRun    judge.RunRequest
	judgeCalls int
}

func (f *fakeEngine) Supports(lang model.Language) bool {
	return lang == model.LangCPP || lang == model.LangJava || lang == model.LangPython
}

func (f *fakeEngine) Execute(ctx context.Context, req judge.RunRequest) (judge.RunResult, error) {
	f.lastRun = req
	return f.runResult, f.runErr
}

func (f *fakeEngine) JudgeSubmission(ctx context.Context, job judge.SubmissionJob) (*judge.SubmissionVerdict, error) {
	f.judgeCalls++
	f.lastJob = job
	if f.judgeErr != nil {
		return nil, f.judgeErr
	}
	return f.verdict, nil
}

type fakeProblemStore struct {
	problem   *model.Problem
	testcases []model.Testcase
}

func (f *fakeProblemStore) FindProblemByID(ctx context.Context, id string) (*model.Problem, error) {
	if f.problem == nil || f.problem.ID != id {
		return nil, common.ErrNotFound
	}
	return f.problem, nil
}

func (f *fakeProblemStore) GetTestcasesByProblemID(ctx context.Context, problemID string) ([]model.Testcase, error) {
	return f.testcases, nil
}

type fakeSubmissionStore struct {
	created   []*model.Submission
	createErr error
	byID      map[string]*model.Submission
}

func (f *fakeSubmissionStore) Create(ctx context.Context, s *model.Submission) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, s)
	return nil
}

func (f *fakeSubmissionStore) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return s, nil
}

func (f *fakeSubmissionStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Submission, int, error) {
	return nil, 0, nil
}

type fakeScoring struct {
	calls []string
	err   error
}

func (f *fakeScoring) RecordAcceptance(ctx context.Context, userID string, problem *model.Problem, courseID *string, submissionID string) error {
	f.calls = append(f.calls, submissionID)
	return f.err
}

func judgedProblem() *model.Problem {
	return &model.Problem{
		ID:         "prob-1",
		Score:      50,
		Categories: []string{"math"},
		ProhibitedKeys: map[model.Language][]string{
			model.LangPython: {"eval("},
		},
	}
}

func acceptedVerdict() *judge.SubmissionVerdict {
	return &judge.SubmissionVerdict{
		Verdict: model.VerdictAccepted,
		TestResults: []model.TestCaseResult{
			{TestcaseID: "t1", Verdict: model.VerdictAccepted, ExecutionTimeMs: 10},
			{TestcaseID: "t2", Verdict: model.VerdictAccepted, ExecutionTimeMs: 15},
		},
		TotalTimeMs: 25,
	}
}

func newSubmitService(engine *fakeEngine, problems *fakeProblemStore, subs *fakeSubmissionStore, scoring *fakeScoring) *SubmissionService {
	return NewSubmissionService(subs, problems, scoring, engine)
}

func TestSubmitAcceptedAwardsPoints(t *testing.T) {
	engine := &fakeEngine{verdict: acceptedVerdict()}
	problems := &fakeProblemStore{problem: judgedProblem(), testcases: []model.Testcase{
		{ID: "t1", Input: "1", ExpectedOutput: "1"},
		{ID: "t2", Input: "2", ExpectedOutput: "2"},
	}}
	subs := &fakeSubmissionStore{}
	scoring := &fakeScoring{}
	s := newSubmitService(engine, problems, subs, scoring)

	res, err := s.Submit(context.Background(), "user-1", SubmitRequest{
		ProblemID: "prob-1", Code: "print(input())", Language: model.LangPython,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Verdict != model.VerdictAccepted {
		t.Errorf("Verdict = %s, want ACCEPTED", res.Verdict)
	}
	if res.PassedCount != 2 || res.TotalCount != 2 {
		t.Errorf("counts = %d/%d, want 2/2", res.PassedCount, res.TotalCount)
	}
	if res.TotalExecutionTimeMs != 25 {
		t.Errorf("TotalExecutionTimeMs = %d, want 25", res.TotalExecutionTimeMs)
	}
	if len(subs.created) != 1 {
		t.Fatalf("persisted %d submissions, want 1", len(subs.created))
	}
	if subs.created[0].ID != res.SubmissionID {
		t.Errorf("persisted id %s != response id %s", subs.created[0].ID, res.SubmissionID)
	}
	if len(scoring.calls) != 1 || scoring.calls[0] != res.SubmissionID {
		t.Errorf("scoring calls = %v, want exactly the new submission", scoring.calls)
	}
	if len(engine.lastJob.Testcases) != 2 {
		t.Errorf("judged %d testcases, want 2", len(engine.lastJob.Testcases))
	}
}

func TestSubmitRejectedDoesNotScore(t *testing.T) {
	engine := &fakeEngine{verdict: &judge.SubmissionVerdict{
		Verdict: model.VerdictWrongAnswer,
		TestResults: []model.TestCaseResult{
			{TestcaseID: "t1", Verdict: model.VerdictWrongAnswer, ExecutionTimeMs: 5},
		},
		TotalTimeMs: 5,
	}}
	problems := &fakeProblemStore{problem: judgedProblem(), testcases: []model.Testcase{
		{ID: "t1"}, {ID: "t2"},
	}}
	subs := &fakeSubmissionStore{}
	scoring := &fakeScoring{}
	s := newSubmitService(engine, problems, subs, scoring)

	res, err := s.Submit(context.Background(), "user-1", SubmitRequest{
		ProblemID: "prob-1", Code: "x", Language: model.LangCPP,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Verdict != model.VerdictWrongAnswer {
		t.Errorf("Verdict = %s, want WRONG ANSWER", res.Verdict)
	}
	if res.PassedCount != 0 || res.TotalCount != 2 {
		t.Errorf("counts = %d/%d, want 0/2", res.PassedCount, res.TotalCount)
	}
	if len(subs.created) != 1 {
		t.Errorf("rejected submissions must still be persisted")
	}
	if len(scoring.calls) != 0 {
		t.Errorf("scoring ran for a rejected submission")
	}
}

func TestSubmitScoringFailureDoesNotFailSubmit(t *testing.T) {
	engine := &fakeEngine{verdict: acceptedVerdict()}
	problems := &fakeProblemStore{problem: judgedProblem(), testcases: []model.Testcase{{ID: "t1"}, {ID: "t2"}}}
	subs := &fakeSubmissionStore{}
	scoring := &fakeScoring{err: errors.New("db down")}
	s := newSubmitService(engine, problems, subs, scoring)

	res, err := s.Submit(context.Background(), "user-1", SubmitRequest{
		ProblemID: "prob-1", Code: "x", Language: model.LangCPP,
	})
	if err != nil {
		t.Fatalf("Submit must not fail when scoring fails: %v", err)
	}
	if res.Verdict != model.VerdictAccepted {
		t.Errorf("Verdict = %s, want ACCEPTED", res.Verdict)
	}
}

func TestSubmitProhibitedKeyRejected(t *testing.T) {
	engine := &fakeEngine{verdict: acceptedVerdict()}
	problems := &fakeProblemStore{problem: judgedProblem(), testcases: []model.Testcase{{ID: "t1"}}}
	s := newSubmitService(engine, problems, &fakeSubmissionStore{}, &fakeScoring{})

	_, err := s.Submit(context.Background(), "user-1", SubmitRequest{
		ProblemID: "prob-1", Code: "eval(input())", Language: model.LangPython,
	})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if engine.judgeCalls != 0 {
		t.Errorf("prohibited code reached the judge")
	}
}

func TestSubmitProhibitedKeyIsPerLanguage(t *testing.T) {
	// The eval( denylist binds python only; the same text in C++ passes.
	engine := &fakeEngine{verdict: acceptedVerdict()}
	problems := &fakeProblemStore{problem: judgedProblem(), testcases: []model.Testcase{{ID: "t1"}, {ID: "t2"}}}
	s := newSubmitService(engine, problems, &fakeSubmissionStore{}, &fakeScoring{})

	_, err := s.Submit(context.Background(), "user-1", SubmitRequest{
		ProblemID: "prob-1", Code: "// eval( in a comment", Language: model.LangCPP,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
}

func TestSubmitUnsupportedLanguage(t *testing.T) {
	s := newSubmitService(&fakeEngine{}, &fakeProblemStore{problem: judgedProblem()}, &fakeSubmissionStore{}, &fakeScoring{})

	_, err := s.Submit(context.Background(), "user-1", SubmitRequest{
		ProblemID: "prob-1", Code: "x", Language: model.Language("brainfuck"),
	})
	if !errors.Is(err, common.ErrUnsupportedLanguage) {
		t.Fatalf("err = %v, want ErrUnsupportedLanguage", err)
	}
}

func TestSubmitInfrastructureFailureNotPersisted(t *testing.T) {
	engine := &fakeEngine{judgeErr: common.Errorf("daemon gone: %w", common.ErrInfrastructure)}
	problems := &fakeProblemStore{problem: judgedProblem(), testcases: []model.Testcase{{ID: "t1"}}}
	subs := &fakeSubmissionStore{}
	s := newSubmitService(engine, problems, subs, &fakeScoring{})

	_, err := s.Submit(context.Background(), "user-1", SubmitRequest{
		ProblemID: "prob-1", Code: "x", Language: model.LangCPP,
	})
	if !errors.Is(err, common.ErrInfrastructure) {
		t.Fatalf("err = %v, want ErrInfrastructure", err)
	}
	if len(subs.created) != 0 {
		t.Errorf("infrastructure failure persisted a submission")
	}
}

func TestExecutePassesThrough(t *testing.T) {
	engine := &fakeEngine{runResult: judge.RunResult{Success: true, Output: "42", ExecutionTimeMs: 7}}
	s := newSubmitService(engine, &fakeProblemStore{}, &fakeSubmissionStore{}, &fakeScoring{})

	res, err := s.Execute(context.Background(), "user-1", ExecuteRequest{
		Code: "print(42)", Language: model.LangPython, Input: "",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.Success || res.Output != "42" || res.ExecutionTimeMs != 7 {
		t.Errorf("res = %+v", res)
	}
	if engine.lastRun.RunID != "user-1" {
		t.Errorf("RunID = %s, want the user id", engine.lastRun.RunID)
	}
}

func TestExecuteEmptyCodeRejected(t *testing.T) {
	s := newSubmitService(&fakeEngine{}, &fakeProblemStore{}, &fakeSubmissionStore{}, &fakeScoring{})

	_, err := s.Execute(context.Background(), "user-1", ExecuteRequest{Language: model.LangPython})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestExpectedOutputUsesReferenceSolution(t *testing.T) {
	solution := "print(int(input()) * 2)"
	lang := model.LangPython
	problem := judgedProblem()
	problem.Solution = &solution
	problem.SolutionLanguage = &lang

	engine := &fakeEngine{runResult: judge.RunResult{Success: true, Output: "14"}}
	s := newSubmitService(engine, &fakeProblemStore{problem: problem}, &fakeSubmissionStore{}, &fakeScoring{})

	res, err := s.ExpectedOutput(context.Background(), "user-1", ExpectedOutputRequest{ProblemID: "prob-1", Input: "7"})
	if err != nil {
		t.Fatalf("ExpectedOutput: %v", err)
	}
	if res.Output != "14" {
		t.Errorf("Output = %q, want 14", res.Output)
	}
	if engine.lastRun.SourceCode != solution {
		t.Errorf("ran %q, want the reference solution", engine.lastRun.SourceCode)
	}
	if engine.lastRun.Input != "7" {
		t.Errorf("Input = %q, want the caller input", engine.lastRun.Input)
	}
}

func TestExpectedOutputWithoutSolution(t *testing.T) {
	s := newSubmitService(&fakeEngine{}, &fakeProblemStore{problem: judgedProblem()}, &fakeSubmissionStore{}, &fakeScoring{})

	_, err := s.ExpectedOutput(context.Background(), "user-1", ExpectedOutputRequest{ProblemID: "prob-1"})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestExpectedOutputFailingSolution(t *testing.T) {
	solution := "raise SystemExit(1)"
	lang := model.LangPython
	problem := judgedProblem()
	problem.Solution = &solution
	problem.SolutionLanguage = &lang

	engine := &fakeEngine{runResult: judge.RunResult{Success: false, Error: "runtime error"}}
	s := newSubmitService(engine, &fakeProblemStore{problem: problem}, &fakeSubmissionStore{}, &fakeScoring{})

	_, err := s.ExpectedOutput(context.Background(), "user-1", ExpectedOutputRequest{ProblemID: "prob-1"})
	if err == nil || !strings.Contains(err.Error(), "reference solution failed") {
		t.Fatalf("err = %v, want a reference solution failure", err)
	}
}

func TestGetSubmissionEnforcesOwnership(t *testing.T) {
	subs := &fakeSubmissionStore{byID: map[string]*model.Submission{
		"sub-1": {ID: "sub-1", UserID: "user-1"},
	}}
	s := newSubmitService(&fakeEngine{}, &fakeProblemStore{}, subs, &fakeScoring{})

	if _, err := s.GetSubmission(context.Background(), "user-1", "sub-1"); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := s.GetSubmission(context.Background(), "user-2", "sub-1"); !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}
