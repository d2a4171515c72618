package service

import (
	"context"
	"fmt"

	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/common"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/model"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/repository"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/judge"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// judgeEngine is the slice of the judge the submission flow needs.
type judgeEngine interface {
	Supports(lang model.Language) bool
	Execute(ctx context.Context, req judge.RunRequest) (judge.RunResult, error)
	JudgeSubmission(ctx context.Context, job judge.SubmissionJob) (*judge.SubmissionVerdict, error)
}

type acceptanceRecorder interface {
	RecordAcceptance(ctx context.Context, userID string, problem *model.Problem, courseID *string, submissionID string) error
}

// problemReader is the read-only slice of ProblemRepository the judging
// flow needs.
type problemReader interface {
	FindProblemByID(ctx context.Context, id string) (*model.Problem, error)
	GetTestcasesByProblemID(ctx context.Context, problemID string) ([]model.Testcase, error)
}

type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	problemRepo    problemReader
	scoring        acceptanceRecorder
	engine         judgeEngine
}

func NewSubmissionService(submissionRepo repository.SubmissionRepository, problemRepo problemReader, scoring acceptanceRecorder, engine judgeEngine) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		problemRepo:    problemRepo,
		scoring:        scoring,
		engine:         engine,
	}
}

type ExecuteRequest struct {
	Code     string         `json:"code"`
	Language model.Language `json:"language"`
	Input    string         `json:"input"`
}

type ExecuteResponse struct {
	Success         bool   `json:"success"`
	Output          string `json:"output,omitempty"`
	Error           string `json:"error,omitempty"`
	ExecutionTimeMs int64  `json:"execution_time_ms"`
}

type SubmitRequest struct {
	ProblemID string         `json:"problem_id"`
	Code      string         `json:"code"`
	Language  model.Language `json:"language"`
	CourseID  *string        `json:"course_id,omitempty"`
}

type SubmitResponse struct {
	SubmissionID         string                 `json:"submission_id"`
	Verdict              model.Verdict          `json:"verdict"`
	PassedCount          int                    `json:"passed_count"`
	TotalCount           int                    `json:"total_count"`
	TotalExecutionTimeMs int64                  `json:"total_execution_time_ms"`
	TestResults          []model.TestCaseResult `json:"test_results"`
}

type ExpectedOutputRequest struct {
	ProblemID string `json:"problem_id"`
	Input     string `json:"input"`
}

type ExpectedOutputResponse struct {
	Output string `json:"output"`
}

func (s *SubmissionService) checkRunnable(code string, lang model.Language) error {
	if code == "" {
		return fmt.Errorf("code must not be empty: %w", common.ErrValidation)
	}
	if !lang.Valid() || !s.engine.Supports(lang) {
		return fmt.Errorf("language %q: %w", lang, common.ErrUnsupportedLanguage)
	}
	return nil
}

// Execute runs code once against caller-supplied input, outside of any
// problem's testcases.
func (s *SubmissionService) Execute(ctx context.Context, userID string, req ExecuteRequest) (*ExecuteResponse, error) {
	if err := s.checkRunnable(req.Code, req.Language); err != nil {
		return nil, err
	}

	res, err := s.engine.Execute(ctx, judge.RunRequest{
		RunID:      userID,
		Language:   req.Language,
		SourceCode: req.Code,
		Input:      req.Input,
	})
	if err != nil {
		return nil, err
	}
	return &ExecuteResponse{
		Success:         res.Success,
		Output:          res.Output,
		Error:           res.Error,
		ExecutionTimeMs: res.ExecutionTimeMs,
	}, nil
}

// Submit judges code against a problem's hidden testcases, persists the
// submission, and awards points on acceptance. Scoring failures are logged
// but never fail the submit call; the verdict already stands.
func (s *SubmissionService) Submit(ctx context.Context, userID string, req SubmitRequest) (*SubmitResponse, error) {
	if err := s.checkRunnable(req.Code, req.Language); err != nil {
		return nil, err
	}

	problem, err := s.problemRepo.FindProblemByID(ctx, req.ProblemID)
	if err != nil {
		return nil, err
	}
	if key, found := problem.ProhibitedKeyIn(req.Code, req.Language); found {
		return nil, fmt.Errorf("code contains prohibited construct %q: %w", key, common.ErrValidation)
	}

	testcases, err := s.problemRepo.GetTestcasesByProblemID(ctx, req.ProblemID)
	if err != nil {
		return nil, err
	}
	if len(testcases) == 0 {
		return nil, fmt.Errorf("problem %s has no testcases: %w", req.ProblemID, common.ErrNotFound)
	}

	job := judge.SubmissionJob{
		RunID:      uuid.NewString(),
		Language:   req.Language,
		SourceCode: req.Code,
	}
	for _, tc := range testcases {
		job.Testcases = append(job.Testcases, judge.TestcaseInput{
			ID:             tc.ID,
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
		})
	}

	verdict, err := s.engine.JudgeSubmission(ctx, job)
	if err != nil {
		return nil, err
	}

	submission := &model.Submission{
		ID:              job.RunID,
		ProblemID:       problem.ID,
		UserID:          userID,
		Code:            req.Code,
		Language:        req.Language,
		CourseID:        req.CourseID,
		TestResults:     verdict.TestResults,
		Verdict:         verdict.Verdict,
		ExecutionTimeMs: verdict.TotalTimeMs,
	}
	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, err
	}

	if verdict.Verdict == model.VerdictAccepted {
		if err := s.scoring.RecordAcceptance(ctx, userID, problem, req.CourseID, submission.ID); err != nil {
			zap.L().Error("failed to record points for accepted submission",
				zap.String("submission_id", submission.ID),
				zap.String("user_id", userID),
				zap.String("problem_id", problem.ID),
				zap.Error(err))
		}
	}

	passed := 0
	for _, tr := range verdict.TestResults {
		if tr.Verdict == model.VerdictAccepted {
			passed++
		}
	}
	return &SubmitResponse{
		SubmissionID:         submission.ID,
		Verdict:              verdict.Verdict,
		PassedCount:          passed,
		TotalCount:           len(testcases),
		TotalExecutionTimeMs: verdict.TotalTimeMs,
		TestResults:          verdict.TestResults,
	}, nil
}

// ExpectedOutput runs the problem's reference solution against arbitrary
// input and returns what it prints.
func (s *SubmissionService) ExpectedOutput(ctx context.Context, userID string, req ExpectedOutputRequest) (*ExpectedOutputResponse, error) {
	problem, err := s.problemRepo.FindProblemByID(ctx, req.ProblemID)
	if err != nil {
		return nil, err
	}
	if problem.Solution == nil || problem.SolutionLanguage == nil {
		return nil, fmt.Errorf("problem %s has no reference solution: %w", req.ProblemID, common.ErrNotFound)
	}

	res, err := s.engine.Execute(ctx, judge.RunRequest{
		RunID:      userID,
		Language:   *problem.SolutionLanguage,
		SourceCode: *problem.Solution,
		Input:      req.Input,
	})
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, fmt.Errorf("reference solution failed: %s: %w", res.Error, common.ErrInternalServer)
	}
	return &ExpectedOutputResponse{Output: res.Output}, nil
}

func (s *SubmissionService) GetSubmission(ctx context.Context, userID, submissionID string) (*model.Submission, error) {
	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.UserID != userID {
		return nil, common.ErrForbidden
	}
	return submission, nil
}

func (s *SubmissionService) ListSubmissions(ctx context.Context, userID string, limit, offset int) ([]model.Submission, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.submissionRepo.ListByUser(ctx, userID, limit, offset)
}
