package service

import (
	"context"
	"database/sql"

	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/common"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/model"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type ProblemService struct {
	problemRepo repository.ProblemRepository
	tx          txRunner
}

func NewProblemService(problemRepo repository.ProblemRepository, tx txRunner) *ProblemService {
	return &ProblemService{problemRepo: problemRepo, tx: tx}
}

type CreateProblemRequest struct {
	Title            string                          `json:"title"`
	Description      string                          `json:"description"`
	InputFormat      string                          `json:"input_format"`
	OutputFormat     string                          `json:"output_format"`
	Constraints      string                          `json:"constraints"`
	Difficulty       model.ProblemDifficulty         `json:"difficulty"`
	Score            int                             `json:"score"`
	Categories       []string                        `json:"categories"`
	ProhibitedKeys   map[model.Language][]string     `json:"prohibited_keys,omitempty"`
	SampleInput      string                          `json:"sample_input"`
	SampleOutput     string                          `json:"sample_output"`
	Explanation      *string                         `json:"explanation,omitempty"`
	Solution         *string                         `json:"solution,omitempty"`
	SolutionLanguage *model.Language                 `json:"solution_language,omitempty"`
	Testcases        []model.Testcase                `json:"testcases"`
}

type ListProblemsRequest struct {
	Limit      int
	Offset     int
	Difficulty model.ProblemDifficulty
	Category   string
	Search     string
}

type ProblemListResponse struct {
	Problems []model.Problem `json:"problems"`
	Total    int             `json:"total"`
}

func (s *ProblemService) CreateProblem(ctx context.Context, req CreateProblemRequest) (*model.Problem, error) {
	if req.Title == "" || req.Description == "" || req.Difficulty == "" || len(req.Testcases) == 0 {
		return nil, common.Errorf("missing required fields for problem creation: %w", common.ErrBadRequest)
	}
	if req.Score <= 0 {
		return nil, common.Errorf("problem score must be positive: %w", common.ErrBadRequest)
	}
	if req.SolutionLanguage != nil && !req.SolutionLanguage.Valid() {
		return nil, common.Errorf("solution language %q: %w", *req.SolutionLanguage, common.ErrUnsupportedLanguage)
	}

	problem := &model.Problem{
		ID:               uuid.NewString(),
		Title:            req.Title,
		Slug:             slug.Make(req.Title),
		Description:      req.Description,
		InputFormat:      req.InputFormat,
		OutputFormat:     req.OutputFormat,
		Constraints:      req.Constraints,
		Difficulty:       req.Difficulty,
		Score:            req.Score,
		Categories:       req.Categories,
		ProhibitedKeys:   req.ProhibitedKeys,
		SampleInput:      req.SampleInput,
		SampleOutput:     req.SampleOutput,
		Explanation:      req.Explanation,
		Solution:         req.Solution,
		SolutionLanguage: req.SolutionLanguage,
	}

	testcases := make([]model.Testcase, len(req.Testcases))
	for i, tc := range req.Testcases {
		tc.ID = uuid.NewString()
		tc.ProblemID = problem.ID
		testcases[i] = tc
	}

	err := s.tx.RunInTx(ctx, func(tx *sql.Tx) error {
		if err := s.problemRepo.CreateProblem(ctx, tx, problem); err != nil {
			return err
		}
		return s.problemRepo.AddTestcases(ctx, tx, problem.ID, testcases)
	})
	if err != nil {
		return nil, err
	}
	return problem, nil
}

// GetProblemBySlug returns the public view of a problem: the reference
// solution and the prohibited-key lists stay server-side.
func (s *ProblemService) GetProblemBySlug(ctx context.Context, slugValue string) (*model.Problem, error) {
	problem, err := s.problemRepo.FindProblemBySlug(ctx, slugValue)
	if err != nil {
		return nil, err
	}
	problem.Solution = nil
	problem.SolutionLanguage = nil
	problem.ProhibitedKeys = nil
	return problem, nil
}

func (s *ProblemService) ListProblems(ctx context.Context, req ListProblemsRequest) (*ProblemListResponse, error) {
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	problems, total, err := s.problemRepo.ListProblems(ctx, req.Limit, req.Offset, req.Difficulty, req.Category, req.Search)
	if err != nil {
		return nil, err
	}
	for i := range problems {
		problems[i].Solution = nil
		problems[i].SolutionLanguage = nil
		problems[i].ProhibitedKeys = nil
	}
	return &ProblemListResponse{Problems: problems, Total: total}, nil
}
