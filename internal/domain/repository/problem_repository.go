package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/common"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type ProblemRepository interface {
	CreateProblem(ctx context.Context, tx *sql.Tx, problem *model.Problem) error
	FindProblemByID(ctx context.Context, id string) (*model.Problem, error)
	FindProblemBySlug(ctx context.Context, slug string) (*model.Problem, error)
	ListProblems(ctx context.Context, limit, offset int, difficulty model.ProblemDifficulty, category, searchTerm string) ([]model.Problem, int, error)

	AddTestcases(ctx context.Context, tx *sql.Tx, problemID string, testcases []model.Testcase) error
	GetTestcasesByProblemID(ctx context.Context, problemID string) ([]model.Testcase, error)
}

type pgProblemRepository struct {
	db *sql.DB
}

func NewPgProblemRepository(db *sql.DB) ProblemRepository {
	return &pgProblemRepository{db: db}
}

const problemColumns = `id, title, slug, description, input_format, output_format, constraints,
	difficulty, score, categories, prohibited_keys, sample_input, sample_output, explanation,
	solution, solution_language, created_at, updated_at`

func (r *pgProblemRepository) CreateProblem(ctx context.Context, tx *sql.Tx, p *model.Problem) error {
	categories, err := json.Marshal(p.Categories)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.CreateProblem marshal categories: %w", err)
	}
	prohibited, err := json.Marshal(p.ProhibitedKeys)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.CreateProblem marshal prohibited keys: %w", err)
	}

	query := `INSERT INTO problems (id, title, slug, description, input_format, output_format, constraints,
	            difficulty, score, categories, prohibited_keys, sample_input, sample_output, explanation,
	            solution, solution_language)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	args := []interface{}{
		p.ID, p.Title, p.Slug, p.Description, p.InputFormat, p.OutputFormat, p.Constraints,
		p.Difficulty, p.Score, categories, prohibited, p.SampleInput, p.SampleOutput, p.Explanation,
		p.Solution, p.SolutionLanguage,
	}
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, args...)
	} else {
		_, err = r.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for slug
			return fmt.Errorf("problem with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgProblemRepository.CreateProblem: %w", err)
	}
	return nil
}

func (r *pgProblemRepository) FindProblemByID(ctx context.Context, id string) (*model.Problem, error) {
	return r.findOne(ctx, "id", id)
}

func (r *pgProblemRepository) FindProblemBySlug(ctx context.Context, slug string) (*model.Problem, error) {
	return r.findOne(ctx, "slug", slug)
}

func (r *pgProblemRepository) findOne(ctx context.Context, column, value string) (*model.Problem, error) {
	query := fmt.Sprintf(`SELECT %s FROM problems WHERE %s = $1`, problemColumns, column)

	p := &model.Problem{}
	var categories, prohibited []byte
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.InputFormat, &p.OutputFormat, &p.Constraints,
		&p.Difficulty, &p.Score, &categories, &prohibited, &p.SampleInput, &p.SampleOutput, &p.Explanation,
		&p.Solution, &p.SolutionLanguage, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.findOne %s: %w", column, err)
	}
	if err := unmarshalProblemJSON(p, categories, prohibited); err != nil {
		return nil, err
	}
	return p, nil
}

func unmarshalProblemJSON(p *model.Problem, categories, prohibited []byte) error {
	if len(categories) > 0 {
		if err := json.Unmarshal(categories, &p.Categories); err != nil {
			return fmt.Errorf("pgProblemRepository: unmarshal categories for %s: %w", p.ID, err)
		}
	}
	if len(prohibited) > 0 {
		if err := json.Unmarshal(prohibited, &p.ProhibitedKeys); err != nil {
			return fmt.Errorf("pgProblemRepository: unmarshal prohibited keys for %s: %w", p.ID, err)
		}
	}
	return nil
}

func (r *pgProblemRepository) ListProblems(ctx context.Context, limit, offset int, difficulty model.ProblemDifficulty, category, searchTerm string) ([]model.Problem, int, error) {
	var conditions []string
	var args []interface{}
	argID := 1

	if difficulty != "" {
		conditions = append(conditions, fmt.Sprintf("difficulty = $%d", argID))
		args = append(args, difficulty)
		argID++
	}
	if category != "" {
		conditions = append(conditions, fmt.Sprintf("categories @> $%d", argID))
		cat, err := json.Marshal([]string{category})
		if err != nil {
			return nil, 0, fmt.Errorf("pgProblemRepository.ListProblems marshal category: %w", err)
		}
		args = append(args, cat)
		argID++
	}
	if searchTerm != "" {
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", argID, argID+1))
		likeTerm := "%" + searchTerm + "%"
		args = append(args, likeTerm, likeTerm)
		argID += 2
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM problems" + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgProblemRepository.ListProblems count: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM problems%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		problemColumns, whereClause, argID, argID+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgProblemRepository.ListProblems query: %w", err)
	}
	defer rows.Close()

	problems := []model.Problem{}
	for rows.Next() {
		var p model.Problem
		var categories, prohibited []byte
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Slug, &p.Description, &p.InputFormat, &p.OutputFormat, &p.Constraints,
			&p.Difficulty, &p.Score, &categories, &prohibited, &p.SampleInput, &p.SampleOutput, &p.Explanation,
			&p.Solution, &p.SolutionLanguage, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("pgProblemRepository.ListProblems scan: %w", err)
		}
		if err := unmarshalProblemJSON(&p, categories, prohibited); err != nil {
			return nil, 0, err
		}
		problems = append(problems, p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgProblemRepository.ListProblems rows.Err: %w", err)
	}
	return problems, total, nil
}

func (r *pgProblemRepository) AddTestcases(ctx context.Context, tx *sql.Tx, problemID string, testcases []model.Testcase) error {
	if len(testcases) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO testcases (id, problem_id, input, expected_output, sort_order)
	          VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.AddTestcases prepare: %w", err)
	}
	defer stmt.Close()

	for i, tc := range testcases {
		tc.SortOrder = i + 1
		if _, err := stmt.ExecContext(ctx, tc.ID, problemID, tc.Input, tc.ExpectedOutput, tc.SortOrder); err != nil {
			return fmt.Errorf("pgProblemRepository.AddTestcases exec for testcase %s: %w", tc.ID, err)
		}
	}
	return nil
}

func (r *pgProblemRepository) GetTestcasesByProblemID(ctx context.Context, problemID string) ([]model.Testcase, error) {
	query := `SELECT id, problem_id, input, expected_output, sort_order, created_at
	          FROM testcases WHERE problem_id = $1 ORDER BY sort_order ASC`
	rows, err := r.db.QueryContext(ctx, query, problemID)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.GetTestcasesByProblemID query: %w", err)
	}
	defer rows.Close()

	var testcases []model.Testcase
	for rows.Next() {
		var tc model.Testcase
		if err := rows.Scan(&tc.ID, &tc.ProblemID, &tc.Input, &tc.ExpectedOutput, &tc.SortOrder, &tc.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.GetTestcasesByProblemID scan: %w", err)
		}
		testcases = append(testcases, tc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.GetTestcasesByProblemID rows.Err: %w", err)
	}
	return testcases, nil
}
