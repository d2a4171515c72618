package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/common"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/model"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *model.Submission) error
	FindByID(ctx context.Context, id string) (*model.Submission, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Submission, int, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	results, err := json.Marshal(s.TestResults)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.Create marshal test results: %w", err)
	}

	query := `INSERT INTO submissions (id, problem_id, user_id, code, language, course_id, test_results, verdict, execution_time_ms)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.ProblemID, s.UserID, s.Code, s.Language, s.CourseID, results, s.Verdict, s.ExecutionTimeMs)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	query := `SELECT id, problem_id, user_id, code, language, course_id, test_results, verdict, execution_time_ms, submitted_at
	          FROM submissions WHERE id = $1`

	s := &model.Submission{}
	var results []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.ProblemID, &s.UserID, &s.Code, &s.Language, &s.CourseID, &results, &s.Verdict, &s.ExecutionTimeMs, &s.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.FindByID: %w", err)
	}
	if len(results) > 0 {
		if err := json.Unmarshal(results, &s.TestResults); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.FindByID unmarshal test results: %w", err)
		}
	}
	return s, nil
}

func (r *pgSubmissionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Submission, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgSubmissionRepository.ListByUser count: %w", err)
	}

	// Listing omits code and per-testcase results; FindByID serves the
	// full record.
	query := `SELECT id, problem_id, user_id, language, course_id, verdict, execution_time_ms, submitted_at
	          FROM submissions WHERE user_id = $1 ORDER BY submitted_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgSubmissionRepository.ListByUser query: %w", err)
	}
	defer rows.Close()

	submissions := []model.Submission{}
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.ProblemID, &s.UserID, &s.Language, &s.CourseID, &s.Verdict, &s.ExecutionTimeMs, &s.SubmittedAt); err != nil {
			return nil, 0, fmt.Errorf("pgSubmissionRepository.ListByUser scan: %w", err)
		}
		submissions = append(submissions, s)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgSubmissionRepository.ListByUser rows.Err: %w", err)
	}
	return submissions, total, nil
}
