package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/model"
)

// PointsRepository persists the scoring ledger. Every method takes the
// caller's transaction; the single-acceptance guarantee only holds when
// all ledger writes for one acceptance commit together.
type PointsRepository interface {
	HasProblemPoints(ctx context.Context, tx *sql.Tx, userID, problemID string) (bool, error)
	InsertProblemPoints(ctx context.Context, tx *sql.Tx, points *model.UserProblemPoints) error
	UpsertCategoryPoints(ctx context.Context, tx *sql.Tx, userID, category string, points int) error
	CourseProblemPoints(ctx context.Context, tx *sql.Tx, courseID, problemID string) (int, bool, error)
	UpsertCourseSubmission(ctx context.Context, tx *sql.Tx, cs *model.CourseSubmission) error
}

type pgPointsRepository struct {
	db *sql.DB
}

func NewPgPointsRepository(db *sql.DB) PointsRepository {
	return &pgPointsRepository{db: db}
}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *pgPointsRepository) q(tx *sql.Tx) dbtx {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *pgPointsRepository) HasProblemPoints(ctx context.Context, tx *sql.Tx, userID, problemID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM user_problem_points WHERE user_id = $1 AND problem_id = $2)`
	var exists bool
	if err := r.q(tx).QueryRowContext(ctx, query, userID, problemID).Scan(&exists); err != nil {
		return false, fmt.Errorf("pgPointsRepository.HasProblemPoints: %w", err)
	}
	return exists, nil
}

func (r *pgPointsRepository) InsertProblemPoints(ctx context.Context, tx *sql.Tx, p *model.UserProblemPoints) error {
	query := `INSERT INTO user_problem_points (user_id, problem_id, submission_id, points_awarded)
	          VALUES ($1, $2, $3, $4)`
	if _, err := r.q(tx).ExecContext(ctx, query, p.UserID, p.ProblemID, p.SubmissionID, p.PointsAwarded); err != nil {
		return fmt.Errorf("pgPointsRepository.InsertProblemPoints: %w", err)
	}
	return nil
}

func (r *pgPointsRepository) UpsertCategoryPoints(ctx context.Context, tx *sql.Tx, userID, category string, points int) error {
	query := `INSERT INTO user_category_points (user_id, category, total_points, problems_solved)
	          VALUES ($1, $2, $3, 1)
	          ON CONFLICT (user_id, category) DO UPDATE SET
	            total_points = user_category_points.total_points + EXCLUDED.total_points,
	            problems_solved = user_category_points.problems_solved + 1,
	            updated_at = CURRENT_TIMESTAMP`
	if _, err := r.q(tx).ExecContext(ctx, query, userID, category, points); err != nil {
		return fmt.Errorf("pgPointsRepository.UpsertCategoryPoints: %w", err)
	}
	return nil
}

// CourseProblemPoints returns the course-specific point value for a
// problem, if the course overrides it.
func (r *pgPointsRepository) CourseProblemPoints(ctx context.Context, tx *sql.Tx, courseID, problemID string) (int, bool, error) {
	query := `SELECT points FROM course_problems WHERE course_id = $1 AND problem_id = $2`
	var points int
	err := r.q(tx).QueryRowContext(ctx, query, courseID, problemID).Scan(&points)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("pgPointsRepository.CourseProblemPoints: %w", err)
	}
	return points, true, nil
}

func (r *pgPointsRepository) UpsertCourseSubmission(ctx context.Context, tx *sql.Tx, cs *model.CourseSubmission) error {
	query := `INSERT INTO course_submissions (user_id, course_id, problem_id, submission_id, points)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (user_id, course_id, problem_id) DO UPDATE SET
	            submission_id = EXCLUDED.submission_id,
	            points = EXCLUDED.points,
	            solved_at = CURRENT_TIMESTAMP`
	if _, err := r.q(tx).ExecContext(ctx, query, cs.UserID, cs.CourseID, cs.ProblemID, cs.SubmissionID, cs.Points); err != nil {
		return fmt.Errorf("pgPointsRepository.UpsertCourseSubmission: %w", err)
	}
	return nil
}
