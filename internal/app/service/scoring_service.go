package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/model"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/repository"
)

// txRunner is satisfied by database.TxRunner.
type txRunner interface {
	RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// ScoringService is the ledger behind accepted submissions. All writes for
// one acceptance happen in a single transaction, so a crash mid-award can
// never leave problem points recorded without their category totals.
type ScoringService struct {
	points repository.PointsRepository
	tx     txRunner
}

func NewScoringService(points repository.PointsRepository, tx txRunner) *ScoringService {
	return &ScoringService{points: points, tx: tx}
}

// RecordAcceptance awards points for an accepted submission. Problem and
// category points are granted only on the first acceptance of a problem;
// the course progress row is upserted on every acceptance, first or not.
func (s *ScoringService) RecordAcceptance(ctx context.Context, userID string, problem *model.Problem, courseID *string, submissionID string) error {
	return s.tx.RunInTx(ctx, func(tx *sql.Tx) error {
		has, err := s.points.HasProblemPoints(ctx, tx, userID, problem.ID)
		if err != nil {
			return err
		}
		if !has {
			err := s.points.InsertProblemPoints(ctx, tx, &model.UserProblemPoints{
				UserID:        userID,
				ProblemID:     problem.ID,
				SubmissionID:  submissionID,
				PointsAwarded: problem.Score,
			})
			if err != nil {
				return err
			}
			for _, category := range problem.Categories {
				if err := s.points.UpsertCategoryPoints(ctx, tx, userID, category, problem.Score); err != nil {
					return err
				}
			}
		}

		if courseID == nil {
			return nil
		}
		points := problem.Score
		override, ok, err := s.points.CourseProblemPoints(ctx, tx, *courseID, problem.ID)
		if err != nil {
			return err
		}
		if ok {
			points = override
		}
		err = s.points.UpsertCourseSubmission(ctx, tx, &model.CourseSubmission{
			UserID:       userID,
			CourseID:     *courseID,
			ProblemID:    problem.ID,
			SubmissionID: submissionID,
			Points:       points,
		})
		if err != nil {
			return fmt.Errorf("record course progress: %w", err)
		}
		return nil
	})
}
