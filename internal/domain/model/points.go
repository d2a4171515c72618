package model

import "time"

// UserProblemPoints is unique per (user, problem). The existence of a row
// is the idempotency guard: problem points are awarded at most once no
// matter how many times the problem is re-accepted.
type UserProblemPoints struct {
	UserID        string    `json:"user_id"`
	ProblemID     string    `json:"problem_id"`
	SubmissionID  string    `json:"submission_id"`
	PointsAwarded int       `json:"points_awarded"`
	AwardedAt     time.Time `json:"awarded_at"`
}

// UserCategoryPoints is unique per (user, category); totals only ever grow
// by addition on the judging path.
type UserCategoryPoints struct {
	UserID         string    `json:"user_id"`
	Category       string    `json:"category"`
	TotalPoints    int       `json:"total_points"`
	ProblemsSolved int       `json:"problems_solved"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CourseSubmission is unique per (user, course, problem) and is upserted
// latest-wins: course progress reflects "is this problem currently solved",
// not submission history.
type CourseSubmission struct {
	UserID       string    `json:"user_id"`
	CourseID     string    `json:"course_id"`
	ProblemID    string    `json:"problem_id"`
	SubmissionID string    `json:"submission_id"`
	Points       int       `json:"points"`
	SolvedAt     time.Time `json:"solved_at"`
}
