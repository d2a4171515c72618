package model

import "time"

// Verdict is the categorical judging outcome for a submission or a single
// testcase.
type Verdict string

const (
	VerdictAccepted    Verdict = "ACCEPTED"
	VerdictWrongAnswer Verdict = "WRONG ANSWER"
	VerdictRuntime     Verdict = "RTE"
	VerdictTimeLimit   Verdict = "TLE"
)

// Submission is an append-only record: created exactly once per submit call
// and never updated afterward.
type Submission struct {
	ID              string           `json:"id"`
	ProblemID       string           `json:"problem_id"`
	UserID          string           `json:"user_id"`
	Code            string           `json:"code"`
	Language        Language         `json:"language"`
	CourseID        *string          `json:"course_id,omitempty"`
	TestResults     []TestCaseResult `json:"test_results"`
	Verdict         Verdict          `json:"verdict"`
	ExecutionTimeMs int64            `json:"execution_time_ms"`
	SubmittedAt     time.Time        `json:"submitted_at"`
}

// TestCaseResult is one judged entry of a submission's test_results. Only
// the testcases that actually ran appear; evaluation short-circuits on the
// first failure.
type TestCaseResult struct {
	TestcaseID      string  `json:"testcase_id"`
	Verdict         Verdict `json:"verdict"`
	ExecutionTimeMs int64   `json:"execution_time_ms"`
}
