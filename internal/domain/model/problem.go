package model

import (
	"strings"
	"time"
)

type ProblemDifficulty string

const (
	DifficultyEasy   ProblemDifficulty = "Easy"
	DifficultyMedium ProblemDifficulty = "Medium"
	DifficultyHard   ProblemDifficulty = "Hard"
)

// Problem is the read-only unit of work for the judge. The judging path
// never mutates a problem; admin edits go through ProblemService.
type Problem struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Slug         string            `json:"slug"`
	Description  string            `json:"description"`
	InputFormat  string            `json:"input_format"`
	OutputFormat string            `json:"output_format"`
	Constraints  string            `json:"constraints"`
	Difficulty   ProblemDifficulty `json:"difficulty"`
	Score        int               `json:"score"`
	Categories   []string          `json:"categories"`

	// ProhibitedKeys maps a language to source substrings that are
	// rejected before any workspace is allocated.
	ProhibitedKeys map[Language][]string `json:"prohibited_keys,omitempty"`

	// Visible sample pair shown to users; hidden testcases live in the
	// testcases table.
	SampleInput  string  `json:"sample_input"`
	SampleOutput string  `json:"sample_output"`
	Explanation  *string `json:"explanation,omitempty"`

	// Optional reference solution, used to derive expected output for
	// arbitrary custom input.
	Solution         *string   `json:"solution,omitempty"`
	SolutionLanguage *Language `json:"solution_language,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProhibitedKeyIn reports the first prohibited substring for lang found in
// source, if any.
func (p *Problem) ProhibitedKeyIn(source string, lang Language) (string, bool) {
	for _, key := range p.ProhibitedKeys[lang] {
		if key != "" && strings.Contains(source, key) {
			return key, true
		}
	}
	return "", false
}

// Testcase is a hidden input/output pair belonging to exactly one problem.
// Read-only to the judge; evaluation order follows SortOrder.
type Testcase struct {
	ID             string    `json:"id"`
	ProblemID      string    `json:"problem_id"`
	Input          string    `json:"input"`
	ExpectedOutput string    `json:"expected_output"`
	SortOrder      int       `json:"sort_order"`
	CreatedAt      time.Time `json:"created_at"`
}
