package model

import "time"

// QuestionType enumerates the supported question kinds. Choice types carry
// an ordered list of selectable option labels.
type QuestionType string

const (
	ShortText      QuestionType = "short-text"
	Paragraph      QuestionType = "paragraph"
	SingleChoice   QuestionType = "single-choice"
	MultiChoice    QuestionType = "multi-choice"
	DropdownChoice QuestionType = "dropdown-choice"
)

func (t QuestionType) Valid() bool {
	switch t {
	case ShortText, Paragraph, SingleChoice, MultiChoice, DropdownChoice:
		return true
	}
	return false
}

// HasOptions reports whether questions of this type carry selectable options.
func (t QuestionType) HasOptions() bool {
	switch t {
	case SingleChoice, MultiChoice, DropdownChoice:
		return true
	}
	return false
}

// Form is the wire representation of a questionnaire: options are plain
// label strings. The editable representation lives in the draft package.
type Form struct {
	ID            int64      `json:"id,omitempty"`
	Title         string     `json:"title" validate:"notblank"`
	Description   string     `json:"description"`
	Questions     []Question `json:"questions" validate:"dive"`
	Active        bool       `json:"active"`
	ResponseCount int        `json:"responseCount,omitempty"`
}

type Question struct {
	ID       string       `json:"id"`
	Type     QuestionType `json:"type" validate:"oneof=short-text paragraph single-choice multi-choice dropdown-choice"`
	Label    string       `json:"label"`
	Required bool         `json:"required"`
	Options  []string     `json:"options,omitempty"`
}

// Answers maps a question id to its answer: a string for text, single-choice
// and dropdown questions, or a list of strings for multi-choice. Values
// decoded from JSON arrive as string or []any.
type Answers map[string]any

type Response struct {
	ID          int64     `json:"id"`
	FormID      int64     `json:"formId"`
	SubmittedAt time.Time `json:"submittedAt"`
	Answers     Answers   `json:"answers"`
}

type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SubmitRequest struct {
	FormID  int64   `json:"formId"`
	Answers Answers `json:"answers"`
}
