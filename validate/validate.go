// Package validate checks respondent submissions against a form's question
// requirements, and request payloads against their struct tags.
package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/acad-forms/acad-forms/model"
)

const requiredReason = "This question is required"

// Submission checks a candidate answer mapping against a form's questions.
// Every required question must have a present, non-empty answer: a missing
// entry, an empty string and an empty list all count as violations. The
// result maps question ids to human-readable reasons; an empty result means
// the submission may proceed.
func Submission(questions []model.Question, answers model.Answers) map[string]string {
	violations := map[string]string{}
	for _, q := range questions {
		if !q.Required {
			continue
		}
		if answerEmpty(answers[q.ID]) {
			violations[q.ID] = requiredReason
		}
	}
	return violations
}

func answerEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}

var payload = validator.New()

func init() {
	_ = payload.RegisterValidation("notblank", notBlank)
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Payload validates a request payload struct against its validate tags.
func Payload(v any) error {
	return payload.Struct(v)
}
