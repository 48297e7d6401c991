// Package draft holds the editable representation of a form and the
// operations the authoring views perform on it. Options are addressed by
// identity, never by position, so deleting an option out of order can not
// redirect a pending edit to a sibling.
package draft

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/acad-forms/acad-forms/ident"
	"github.com/acad-forms/acad-forms/model"
)

// ErrTitleRequired is returned by Publish when the trimmed title is empty.
var ErrTitleRequired = errors.New("form title is required")

// Option wraps a selectable label with a transient identity. The id is never
// persisted; it exists only so edits address options by identity.
type Option struct {
	ID    string
	Label string
}

type Question struct {
	ID       string
	Type     model.QuestionType
	Label    string
	Required bool
	Options  []Option
}

// Draft is a form being authored. A zero value (via New) starts in the
// drafting state; Publish moves it one way into the published state, after
// which all mutations become no-ops. Drafts produced by Load (the edit flow)
// never freeze.
type Draft struct {
	FormID      int64
	Title       string
	Description string
	Active      bool
	Questions   []Question

	published bool
}

func New() *Draft {
	return &Draft{Active: true}
}

func (d *Draft) Published() bool {
	return d.published
}

// AddQuestion appends a question of the given type with a fresh id, an empty
// label and required off. Choice types are seeded with one default option.
// The returned copy carries the generated ids; further edits go through the
// editor operations by id.
func (d *Draft) AddQuestion(t model.QuestionType) (Question, bool) {
	if d.published {
		return Question{}, false
	}
	q := Question{ID: ident.New(), Type: t}
	if t.HasOptions() {
		q.Options = []Option{{ID: ident.New(), Label: "Option 1"}}
	}
	d.Questions = append(d.Questions, q)
	return q, true
}

func (d *Draft) UpdateLabel(questionID, label string) bool {
	q := d.question(questionID)
	if q == nil {
		return false
	}
	q.Label = label
	return true
}

func (d *Draft) ToggleRequired(questionID string) bool {
	q := d.question(questionID)
	if q == nil {
		return false
	}
	q.Required = !q.Required
	return true
}

// AddOption appends an option with a fresh id and a default label derived
// from the current option count. Only meaningful for choice questions.
func (d *Draft) AddOption(questionID string) bool {
	q := d.question(questionID)
	if q == nil || !q.Type.HasOptions() {
		return false
	}
	q.Options = append(q.Options, Option{
		ID:    ident.New(),
		Label: fmt.Sprintf("Option %d", len(q.Options)+1),
	})
	return true
}

func (d *Draft) UpdateOption(questionID, optionID, label string) bool {
	q := d.question(questionID)
	if q == nil {
		return false
	}
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			q.Options[i].Label = label
			return true
		}
	}
	return false
}

func (d *Draft) DeleteOption(questionID, optionID string) bool {
	q := d.question(questionID)
	if q == nil {
		return false
	}
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			q.Options = append(q.Options[:i], q.Options[i+1:]...)
			return true
		}
	}
	return false
}

// DeleteQuestion removes the question and all its options, preserving the
// relative order of its siblings.
func (d *Draft) DeleteQuestion(questionID string) bool {
	if d.published {
		return false
	}
	for i := range d.Questions {
		if d.Questions[i].ID == questionID {
			d.Questions = append(d.Questions[:i], d.Questions[i+1:]...)
			return true
		}
	}
	return false
}

func (d *Draft) question(id string) *Question {
	if d.published {
		return nil
	}
	for i := range d.Questions {
		if d.Questions[i].ID == id {
			return &d.Questions[i]
		}
	}
	return nil
}

// Store is the slice of the Remote Store the creation flow needs.
type Store interface {
	CreateForm(ctx context.Context, form model.Form) (int64, error)
}

// Publish sends the draft to the store to obtain a persisted id, then
// freezes the draft. Publishing an already published draft returns the
// assigned id without a second store call. A blank trimmed title rejects
// before any network activity, leaving the state unchanged.
func (d *Draft) Publish(ctx context.Context, store Store) (int64, error) {
	if d.published {
		return d.FormID, nil
	}
	if strings.TrimSpace(d.Title) == "" {
		return 0, ErrTitleRequired
	}

	id, err := store.CreateForm(ctx, d.Wire())
	if err != nil {
		return 0, err
	}
	d.FormID = id
	d.published = true
	return id, nil
}
