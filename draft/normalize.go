package draft

import (
	"github.com/acad-forms/acad-forms/ident"
	"github.com/acad-forms/acad-forms/model"
)

// Load converts a persisted wire-format form into its editable
// representation, wrapping each plain option label in a freshly generated
// identity. Questions missing an id (legacy data) are assigned one. Loading
// the same document twice yields behaviorally equivalent drafts: same
// labels, same order, different synthetic option ids.
func Load(form model.Form) *Draft {
	d := &Draft{
		FormID:      form.ID,
		Title:       form.Title,
		Description: form.Description,
		Active:      form.Active,
	}
	for _, q := range form.Questions {
		id := q.ID
		if id == "" {
			id = ident.New()
		}
		eq := Question{
			ID:       id,
			Type:     q.Type,
			Label:    q.Label,
			Required: q.Required,
		}
		for _, label := range q.Options {
			eq.Options = append(eq.Options, Option{ID: ident.New(), Label: label})
		}
		d.Questions = append(d.Questions, eq)
	}
	return d
}

// Wire strips option identities and emits the persisted shape: ordered label
// strings alongside the unwrapped question fields. Wire(Load(doc)) == doc
// for any well-formed persisted document.
func (d *Draft) Wire() model.Form {
	form := model.Form{
		ID:          d.FormID,
		Title:       d.Title,
		Description: d.Description,
		Active:      d.Active,
	}
	for _, q := range d.Questions {
		wq := model.Question{
			ID:       q.ID,
			Type:     q.Type,
			Label:    q.Label,
			Required: q.Required,
		}
		for _, o := range q.Options {
			wq.Options = append(wq.Options, o.Label)
		}
		form.Questions = append(form.Questions, wq)
	}
	return form
}
