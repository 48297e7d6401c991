package routes

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/acad-forms/acad-forms/ident"
	"github.com/acad-forms/acad-forms/model"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// fetchForm loads a form and its ordered questions. With activeOnly set, an
// inactive form is indistinguishable from a missing one (sql.ErrNoRows), so
// the public endpoints answer not-found for both.
func fetchForm(ctx context.Context, db queryer, id int64, activeOnly bool) (model.Form, error) {
	form := model.Form{}
	err := db.QueryRowContext(ctx, `
		SELECT id, title, description, active
		FROM form
		WHERE id = ?`,
		id,
	).Scan(&form.ID, &form.Title, &form.Description, &form.Active)
	if err != nil {
		return form, err
	}
	if activeOnly && !form.Active {
		return form, sql.ErrNoRows
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, type, label, required, options
		FROM question
		WHERE form_id = ?
		ORDER BY pos`,
		id,
	)
	if err != nil {
		return form, err
	}
	defer rows.Close()

	for rows.Next() {
		q := model.Question{}
		var opts string
		err = rows.Scan(&q.ID, &q.Type, &q.Label, &q.Required, &opts)
		if err != nil {
			return form, err
		}
		if opts != "" {
			err = json.Unmarshal([]byte(opts), &q.Options)
			if err != nil {
				return form, err
			}
		}
		form.Questions = append(form.Questions, q)
	}
	return form, rows.Err()
}

// insertQuestions writes a form's questions in order. Client-assigned
// question ids are preserved verbatim; a question arriving without one
// (legacy data) gets a fresh id.
func insertQuestions(ctx context.Context, tx *sql.Tx, formID int64, questions []model.Question) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO question (form_id, id, pos, type, label, required, options)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for pos, q := range questions {
		id := q.ID
		if id == "" {
			id = ident.New()
		}

		var optionsJson []byte
		if q.Options != nil {
			optionsJson, err = json.Marshal(q.Options)
			if err != nil {
				return err
			}
		}
		_, err = stmt.ExecContext(ctx, formID, id, pos, string(q.Type), q.Label, q.Required, string(optionsJson))
		if err != nil {
			return err
		}
	}
	return nil
}
