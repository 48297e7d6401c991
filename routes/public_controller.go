package routes

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/acad-forms/acad-forms/app"
	"github.com/acad-forms/acad-forms/httpx"
	"github.com/acad-forms/acad-forms/log"
	"github.com/acad-forms/acad-forms/model"
	"github.com/acad-forms/acad-forms/validate"
)

// PublicGetForm serves an active form to a respondent. Inactive forms answer
// 404, same as missing ones.
func PublicGetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		form, err := fetchForm(r.Context(), app.DB, formId, true)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "get_form", formId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_form", err)
			return
		}

		render.JSON(w, r, form)
	}
}

func PublicSubmitResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submit := model.SubmitRequest{}
		err := render.DecodeJSON(r.Body, &submit)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		// an inactive form must refuse new answers
		form, err := fetchForm(r.Context(), tx, submit.FormID, true)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "submit_response.get_form", submit.FormID)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_form", err)
			return
		}

		violations := validate.Submission(form.Questions, submit.Answers)
		if len(violations) > 0 {
			log.Debugf("submit_response.required: %v", violations)
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, map[string]any{
				"violations": violations,
			})
			return
		}

		var responseId int64
		err = tx.QueryRowContext(r.Context(), `
			INSERT INTO response (form_id, submitted_at) VALUES (?, ?)
			RETURNING id`,
			submit.FormID,
			time.Now().UTC(),
		).Scan(&responseId)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_response", err)
			return
		}

		stmt, err := tx.PrepareContext(r.Context(), `
			INSERT INTO answer (response_id, question_id, value)
			VALUES (?, ?, ?)`)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_response.answers.prepare", err)
			return
		}
		defer stmt.Close()

		for questionId, value := range submit.Answers {
			valueJson, err := json.Marshal(value)
			if err != nil {
				httpx.LogInternalError(w, "db.insert_response.answers.parse_value", err)
				return
			}
			_, err = stmt.ExecContext(r.Context(), responseId, questionId, string(valueJson))
			if err != nil {
				httpx.LogInternalError(w, "db.insert_response.answers.insert", err)
				return
			}
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, "db.insert_response.commit", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": responseId,
		})
	}
}
