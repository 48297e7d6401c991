package routes

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"golang.org/x/crypto/bcrypt"

	"github.com/acad-forms/acad-forms/app"
	"github.com/acad-forms/acad-forms/httpx"
	"github.com/acad-forms/acad-forms/log"
	"github.com/acad-forms/acad-forms/model"
	"github.com/acad-forms/acad-forms/validate"
)

func Login(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds := model.Credentials{}
		err := render.DecodeJSON(r.Body, &creds)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "login.parse_body")
			return
		}
		if err := validate.Payload(creds); err != nil {
			// same generic answer as a wrong password
			httpx.LogStatusMsg(w, http.StatusUnauthorized, log.DebugLevel, "login.payload", "invalid credentials")
			return
		}

		var hash string
		err = app.QueryRowContext(r.Context(), `
			SELECT password_hash FROM user WHERE username = ?`,
			creds.Username,
		).Scan(&hash)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			httpx.LogInternalError(w, "db.get_user", err)
			return
		}
		if err != nil || bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.Password)) != nil {
			httpx.LogStatusMsg(w, http.StatusUnauthorized, log.DebugLevel, "login.verify", "invalid credentials")
			return
		}

		token, err := httpx.IssueToken(app.JWTAuth, creds.Username, app.TokenTTL)
		if err != nil {
			httpx.LogInternalError(w, "login.issue_token", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"token": token,
		})
	}
}
