package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/acad-forms/acad-forms/app"
	"github.com/acad-forms/acad-forms/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Post("/auth/login", Login(app))

	// public: no credential required
	api.Get(`/forms/{id:\d+}`, PublicGetForm(app))
	api.Post("/responses/submit", PublicSubmitResponse(app))

	api.Group(func(r chi.Router) {
		r.Use(middlewares.Authenticated(app.JWTAuth))

		r.Get("/forms", ListForms(app))
		r.Post("/forms/create", CreateForm(app))
		r.Get(`/forms/admin/{id:\d+}`, GetForm(app))
		r.Put(`/forms/{id:\d+}`, UpdateForm(app))
		r.Patch(`/forms/{id:\d+}/toggle`, ToggleForm(app))
		r.Delete(`/forms/{id:\d+}`, DeleteForm(app))

		r.Get(`/responses/form/{id:\d+}`, ListResponses(app))
	})

	return api
}
