package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/acad-forms/acad-forms/model"
	"github.com/acad-forms/acad-forms/routes"
	"github.com/acad-forms/acad-forms/testutil"
)

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()

	w := doJSON(t, h, "POST", "/api/auth/login", "", model.Credentials{
		Username: testutil.AdminUser,
		Password: testutil.AdminPass,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d - %s", w.Code, w.Body.String())
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if out.Token == "" {
		t.Fatal("login returned an empty token")
	}
	return out.Token
}

func createForm(t *testing.T, h http.Handler, token string, form model.Form) int64 {
	t.Helper()

	w := doJSON(t, h, "POST", "/api/forms/create", token, form)
	if w.Code != http.StatusCreated {
		t.Fatalf("create form failed: %d - %s", w.Code, w.Body.String())
	}

	var out struct {
		FormID int64 `json:"formId"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return out.FormID
}

func ratingForm() model.Form {
	return model.Form{
		Title:       "Feedback",
		Description: "Semester feedback",
		Questions: []model.Question{
			{ID: "rating-q", Type: model.SingleChoice, Label: "Rating", Required: true, Options: []string{"Good", "Bad"}},
			{ID: "notes-q", Type: model.Paragraph, Label: "Notes"},
		},
	}
}

func TestLogin(t *testing.T) {
	h := routes.Wire(testutil.NewApp(t))

	tests := []struct {
		name string
		user string
		pass string
		want int
	}{
		{"valid credentials", testutil.AdminUser, testutil.AdminPass, http.StatusOK},
		{"wrong password", testutil.AdminUser, "wrong", http.StatusUnauthorized},
		{"unknown user", "nobody", testutil.AdminPass, http.StatusUnauthorized},
		{"empty credentials", "", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, h, "POST", "/api/auth/login", "", model.Credentials{Username: tt.user, Password: tt.pass})
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized && w.Body.String() != "invalid credentials\n" {
				// same generic message whichever part was wrong
				t.Errorf("body = %q, want generic message", w.Body.String())
			}
		})
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	h := routes.Wire(testutil.NewApp(t))

	for _, tt := range []struct{ method, path string }{
		{"GET", "/api/forms"},
		{"POST", "/api/forms/create"},
		{"GET", "/api/forms/admin/1"},
		{"PUT", "/api/forms/1"},
		{"PATCH", "/api/forms/1/toggle"},
		{"DELETE", "/api/forms/1"},
		{"GET", "/api/responses/form/1"},
	} {
		w := doJSON(t, h, tt.method, tt.path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status = %d, want 401", tt.method, tt.path, w.Code)
		}
	}
}

func TestCreateFormValidation(t *testing.T) {
	h := routes.Wire(testutil.NewApp(t))
	token := login(t, h)

	blank := ratingForm()
	blank.Title = "   "
	w := doJSON(t, h, "POST", "/api/forms/create", token, blank)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("blank title: status = %d, want 422", w.Code)
	}

	badType := ratingForm()
	badType.Questions[0].Type = "essay"
	w = doJSON(t, h, "POST", "/api/forms/create", token, badType)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown question type: status = %d, want 422", w.Code)
	}
}

func TestCreateAndGetForm(t *testing.T) {
	h := routes.Wire(testutil.NewApp(t))
	token := login(t, h)

	id := createForm(t, h, token, ratingForm())

	w := doJSON(t, h, "GET", fmt.Sprintf("/api/forms/admin/%d", id), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin get: %d - %s", w.Code, w.Body.String())
	}

	var form model.Form
	if err := json.NewDecoder(w.Body).Decode(&form); err != nil {
		t.Fatalf("decode form: %v", err)
	}
	if !form.Active {
		t.Error("new form not active")
	}
	if len(form.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(form.Questions))
	}
	// client-assigned question ids survive the round-trip verbatim
	if form.Questions[0].ID != "rating-q" || form.Questions[1].ID != "notes-q" {
		t.Errorf("question ids = %q, %q", form.Questions[0].ID, form.Questions[1].ID)
	}
	if got := form.Questions[0].Options; len(got) != 2 || got[0] != "Good" || got[1] != "Bad" {
		t.Errorf("options = %v", got)
	}

	w = doJSON(t, h, "GET", "/api/forms/admin/999", token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing form: status = %d, want 404", w.Code)
	}
}

func TestToggleControlsPublicVisibility(t *testing.T) {
	h := routes.Wire(testutil.NewApp(t))
	token := login(t, h)

	id := createForm(t, h, token, ratingForm())
	publicPath := fmt.Sprintf("/api/forms/%d", id)

	if w := doJSON(t, h, "GET", publicPath, "", nil); w.Code != http.StatusOK {
		t.Fatalf("active form publicly unavailable: %d", w.Code)
	}

	w := doJSON(t, h, "PATCH", publicPath+"/toggle", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("toggle: %d - %s", w.Code, w.Body.String())
	}
	var out struct {
		Active bool `json:"active"`
	}
	_ = json.NewDecoder(w.Body).Decode(&out)
	if out.Active {
		t.Error("toggle did not deactivate")
	}

	// inactive form is indistinguishable from a missing one
	if w := doJSON(t, h, "GET", publicPath, "", nil); w.Code != http.StatusNotFound {
		t.Errorf("inactive form: status = %d, want 404", w.Code)
	}
	// but the admin view still sees it
	if w := doJSON(t, h, "GET", fmt.Sprintf("/api/forms/admin/%d", id), token, nil); w.Code != http.StatusOK {
		t.Errorf("admin get of inactive form: status = %d", w.Code)
	}

	// toggling back restores public visibility
	doJSON(t, h, "PATCH", publicPath+"/toggle", token, nil)
	if w := doJSON(t, h, "GET", publicPath, "", nil); w.Code != http.StatusOK {
		t.Errorf("reactivated form: status = %d, want 200", w.Code)
	}
}

func TestSubmitResponse(t *testing.T) {
	h := routes.Wire(testutil.NewApp(t))
	token := login(t, h)

	id := createForm(t, h, token, ratingForm())

	// required answer missing: refused, nothing stored
	w := doJSON(t, h, "POST", "/api/responses/submit", "", model.SubmitRequest{
		FormID:  id,
		Answers: model.Answers{"notes-q": "all good"},
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("violating submission: status = %d, want 422", w.Code)
	}
	var out struct {
		Violations map[string]string `json:"violations"`
	}
	_ = json.NewDecoder(w.Body).Decode(&out)
	if out.Violations["rating-q"] == "" {
		t.Errorf("violations = %v, want entry for rating-q", out.Violations)
	}

	w = doJSON(t, h, "POST", "/api/responses/submit", "", model.SubmitRequest{
		FormID:  id,
		Answers: model.Answers{"rating-q": "Good", "notes-q": "all good"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("submission: %d - %s", w.Code, w.Body.String())
	}

	// responses listing decodes the stored answers
	w = doJSON(t, h, "GET", fmt.Sprintf("/api/responses/form/%d", id), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list responses: %d - %s", w.Code, w.Body.String())
	}
	var listed struct {
		Responses []model.Response `json:"responses"`
	}
	if err := json.NewDecoder(w.Body).Decode(&listed); err != nil {
		t.Fatalf("decode responses: %v", err)
	}
	if len(listed.Responses) != 1 {
		t.Fatalf("got %d responses, want 1", len(listed.Responses))
	}
	if got := listed.Responses[0].Answers["rating-q"]; got != "Good" {
		t.Errorf("stored answer = %v, want Good", got)
	}

	// response count shows up in the management list
	w = doJSON(t, h, "GET", "/api/forms", token, nil)
	var forms struct {
		Forms []model.Form `json:"forms"`
	}
	_ = json.NewDecoder(w.Body).Decode(&forms)
	for _, f := range forms.Forms {
		if f.ID == id && f.ResponseCount != 1 {
			t.Errorf("response count = %d, want 1", f.ResponseCount)
		}
	}
}

func TestSubmitToInactiveForm(t *testing.T) {
	h := routes.Wire(testutil.NewApp(t))
	token := login(t, h)

	id := createForm(t, h, token, ratingForm())
	doJSON(t, h, "PATCH", fmt.Sprintf("/api/forms/%d/toggle", id), token, nil)

	w := doJSON(t, h, "POST", "/api/responses/submit", "", model.SubmitRequest{
		FormID:  id,
		Answers: model.Answers{"rating-q": "Good"},
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("inactive form submission: status = %d, want 404", w.Code)
	}
}

func TestUpdateForm(t *testing.T) {
	h := routes.Wire(testutil.NewApp(t))
	token := login(t, h)

	id := createForm(t, h, token, ratingForm())

	updated := model.Form{
		Title:       "Feedback v2",
		Description: "Revised",
		Questions: []model.Question{
			{ID: "rating-q", Type: model.SingleChoice, Label: "Rating", Required: true, Options: []string{"Good", "Average", "Bad"}},
		},
	}
	w := doJSON(t, h, "PUT", fmt.Sprintf("/api/forms/%d", id), token, updated)
	if w.Code != http.StatusNoContent {
		t.Fatalf("update: %d - %s", w.Code, w.Body.String())
	}

	w = doJSON(t, h, "GET", fmt.Sprintf("/api/forms/admin/%d", id), token, nil)
	var form model.Form
	_ = json.NewDecoder(w.Body).Decode(&form)
	if form.Title != "Feedback v2" {
		t.Errorf("title = %q", form.Title)
	}
	if len(form.Questions) != 1 || len(form.Questions[0].Options) != 3 {
		t.Errorf("questions not overwritten: %+v", form.Questions)
	}

	w = doJSON(t, h, "PUT", "/api/forms/999", token, updated)
	if w.Code != http.StatusNotFound {
		t.Errorf("update of missing form: status = %d, want 404", w.Code)
	}
}

func TestDeleteForm(t *testing.T) {
	h := routes.Wire(testutil.NewApp(t))
	token := login(t, h)

	id := createForm(t, h, token, ratingForm())

	// a recorded response must not block deletion
	doJSON(t, h, "POST", "/api/responses/submit", "", model.SubmitRequest{
		FormID:  id,
		Answers: model.Answers{"rating-q": "Good"},
	})

	w := doJSON(t, h, "DELETE", fmt.Sprintf("/api/forms/%d", id), token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d - %s", w.Code, w.Body.String())
	}

	w = doJSON(t, h, "GET", "/api/forms", token, nil)
	var forms struct {
		Forms []model.Form `json:"forms"`
	}
	_ = json.NewDecoder(w.Body).Decode(&forms)
	for _, f := range forms.Forms {
		if f.ID == id {
			t.Error("deleted form still listed")
		}
	}

	w = doJSON(t, h, "DELETE", fmt.Sprintf("/api/forms/%d", id), token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", w.Code)
	}
}
