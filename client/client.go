// Package client is the sole channel to the Remote Store. It owns request
// authentication and the central session-expiry handling: a 401 from any
// authenticated call tears the session down and surfaces ErrSessionExpired.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/acad-forms/acad-forms/model"
	"github.com/acad-forms/acad-forms/session"
)

var (
	// ErrInvalidCredentials is deliberately generic: it never reveals which
	// part of the credentials was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionExpired means the Remote Store rejected the session token.
	// The session has already been torn down when this is returned.
	ErrSessionExpired = errors.New("session expired")

	// ErrNotFound covers nonexistent resources and inactive public forms.
	ErrNotFound = errors.New("not found")

	// ErrRejected means the Remote Store refused the request payload.
	ErrRejected = errors.New("request rejected")
)

type Client struct {
	base    string
	session *session.Store
	http    *http.Client
}

// New returns a client for the Remote Store rooted at baseURL (including the
// /api prefix). The session store supplies the bearer credential for
// authenticated calls.
func New(baseURL string, sess *session.Store) *Client {
	return &Client{
		base:    strings.TrimRight(baseURL, "/"),
		session: sess,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Login exchanges credentials for a session token and initializes the
// session store. Any authentication failure maps to ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/login", false,
		model.Credentials{Username: username, Password: password}, &out)
	if err != nil {
		var status *statusError
		if errors.As(err, &status) && status.code == http.StatusUnauthorized {
			return ErrInvalidCredentials
		}
		return err
	}
	return c.session.Set(out.Token)
}

// ListForms returns all forms with their response counts.
func (c *Client) ListForms(ctx context.Context) ([]model.Form, error) {
	var out struct {
		Forms []model.Form `json:"forms"`
	}
	err := c.do(ctx, http.MethodGet, "/forms", true, nil, &out)
	return out.Forms, err
}

// CreateForm persists a new form and returns the assigned id. It satisfies
// the draft package's Store interface, so a draft publishes through it.
func (c *Client) CreateForm(ctx context.Context, form model.Form) (int64, error) {
	var out struct {
		FormID int64 `json:"formId"`
	}
	err := c.do(ctx, http.MethodPost, "/forms/create", true, form, &out)
	return out.FormID, err
}

// Form fetches an active form for a respondent. Inactive and nonexistent
// forms both surface as ErrNotFound.
func (c *Client) Form(ctx context.Context, id int64) (model.Form, error) {
	var form model.Form
	err := c.do(ctx, http.MethodGet, "/forms/"+strconv.FormatInt(id, 10), false, nil, &form)
	return form, err
}

// AdminForm fetches a form regardless of its active state, for editing and
// analytics.
func (c *Client) AdminForm(ctx context.Context, id int64) (model.Form, error) {
	var form model.Form
	err := c.do(ctx, http.MethodGet, "/forms/admin/"+strconv.FormatInt(id, 10), true, nil, &form)
	return form, err
}

// UpdateForm overwrites a form's title, description and questions with the
// given wire representation.
func (c *Client) UpdateForm(ctx context.Context, form model.Form) error {
	return c.do(ctx, http.MethodPut, "/forms/"+strconv.FormatInt(form.ID, 10), true, form, nil)
}

// ToggleActive flips the form's active flag and returns the new state.
func (c *Client) ToggleActive(ctx context.Context, id int64) (bool, error) {
	var out struct {
		Active bool `json:"active"`
	}
	err := c.do(ctx, http.MethodPatch, "/forms/"+strconv.FormatInt(id, 10)+"/toggle", true, nil, &out)
	return out.Active, err
}

// DeleteForm removes a form and, implicitly, its responses.
func (c *Client) DeleteForm(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/forms/"+strconv.FormatInt(id, 10), true, nil, nil)
}

// SubmitResponse records a respondent's answers against a form. No
// credential is required.
func (c *Client) SubmitResponse(ctx context.Context, formID int64, answers model.Answers) error {
	return c.do(ctx, http.MethodPost, "/responses/submit", false,
		model.SubmitRequest{FormID: formID, Answers: answers}, nil)
}

// Responses returns all submissions for a form, in submission order.
func (c *Client) Responses(ctx context.Context, formID int64) ([]model.Response, error) {
	var out struct {
		Responses []model.Response `json:"responses"`
	}
	err := c.do(ctx, http.MethodGet, "/responses/form/"+strconv.FormatInt(formID, 10), true, nil, &out)
	return out.Responses, err
}

type statusError struct {
	code int
	path string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("remote store: %s: %s", e.path, http.StatusText(e.code))
}

// do performs one request-response exchange. There is no retry: a failed
// exchange surfaces immediately and local state stays untouched.
func (c *Client) do(ctx context.Context, method, path string, authed bool, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote store: %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized && authed:
		c.session.Expire()
		return ErrSessionExpired
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrRejected, path)
	case resp.StatusCode >= 400:
		return &statusError{code: resp.StatusCode, path: path}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("remote store: %s: parse response: %w", path, err)
		}
	}
	return nil
}
