// Package handler provides the HTTP front end: the server-rendered table
// widget and a JSON API over the same session state.
package handler

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/stevemurr/simple-user-table/record"
	"github.com/stevemurr/simple-user-table/session"
	"github.com/stevemurr/simple-user-table/state"
)

// CookieName is the cookie carrying the UI session id.
const CookieName = "usertable_session"

//go:embed templates/page.html
var templates embed.FS

var page = template.Must(template.ParseFS(templates, "templates/page.html"))

// Handler holds the server dependencies and registers routes.
type Handler struct {
	sessions *session.Manager
	logger   *slog.Logger
	mux      *http.ServeMux
}

// New creates a Handler and wires up all routes.
func New(sessions *session.Manager, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{sessions: sessions, logger: logger, mux: http.NewServeMux()}
	h.routes()
	return h
}

// ServeHTTP makes Handler an http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.mux.HandleFunc("GET /health", h.health)

	// --- Widget ---
	h.mux.HandleFunc("GET /{$}", h.index)
	h.mux.HandleFunc("POST /users", h.addUser)
	h.mux.HandleFunc("POST /users/{id}/edit", h.editUser)
	h.mux.HandleFunc("POST /users/{id}/update", h.updateUser)
	h.mux.HandleFunc("POST /users/{id}/delete", h.deleteUser)
	h.mux.HandleFunc("POST /cancel", h.cancelEdit)

	// --- JSON API ---
	h.mux.HandleFunc("GET /api/users", h.apiList)
	h.mux.HandleFunc("POST /api/users", h.apiCreate)
	h.mux.HandleFunc("PUT /api/users/{id}", h.apiReplace)
	h.mux.HandleFunc("DELETE /api/users/{id}", h.apiDelete)
	h.mux.HandleFunc("GET /api/state", h.apiState)
}

// ---------- helpers ----------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	return id, err == nil
}

// session returns the caller's UI session, starting one (and setting the
// cookie) when the request has none or it expired.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*state.App, error) {
	if c, err := r.Cookie(CookieName); err == nil {
		if app, ok := h.sessions.Get(c.Value); ok {
			return app, nil
		}
	}
	id, app, err := h.sessions.Create()
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return app, nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

// ---------- status ----------

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ---------- widget ----------

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	app, err := h.session(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v, err := app.View()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := page.Execute(&buf, v); err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func draftFromForm(r *http.Request) record.Record {
	return record.Record{
		Name: r.PostFormValue(record.FieldName),
		Age:  record.Age(r.PostFormValue(record.FieldAge)),
	}
}

// act dispatches a form action and sends the browser back to the page.
func (h *Handler) act(w http.ResponseWriter, r *http.Request, act state.Action) {
	app, err := h.session(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if _, err := app.Dispatch(act); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) addUser(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, state.AddUser{Draft: draftFromForm(r)})
}

func (h *Handler) editUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	h.act(w, r, state.EditUser{ID: id})
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	h.act(w, r, state.UpdateUser{ID: id, Draft: draftFromForm(r)})
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	h.act(w, r, state.DeleteUser{ID: id})
}

func (h *Handler) cancelEdit(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, state.CancelEdit{})
}

// ---------- JSON API ----------

func (h *Handler) apiList(w http.ResponseWriter, r *http.Request) {
	app, err := h.session(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v, err := app.View()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	records := v.Records
	if records == nil {
		records = []record.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) apiCreate(w http.ResponseWriter, r *http.Request) {
	var incoming record.Record
	if err := readJSON(r, &incoming); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	app, err := h.session(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out, err := app.Dispatch(state.CreateRecord{Record: incoming})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !out.Errors.OK() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": out.Errors})
		return
	}
	writeJSON(w, http.StatusCreated, out.Record)
}

func (h *Handler) apiReplace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var incoming record.Record
	if err := readJSON(r, &incoming); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	app, err := h.session(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out, err := app.Dispatch(state.ReplaceRecord{ID: id, Record: incoming})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	switch {
	case !out.Errors.OK():
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": out.Errors})
	case !out.Changed:
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeJSON(w, http.StatusOK, out.Record)
	}
}

func (h *Handler) apiDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	app, err := h.session(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out, err := app.Dispatch(state.DeleteUser{ID: id})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !out.Changed {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted", "id": id})
}

func (h *Handler) apiState(w http.ResponseWriter, r *http.Request) {
	app, err := h.session(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v, err := app.View()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := map[string]any{"mode": v.Mode.String(), "editing": nil}
	if v.Editing() {
		resp["editing"] = v.Edit.Draft
	}
	writeJSON(w, http.StatusOK, resp)
}
