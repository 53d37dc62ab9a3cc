package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/davetashner/tally/internal/history"
	"github.com/davetashner/tally/internal/query"
	"github.com/davetashner/tally/internal/redact"
)

// settings are the sidebar selections, carried in the query string so that
// they survive the redirect after each POST.
type settings struct {
	Theme  string
	Model  string
	System string
}

func (s *Server) settingsFrom(values url.Values) settings {
	system := s.engine.SystemPrompt()
	if _, ok := values["system"]; ok {
		system = values.Get("system")
	}
	return settings{
		Theme:  s.pickTheme(values.Get("theme")),
		Model:  s.pickModel(values.Get("model")),
		System: system,
	}
}

func (st settings) query() url.Values {
	v := url.Values{}
	v.Set("theme", st.Theme)
	v.Set("model", st.Model)
	v.Set("system", st.System)
	return v
}

// redirectHome sends the browser back to the page with its settings and an
// optional flash message.
func redirectHome(w http.ResponseWriter, r *http.Request, st settings, flash string) {
	v := st.query()
	if flash != "" {
		v.Set("error", flash)
	}
	http.Redirect(w, r, "/?"+v.Encode(), http.StatusSeeOther)
}

type message struct {
	Role string
	Text string
}

type pageData struct {
	Settings    settings
	Palette     palette
	Themes      []string
	Models      []string
	TokensTotal int64
	Messages    []message
	Final       string
	Flash       string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	st := s.settingsFrom(r.URL.Query())
	entries := s.engine.History().Load()

	data := pageData{
		Settings:    st,
		Palette:     palettes[st.Theme],
		Themes:      themeNames,
		Models:      s.models,
		TokensTotal: s.engine.Ledger().Load(),
		Flash:       r.URL.Query().Get("error"),
	}

	// History is stored newest first; the chat reads oldest first.
	for _, e := range slices.Backward(entries) {
		data.Messages = append(data.Messages,
			message{Role: "user", Text: e.InputPhrase},
			message{Role: "assistant", Text: e.AIResponse},
		)
	}
	if len(entries) > 0 {
		b, err := json.MarshalIndent(entries[0].Final(), "", "  ")
		if err == nil {
			data.Final = string(b)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "page", data); err != nil {
		slog.Error("render page", "error", err)
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}
	st := s.settingsFrom(r.PostForm)

	phrase := strings.TrimSpace(r.PostForm.Get("message"))
	if phrase == "" {
		redirectHome(w, r, st, "")
		return
	}

	system := st.System
	_, err := s.engine.Run(r.Context(), query.Input{
		Phrase: phrase,
		Model:  st.Model,
		System: &system,
	})
	if err != nil {
		redirectHome(w, r, st, redact.String(err.Error()))
		return
	}
	redirectHome(w, r, st, "")
}

func (s *Server) handleResetTokens(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	st := s.settingsFrom(r.PostForm)
	if err := s.engine.Reset(); err != nil {
		redirectHome(w, r, st, redact.String(err.Error()))
		return
	}
	redirectHome(w, r, st, "")
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	st := s.settingsFrom(r.PostForm)
	if err := s.engine.ClearHistory(); err != nil {
		redirectHome(w, r, st, redact.String(err.Error()))
		return
	}
	redirectHome(w, r, st, "")
}

func (s *Server) handleFinal(w http.ResponseWriter, _ *http.Request) {
	last, ok := s.engine.History().Last()
	if !ok {
		http.Error(w, "no exchanges recorded yet", http.StatusNotFound)
		return
	}
	b, err := json.MarshalIndent(last.Final(), "", "  ")
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="response.json"`)
	_, _ = w.Write(b)
}

type usageResponse struct {
	TokensTotal    int64 `json:"tokens_total"`
	HistoryEntries int   `json:"history_entries"`
}

func (s *Server) handleAPIUsage(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, usageResponse{
		TokensTotal:    s.engine.Ledger().Load(),
		HistoryEntries: len(s.engine.History().Load()),
	})
}

func (s *Server) handleAPIHistory(w http.ResponseWriter, _ *http.Request) {
	entries := s.engine.History().Load()
	if entries == nil {
		entries = []history.Exchange{}
	}
	s.respondJSON(w, http.StatusOK, entries)
}

type askRequest struct {
	Phrase string  `json:"phrase"`
	Model  string  `json:"model"`
	System *string `json:"system"`
}

func (s *Server) handleAPIAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	res, err := s.engine.Run(r.Context(), query.Input{
		Phrase: req.Phrase,
		Model:  req.Model,
		System: req.System,
	})
	if err != nil {
		s.respondError(w, statusFor(err), err)
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

// statusFor maps a query failure to an HTTP status.
func statusFor(err error) int {
	switch query.KindOf(err) {
	case query.KindInput:
		return http.StatusBadRequest
	case query.KindRemote:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) respondError(w http.ResponseWriter, status int, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	s.respondJSON(w, status, errorResponse{Success: false, Error: redact.String(err.Error())})
}
