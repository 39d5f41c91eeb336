// Package server is a self-contained GeoFlow ops server exposing the
// scope-data/scope-save contract over SQLite. It exists so the client can be
// exercised end to end (development, scripting, tests) without the real
// deployment.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"geoflow-cli/internal/model"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const csrfCookieName = "csrftoken"

type Server struct {
	store *Store
	log   *logrus.Logger
}

func New(store *Store, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	return &Server{store: store, log: log}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/projects/{projectID}/scope-data/", s.handleScopeData).Methods(http.MethodGet)
	r.HandleFunc("/projects/{projectID}/scope-save/", s.handleScopeSave).Methods(http.MethodPost)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}).Methods(http.MethodGet)
	return r
}

func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.log.WithField("addr", addr).Info("geoflow server listening")
	return srv.ListenAndServe()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"ajax":   r.Header.Get("X-Requested-With") == "XMLHttpRequest",
			"took":   time.Since(start).Round(time.Millisecond).String(),
		}).Debug("request")
	})
}

func (s *Server) handleScopeData(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectID"]

	// Hand a CSRF cookie to first-time callers so a later save can pass the
	// double-submit check.
	if _, err := r.Cookie(csrfCookieName); err != nil {
		http.SetCookie(w, &http.Cookie{Name: csrfCookieName, Value: "dev", Path: "/"})
	}

	data, err := s.store.ScopeData(r.Context(), projectID)
	if errors.Is(err, ErrProjectNotFound) {
		writeJSON(w, http.StatusNotFound, model.SaveResponse{OK: false, Error: "not_found"})
		return
	}
	if err != nil {
		s.log.WithError(err).Error("scope-data failed")
		writeJSON(w, http.StatusInternalServerError, model.SaveResponse{OK: false, Error: "internal"})
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleScopeSave(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectID"]

	if !csrfOK(r) {
		writeJSON(w, http.StatusForbidden, model.SaveResponse{OK: false, Error: "csrf"})
		return
	}

	var req model.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.SaveResponse{OK: false, Error: "invalid_json"})
		return
	}

	err := s.store.SaveScope(r.Context(), projectID, req.Items)
	if errors.Is(err, ErrProjectNotFound) {
		writeJSON(w, http.StatusNotFound, model.SaveResponse{OK: false, Error: "not_found"})
		return
	}
	if err != nil {
		s.log.WithError(err).Error("scope-save failed")
		writeJSON(w, http.StatusInternalServerError, model.SaveResponse{OK: false, Error: "internal"})
		return
	}

	s.log.WithFields(logrus.Fields{
		"project": projectID,
		"items":   len(req.Items),
	}).Info("scope saved")
	writeJSON(w, http.StatusOK, model.SaveResponse{OK: true})
}

// csrfOK implements the double-submit check: the X-CSRFToken header must
// match the csrftoken cookie.
func csrfOK(r *http.Request) bool {
	c, err := r.Cookie(csrfCookieName)
	if err != nil || c.Value == "" {
		return false
	}
	return r.Header.Get("X-CSRFToken") == c.Value
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
