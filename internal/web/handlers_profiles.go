package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/csvlayout/internal/profile"
)

// maxProfileBody bounds JSON and document uploads for profile routes.
const maxProfileBody = 4 << 20

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.service.ListProfiles(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profiles)
}

// handleGetProfile accepts an id or a name.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.service.FindProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := s.decodeProfile(w, r)
	if !ok {
		return
	}
	created, err := s.service.CreateProfile(r.Context(), p)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := s.decodeProfile(w, r)
	if !ok {
		return
	}
	p.ID = chi.URLParam(r, "id")
	updated, err := s.service.UpdateProfile(r.Context(), p)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteProfile(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleImportProfiles saves every profile in a JSON or YAML document.
// The format comes from ?format= or the Content-Type.
func (s *Server) handleImportProfiles(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r, maxProfileBody)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	res, err := s.service.ImportProfiles(r.Context(), data, requestFormat(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// handleExportProfiles downloads all profiles as one document.
func (s *Server) handleExportProfiles(w http.ResponseWriter, r *http.Request) {
	f := requestFormat(r)
	data, err := s.service.ExportProfiles(r.Context(), f)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	name, ctype := "csv_profiles.json", "application/json"
	if f == profile.FormatYAML {
		name, ctype = "csv_profiles.yaml", "application/yaml"
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Disposition", contentDisposition(name))
	w.Write(data)
}

// handleMatchHeaders suggests profiles for ?headers=a,b,c.
func (s *Server) handleMatchHeaders(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("headers")
	if raw == "" {
		s.badRequest(w, r, "missing headers parameter")
		return
	}
	headers := strings.Split(raw, ",")
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	matches, err := s.service.MatchProfiles(r.Context(), headers)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, nonNil(matches))
}

// handleMatchFile suggests profiles for an uploaded file's header.
func (s *Server) handleMatchFile(w http.ResponseWriter, r *http.Request) {
	u, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	defer u.Close()

	matches, err := s.service.MatchFile(r.Context(), u.req.File, u.req.InputEncoding)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, nonNil(matches))
}

func (s *Server) decodeProfile(w http.ResponseWriter, r *http.Request) (profile.Profile, bool) {
	p := profile.New("")
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxProfileBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		s.badRequest(w, r, fmt.Sprintf("invalid request body: %v", err))
		return profile.Profile{}, false
	}
	return p, true
}

func requestFormat(r *http.Request) profile.Format {
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "yaml", "yml":
		return profile.FormatYAML
	case "json":
		return profile.FormatJSON
	}
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		return profile.FormatYAML
	}
	return profile.FormatJSON
}

func nonNil(m []profile.Match) []profile.Match {
	if m == nil {
		return []profile.Match{}
	}
	return m
}

