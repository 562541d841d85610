package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/csvlayout/internal/csvio"
	"github.com/JonMunkholm/csvlayout/internal/logging"
	"github.com/JonMunkholm/csvlayout/internal/service"
	"github.com/JonMunkholm/csvlayout/internal/web/templates"
)

// handleIndex renders the conversion form. ?profile=name preselects a
// profile and fills the rule fields from it.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.service.ListProfiles(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	data := templates.IndexData{
		Profiles:       profiles,
		InputEncoding:  s.cfg.Convert.InputEncoding,
		OutputEncoding: s.cfg.Convert.OutputEncoding,
		PreviewRows:    s.cfg.Convert.PreviewRows,
	}
	if name := r.URL.Query().Get("profile"); name != "" {
		for _, p := range profiles {
			if p.Name == name {
				data.Selected = p.Name
				data.Rules = p.Rules
				if p.InputEncoding != "" {
					data.InputEncoding = p.InputEncoding
				}
				if p.OutputEncoding != "" {
					data.OutputEncoding = p.OutputEncoding
				}
			}
		}
	}

	templ.Handler(templates.IndexPage(data)).ServeHTTP(w, r)
}

// handlePreviewPage renders the preview of an uploaded file as HTML.
func (s *Server) handlePreviewPage(w http.ResponseWriter, r *http.Request) {
	u, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	defer u.Close()

	res, err := s.service.Preview(r.Context(), service.PreviewRequest{Request: u.req, Rows: u.rows})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	templ.Handler(templates.PreviewPage(templates.PreviewData{
		FileName:      u.req.FileName,
		Profile:       res.Profile,
		InputEncoding: res.InputEncoding,
		FellBack:      res.FellBack,
		Preview:       res.Preview,
	})).ServeHTTP(w, r)
}

// handlePreview returns the preview as JSON.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	u, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	defer u.Close()

	res, err := s.service.Preview(r.Context(), service.PreviewRequest{Request: u.req, Rows: u.rows})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// handleConvert streams the converted file as a download.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	u, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	defer u.Close()

	res, err := s.service.Convert(r.Context(), service.ConvertRequest{
		Request:        u.req,
		OutputEncoding: u.outputEncoding,
		RemoveHeader:   u.removeHeader,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	for _, warn := range res.Warnings {
		logging.FromContext(r.Context()).Warn("conversion warning", "file", u.req.FileName, "warning", warn.String())
	}

	w.Header().Set("Content-Type", "text/csv; charset="+charset(res.OutputEncoding))
	w.Header().Set("Content-Disposition", contentDisposition(res.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.Header().Set("X-Input-Encoding", string(res.InputEncoding))
	w.Header().Set("X-Warning-Count", strconv.Itoa(len(res.Warnings)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Data); err != nil {
		logging.FromContext(r.Context()).Error("write download", "error", err)
	}
}

// readUpload parses the conversion form, writing the error response itself
// when parsing fails.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, bool) {
	u, err := s.parseUpload(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, r, err)
		} else {
			s.badRequest(w, r, err.Error())
		}
		return nil, false
	}
	return u, true
}

func charset(e csvio.Encoding) string {
	if e == csvio.ShiftJIS {
		return "Shift_JIS"
	}
	return "utf-8"
}

// contentDisposition builds an attachment header with an ASCII fallback
// name and the RFC 5987 UTF-8 name.
func contentDisposition(name string) string {
	fallback := make([]rune, 0, len(name))
	for _, r := range name {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			r = '_'
		}
		fallback = append(fallback, r)
	}
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, string(fallback), url.PathEscape(name))
}
