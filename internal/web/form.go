package web

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/csvlayout/internal/core"
	"github.com/JonMunkholm/csvlayout/internal/service"
	"github.com/JonMunkholm/csvlayout/internal/web/templates"
)

// maxMemory is how much of a multipart form is held in memory before
// spilling to temp files.
const maxMemory = 32 << 20

// upload is a parsed conversion form.
type upload struct {
	req            service.Request
	outputEncoding string
	removeHeader   *bool
	rows           int
	file           multipart.File
}

func (u *upload) Close() {
	if u.file != nil {
		u.file.Close()
	}
}

// parseUpload reads the multipart conversion form. The caller must Close
// the result. A missing file is left for the service to report.
func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Convert.MaxFileSize+multipartOverhead)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	u := &upload{
		req: service.Request{
			ProfileID:     strings.TrimSpace(r.FormValue(templates.FieldProfileID)),
			ProfileName:   strings.TrimSpace(r.FormValue(templates.FieldProfile)),
			InputEncoding: r.FormValue(templates.FieldInputEncoding),
		},
		outputEncoding: r.FormValue(templates.FieldOutputEncoding),
	}

	switch strings.TrimSpace(r.FormValue(templates.FieldRemoveHeader)) {
	case "":
	case "1", "true", "on":
		v := true
		u.removeHeader = &v
	default:
		v := false
		u.removeHeader = &v
	}

	if v := strings.TrimSpace(r.FormValue(templates.FieldRows)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("rows must be a positive integer, got %q", v)
		}
		u.rows = n
	}

	rules, err := formRules(r)
	if err != nil {
		return nil, err
	}
	u.req.Rules = rules

	file, header, err := r.FormFile(templates.FieldFile)
	switch {
	case err == http.ErrMissingFile:
	case err != nil:
		return nil, fmt.Errorf("read file: %w", err)
	default:
		u.file = file
		u.req.File = file
		u.req.FileName = header.Filename
	}
	return u, nil
}

// formRules returns inline rules from the form: a JSON rule set in the rules
// field, or the individual rule fields when use_rules is set. Returns nil
// when the form carries none.
func formRules(r *http.Request) (*core.RuleSet, error) {
	if raw := strings.TrimSpace(r.FormValue(templates.FieldRules)); raw != "" {
		var rs core.RuleSet
		if err := json.NewDecoder(strings.NewReader(raw)).Decode(&rs); err != nil {
			return nil, fmt.Errorf("rules must be a JSON rule set: %w", err)
		}
		return &rs, nil
	}
	if !checked(r.FormValue(templates.FieldUseRules)) {
		return nil, nil
	}

	return &core.RuleSet{
		Reorder:     r.FormValue(string(core.KindReorder)),
		Merge:       r.FormValue(string(core.KindMerge)),
		Extract:     r.FormValue(string(core.KindExtract)),
		RemoveChars: r.FormValue(string(core.KindRemoveChars)),
		AddChars:    r.FormValue(string(core.KindAddChars)),
		Replace:     r.FormValue(string(core.KindReplace)),
		RemovePrefecture: core.RemovePrefectureSettings{
			Enabled: checked(r.FormValue(templates.FieldRemovePrefEnabled)),
			Columns: r.FormValue(templates.FieldRemovePrefColumns),
		},
		PrefectureCode: core.PrefectureCodeSettings{
			Enabled:      checked(r.FormValue(templates.FieldPrefCodeEnabled)),
			SourceColumn: r.FormValue(templates.FieldPrefCodeSource),
			NewColumn:    r.FormValue(templates.FieldPrefCodeNew),
		},
	}, nil
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// readBody reads a request body up to limit bytes.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
}
