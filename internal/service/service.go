// Package service ties the rule pipeline, CSV I/O and profile storage
// together. Both the web server and the command-line tool go through it.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/csvlayout/internal/config"
	"github.com/JonMunkholm/csvlayout/internal/core"
	"github.com/JonMunkholm/csvlayout/internal/csvio"
	"github.com/JonMunkholm/csvlayout/internal/logging"
	"github.com/JonMunkholm/csvlayout/internal/profile"
)

var (
	ErrNoFile  = errors.New("no file provided")
	ErrNoRules = errors.New("no profile selected")
)

// Service runs conversions against a profile store.
type Service struct {
	store profile.Store
	cfg   config.ConvertConfig
}

// New creates a Service. Zero values in cfg fall back to the package
// defaults.
func New(store profile.Store, cfg config.ConvertConfig) *Service {
	if cfg.PreviewRows <= 0 {
		cfg.PreviewRows = core.DefaultPreviewRows
	}
	if cfg.LineEnding == "" {
		cfg.LineEnding = "crlf"
	}
	return &Service{store: store, cfg: cfg}
}

// Request names the input file and the rules to apply to it.
//
// Rules are taken from Rules when set, otherwise from the profile named by
// ProfileID or ProfileName.
type Request struct {
	ProfileID   string
	ProfileName string
	Rules       *core.RuleSet

	File     io.Reader
	FileName string
	// InputEncoding overrides the profile and configured defaults.
	InputEncoding string
}

// PreviewRequest asks for the first Rows rows of the converted table.
type PreviewRequest struct {
	Request
	// Rows <= 0 uses the configured preview size.
	Rows int
}

// ConvertRequest asks for the full converted file.
type ConvertRequest struct {
	Request
	OutputEncoding string
	// RemoveHeader overrides the profile setting when non-nil.
	RemoveHeader *bool
}

// PreviewResult is a preview plus details about how the input was read.
type PreviewResult struct {
	core.Preview
	Profile       string         `json:"profile,omitempty"`
	InputEncoding csvio.Encoding `json:"input_encoding"`
	FellBack      bool           `json:"fell_back,omitempty"`
}

// ConvertResult is the encoded output file.
type ConvertResult struct {
	Data           []byte
	FileName       string
	Profile        string
	InputEncoding  csvio.Encoding
	OutputEncoding csvio.Encoding
	FellBack       bool
	Rows           int
	Warnings       []core.Warning
}

// run holds the state shared by Preview and Convert.
type run struct {
	profile *profile.Profile
	input   *csvio.Input
	result  *core.Result
}

// Preview converts the file in memory and returns the leading rows.
func (s *Service) Preview(ctx context.Context, req PreviewRequest) (*PreviewResult, error) {
	r, err := s.run(ctx, req.Request)
	if err != nil {
		return nil, err
	}

	rows := req.Rows
	if rows <= 0 {
		rows = s.cfg.PreviewRows
	}

	return &PreviewResult{
		Preview:       core.NewPreview(r.result, rows),
		Profile:       r.profileName(),
		InputEncoding: r.input.Encoding,
		FellBack:      r.input.FellBack,
	}, nil
}

// Convert converts the whole file and encodes the output.
func (s *Service) Convert(ctx context.Context, req ConvertRequest) (*ConvertResult, error) {
	r, err := s.run(ctx, req.Request)
	if err != nil {
		return nil, err
	}

	enc, err := s.outputEncoding(req.OutputEncoding, r.profile)
	if err != nil {
		return nil, err
	}
	omit := r.profile != nil && r.profile.RemoveHeader
	if req.RemoveHeader != nil {
		omit = *req.RemoveHeader
	}

	var buf bytes.Buffer
	err = csvio.Write(&buf, r.result.Table, r.result.EmptyColumns, csvio.WriteOptions{
		OmitHeader: omit,
		Encoding:   enc,
		CRLF:       s.cfg.CRLF(),
	})
	if err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}

	logging.FromContext(ctx).Info("file converted",
		"file", req.FileName,
		"profile", r.profileName(),
		"rows", r.result.Table.Len(),
		"columns", r.result.Table.Width(),
		"warnings", len(r.result.Warnings),
		"output_encoding", enc,
	)

	return &ConvertResult{
		Data:           buf.Bytes(),
		FileName:       csvio.OutputName(req.FileName),
		Profile:        r.profileName(),
		InputEncoding:  r.input.Encoding,
		OutputEncoding: enc,
		FellBack:       r.input.FellBack,
		Rows:           r.result.Table.Len(),
		Warnings:       r.result.Warnings,
	}, nil
}

func (s *Service) run(ctx context.Context, req Request) (*run, error) {
	if req.File == nil {
		return nil, ErrNoFile
	}

	rules, p, err := s.resolveRules(ctx, req)
	if err != nil {
		return nil, err
	}

	enc, err := s.inputEncoding(req.InputEncoding, p)
	if err != nil {
		return nil, err
	}

	in, err := csvio.Read(req.File, csvio.Options{Encoding: enc, MaxSize: s.cfg.MaxFileSize})
	if err != nil {
		return nil, err
	}
	if in.FellBack {
		logging.FromContext(ctx).Info("input decoded with alternative encoding",
			"file", req.FileName, "requested", enc, "used", in.Encoding)
	}

	res, err := core.Run(ctx, in.Table, rules)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", req.FileName, err)
	}
	return &run{profile: p, input: in, result: res}, nil
}

// resolveRules picks inline rules or loads the referenced profile. The
// profile is still loaded alongside inline rules so its file options apply.
func (s *Service) resolveRules(ctx context.Context, req Request) (core.RuleSet, *profile.Profile, error) {
	var p *profile.Profile
	if req.ProfileID != "" || req.ProfileName != "" {
		var err error
		p, err = s.lookup(ctx, req.ProfileID, req.ProfileName)
		if err != nil {
			return core.RuleSet{}, nil, err
		}
	}

	switch {
	case req.Rules != nil:
		return *req.Rules, p, nil
	case p != nil:
		return p.Rules, p, nil
	default:
		return core.RuleSet{}, nil, ErrNoRules
	}
}

func (s *Service) lookup(ctx context.Context, id, name string) (*profile.Profile, error) {
	if id != "" {
		return s.store.Get(ctx, id)
	}
	return s.store.GetByName(ctx, name)
}

func (s *Service) inputEncoding(override string, p *profile.Profile) (csvio.Encoding, error) {
	var saved string
	if p != nil {
		saved = p.InputEncoding
	}
	return pickEncoding(override, saved, s.cfg.InputEncoding)
}

func (s *Service) outputEncoding(override string, p *profile.Profile) (csvio.Encoding, error) {
	var saved string
	if p != nil {
		saved = p.OutputEncoding
	}
	return pickEncoding(override, saved, s.cfg.OutputEncoding)
}

// pickEncoding returns the first non-blank candidate, parsed.
func pickEncoding(candidates ...string) (csvio.Encoding, error) {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return csvio.ParseEncoding(c)
		}
	}
	return csvio.DefaultEncoding, nil
}

func (r *run) profileName() string {
	if r.profile == nil {
		return ""
	}
	return r.profile.Name
}
