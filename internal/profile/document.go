package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/csvlayout/internal/core"
)

// Format is the serialization of a profile document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatFor picks the format from a file extension; anything that is not
// .yaml or .yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// entry is one profile as stored in a document, keyed by name. The rule
// fields sit at the top level of the entry, as in csv_profiles.json.
type entry struct {
	ID           string `json:"id,omitempty" yaml:"id,omitempty"`
	core.RuleSet `yaml:",inline"`
	RemoveHeader bool `json:"remove_header" yaml:"remove_header"`

	InputEncoding  string     `json:"input_encoding,omitempty" yaml:"input_encoding,omitempty"`
	OutputEncoding string     `json:"output_encoding,omitempty" yaml:"output_encoding,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// ParseDocument decodes a profile document. Profiles come back sorted by
// name. Entries without an id get a fresh one; changed reports whether that
// happened so callers can persist the assignment.
func ParseDocument(data []byte, f Format) (profiles []Profile, changed bool, err error) {
	doc := map[string]entry{}
	if len(bytes.TrimSpace(data)) > 0 {
		switch f {
		case FormatYAML:
			err = yaml.Unmarshal(data, &doc)
		default:
			err = json.Unmarshal(data, &doc)
		}
		if err != nil {
			return nil, false, fmt.Errorf("%w: decode %s document: %v", ErrInvalid, f, err)
		}
	}

	profiles = make([]Profile, 0, len(doc))
	for name, e := range doc {
		p := Profile{
			ID:             e.ID,
			Name:           name,
			Rules:          e.RuleSet,
			RemoveHeader:   e.RemoveHeader,
			InputEncoding:  e.InputEncoding,
			OutputEncoding: e.OutputEncoding,
		}
		if e.CreatedAt != nil {
			p.CreatedAt = *e.CreatedAt
		}
		if e.UpdatedAt != nil {
			p.UpdatedAt = *e.UpdatedAt
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
			changed = true
		}
		p.normalize()
		profiles = append(profiles, p)
	}

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles, changed, nil
}

// EncodeDocument serializes profiles keyed by name. Non-ASCII text is
// written as is.
func EncodeDocument(profiles []Profile, f Format) ([]byte, error) {
	doc := make(map[string]entry, len(profiles))
	for _, p := range profiles {
		if _, dup := doc[p.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, p.Name)
		}
		e := entry{
			ID:             p.ID,
			RuleSet:        p.Rules,
			RemoveHeader:   p.RemoveHeader,
			InputEncoding:  p.InputEncoding,
			OutputEncoding: p.OutputEncoding,
		}
		if !p.CreatedAt.IsZero() {
			e.CreatedAt = &p.CreatedAt
		}
		if !p.UpdatedAt.IsZero() {
			e.UpdatedAt = &p.UpdatedAt
		}
		doc[p.Name] = e
	}

	var buf bytes.Buffer
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode yaml document: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml document: %w", err)
		}
	default:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode json document: %w", err)
		}
	}
	return buf.Bytes(), nil
}
