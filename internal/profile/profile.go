// Package profile stores named rule sets ("profiles") so an operator can
// re-apply the same layout to every file of a kind.
//
// Two Store implementations are provided: FileStore keeps every profile in a
// single JSON or YAML document compatible with the csv_profiles.json files
// written by earlier versions of the tool, and PgStore keeps them in a
// Postgres table.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/csvlayout/internal/core"
	"github.com/JonMunkholm/csvlayout/internal/csvio"
)

var (
	ErrNotFound  = errors.New("profile not found")
	ErrDuplicate = errors.New("profile already exists")
	ErrInvalid   = errors.New("invalid profile")
)

// Profile is a named, saved rule set plus the file options that go with it.
type Profile struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Rules        core.RuleSet `json:"rules" yaml:"rules"`
	RemoveHeader bool         `json:"remove_header" yaml:"remove_header"`
	// Empty encodings defer to the configured defaults.
	InputEncoding  string    `json:"input_encoding,omitempty" yaml:"input_encoding,omitempty"`
	OutputEncoding string    `json:"output_encoding,omitempty" yaml:"output_encoding,omitempty"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" yaml:"updated_at"`
}

// New returns an empty profile with the default prefecture-code column name.
func New(name string) Profile {
	p := Profile{Name: name}
	p.Rules.PrefectureCode.NewColumn = core.DefaultPrefectureCodeColumn
	return p
}

// Validate checks the fields a store relies on. Rule text is not checked:
// bad lines only produce warnings when the profile is applied.
func (p Profile) Validate() error {
	var errs []string
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "name is required")
	}
	if p.InputEncoding != "" {
		if _, err := csvio.ParseEncoding(p.InputEncoding); err != nil {
			errs = append(errs, fmt.Sprintf("input encoding: %v", err))
		}
	}
	if p.OutputEncoding != "" {
		if _, err := csvio.ParseEncoding(p.OutputEncoding); err != nil {
			errs = append(errs, fmt.Sprintf("output encoding: %v", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}
	return nil
}

// normalize trims the name and fills defaults.
func (p *Profile) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	if p.Rules.PrefectureCode.NewColumn == "" {
		p.Rules.PrefectureCode.NewColumn = core.DefaultPrefectureCodeColumn
	}
}

// Store persists profiles. Names are unique; IDs are UUIDs assigned on
// Create.
type Store interface {
	// List returns every profile ordered by name.
	List(ctx context.Context) ([]Profile, error)
	Get(ctx context.Context, id string) (*Profile, error)
	GetByName(ctx context.Context, name string) (*Profile, error)
	// Create assigns ID and timestamps.
	Create(ctx context.Context, p Profile) (*Profile, error)
	// Update replaces the profile with p.ID, keeping CreatedAt.
	Update(ctx context.Context, p Profile) (*Profile, error)
	Delete(ctx context.Context, id string) error
}
