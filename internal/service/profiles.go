package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/csvlayout/internal/csvio"
	"github.com/JonMunkholm/csvlayout/internal/logging"
	"github.com/JonMunkholm/csvlayout/internal/profile"
)

func (s *Service) ListProfiles(ctx context.Context) ([]profile.Profile, error) {
	return s.store.List(ctx)
}

func (s *Service) GetProfile(ctx context.Context, id string) (*profile.Profile, error) {
	return s.store.Get(ctx, id)
}

// FindProfile resolves ref as an ID first and then as a name.
func (s *Service) FindProfile(ctx context.Context, ref string) (*profile.Profile, error) {
	p, err := s.store.Get(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, profile.ErrNotFound) {
		return nil, err
	}
	return s.store.GetByName(ctx, ref)
}

func (s *Service) CreateProfile(ctx context.Context, p profile.Profile) (*profile.Profile, error) {
	created, err := s.store.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("profile created", "id", created.ID, "name", created.Name)
	return created, nil
}

func (s *Service) UpdateProfile(ctx context.Context, p profile.Profile) (*profile.Profile, error) {
	updated, err := s.store.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("profile updated", "id", updated.ID, "name", updated.Name)
	return updated, nil
}

func (s *Service) DeleteProfile(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("profile deleted", "id", id)
	return nil
}

// ImportResult counts the profiles written by ImportProfiles.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ImportProfiles reads a profile document and saves every profile in it.
// Profiles whose name already exists are overwritten in place.
func (s *Service) ImportProfiles(ctx context.Context, data []byte, f profile.Format) (*ImportResult, error) {
	profiles, _, err := profile.ParseDocument(data, f)
	if err != nil {
		return nil, err
	}

	var res ImportResult
	for _, p := range profiles {
		existing, err := s.store.GetByName(ctx, p.Name)
		switch {
		case err == nil:
			p.ID = existing.ID
			if _, err := s.store.Update(ctx, p); err != nil {
				return &res, fmt.Errorf("import %q: %w", p.Name, err)
			}
			res.Updated++
		case errors.Is(err, profile.ErrNotFound):
			if _, err := s.store.Create(ctx, p); err != nil {
				return &res, fmt.Errorf("import %q: %w", p.Name, err)
			}
			res.Created++
		default:
			return &res, err
		}
	}

	logging.FromContext(ctx).Info("profiles imported", "created", res.Created, "updated", res.Updated)
	return &res, nil
}

// ExportProfiles encodes every stored profile as a profile document.
func (s *Service) ExportProfiles(ctx context.Context, f profile.Format) ([]byte, error) {
	profiles, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return profile.EncodeDocument(profiles, f)
}

// MatchProfiles suggests stored profiles whose input columns appear in
// headers.
func (s *Service) MatchProfiles(ctx context.Context, headers []string) ([]profile.Match, error) {
	profiles, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return profile.MatchProfiles(profiles, headers), nil
}

// MatchFile reads the header of a CSV file and suggests profiles for it.
func (s *Service) MatchFile(ctx context.Context, file io.Reader, encoding string) ([]profile.Match, error) {
	if file == nil {
		return nil, ErrNoFile
	}
	enc, err := pickEncoding(encoding, s.cfg.InputEncoding)
	if err != nil {
		return nil, err
	}
	in, err := csvio.Read(file, csvio.Options{Encoding: enc, MaxSize: s.cfg.MaxFileSize})
	if err != nil {
		return nil, err
	}
	return s.MatchProfiles(ctx, in.Table.Columns())
}
