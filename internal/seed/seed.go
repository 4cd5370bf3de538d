// Package seed imports student profiles and listings from JSON or TOML files.
package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/internmatch/internal/database"
)

// Format is a seed file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// File is the content of one seed file. Either section may be empty.
//
//	[[profiles]]
//	id = "student-1"
//	technical_skills = ["Go", "SQL"]
//
//	[[listings]]
//	id = "acme-backend"
//	company_name = "Acme"
//	role = "Backend Intern"
//	capacity = 2
type File struct {
	Profiles []database.StudentProfile `json:"profiles" toml:"profiles"`
	Listings []database.Listing        `json:"listings" toml:"listings"`
}

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported seed file %q: expected .json or .toml", path)
	}
}

// Load reads, parses and validates a seed file
func Load(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	f, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates seed data. Unknown fields are rejected.
func Parse(data []byte, format Format) (*File, error) {
	var f File

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown seed format %q", format)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks every entry and rejects repeated ids
func (f *File) Validate() error {
	var errs []error

	profileIDs := make(map[string]bool, len(f.Profiles))
	for i := range f.Profiles {
		p := &f.Profiles[i]
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("profiles[%d]: %w", i, err))
		}
		if p.ID != "" && profileIDs[p.ID] {
			errs = append(errs, fmt.Errorf("profiles[%d]: duplicate id %q", i, p.ID))
		}
		profileIDs[p.ID] = true
	}

	listingIDs := make(map[string]bool, len(f.Listings))
	for i := range f.Listings {
		l := &f.Listings[i]
		if err := l.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("listings[%d]: %w", i, err))
		}
		if l.ID != "" && listingIDs[l.ID] {
			errs = append(errs, fmt.Errorf("listings[%d]: duplicate id %q", i, l.ID))
		}
		listingIDs[l.ID] = true
	}

	return errors.Join(errs...)
}

// ProfileWriter stores profiles
type ProfileWriter interface {
	UpsertProfile(ctx context.Context, p *database.StudentProfile) error
}

// ListingWriter stores listings
type ListingWriter interface {
	UpsertListing(ctx context.Context, l *database.Listing) error
}

// ImportProfiles upserts every profile and returns how many were written
func ImportProfiles(ctx context.Context, store ProfileWriter, profiles []database.StudentProfile, logger *zap.Logger) (int, error) {
	for i := range profiles {
		if err := store.UpsertProfile(ctx, &profiles[i]); err != nil {
			return i, fmt.Errorf("failed to import profile %s: %w", profiles[i].ID, err)
		}
		logger.Debug("imported profile", zap.String("student_id", profiles[i].ID))
	}
	return len(profiles), nil
}

// ImportListings upserts every listing and returns how many were written
func ImportListings(ctx context.Context, store ListingWriter, listings []database.Listing, logger *zap.Logger) (int, error) {
	for i := range listings {
		if err := store.UpsertListing(ctx, &listings[i]); err != nil {
			return i, fmt.Errorf("failed to import listing %s: %w", listings[i].ID, err)
		}
		logger.Debug("imported listing",
			zap.String("listing_id", listings[i].ID),
			zap.Int("capacity", listings[i].Capacity),
		)
	}
	return len(listings), nil
}
