package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vijay-prabhu/internmatch/internal/database"
	"github.com/vijay-prabhu/internmatch/internal/matcher"
	"github.com/vijay-prabhu/internmatch/internal/output"
)

func (s *Server) registerHandlers() {
	s.handlers["generate_matches"] = s.handleGenerateMatches
	s.handlers["get_matches"] = s.handleGetMatches
	s.handlers["apply_to_listing"] = s.handleApplyToListing
	s.handlers["list_listings"] = s.handleListListings
	s.handlers["get_profile"] = s.handleGetProfile
	s.handlers["get_stats"] = s.handleGetStats
}

type studentParams struct {
	StudentID string `json:"student_id"`
}

func parseStudent(params json.RawMessage) (string, error) {
	var p studentParams
	if err := json.Unmarshal(params, &p); err != nil {
		return "", fmt.Errorf("invalid parameters: %w", err)
	}
	if p.StudentID == "" {
		return "", errors.New("student_id is required")
	}
	return p.StudentID, nil
}

type matchesResult struct {
	StudentID string           `json:"student_id"`
	Count     int              `json:"count"`
	Matches   []database.Match `json:"matches"`
	Warning   string           `json:"warning,omitempty"`
}

func (s *Server) handleGenerateMatches(ctx context.Context, params json.RawMessage) (any, error) {
	studentID, err := parseStudent(params)
	if err != nil {
		return nil, err
	}

	matches, err := s.engine.GenerateMatches(ctx, studentID)
	if err != nil {
		var runErr *matcher.RunError
		if !errors.As(err, &runErr) || !runErr.Ranked() {
			return nil, err
		}
		// ranked but not stored: still show the results
		return matchesResult{
			StudentID: studentID,
			Count:     len(matches),
			Matches:   matches,
			Warning:   err.Error(),
		}, nil
	}

	return matchesResult{StudentID: studentID, Count: len(matches), Matches: matches}, nil
}

func (s *Server) handleGetMatches(ctx context.Context, params json.RawMessage) (any, error) {
	studentID, err := parseStudent(params)
	if err != nil {
		return nil, err
	}

	matches, err := s.engine.GetExistingMatches(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return matchesResult{StudentID: studentID, Count: len(matches), Matches: matches}, nil
}

type applyParams struct {
	StudentID string `json:"student_id"`
	ListingID string `json:"listing_id"`
	MatchID   string `json:"match_id"`
}

func (s *Server) handleApplyToListing(ctx context.Context, params json.RawMessage) (any, error) {
	var p applyParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	return s.engine.ApplyToListing(ctx, p.StudentID, p.ListingID, p.MatchID)
}

type listListingsParams struct {
	All bool `json:"all"`
}

func (s *Server) handleListListings(ctx context.Context, params json.RawMessage) (any, error) {
	var p listListingsParams
	if params != nil {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("invalid parameters: %w", err)
		}
	}

	var (
		listings []database.Listing
		err      error
	)
	if p.All {
		listings, err = s.store.ListListings(ctx)
	} else {
		listings, err = s.store.ListAvailableListings(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if listings == nil {
		listings = []database.Listing{}
	}

	return listings, nil
}

func (s *Server) handleGetProfile(ctx context.Context, params json.RawMessage) (any, error) {
	studentID, err := parseStudent(params)
	if err != nil {
		return nil, err
	}

	profile, err := s.store.GetProfile(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("profile not found: %s", studentID)
	}

	return profile, nil
}

func (s *Server) handleGetStats(ctx context.Context, _ json.RawMessage) (any, error) {
	stats, err := s.store.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return stats, nil
}

// Resource handlers

func (s *Server) handleReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case resourceListings:
		return s.getResourceListings(ctx)
	case resourceSummary:
		return s.getResourceSummary(ctx)
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

func (s *Server) getResourceListings(ctx context.Context) (string, error) {
	listings, err := s.store.ListAvailableListings(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Open Listings\n=============\n\n")
	if len(listings) == 0 {
		b.WriteString("No listings with open capacity. Run 'internmatch import listings <file>' to add some.\n")
		return b.String(), nil
	}

	if err := output.TableTo(&b, listings); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) getResourceSummary(ctx context.Context) (string, error) {
	stats, err := s.store.GetStats(ctx)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`Matching Summary
================
Profiles:           %d
Listings:           %d
  - with capacity:  %d
Matches:            %d
  - applied:        %d
Applications:       %d
`, stats.Profiles, stats.Listings, stats.AvailableListings,
		stats.Matches, stats.AppliedMatches, stats.Applications), nil
}
