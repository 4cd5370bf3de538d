package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrMatchNotFound is returned when a match does not exist for the given student and listing
var ErrMatchNotFound = errors.New("match not found")

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

const profileColumns = `id, technical_skills, soft_skills, domain_interests, location_preferences,
		       work_type, cgpa, gender, year_of_study, duration, created_at, updated_at`

const listingColumns = `id, company_name, role, skills_required, location, sector, capacity, created_at`

// Profiles

// UpsertProfile inserts a profile or replaces the stored one with the same ID
func (db *DB) UpsertProfile(ctx context.Context, p *StudentProfile) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	technical, err := encodeList(p.TechnicalSkills)
	if err != nil {
		return err
	}
	soft, err := encodeList(p.SoftSkills)
	if err != nil {
		return err
	}
	interests, err := encodeList(p.DomainInterests)
	if err != nil {
		return err
	}
	locations, err := encodeList(p.LocationPreferences)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO profiles (
			id, technical_skills, soft_skills, domain_interests, location_preferences,
			work_type, cgpa, gender, year_of_study, duration, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			technical_skills = excluded.technical_skills,
			soft_skills = excluded.soft_skills,
			domain_interests = excluded.domain_interests,
			location_preferences = excluded.location_preferences,
			work_type = excluded.work_type,
			cgpa = excluded.cgpa,
			gender = excluded.gender,
			year_of_study = excluded.year_of_study,
			duration = excluded.duration,
			updated_at = excluded.updated_at
	`,
		p.ID, technical, soft, interests, locations,
		p.WorkType, p.CGPA, p.Gender, p.YearOfStudy, p.Duration, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// GetProfile retrieves a profile by ID; it returns nil when the profile does not exist
func (db *DB) GetProfile(ctx context.Context, id string) (*StudentProfile, error) {
	p, err := scanProfile(db.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProfiles retrieves all profiles ordered by ID
func (db *DB) ListProfiles(ctx context.Context) ([]StudentProfile, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []StudentProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}

	return profiles, rows.Err()
}

func scanProfile(row rowScanner) (*StudentProfile, error) {
	p := &StudentProfile{}
	var technical, soft, interests, locations string

	if err := row.Scan(
		&p.ID, &technical, &soft, &interests, &locations,
		&p.WorkType, &p.CGPA, &p.Gender, &p.YearOfStudy, &p.Duration, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if p.TechnicalSkills, err = decodeList("technical_skills", technical); err != nil {
		return nil, err
	}
	if p.SoftSkills, err = decodeList("soft_skills", soft); err != nil {
		return nil, err
	}
	if p.DomainInterests, err = decodeList("domain_interests", interests); err != nil {
		return nil, err
	}
	if p.LocationPreferences, err = decodeList("location_preferences", locations); err != nil {
		return nil, err
	}
	return p, nil
}

// Listings

// UpsertListing inserts a listing or replaces the stored one with the same ID
func (db *DB) UpsertListing(ctx context.Context, l *Listing) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	skills, err := encodeList(l.SkillsRequired)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO listings (`+listingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			company_name = excluded.company_name,
			role = excluded.role,
			skills_required = excluded.skills_required,
			location = excluded.location,
			sector = excluded.sector,
			capacity = excluded.capacity
	`, l.ID, l.CompanyName, l.Role, skills, l.Location, l.Sector, l.Capacity, l.CreatedAt)
	return err
}

// GetListing retrieves a listing by ID; it returns nil when the listing does not exist
func (db *DB) GetListing(ctx context.Context, id string) (*Listing, error) {
	l, err := scanListing(db.QueryRowContext(ctx, `
		SELECT `+listingColumns+` FROM listings WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ListAvailableListings returns the listing pool: every listing with capacity left
func (db *DB) ListAvailableListings(ctx context.Context) ([]Listing, error) {
	return db.queryListings(ctx, `
		SELECT `+listingColumns+` FROM listings
		WHERE capacity > 0
		ORDER BY id
	`)
}

// ListListings returns all listings including those without capacity
func (db *DB) ListListings(ctx context.Context) ([]Listing, error) {
	return db.queryListings(ctx, `SELECT `+listingColumns+` FROM listings ORDER BY id`)
}

func (db *DB) queryListings(ctx context.Context, query string, args ...any) ([]Listing, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}

	return listings, rows.Err()
}

func scanListing(row rowScanner) (*Listing, error) {
	l := &Listing{}
	var skills string

	if err := row.Scan(
		&l.ID, &l.CompanyName, &l.Role, &skills, &l.Location, &l.Sector, &l.Capacity, &l.CreatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if l.SkillsRequired, err = decodeList("skills_required", skills); err != nil {
		return nil, err
	}
	return l, nil
}

// Matches

// ReplaceMatches supersedes the student's stored match set with matches.
// Delete and insert run in one transaction, so a failed insert keeps the prior set.
func (db *DB) ReplaceMatches(ctx context.Context, studentID string, matches []Match) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM matches WHERE student_id = ?`, studentID); err != nil {
			return fmt.Errorf("failed to delete existing matches: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO matches (id, student_id, listing_id, score, reasons, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare match insert: %w", err)
		}
		defer stmt.Close()

		for i := range matches {
			m := &matches[i]
			if m.StudentID != studentID {
				return fmt.Errorf("match %s belongs to student %s, not %s", m.ID, m.StudentID, studentID)
			}
			if m.ID == "" {
				m.ID = uuid.New().String()
			}
			if m.CreatedAt.IsZero() {
				m.CreatedAt = time.Now().UTC()
			}
			if m.Status == "" {
				m.Status = MatchStatusPending
			}

			reasons, err := encodeList(m.Reasons)
			if err != nil {
				return err
			}

			if _, err := stmt.ExecContext(ctx,
				m.ID, m.StudentID, m.ListingID, m.Score, reasons, m.Status, m.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to insert match for listing %s: %w", m.ListingID, err)
			}
		}

		return nil
	})
}

// ListMatchesByStudent returns the stored match set, best score first
func (db *DB) ListMatchesByStudent(ctx context.Context, studentID string) ([]Match, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT m.id, m.student_id, m.listing_id, m.score, m.reasons, m.status, m.created_at,
		       l.id, l.company_name, l.role, l.skills_required, l.location, l.sector, l.capacity, l.created_at
		FROM matches m
		INNER JOIN listings l ON l.id = m.listing_id
		WHERE m.student_id = ?
		ORDER BY m.score DESC, m.listing_id ASC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		m := Match{Listing: &Listing{}}
		var reasons, skills string

		if err := rows.Scan(
			&m.ID, &m.StudentID, &m.ListingID, &m.Score, &reasons, &m.Status, &m.CreatedAt,
			&m.Listing.ID, &m.Listing.CompanyName, &m.Listing.Role, &skills,
			&m.Listing.Location, &m.Listing.Sector, &m.Listing.Capacity, &m.Listing.CreatedAt,
		); err != nil {
			return nil, err
		}

		if m.Reasons, err = decodeList("reasons", reasons); err != nil {
			return nil, err
		}
		if m.Listing.SkillsRequired, err = decodeList("skills_required", skills); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

// Applications

// ApplyToListing records an application for the student's match and marks the match applied.
// Repeating the call leaves a single application row and returns it. An application whose
// match was replaced by a rematch is linked to the match it is applied through again.
func (db *DB) ApplyToListing(ctx context.Context, studentID, listingID, matchID string) (*Application, error) {
	var app *Application

	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		var storedListing string
		err := tx.QueryRowContext(ctx, `
			SELECT listing_id FROM matches WHERE id = ? AND student_id = ?
		`, matchID, studentID).Scan(&storedListing)
		if err == sql.ErrNoRows || (err == nil && storedListing != listingID) {
			return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO applications (id, student_id, listing_id, match_id, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(student_id, listing_id) DO UPDATE SET match_id = excluded.match_id
			WHERE applications.match_id IS NULL
		`, uuid.New().String(), studentID, listingID, matchID, ApplicationStatusSubmitted, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to insert application: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE matches SET status = ? WHERE id = ?
		`, MatchStatusApplied, matchID); err != nil {
			return fmt.Errorf("failed to update match status: %w", err)
		}

		app = &Application{}
		var storedMatch sql.NullString
		if err := tx.QueryRowContext(ctx, `
			SELECT id, student_id, listing_id, match_id, status, created_at
			FROM applications WHERE student_id = ? AND listing_id = ?
		`, studentID, listingID).Scan(
			&app.ID, &app.StudentID, &app.ListingID, &storedMatch, &app.Status, &app.CreatedAt,
		); err != nil {
			return err
		}
		app.MatchID = StringPtr(storedMatch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// ListApplicationsByStudent returns the student's applications, newest first
func (db *DB) ListApplicationsByStudent(ctx context.Context, studentID string) ([]Application, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, student_id, listing_id, match_id, status, created_at
		FROM applications WHERE student_id = ?
		ORDER BY created_at DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		a := Application{}
		var matchID sql.NullString
		if err := rows.Scan(&a.ID, &a.StudentID, &a.ListingID, &matchID, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.MatchID = StringPtr(matchID)
		apps = append(apps, a)
	}

	return apps, rows.Err()
}

// GetStats retrieves aggregate counts across the store
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM profiles),
			(SELECT COUNT(*) FROM listings),
			(SELECT COUNT(*) FROM listings WHERE capacity > 0),
			(SELECT COUNT(*) FROM matches),
			(SELECT COUNT(*) FROM matches WHERE status = 'applied'),
			(SELECT COUNT(*) FROM applications)
	`).Scan(
		&stats.Profiles, &stats.Listings, &stats.AvailableListings,
		&stats.Matches, &stats.AppliedMatches, &stats.Applications,
	)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// StringPtr converts sql.NullString to *string
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
