// Package matcher runs the matching pipeline for one student: load the profile and the
// listing pool, score every pairing, keep the ones above the threshold, rank, persist.
package matcher

import (
	"cmp"
	"context"
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/vijay-prabhu/internmatch/internal/database"
	"github.com/vijay-prabhu/internmatch/internal/scoring"
)

// ProfileStore loads student profiles; a missing profile is (nil, nil)
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*database.StudentProfile, error)
}

// ListingStore loads the listings eligible for matching
type ListingStore interface {
	ListAvailableListings(ctx context.Context) ([]database.Listing, error)
}

// MatchStore persists match sets and applications
type MatchStore interface {
	ReplaceMatches(ctx context.Context, studentID string, matches []database.Match) error
	ListMatchesByStudent(ctx context.Context, studentID string) ([]database.Match, error)
	ApplyToListing(ctx context.Context, studentID, listingID, matchID string) (*database.Application, error)
}

// DefaultTimeout bounds one matching run
const DefaultTimeout = 30 * time.Second

// Engine generates, reads and applies to matches
type Engine struct {
	profiles ProfileStore
	listings ListingStore
	matches  MatchStore

	weights  scoring.Weights
	logger   *zap.Logger
	workers  int
	timeout  time.Duration
	progress ProgressCallback
	now      func() time.Time
	newID    func() string

	flights singleflight.Group
}

// Option configures an Engine
type Option func(*Engine)

// WithWeights overrides the default scoring weights
func WithWeights(w scoring.Weights) Option {
	return func(e *Engine) { e.weights = w }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithWorkers limits how many pairings are scored at once
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithTimeout bounds each run; zero or negative disables the bound
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithProgress registers a progress callback
func WithProgress(cb ProgressCallback) Option {
	return func(e *Engine) { e.progress = cb }
}

// WithClock replaces the time source used for match timestamps
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator replaces the match id generator
func WithIDGenerator(f func() string) Option {
	return func(e *Engine) { e.newID = f }
}

// New creates an Engine over the given stores
func New(profiles ProfileStore, listings ListingStore, matches MatchStore, opts ...Option) (*Engine, error) {
	e := &Engine{
		profiles: profiles,
		listings: listings,
		matches:  matches,
		weights:  scoring.DefaultWeights,
		logger:   zap.NewNop(),
		workers:  runtime.GOMAXPROCS(0),
		timeout:  DefaultTimeout,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weights: %w", err)
	}
	return e, nil
}

// candidate is one scored pairing
type candidate struct {
	listing   *database.Listing
	breakdown scoring.Breakdown
	raw       float64
	score     int
}

// GenerateMatches runs the full pipeline for the student and returns the ranked matches.
//
// Concurrent calls for the same student share one run; each caller gets its own copy.
// A caller that joins a run in flight stops waiting when its own context ends.
// When storing fails the ranked list is still returned, together with a *RunError
// wrapping ErrPersistence.
func (e *Engine) GenerateMatches(ctx context.Context, studentID string) ([]database.Match, error) {
	if studentID == "" {
		return nil, fmt.Errorf("%w: student id", ErrMissingID)
	}

	if err := ctx.Err(); err != nil {
		return nil, &RunError{StudentID: studentID, Phase: PhaseLoadingProfile, Err: err}
	}

	// leading is closed only by the caller whose function runs; the run follows that
	// caller's context, so it waits for the result while joiners give up on their own
	leading := make(chan struct{})
	ch := e.flights.DoChan(studentID, func() (any, error) {
		close(leading)
		return e.run(ctx, studentID)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		select {
		case <-leading:
			res = <-ch
		default:
			e.logger.Debug("stopped waiting for in-flight matching run",
				zap.String("student_id", studentID), zap.Error(ctx.Err()))
			return nil, fmt.Errorf("waiting for matching run for %s: %w", studentID, ctx.Err())
		}
	}

	if res.Shared {
		e.logger.Debug("joined in-flight matching run", zap.String("student_id", studentID))
	}

	matches, _ := res.Val.([]database.Match)
	return copyMatches(matches), res.Err
}

func (e *Engine) run(ctx context.Context, studentID string) ([]database.Match, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	log := e.logger.With(zap.String("student_id", studentID))
	started := e.now()

	fail := func(phase Phase, err error) error {
		e.report(Progress{StudentID: studentID, Phase: PhaseFailed, Description: string(phase)})
		log.Warn("matching run failed", zap.String("phase", string(phase)), zap.Error(err))
		return &RunError{StudentID: studentID, Phase: phase, Err: err}
	}

	e.enter(log, Progress{StudentID: studentID, Phase: PhaseLoadingProfile, Total: 1, Description: "Loading profile"})
	profile, err := e.profiles.GetProfile(ctx, studentID)
	if err != nil {
		return nil, fail(PhaseLoadingProfile, fmt.Errorf("failed to load profile: %w", err))
	}
	if profile == nil {
		return nil, fail(PhaseLoadingProfile, ErrProfileNotFound)
	}

	e.enter(log, Progress{StudentID: studentID, Phase: PhaseLoadingPool, Description: "Loading listing pool"})
	pool, err := e.listings.ListAvailableListings(ctx)
	if err != nil {
		return nil, fail(PhaseLoadingPool, fmt.Errorf("%w: %w", ErrPoolLoad, err))
	}
	pool = eligible(pool)

	e.enter(log, Progress{StudentID: studentID, Phase: PhaseScoring, Total: len(pool), Description: "Scoring listings"})
	scored, err := e.score(ctx, profile, pool)
	if err != nil {
		return nil, fail(PhaseScoring, err)
	}
	e.report(Progress{StudentID: studentID, Phase: PhaseScoring, Current: len(pool), Total: len(pool), Description: "Scoring complete"})

	e.enter(log, Progress{StudentID: studentID, Phase: PhaseFiltering, Total: len(scored), Description: "Applying threshold"})
	kept := scored[:0]
	for _, c := range scored {
		if scoring.PassesThreshold(c.raw) {
			kept = append(kept, c)
		}
	}

	e.enter(log, Progress{StudentID: studentID, Phase: PhaseRanking, Total: len(kept), Description: "Ranking matches"})
	slices.SortFunc(kept, func(a, b candidate) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.listing.ID, b.listing.ID)
	})

	createdAt := e.now().UTC()
	matches := make([]database.Match, 0, len(kept))
	for _, c := range kept {
		listing := *c.listing
		matches = append(matches, database.Match{
			ID:        e.newID(),
			StudentID: studentID,
			ListingID: c.listing.ID,
			Listing:   &listing,
			Score:     c.score,
			Reasons:   scoring.ReasonsFor(profile, c.listing, c.breakdown, c.raw),
			Status:    database.MatchStatusPending,
			CreatedAt: createdAt,
		})
	}

	e.enter(log, Progress{StudentID: studentID, Phase: PhasePersisting, Total: len(matches), Description: "Saving matches"})
	if err := e.matches.ReplaceMatches(ctx, studentID, copyMatches(matches)); err != nil {
		log.Error("failed to store matches", zap.Int("matches", len(matches)), zap.Error(err))
		return matches, fail(PhasePersisting, fmt.Errorf("%w: %w", ErrPersistence, err))
	}

	e.report(Progress{StudentID: studentID, Phase: PhaseDone, Current: len(matches), Total: len(matches), Description: "Done"})
	log.Info("generated matches",
		zap.Int("pool", len(pool)),
		zap.Int("matches", len(matches)),
		zap.Duration("elapsed", e.now().Sub(started)),
	)

	return matches, nil
}

// score evaluates every listing in parallel; results keep pool order
func (e *Engine) score(ctx context.Context, profile *database.StudentProfile, pool []database.Listing) ([]candidate, error) {
	scored := make([]candidate, len(pool))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := range pool {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			l := &pool[i]
			b := scoring.Evaluate(profile, l)
			raw := e.weights.Score(b)
			scored[i] = candidate{listing: l, breakdown: b, raw: raw, score: scoring.DisplayScore(raw)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scored, ctx.Err()
}

// GetExistingMatches returns the stored matches without recomputing them
func (e *Engine) GetExistingMatches(ctx context.Context, studentID string) ([]database.Match, error) {
	if studentID == "" {
		return nil, fmt.Errorf("%w: student id", ErrMissingID)
	}

	matches, err := e.matches.ListMatchesByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}
	if matches == nil {
		matches = []database.Match{}
	}
	return matches, nil
}

// ApplyToListing records an application for a match and marks the match applied.
// Retrying is safe: the student keeps a single application for the listing.
func (e *Engine) ApplyToListing(ctx context.Context, studentID, listingID, matchID string) (*database.Application, error) {
	switch {
	case studentID == "":
		return nil, fmt.Errorf("%w: student id", ErrMissingID)
	case listingID == "":
		return nil, fmt.Errorf("%w: listing id", ErrMissingID)
	case matchID == "":
		return nil, fmt.Errorf("%w: match id", ErrMissingID)
	}

	app, err := e.matches.ApplyToListing(ctx, studentID, listingID, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to apply to listing %s: %w", listingID, err)
	}

	e.logger.Info("applied to listing",
		zap.String("student_id", studentID),
		zap.String("listing_id", listingID),
		zap.String("match_id", matchID),
	)
	return app, nil
}

func (e *Engine) enter(log *zap.Logger, p Progress) {
	log.Debug("matching phase", zap.String("phase", string(p.Phase)), zap.Int("total", p.Total))
	e.report(p)
}

func (e *Engine) report(p Progress) {
	if e.progress != nil {
		e.progress(p)
	}
}

// eligible drops listings without capacity and repeated ids, keeping the first
func eligible(pool []database.Listing) []database.Listing {
	seen := make(map[string]bool, len(pool))
	out := make([]database.Listing, 0, len(pool))
	for _, l := range pool {
		if !l.Available() || seen[l.ID] {
			continue
		}
		seen[l.ID] = true
		out = append(out, l)
	}
	return out
}

// copyMatches returns matches that share no memory with the input
func copyMatches(matches []database.Match) []database.Match {
	if matches == nil {
		return nil
	}
	out := make([]database.Match, len(matches))
	for i, m := range matches {
		m.Reasons = slices.Clone(m.Reasons)
		if m.Listing != nil {
			listing := *m.Listing
			listing.SkillsRequired = slices.Clone(listing.SkillsRequired)
			m.Listing = &listing
		}
		out[i] = m
	}
	return out
}
