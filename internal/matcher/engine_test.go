package matcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/internmatch/internal/database"
	"github.com/vijay-prabhu/internmatch/internal/scoring"
)

// memStore is an in-memory implementation of all three stores
type memStore struct {
	mu sync.Mutex

	profiles map[string]*database.StudentProfile
	listings []database.Listing
	stored   map[string][]database.Match

	profileErr error
	listErr    error
	replaceErr error

	// when set, ListAvailableListings blocks until the context ends
	stallPool bool

	profileCalls int
	replaceCalls int

	// when set, GetProfile signals entered and waits for release
	entered chan struct{}
	release chan struct{}
}

func newMemStore(listings ...database.Listing) *memStore {
	p := testProfile()
	return &memStore{
		profiles: map[string]*database.StudentProfile{p.ID: p},
		listings: listings,
		stored:   map[string][]database.Match{},
	}
}

func (s *memStore) GetProfile(ctx context.Context, id string) (*database.StudentProfile, error) {
	s.mu.Lock()
	s.profileCalls++
	s.mu.Unlock()

	if s.entered != nil {
		s.entered <- struct{}{}
		<-s.release
	}
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	return s.profiles[id], nil
}

func (s *memStore) ListAvailableListings(ctx context.Context) ([]database.Listing, error) {
	if s.stallPool {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listings, nil
}

func (s *memStore) ReplaceMatches(ctx context.Context, studentID string, matches []database.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceCalls++
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.stored[studentID] = matches
	return nil
}

func (s *memStore) ListMatchesByStudent(ctx context.Context, studentID string) ([]database.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stored[studentID], nil
}

func (s *memStore) ApplyToListing(ctx context.Context, studentID, listingID, matchID string) (*database.Application, error) {
	return nil, errors.New("not supported")
}

func testProfile() *database.StudentProfile {
	return &database.StudentProfile{
		ID:                  "student-1",
		TechnicalSkills:     []string{"Go", "SQL"},
		SoftSkills:          []string{"Docker"},
		DomainInterests:     []string{"Fintech"},
		LocationPreferences: []string{"Bangalore"},
		WorkType:            database.WorkTypeHybrid,
		CGPA:                "8.7",
		Gender:              database.GenderFemale,
		YearOfStudy:         database.YearFourth,
		Duration:            "3 months",
	}
}

func testPool() []database.Listing {
	return []database.Listing{
		{ID: "l-3", CompanyName: "Paytm", Role: "Backend Intern", SkillsRequired: []string{"Go", "SQL"}, Location: "Bangalore", Sector: "Fintech", Capacity: 2},
		{ID: "l-2", CompanyName: "Canva", Role: "Design Intern", SkillsRequired: []string{"Figma"}, Location: "Mumbai", Sector: "Design", Capacity: 1},
		{ID: "l-1", CompanyName: "Razorpay", Role: "Platform Intern", SkillsRequired: []string{"go", "sql"}, Location: "Bangalore", Sector: "Fintech", Capacity: 1},
		{ID: "l-4", CompanyName: "Zerodha", Role: "Full Intern", SkillsRequired: []string{"Go"}, Location: "Bangalore", Sector: "Fintech", Capacity: 0},
		{ID: "l-5", CompanyName: "Groww", Role: "Infra Intern", SkillsRequired: []string{"Go", "SQL", "Kubernetes"}, Location: "Pune", Sector: "Fintech", Capacity: 3},
		{ID: "l-1", CompanyName: "Duplicate", Role: "Duplicate", Location: "Delhi", Capacity: 5},
	}
}

func newTestEngine(t *testing.T, store *memStore, opts ...Option) *Engine {
	t.Helper()

	seq := 0
	var mu sync.Mutex
	opts = append([]Option{
		WithWorkers(2),
		WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			seq++
			return fmt.Sprintf("match-%d", seq)
		}),
	}, opts...)

	e, err := New(store, store, store, opts...)
	require.NoError(t, err)
	return e
}

func TestGenerateMatches(t *testing.T) {
	store := newMemStore(testPool()...)
	e := newTestEngine(t, store)

	matches, err := e.GenerateMatches(context.Background(), "student-1")
	require.NoError(t, err)

	var ids []string
	for _, m := range matches {
		ids = append(ids, m.ListingID)
		assert.Equal(t, "student-1", m.StudentID)
		assert.Equal(t, database.MatchStatusPending, m.Status)
		require.NotNil(t, m.Listing)
		assert.Equal(t, m.ListingID, m.Listing.ID)
		assert.NotEmpty(t, m.Reasons)
		assert.NotEmpty(t, m.ID)
	}

	// l-2 is below the threshold, l-4 has no capacity, the second l-1 is a repeat
	assert.Equal(t, []string{"l-1", "l-3", "l-5"}, ids)
	assert.Equal(t, "Razorpay", matches[0].Listing.CompanyName)
	assert.Equal(t, 92, matches[0].Score)
	assert.Equal(t, 92, matches[1].Score)
	assert.Equal(t, 66, matches[2].Score)

	assert.Equal(t, []string{
		"Strong skills match: Go, SQL",
		"Perfect location match: Bangalore",
		"Matches your interest in Fintech",
		"Excellent academic performance (CGPA: 8.7)",
	}, matches[1].Reasons)

	assert.Equal(t, matches, store.stored["student-1"], "persisted and returned copies must be identical")
}

func TestGenerateMatches_Properties(t *testing.T) {
	store := newMemStore(testPool()...)
	e := newTestEngine(t, store)
	ctx := context.Background()

	first, err := e.GenerateMatches(ctx, "student-1")
	require.NoError(t, err)
	second, err := e.GenerateMatches(ctx, "student-1")
	require.NoError(t, err)

	seen := map[string]bool{}
	for i, m := range first {
		assert.False(t, seen[m.ListingID], "duplicate listing %s", m.ListingID)
		seen[m.ListingID] = true
		if i > 0 {
			assert.GreaterOrEqual(t, first[i-1].Score, m.Score)
		}
	}

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ListingID, second[i].ListingID)
		assert.Equal(t, first[i].Score, second[i].Score)
		assert.Equal(t, first[i].Reasons, second[i].Reasons)
		assert.NotEqual(t, first[i].ID, second[i].ID)
	}

	assert.Equal(t, second, store.stored["student-1"], "second run supersedes the first")
}

func TestGenerateMatches_StrictThreshold(t *testing.T) {
	profile := &database.StudentProfile{ID: "student-1", TechnicalSkills: []string{"Go", "SQL"}}
	store := newMemStore(
		database.Listing{ID: "exactly-forty", CompanyName: "A", Role: "R", SkillsRequired: []string{"Go", "SQL", "Rust", "Haskell", "Erlang"}, Capacity: 1},
		database.Listing{ID: "fifty", CompanyName: "B", Role: "R", SkillsRequired: []string{"Go", "Elixir"}, Capacity: 1},
	)
	store.profiles[profile.ID] = profile

	e := newTestEngine(t, store, WithWeights(scoring.Weights{Skills: 1}))

	matches, err := e.GenerateMatches(context.Background(), profile.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "fifty", matches[0].ListingID)
	assert.Equal(t, 50, matches[0].Score)
}

func TestGenerateMatches_ThresholdBoundaryDefaultWeights(t *testing.T) {
	// sub-scores 0, 1.0, 0.2, 0.1, 0.8, 0.8 weigh in at exactly 0.40
	profile := &database.StudentProfile{
		ID:                  "student-2",
		TechnicalSkills:     []string{"Excel"},
		DomainInterests:     []string{"Agriculture"},
		LocationPreferences: []string{"Pune"},
		Gender:              database.GenderFemale,
		YearOfStudy:         database.YearThird,
		Duration:            "3 months",
	}
	store := newMemStore(
		database.Listing{ID: "l-x", CompanyName: "Practo", Role: "Ops Intern", SkillsRequired: []string{"Kubernetes"}, Location: "Pune", Sector: "Healthcare", Capacity: 1},
	)
	store.profiles[profile.ID] = profile

	e := newTestEngine(t, store)

	matches, err := e.GenerateMatches(context.Background(), profile.ID)
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Empty(t, store.stored[profile.ID])
}

func TestGenerateMatches_EmptyPool(t *testing.T) {
	store := newMemStore()
	store.stored["student-1"] = []database.Match{{ID: "old", StudentID: "student-1", ListingID: "gone"}}
	e := newTestEngine(t, store)

	matches, err := e.GenerateMatches(context.Background(), "student-1")
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
	assert.Equal(t, 1, store.replaceCalls)
	assert.Empty(t, store.stored["student-1"])
}

func TestGenerateMatches_LoadFailures(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		name      string
		setup     func(*memStore)
		studentID string
		wantErr   error
		wantPhase Phase
	}{
		{
			name:      "unknown student",
			setup:     func(*memStore) {},
			studentID: "nobody",
			wantErr:   ErrProfileNotFound,
			wantPhase: PhaseLoadingProfile,
		},
		{
			name:      "profile store error",
			setup:     func(s *memStore) { s.profileErr = boom },
			studentID: "student-1",
			wantErr:   boom,
			wantPhase: PhaseLoadingProfile,
		},
		{
			name:      "pool error",
			setup:     func(s *memStore) { s.listErr = boom },
			studentID: "student-1",
			wantErr:   ErrPoolLoad,
			wantPhase: PhaseLoadingPool,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore(testPool()...)
			prior := []database.Match{{ID: "keep", StudentID: "student-1", ListingID: "l-1"}}
			store.stored["student-1"] = prior
			tt.setup(store)
			e := newTestEngine(t, store)

			matches, err := e.GenerateMatches(context.Background(), tt.studentID)
			require.Error(t, err)
			assert.Nil(t, matches)
			assert.ErrorIs(t, err, tt.wantErr)

			var runErr *RunError
			require.ErrorAs(t, err, &runErr)
			assert.Equal(t, tt.wantPhase, runErr.Phase)
			assert.False(t, runErr.Ranked())

			assert.Zero(t, store.replaceCalls)
			assert.Equal(t, prior, store.stored["student-1"])
		})
	}
}

func TestGenerateMatches_PersistenceFailure(t *testing.T) {
	store := newMemStore(testPool()...)
	store.replaceErr = errors.New("disk full")
	e := newTestEngine(t, store)

	matches, err := e.GenerateMatches(context.Background(), "student-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Len(t, matches, 3, "ranked list is still returned")

	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.True(t, runErr.Ranked())
	assert.Contains(t, err.Error(), "ranked but not saved")

	notFound := &RunError{StudentID: "student-1", Phase: PhaseLoadingProfile, Err: ErrProfileNotFound}
	assert.NotContains(t, notFound.Error(), "ranked")
}

func TestGenerateMatches_Timeout(t *testing.T) {
	store := newMemStore(testPool()...)
	store.stallPool = true
	e := newTestEngine(t, store, WithTimeout(10*time.Millisecond))

	_, err := e.GenerateMatches(context.Background(), "student-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrPoolLoad)
}

func TestGenerateMatches_Canceled(t *testing.T) {
	store := newMemStore(testPool()...)
	e := newTestEngine(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.GenerateMatches(ctx, "student-1")
	assert.ErrorIs(t, err, context.Canceled)

	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, PhaseLoadingProfile, runErr.Phase)
	assert.False(t, runErr.Ranked())
	assert.Zero(t, store.profileCalls)
	assert.Zero(t, store.replaceCalls)
}

func TestGenerateMatches_SingleFlight(t *testing.T) {
	store := newMemStore(testPool()...)
	store.entered = make(chan struct{}, 2)
	store.release = make(chan struct{})
	e := newTestEngine(t, store)

	results := make([][]database.Match, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			matches, err := e.GenerateMatches(context.Background(), "student-1")
			assert.NoError(t, err)
			results[i] = matches
		}()
		if i == 0 {
			<-store.entered
		}
	}

	// give the second caller time to join the run in flight
	time.Sleep(50 * time.Millisecond)
	close(store.release)
	wg.Wait()

	assert.Equal(t, 1, store.profileCalls)
	assert.Equal(t, 1, store.replaceCalls)
	require.Equal(t, results[0], results[1])

	results[0][0].Reasons[0] = "mutated"
	results[0][0].Listing.CompanyName = "mutated"
	assert.NotEqual(t, "mutated", results[1][0].Reasons[0])
	assert.NotEqual(t, "mutated", results[1][0].Listing.CompanyName)
	assert.NotEqual(t, "mutated", store.stored["student-1"][0].Reasons[0])
}

func TestGenerateMatches_JoinerDeadline(t *testing.T) {
	store := newMemStore(testPool()...)
	store.entered = make(chan struct{}, 1)
	store.release = make(chan struct{})
	e := newTestEngine(t, store)

	leaderDone := make(chan error, 1)
	go func() {
		_, err := e.GenerateMatches(context.Background(), "student-1")
		leaderDone <- err
	}()
	<-store.entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	matches, err := e.GenerateMatches(ctx, "student-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, matches)
	assert.Less(t, time.Since(start), time.Second)

	select {
	case <-leaderDone:
		t.Fatal("leader finished while its profile load was still blocked")
	default:
	}

	close(store.release)
	require.NoError(t, <-leaderDone)
	assert.Equal(t, 1, store.profileCalls)
	assert.Equal(t, 1, store.replaceCalls)
}

func TestGenerateMatches_Progress(t *testing.T) {
	store := newMemStore(testPool()...)

	var phases []Phase
	e := newTestEngine(t, store, WithProgress(func(p Progress) {
		if len(phases) == 0 || phases[len(phases)-1] != p.Phase {
			phases = append(phases, p.Phase)
		}
	}))

	_, err := e.GenerateMatches(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Equal(t, []Phase{
		PhaseLoadingProfile,
		PhaseLoadingPool,
		PhaseScoring,
		PhaseFiltering,
		PhaseRanking,
		PhasePersisting,
		PhaseDone,
	}, phases)

	phases = nil
	store.listErr = errors.New("down")
	_, err = e.GenerateMatches(context.Background(), "student-1")
	require.Error(t, err)
	assert.Equal(t, []Phase{PhaseLoadingProfile, PhaseLoadingPool, PhaseFailed}, phases)
}

func TestNew_InvalidWeights(t *testing.T) {
	store := newMemStore()
	_, err := New(store, store, store, WithWeights(scoring.Weights{Skills: 0.5}))
	assert.Error(t, err)
}

func TestGetExistingMatches(t *testing.T) {
	store := newMemStore(testPool()...)
	e := newTestEngine(t, store)
	ctx := context.Background()

	existing, err := e.GetExistingMatches(ctx, "student-1")
	require.NoError(t, err)
	assert.Empty(t, existing)

	generated, err := e.GenerateMatches(ctx, "student-1")
	require.NoError(t, err)

	existing, err = e.GetExistingMatches(ctx, "student-1")
	require.NoError(t, err)
	assert.Equal(t, generated, existing)
	assert.Equal(t, 1, store.replaceCalls, "reading does not recompute")

	_, err = e.GetExistingMatches(ctx, "")
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestEngine_SQLite(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "engine.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, db.UpsertProfile(ctx, testProfile()))
	pool := testPool()
	for i := range pool[:5] {
		require.NoError(t, db.UpsertListing(ctx, &pool[i]))
	}

	e, err := New(db, db, db)
	require.NoError(t, err)

	generated, err := e.GenerateMatches(ctx, "student-1")
	require.NoError(t, err)
	require.Len(t, generated, 3)

	stored, err := e.GetExistingMatches(ctx, "student-1")
	require.NoError(t, err)
	require.Len(t, stored, len(generated))
	for i := range generated {
		assert.Equal(t, generated[i].ID, stored[i].ID)
		assert.Equal(t, generated[i].ListingID, stored[i].ListingID)
		assert.Equal(t, generated[i].Score, stored[i].Score)
		assert.Equal(t, generated[i].Reasons, stored[i].Reasons)
	}

	top := generated[0]
	for range 2 {
		app, err := e.ApplyToListing(ctx, "student-1", top.ListingID, top.ID)
		require.NoError(t, err)
		assert.Equal(t, database.ApplicationStatusSubmitted, app.Status)
	}

	apps, err := db.ListApplicationsByStudent(ctx, "student-1")
	require.NoError(t, err)
	assert.Len(t, apps, 1)

	stored, err = e.GetExistingMatches(ctx, "student-1")
	require.NoError(t, err)
	assert.Equal(t, database.MatchStatusApplied, stored[0].Status)

	_, err = e.ApplyToListing(ctx, "student-1", "l-5", top.ID)
	assert.ErrorIs(t, err, ErrMatchNotFound)

	_, err = e.ApplyToListing(ctx, "student-1", top.ListingID, "")
	assert.ErrorIs(t, err, ErrMissingID)
}
