package camp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"designcamp/internal/generator"
	"designcamp/internal/models"
)

var fixedNow = time.Date(2026, 6, 1, 15, 4, 5, 0, time.UTC)

func newTestChallengeService(repo *fakeChallenges, gen *fakeGenerator, subs SubmissionChecker) *ChallengeService {
	s := NewChallengeService(repo, gen, subs)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestToday_StoredChallengeSkipsGeneration(t *testing.T) {
	repo := newFakeChallenges()
	stored := &models.Challenge{ID: uuid.New(), Title: "Stored", ChallengeDate: utcDate(fixedNow)}
	repo.put(stored)
	gen := &fakeGenerator{}

	c, err := newTestChallengeService(repo, gen, nil).Today(context.Background())
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if c.ID != stored.ID {
		t.Errorf("got %s, want stored %s", c.ID, stored.ID)
	}
	if n := gen.calls.Load(); n != 0 {
		t.Errorf("generator calls = %d, want 0", n)
	}
}

func TestToday_ConcurrentMissGeneratesOnce(t *testing.T) {
	repo := newFakeChallenges()
	gen := &fakeGenerator{release: make(chan struct{})}
	svc := newTestChallengeService(repo, gen, nil)

	const callers = 20
	var wg sync.WaitGroup
	ids := make([]uuid.UUID, callers)
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := svc.Today(context.Background())
			errs[i] = err
			if c != nil {
				ids[i] = c.ID
			}
		}()
	}

	// Let every caller reach the flight before releasing the generator.
	time.Sleep(50 * time.Millisecond)
	close(gen.release)
	wg.Wait()

	if n := gen.calls.Load(); n != 1 {
		t.Errorf("generator calls = %d, want 1", n)
	}
	if repo.inserts != 1 {
		t.Errorf("inserts = %d, want 1", repo.inserts)
	}
	for i := range callers {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("caller %d got %s, want %s", i, ids[i], ids[0])
		}
	}

	stored, _ := repo.FindByDate(context.Background(), fixedNow)
	if stored == nil || stored.DateString() != "2026-06-01" {
		t.Errorf("stored = %+v", stored)
	}
}

func TestToday_LostInsertRaceReturnsWinner(t *testing.T) {
	repo := newFakeChallenges()
	winner := &models.Challenge{ID: uuid.New(), Title: "Other process", ChallengeDate: utcDate(fixedNow)}
	repo.raceWinner = winner
	gen := &fakeGenerator{}

	c, err := newTestChallengeService(repo, gen, nil).Today(context.Background())
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if c.ID != winner.ID {
		t.Errorf("got %q, want the stored winner", c.Title)
	}
}

func TestToday_GeneratorErrorsSurface(t *testing.T) {
	for _, want := range []error{generator.ErrRateLimited, generator.ErrCreditsExhausted, generator.ErrMalformedResponse} {
		t.Run(want.Error(), func(t *testing.T) {
			repo := newFakeChallenges()
			_, err := newTestChallengeService(repo, &fakeGenerator{err: want}, nil).Today(context.Background())
			if !errors.Is(err, want) {
				t.Errorf("err = %v, want %v", err, want)
			}
			if repo.inserts != 0 {
				t.Error("nothing should be stored on failure")
			}
		})
	}
}

func TestToday_StoreErrorSurfaces(t *testing.T) {
	repo := newFakeChallenges()
	repo.findErr = errors.New("db down")
	gen := &fakeGenerator{}
	if _, err := newTestChallengeService(repo, gen, nil).Today(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if gen.calls.Load() != 0 {
		t.Error("generator must not run when the lookup fails")
	}
}

func TestToday_CallerCancelDoesNotAbortGeneration(t *testing.T) {
	repo := newFakeChallenges()
	gen := &fakeGenerator{release: make(chan struct{})}
	svc := newTestChallengeService(repo, gen, nil)

	impatient, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Today(impatient)
		firstErr <- err
	}()
	time.Sleep(20 * time.Millisecond)

	patient := make(chan *models.Challenge, 1)
	go func() {
		c, _ := svc.Today(context.Background())
		patient <- c
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("impatient caller err = %v, want context.Canceled", err)
	}

	close(gen.release)
	select {
	case c := <-patient:
		if c == nil {
			t.Fatal("patient caller got no challenge")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("patient caller never returned")
	}
	if gen.calls.Load() != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls.Load())
	}
}

func TestNextChallengeIn(t *testing.T) {
	svc := NewChallengeService(newFakeChallenges(), &fakeGenerator{}, nil)
	tests := []struct {
		now  time.Time
		want time.Duration
	}{
		{time.Date(2026, 6, 1, 23, 0, 0, 0, time.UTC), time.Hour},
		{time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), 24 * time.Hour},
		// 20:30 in UTC-5 is 01:30 UTC the next day.
		{time.Date(2026, 6, 1, 20, 30, 0, 0, time.FixedZone("EST", -5*3600)), 22*time.Hour + 30*time.Minute},
	}
	for _, tt := range tests {
		if got := svc.NextChallengeIn(tt.now); got != tt.want {
			t.Errorf("NextChallengeIn(%v) = %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestArchive(t *testing.T) {
	repo := newFakeChallenges()
	repo.archive = []models.Challenge{{Title: "a"}, {Title: "b"}}
	svc := newTestChallengeService(repo, &fakeGenerator{}, nil)

	got, err := svc.Archive(context.Background(), models.ArchiveFilter{Difficulty: "advanced", Category: "All"})
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d", len(got))
	}
	if repo.gotFilter.Difficulty != "Advanced" || repo.gotFilter.Category != "" {
		t.Errorf("filter = %+v", repo.gotFilter)
	}
	if !repo.gotToday.Equal(utcDate(fixedNow)) {
		t.Errorf("today = %v", repo.gotToday)
	}

	if _, err := svc.Archive(context.Background(), models.ArchiveFilter{Difficulty: "Expert"}); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("err = %v, want ErrInvalidFilter", err)
	}
}

func TestByIDAndHasSubmitted(t *testing.T) {
	repo := newFakeChallenges()
	c := &models.Challenge{ID: uuid.New(), ChallengeDate: utcDate(fixedNow)}
	repo.put(c)
	camper := uuid.New()
	svc := newTestChallengeService(repo, &fakeGenerator{}, &fakeSubmissions{submitted: map[uuid.UUID]bool{camper: true}})
	ctx := context.Background()

	if got, err := svc.ByID(ctx, c.ID); err != nil || got.ID != c.ID {
		t.Errorf("ByID = %v, %v", got, err)
	}
	if _, err := svc.ByID(ctx, uuid.New()); !errors.Is(err, ErrChallengeNotFound) {
		t.Errorf("err = %v, want ErrChallengeNotFound", err)
	}

	if ok, _ := svc.HasSubmitted(ctx, c.ID, camper); !ok {
		t.Error("expected HasSubmitted = true")
	}
	if ok, _ := svc.HasSubmitted(ctx, c.ID, uuid.New()); ok {
		t.Error("expected HasSubmitted = false for another camper")
	}
	if ok, _ := svc.HasSubmitted(ctx, c.ID, uuid.Nil); ok {
		t.Error("anonymous visitors have never submitted")
	}
}
