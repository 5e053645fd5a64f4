package camp

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"designcamp/internal/generator"
	"designcamp/internal/models"
)

// fakeChallenges is an in-memory ChallengeRepo keyed by date.
type fakeChallenges struct {
	mu        sync.Mutex
	byDate    map[string]*models.Challenge
	byID      map[uuid.UUID]*models.Challenge
	inserts   int
	findErr   error
	matches   []models.Challenge
	archive   []models.Challenge
	gotFilter models.ArchiveFilter
	gotToday  time.Time
	// raceWinner is stored on the first InsertForDate to simulate
	// another process committing first.
	raceWinner *models.Challenge
}

func newFakeChallenges() *fakeChallenges {
	return &fakeChallenges{byDate: map[string]*models.Challenge{}, byID: map[uuid.UUID]*models.Challenge{}}
}

func (f *fakeChallenges) put(c *models.Challenge) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byDate[c.DateString()] = c
	f.byID[c.ID] = c
}

func (f *fakeChallenges) FindByDate(_ context.Context, date time.Time) (*models.Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byDate[date.Format(models.DateLayout)], nil
}

func (f *fakeChallenges) FindByID(_ context.Context, id uuid.UUID) (*models.Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id], nil
}

func (f *fakeChallenges) InsertForDate(_ context.Context, c *models.Challenge) (*models.Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	key := c.DateString()
	if f.raceWinner != nil {
		f.byDate[key] = f.raceWinner
		f.raceWinner = nil
	}
	if _, taken := f.byDate[key]; taken {
		return nil, nil
	}
	f.byDate[key] = c
	f.byID[c.ID] = c
	return c, nil
}

func (f *fakeChallenges) Archive(_ context.Context, today time.Time, fl models.ArchiveFilter) ([]models.Challenge, error) {
	f.gotToday, f.gotFilter = today, fl
	return f.archive, nil
}

func (f *fakeChallenges) MatchByDifficulty(_ context.Context, level string, limit int) ([]models.Challenge, error) {
	var out []models.Challenge
	for _, c := range f.matches {
		if string(c.Difficulty) == level && len(out) < limit {
			out = append(out, c)
		}
	}
	return out, nil
}

// fakeGenerator counts calls and can block until released.
type fakeGenerator struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
	title   string
}

func (g *fakeGenerator) Generate(ctx context.Context, _ generator.Hints) (*models.Challenge, error) {
	g.calls.Add(1)
	if g.release != nil {
		select {
		case <-g.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if g.err != nil {
		return nil, g.err
	}
	title := g.title
	if title == "" {
		title = "Generated"
	}
	return &models.Challenge{
		ID:         uuid.New(),
		Title:      title,
		Difficulty: models.DifficultyIntermediate,
		Category:   models.CategoryUIDesign,
		Content:    models.LegacyContent{FullDescription: "x"},
	}, nil
}

// fakeSubmissions is an in-memory SubmissionRepo.
type fakeSubmissions struct {
	mu        sync.Mutex
	created   []*models.Submission
	createErr error
	calls     int
	submitted map[uuid.UUID]bool
}

func (f *fakeSubmissions) Create(_ context.Context, sub *models.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.createErr != nil {
		return f.createErr
	}
	sub.ID = uuid.New()
	sub.CreatedAt = time.Now()
	f.created = append(f.created, sub)
	return nil
}

func (f *fakeSubmissions) ListRecent(_ context.Context, limit int) ([]models.Submission, error) {
	out := make([]models.Submission, 0, limit)
	for i := len(f.created) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *f.created[i])
	}
	return out, nil
}

func (f *fakeSubmissions) ListByChallenge(_ context.Context, id uuid.UUID, limit int) ([]models.Submission, error) {
	var out []models.Submission
	for _, s := range f.created {
		if s.ChallengeID == id && len(out) < limit {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSubmissions) HasSubmitted(_ context.Context, userID, _ uuid.UUID) (bool, error) {
	return f.submitted[userID], nil
}

// fakeObjects records uploads and deletes.
type fakeObjects struct {
	mu        sync.Mutex
	objects   map[string][]byte
	types     map[string]string
	deleted   []string
	failAfter int // fail the upload after this many successes; 0 disables
	uploads   int
	deleteErr error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjects) Upload(_ context.Context, key, contentType string, body io.Reader, size int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAfter > 0 && f.uploads >= f.failAfter {
		return errors.New("s3 unavailable")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return errors.New("size mismatch")
	}
	f.uploads++
	f.objects[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeObjects) FileURL(key string) string { return "https://cdn.test/" + key }

type fakeInvalidator struct{ calls atomic.Int32 }

func (f *fakeInvalidator) Invalidate(context.Context) { f.calls.Add(1) }

// fakePrefs is an in-memory PreferencesRepo.
type fakePrefs struct {
	rows map[uuid.UUID]*models.UserPreferences
}

func (f *fakePrefs) Upsert(_ context.Context, p *models.UserPreferences) (*models.UserPreferences, error) {
	if f.rows == nil {
		f.rows = map[uuid.UUID]*models.UserPreferences{}
	}
	cp := *p
	cp.ID = uuid.New()
	f.rows[p.UserID] = &cp
	return &cp, nil
}

func (f *fakePrefs) FindByUserID(_ context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	return f.rows[userID], nil
}

type fakeTemplates struct{ rows []models.ProjectTemplate }

func (f *fakeTemplates) MatchBySkillLevel(_ context.Context, level string, limit int) ([]models.ProjectTemplate, error) {
	var out []models.ProjectTemplate
	for _, t := range f.rows {
		if t.SkillLevel == level && len(out) < limit {
			out = append(out, t)
		}
	}
	return out, nil
}

// fakeNewsletter enforces email uniqueness like the database does.
type fakeNewsletter struct {
	rows    []models.NewsletterSignup
	listErr error
}

func (f *fakeNewsletter) Subscribe(_ context.Context, email string, remind bool) (*models.NewsletterSignup, error) {
	for _, r := range f.rows {
		if r.Email == email {
			return nil, ErrAlreadySubscribed
		}
	}
	s := models.NewsletterSignup{ID: uuid.New(), Email: email, RemindDaily: remind, CreatedAt: time.Now()}
	f.rows = append(f.rows, s)
	return &s, nil
}

func (f *fakeNewsletter) ListReminders(context.Context) ([]models.NewsletterSignup, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.NewsletterSignup
	for _, r := range f.rows {
		if r.RemindDaily {
			out = append(out, r)
		}
	}
	return out, nil
}
