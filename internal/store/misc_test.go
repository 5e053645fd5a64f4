package store

import (
	"context"
	"errors"
	"testing"

	"designcamp/internal/models"
)

func TestPreferencesStoreUpsert(t *testing.T) {
	db := testDB(t)
	s := NewPreferencesStore(db)
	ctx := context.Background()

	u := createCamper(t, db, "Planner")

	none, err := s.FindByUserID(ctx, u.ID)
	if err != nil || none != nil {
		t.Fatalf("FindByUserID before = %v, %v", none, err)
	}

	first, err := s.Upsert(ctx, &models.UserPreferences{
		UserID: u.ID, SkillLevel: models.SkillBeginner,
		Goals: []string{"portfolio"}, Tools: []string{"figma"}, WeeklyHours: 5,
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	second, err := s.Upsert(ctx, &models.UserPreferences{
		UserID: u.ID, SkillLevel: models.SkillAdvanced, WeeklyHours: 15,
	})
	if err != nil {
		t.Fatalf("Upsert again: %v", err)
	}
	if second.ID != first.ID {
		t.Error("upsert should keep one row per user")
	}
	if second.SkillLevel != models.SkillAdvanced || len(second.Goals) != 0 {
		t.Errorf("upsert did not replace answers: %+v", second)
	}
}

func TestProjectTemplateStoreMatch(t *testing.T) {
	db := testDB(t)
	s := NewProjectTemplateStore(db)
	ctx := context.Background()

	p, err := s.Create(ctx, &models.ProjectTemplate{
		Title: "Store Test Template", SkillLevel: "Advanced", ProjectType: "App",
		Platform: "iOS", Duration: "2 weeks", Deliverables: []string{"Flows"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { s.Delete(context.Background(), p.ID) })

	contains := func(level string) bool {
		got, err := s.MatchBySkillLevel(ctx, level, 50)
		if err != nil {
			t.Fatalf("MatchBySkillLevel(%q): %v", level, err)
		}
		for _, m := range got {
			if m.ID == p.ID {
				return true
			}
		}
		return false
	}
	if !contains("Advanced") {
		t.Error("exact skill level should match the template")
	}
	if contains("advanced") {
		t.Error("matching must be exact, not case-insensitive")
	}
	if p.ExampleChallenges == nil || len(p.ExampleChallenges) != 0 {
		t.Errorf("ExampleChallenges = %#v, want empty", p.ExampleChallenges)
	}
}

func TestNewsletterStoreSubscribe(t *testing.T) {
	db := testDB(t)
	s := NewNewsletterStore(db)
	ctx := context.Background()

	email := testEmail("news")
	t.Cleanup(func() { cleanSignups(t, db, email) })

	n, err := s.Subscribe(ctx, email, true)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if !n.RemindDaily {
		t.Error("remind_daily should be stored")
	}

	_, err = s.Subscribe(ctx, email, false)
	if !errors.Is(err, ErrAlreadySubscribed) {
		t.Errorf("second Subscribe err = %v, want ErrAlreadySubscribed", err)
	}

	reminders, err := s.ListReminders(ctx)
	if err != nil {
		t.Fatalf("ListReminders: %v", err)
	}
	found := false
	for _, r := range reminders {
		if r.Email == email {
			found = true
		}
	}
	if !found {
		t.Error("reminder list should include the signup")
	}
}

func TestLeaderboardStoreRank(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	u := createCamper(t, db, "Leader")
	c := createChallenge(t, db, testDate(), models.DifficultyBeginner)
	link := "https://example.com"
	if err := NewSubmissionStore(db).Create(ctx, &models.Submission{ChallengeID: c.ID, UserID: u.ID, ExternalURL: &link}); err != nil {
		t.Fatalf("Create submission: %v", err)
	}

	entries, err := NewLeaderboardStore(db).Rank(ctx, models.TimeFilterWeek)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	var mine *models.LeaderboardEntry
	for i := range entries {
		if entries[i].UserID == u.ID {
			mine = &entries[i]
		}
	}
	if mine == nil {
		t.Fatal("camper with a submission should be ranked")
	}
	if mine.SubmissionCount != 1 || mine.StreakDays != 1 || mine.TotalPoints != 15 {
		t.Errorf("entry = %+v, want 1 submission, 1 day streak, 15 points", mine)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Rank < entries[i-1].Rank {
			t.Error("entries should be ordered by rank")
		}
	}
}
