package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// archiveChallenge is one entry of the starter archive.
type archiveChallenge struct {
	title, description, difficulty, category, date string
}

var archiveChallenges = []archiveChallenge{
	{"Design a Mobile Onboarding Flow", "Create a 3-5 screen onboarding experience for a fitness app that introduces key features.", "Beginner", "UX", "2024-12-09"},
	{"Animated Loading State", "Design a delightful loading animation that keeps users engaged while content loads.", "Intermediate", "Microinteraction", "2024-12-08"},
	{"SaaS Pricing Page", "Create a conversion-focused pricing page with tier comparison and toggle for monthly/annual.", "Advanced", "Landing Page", "2024-12-07"},
	{"Dark Mode Toggle", "Design a smooth dark/light mode toggle with animated transition effects.", "Beginner", "Microinteraction", "2024-12-06"},
	{"E-commerce Product Card", "Design an interactive product card with hover states, quick-add, and wishlist functionality.", "Intermediate", "UI", "2024-12-05"},
	{"Mobile Navigation Menu", "Create an intuitive bottom navigation or hamburger menu for a travel app.", "Beginner", "Mobile", "2024-12-04"},
	{"Dashboard Analytics View", "Design a data-rich dashboard with charts, KPIs, and filtering capabilities.", "Advanced", "UX", "2024-12-03"},
	{"Button Hover Effects", "Create 5 unique button hover animations that add personality to interactions.", "Beginner", "Microinteraction", "2024-12-02"},
}

type starterTemplate struct {
	title, description, skillLevel, projectType, platform, duration, timeEstimate string
	deliverables, tools, examples                                                []string
}

var starterTemplates = []starterTemplate{
	{
		title:        "Local Bakery Ordering App",
		description:  "Design a simple pickup-ordering flow for a neighbourhood bakery.",
		skillLevel:   "beginner",
		projectType:  "Mobile App",
		platform:     "iOS",
		duration:     "Short (1 week)",
		timeEstimate: "6-8 hours",
		deliverables: []string{"User flow", "5 key screens", "Clickable prototype"},
		tools:        []string{"Figma"},
		examples:     []string{"Menu browsing", "Cart summary"},
	},
	{
		title:        "Personal Portfolio Website",
		description:  "Plan and design a one-page portfolio that tells your design story.",
		skillLevel:   "beginner",
		projectType:  "Website",
		platform:     "Web",
		duration:     "Short (1 week)",
		timeEstimate: "5-7 hours",
		deliverables: []string{"Sitemap", "Desktop and mobile layouts", "Case study template"},
		tools:        []string{"Figma", "Framer"},
		examples:     []string{"Hero section", "Project grid"},
	},
	{
		title:        "Habit Tracker Redesign",
		description:  "Research pain points in an existing habit tracker and redesign its core loop.",
		skillLevel:   "intermediate",
		projectType:  "Mobile App",
		platform:     "Android",
		duration:     "Medium (1-2 weeks)",
		timeEstimate: "12-16 hours",
		deliverables: []string{"Research summary", "Journey map", "High-fidelity screens", "Prototype"},
		tools:        []string{"Figma", "Miro"},
		examples:     []string{"Streak visualisation", "Reminder settings"},
	},
	{
		title:        "Event Ticketing Checkout",
		description:  "Design a checkout that handles seat selection, add-ons, and guest checkout.",
		skillLevel:   "intermediate",
		projectType:  "Web App",
		platform:     "Web",
		duration:     "Medium (1-2 weeks)",
		timeEstimate: "10-14 hours",
		deliverables: []string{"Task flows", "Wireframes", "Responsive UI", "Error states"},
		tools:        []string{"Figma", "ProtoPie"},
		examples:     []string{"Seat map", "Payment errors"},
	},
	{
		title:        "Fintech Design System",
		description:  "Build a token-based design system for a budgeting product with accessible components.",
		skillLevel:   "advanced",
		projectType:  "Design System",
		platform:     "Cross-platform",
		duration:     "Long (3-4 weeks)",
		timeEstimate: "30-40 hours",
		deliverables: []string{"Design tokens", "Component library", "Usage documentation", "Accessibility audit"},
		tools:        []string{"Figma", "Notion"},
		examples:     []string{"Data table", "Transaction list item"},
	},
	{
		title:        "Telehealth Appointment Platform",
		description:  "Design booking, video visit, and follow-up flows for patients and clinicians.",
		skillLevel:   "advanced",
		projectType:  "Web App",
		platform:     "Web + Mobile",
		duration:     "Long (3-4 weeks)",
		timeEstimate: "35-45 hours",
		deliverables: []string{"Stakeholder map", "Service blueprint", "Dual-role prototypes", "Usability test plan"},
		tools:        []string{"Figma", "Miro", "Principle"},
		examples:     []string{"Waiting room", "Prescription summary"},
	},
}

// Seed populates the database with initial development data: a default
// admin, the starter challenge archive and a few project templates. Each
// part is skipped when its table already has rows. The admin will be
// prompted to set up 2FA on first login (totp_enabled = false).
func Seed(db *sql.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	if err := seedChallenges(db); err != nil {
		return err
	}
	return seedTemplates(db)
}

func seedAdmin(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("users already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRow(`
		INSERT INTO users (email, password_hash, role, totp_enabled)
		VALUES ($1, $2, 'admin', FALSE)
		RETURNING id
	`, "admin@designcamp.local", string(hash)).Scan(&id)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO profiles (user_id, name, email) VALUES ($1, 'Camp Admin', $2)
	`, id, "admin@designcamp.local"); err != nil {
		return fmt.Errorf("seed insert admin profile: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@designcamp.local",
		"password", "admin",
	)
	return nil
}

func seedChallenges(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM challenges").Scan(&count); err != nil {
		return fmt.Errorf("seed check challenges: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, c := range archiveChallenges {
		date, err := time.Parse("2006-01-02", c.date)
		if err != nil {
			return fmt.Errorf("seed challenge date %q: %w", c.date, err)
		}
		_, err = db.Exec(`
			INSERT INTO challenges (title, description, category, difficulty, time_estimate, challenge_date, full_description)
			VALUES ($1, $2, $3, $4, '30-60 min', $5, $2)
			ON CONFLICT (challenge_date) DO NOTHING
		`, c.title, c.description, c.category, c.difficulty, date)
		if err != nil {
			return fmt.Errorf("seed challenge %q: %w", c.title, err)
		}
	}
	slog.Info("seeded challenge archive", "count", len(archiveChallenges))
	return nil
}

func seedTemplates(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM project_templates").Scan(&count); err != nil {
		return fmt.Errorf("seed check project templates: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, p := range starterTemplates {
		_, err := db.Exec(`
			INSERT INTO project_templates (title, description, skill_level, project_type, platform, duration,
				deliverables, tools_recommended, example_challenges, time_estimate)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, p.title, p.description, p.skillLevel, p.projectType, p.platform, p.duration,
			p.deliverables, p.tools, p.examples, p.timeEstimate)
		if err != nil {
			return fmt.Errorf("seed project template %q: %w", p.title, err)
		}
	}
	slog.Info("seeded project templates", "count", len(starterTemplates))
	return nil
}
