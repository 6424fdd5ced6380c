package models_test

import (
	"testing"
	"time"

	"github.com/vidora/adserve/internal/models"
)

func TestBudgetWeight(t *testing.T) {
	cases := []struct {
		budget string
		want   float64
	}{
		{"low", 1},
		{"medium", 2},
		{"high", 3},
		{"HIGH", 3},
		{" medium ", 2},
		{"", 1},
		{"platinum", 1},
	}
	for _, tc := range cases {
		if got := models.BudgetWeight(tc.budget); got != tc.want {
			t.Errorf("BudgetWeight(%q) = %v, want %v", tc.budget, got, tc.want)
		}
	}
}

func TestAdValidate(t *testing.T) {
	valid := models.Ad{
		Name: "promo",
		Details: models.AdDetails{
			VideoURL:  "https://cdn.example.com/v.mp4",
			TargetURL: "http://example.com",
			Budget:    "low",
		},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid ad rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*models.Ad)
	}{
		{"empty name", func(a *models.Ad) { a.Name = "  " }},
		{"relative video url", func(a *models.Ad) { a.Details.VideoURL = "v.mp4" }},
		{"relative target url", func(a *models.Ad) { a.Details.TargetURL = "/landing" }},
		{"unknown budget", func(a *models.Ad) { a.Details.Budget = "huge" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := valid
			tc.mutate(&a)
			if err := a.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAdUpdateApply(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := models.Ad{
		Name: "before",
		Details: models.AdDetails{
			VideoURL:  "https://cdn.example.com/old.mp4",
			TargetURL: "https://example.com",
			Budget:    "low",
			SkipTime:  5,
		},
		CreatedAt: created,
		UpdatedAt: created,
	}

	name := "  after  "
	budget := "HIGH"
	now := created.Add(time.Hour)
	upd := models.AdUpdate{Name: &name, Budget: &budget}
	upd.Apply(&a, now)

	if a.Name != "after" {
		t.Errorf("Name = %q, want trimmed after", a.Name)
	}
	if a.Details.Budget != "high" {
		t.Errorf("Budget = %q, want lowered high", a.Details.Budget)
	}
	if a.Details.VideoURL != "https://cdn.example.com/old.mp4" || a.Details.SkipTime != 5 {
		t.Error("nil fields must stay untouched")
	}
	if !a.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", a.UpdatedAt, now)
	}
	if !a.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed: %v", a.CreatedAt)
	}
}

func TestDateRangeContains(t *testing.T) {
	r := models.DateRange{From: "2024-01-02", To: "2024-01-10"}
	for date, want := range map[string]bool{
		"2024-01-01": false,
		"2024-01-02": true,
		"2024-01-05": true,
		"2024-01-10": true,
		"2024-01-11": false,
	} {
		if got := r.Contains(date); got != want {
			t.Errorf("Contains(%s) = %v, want %v", date, got, want)
		}
	}

	open := models.DateRange{}
	if !open.Contains("1999-01-01") || !open.Contains("2999-12-31") {
		t.Error("empty range must match every date")
	}

	fromOnly := models.DateRange{From: "2024-06-01"}
	if fromOnly.Contains("2024-05-31") || !fromOnly.Contains("2024-06-01") {
		t.Error("from-only bound misbehaves")
	}
}
