package models

import (
	"fmt"
	"strings"
	"time"
)

// Budget tiers an ad can be created with. The tier feeds the
// budget-weighted conversion metric in stats.
const (
	BudgetLow    = "low"
	BudgetMedium = "medium"
	BudgetHigh   = "high"
)

// BudgetWeight maps a budget tier to the divisor used by the
// conversion-rate metric. Unknown or blank tiers fall back to 1.
func BudgetWeight(budget string) float64 {
	switch strings.ToLower(strings.TrimSpace(budget)) {
	case BudgetMedium:
		return 2
	case BudgetHigh:
		return 3
	default:
		return 1
	}
}

// ValidBudget reports whether budget is one of the supported tiers.
func ValidBudget(budget string) bool {
	switch budget {
	case BudgetLow, BudgetMedium, BudgetHigh:
		return true
	}
	return false
}

// AdDetails holds the playback and budget attributes of an ad.
type AdDetails struct {
	VideoURL  string  `json:"videoUrl"`
	TargetURL string  `json:"targetUrl"`
	Budget    string  `json:"budget"`
	SkipTime  float64 `json:"skipTime"`
	ExitTime  float64 `json:"exitTime"`
}

// Ad is a video advertisement owned by exactly one performer.
type Ad struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	PerformerID   string    `json:"performerId"`
	PerformerName string    `json:"performerName"`
	Details       AdDetails `json:"adDetails"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Validate checks the invariants enforced at creation time: absolute
// URLs and a known budget tier.
func (a *Ad) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("ad name is required")
	}
	if !strings.HasPrefix(a.Details.VideoURL, "http") {
		return fmt.Errorf("videoUrl must be absolute")
	}
	if !strings.HasPrefix(a.Details.TargetURL, "http") {
		return fmt.Errorf("targetUrl must be absolute")
	}
	if !ValidBudget(a.Details.Budget) {
		return fmt.Errorf("budget must be one of low, medium, high")
	}
	return nil
}

// AdUpdate carries a partial update. Nil fields are left untouched;
// UpdatedAt is always refreshed by the caller.
type AdUpdate struct {
	Name      *string  `json:"name,omitempty"`
	VideoURL  *string  `json:"videoUrl,omitempty"`
	TargetURL *string  `json:"targetUrl,omitempty"`
	Budget    *string  `json:"budget,omitempty"`
	SkipTime  *float64 `json:"skipTime,omitempty"`
	ExitTime  *float64 `json:"exitTime,omitempty"`
}

// Apply merges the update into the ad.
func (u *AdUpdate) Apply(a *Ad, now time.Time) {
	if u.Name != nil {
		a.Name = strings.TrimSpace(*u.Name)
	}
	if u.VideoURL != nil {
		a.Details.VideoURL = strings.TrimSpace(*u.VideoURL)
	}
	if u.TargetURL != nil {
		a.Details.TargetURL = strings.TrimSpace(*u.TargetURL)
	}
	if u.Budget != nil {
		a.Details.Budget = strings.ToLower(strings.TrimSpace(*u.Budget))
	}
	if u.SkipTime != nil {
		a.Details.SkipTime = *u.SkipTime
	}
	if u.ExitTime != nil {
		a.Details.ExitTime = *u.ExitTime
	}
	a.UpdatedAt = now
}
