// Package plans holds the static subscription plan and duration catalog.
// Plans are defined at build time and never persisted as mutable entities.
package plans

// Plan represents a subscription plan configuration
type Plan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MonthlyPrice float64  `json:"monthly_price"`
	Features     []string `json:"features"`
	Popular      bool     `json:"popular"`
}

// DurationOption is a purchasable subscription length.
type DurationOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Days int    `json:"days"`
}

// Fallbacks used by the lookup helpers when an id is unknown. Stored
// plan_name values are not enforced against the catalog, so reads tolerate
// typos; creation paths validate explicitly instead.
const (
	DefaultMonthlyPrice = 100.0
	DefaultDurationDays = 30
)

var catalog = []Plan{
	{
		ID:           "starter",
		Name:         "Starter",
		MonthlyPrice: 100.0,
		Features: []string{
			"1 instance",
			"Community support",
			"Academy access",
		},
	},
	{
		ID:           "business",
		Name:         "Business",
		MonthlyPrice: 250.0,
		Popular:      true,
		Features: []string{
			"Up to 5 instances",
			"Pool placement",
			"Priority support",
			"Academy access",
		},
	},
	{
		ID:           "enterprise",
		Name:         "Enterprise",
		MonthlyPrice: 600.0,
		Features: []string{
			"Unlimited instances",
			"Dedicated pool",
			"24/7 support",
			"Custom onboarding",
		},
	},
}

var durations = []DurationOption{
	{ID: "1m", Name: "1 month", Days: 30},
	{ID: "3m", Name: "3 months", Days: 90},
	{ID: "6m", Name: "6 months", Days: 180},
	{ID: "12m", Name: "12 months", Days: 365},
}

// GetPlanByID looks up a plan by its identifier.
func GetPlanByID(id string) (*Plan, bool) {
	for i := range catalog {
		if catalog[i].ID == id {
			return &catalog[i], true
		}
	}
	return nil, false
}

// GetPlanPrice returns the monthly price for the plan, falling back to
// DefaultMonthlyPrice when the id is unknown.
func GetPlanPrice(id string) float64 {
	if plan, ok := GetPlanByID(id); ok {
		return plan.MonthlyPrice
	}
	return DefaultMonthlyPrice
}

// GetDurationByID looks up a duration option by its identifier.
func GetDurationByID(id string) (*DurationOption, bool) {
	for i := range durations {
		if durations[i].ID == id {
			return &durations[i], true
		}
	}
	return nil, false
}

// GetDurationDays returns the length in days for the duration option,
// falling back to DefaultDurationDays when the id is unknown.
func GetDurationDays(id string) int {
	if d, ok := GetDurationByID(id); ok {
		return d.Days
	}
	return DefaultDurationDays
}

// All returns a copy of the plan catalog.
func All() []Plan {
	out := make([]Plan, len(catalog))
	copy(out, catalog)
	return out
}

// AllDurations returns a copy of the duration catalog.
func AllDurations() []DurationOption {
	out := make([]DurationOption, len(durations))
	copy(out, durations)
	return out
}
