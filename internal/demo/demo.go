// Package demo produces illustrative dashboard and analysis payloads for the
// client UI. None of the values come from stored data.
package demo

import (
	"math/rand/v2"
	"sync"
	"time"
)

var halfYear = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}

// Series is a labelled list of integers.
type Series struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// Recommendation is a suggested action and its estimated monthly impact.
type Recommendation struct {
	Text   string `json:"text"`
	Impact int    `json:"impact"`
}

// BudgetUsage is current spending against a limit.
type BudgetUsage struct {
	Current int `json:"current"`
	Limit   int `json:"limit"`
}

// SavingsGoal tracks progress toward a target.
type SavingsGoal struct {
	Name    string `json:"name"`
	Current int    `json:"current"`
	Target  int    `json:"target"`
}

// Dashboard is the payload of the demo dashboard.
type Dashboard struct {
	HealthScore      int                    `json:"healthScore"`
	MonthlySpending  Series                 `json:"monthlySpending"`
	Recommendations  []Recommendation       `json:"recommendations"`
	BudgetCategories map[string]BudgetUsage `json:"budgetCategories"`
	SavingsGoals     []SavingsGoal          `json:"savingsGoals"`
}

// YearComparison pairs this year's monthly figures with last year's.
type YearComparison struct {
	Labels       []string `json:"labels"`
	CurrentYear  []int    `json:"currentYear"`
	PreviousYear []int    `json:"previousYear"`
}

// Trajectory compares projected and actual savings.
type Trajectory struct {
	Labels    []string `json:"labels"`
	Projected []int    `json:"projected"`
	Actual    []int    `json:"actual"`
}

// Analysis is the payload of the demo analysis.
type Analysis struct {
	CategorySpending  Series         `json:"categorySpending"`
	YearComparison    YearComparison `json:"yearComparison"`
	SavingsTrajectory Trajectory     `json:"savingsTrajectory"`
	Insights          []string       `json:"insights"`
}

// Generator builds demo payloads. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a Generator drawing from rng.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// NewTimeSeeded returns a Generator seeded from the wall clock.
func NewTimeSeeded() *Generator {
	seed := uint64(time.Now().UnixNano())
	return NewGenerator(rand.New(rand.NewPCG(seed, seed>>1)))
}

// between returns a uniform integer in [lo, lo+span).
func (g *Generator) between(lo, span int) int {
	return lo + g.rng.IntN(span)
}

func (g *Generator) monthly(lo, span int) []int {
	out := make([]int, len(halfYear))
	for i := range out {
		out[i] = g.between(lo, span)
	}
	return out
}

// Dashboard returns a health score in 70..89 and six monthly spending figures
// in 1000..2999 alongside fixed recommendations, budgets and goals.
func (g *Generator) Dashboard() Dashboard {
	g.mu.Lock()
	score := g.between(70, 20)
	spending := g.monthly(1000, 2000)
	g.mu.Unlock()

	return Dashboard{
		HealthScore:     score,
		MonthlySpending: Series{Labels: labels(), Data: spending},
		Recommendations: []Recommendation{
			{Text: "Reduce dining out", Impact: 120},
			{Text: "Increase 401k contribution", Impact: 200},
			{Text: "Refinance auto loan", Impact: 45},
		},
		BudgetCategories: map[string]BudgetUsage{
			"Housing":        {Current: 1700, Limit: 2000},
			"Food":           {Current: 540, Limit: 750},
			"Transportation": {Current: 225, Limit: 500},
		},
		SavingsGoals: []SavingsGoal{
			{Name: "Emergency Fund", Current: 3500, Target: 5000},
			{Name: "Vacation Fund", Current: 1200, Target: 2500},
		},
	}
}

// Analysis returns year-over-year figures in 2000..2999 alongside a fixed
// category split, savings trajectory and insights.
func (g *Generator) Analysis() Analysis {
	g.mu.Lock()
	current := g.monthly(2000, 1000)
	previous := g.monthly(2000, 1000)
	g.mu.Unlock()

	return Analysis{
		CategorySpending: Series{
			Labels: []string{"Housing", "Food", "Transportation", "Utilities", "Entertainment", "Others"},
			Data:   []int{35, 20, 15, 10, 10, 10},
		},
		YearComparison: YearComparison{
			Labels:       labels(),
			CurrentYear:  current,
			PreviousYear: previous,
		},
		SavingsTrajectory: Trajectory{
			Labels:    labels(),
			Projected: []int{500, 1000, 1500, 2000, 2500, 3000},
			Actual:    []int{500, 1200, 1800, 2500, 3200, 4000},
		},
		Insights: []string{
			"Your dining expenses increased 15% compared to last month",
			"You're on track to reach your emergency fund goal 2 months early",
			"Utility costs are 20% below average for your area",
			"Consider refinancing your mortgage to save $200/month",
		},
	}
}

func labels() []string {
	return append([]string(nil), halfYear...)
}
