/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY:
  Study definitions (factory.StudyJSON) carry exact decimal strings so a
  definition can be saved and reloaded without drift. Projection output is
  for charts and tables, so amounts are plain JSON numbers.

TYPES:
  Studies:
    StudySummaryDTO, factory.StudyJSON (create/get)

  Projections:
    ProjectionDTO, YearDTO, PolicyBalanceDTO, TrajectoryDTO,
    CategoryTotalDTO, CriticalComponentDTO, TotalsDTO

  Portfolio:
    PortfolioDTO, PortfolioStudyDTO

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

SEE ALSO:
  - handlers.go: Uses these types
  - factory/study.go: StudyJSON type
*/
package api

import (
	"time"

	"github.com/warp/reserve-engine/factory"
	"github.com/warp/reserve-engine/reserve"
	"github.com/warp/reserve-engine/study"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// StudySummaryDTO is one row of the study list.
type StudySummaryDTO struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address,omitempty"`
	ComponentCount int       `json:"component_count"`
	StartYear      int       `json:"start_year"`
	HorizonYears   int       `json:"horizon_years"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StudyDTO is a full study definition plus bookkeeping timestamps.
type StudyDTO struct {
	factory.StudyJSON
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectionDTO is the full projection of one study.
type ProjectionDTO struct {
	StudyID        string                 `json:"study_id,omitempty"`
	PropertyName   string                 `json:"property_name"`
	StartYear      int                    `json:"start_year"`
	HorizonYears   int                    `json:"horizon_years"`
	SelectedPolicy string                 `json:"selected_policy,omitempty"`
	Years          []YearDTO              `json:"years"`
	Policies       []TrajectoryDTO        `json:"policies"`
	Categories     []CategoryTotalDTO     `json:"categories"`
	Critical       []CriticalComponentDTO `json:"critical"`
	Totals         TotalsDTO              `json:"totals"`
}

// YearDTO is one row of the projection table.
type YearDTO struct {
	Offset       int                `json:"offset"`
	Year         int                `json:"year"`
	Expenditures float64            `json:"expenditures"`
	Balances     []PolicyBalanceDTO `json:"balances"`
}

type PolicyBalanceDTO struct {
	Policy  string  `json:"policy"`
	Balance float64 `json:"balance"`
}

// TrajectoryDTO is one funding policy's balance series and solvency summary.
type TrajectoryDTO struct {
	Policy             string    `json:"policy"`
	AnnualContribution float64   `json:"annual_contribution"`
	Balances           []float64 `json:"balances"`
	EndingBalance      float64   `json:"ending_balance"`
	MinBalance         float64   `json:"min_balance"`
	MinBalanceYear     *int      `json:"min_balance_year,omitempty"`
	FirstDeficitYear   *int      `json:"first_deficit_year,omitempty"`
	Solvent            bool      `json:"solvent"`
	Selected           bool      `json:"selected,omitempty"`
}

type CategoryTotalDTO struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// CriticalComponentDTO is a component due within the critical threshold.
type CriticalComponentDTO struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	RemainingLife   float64 `json:"remaining_life"`
	ReplacementYear int     `json:"replacement_year"`
	ReplacementCost float64 `json:"replacement_cost"`
	Condition       string  `json:"condition,omitempty"`
	Urgency         string  `json:"urgency"`
}

type TotalsDTO struct {
	ComponentCount       int     `json:"component_count"`
	TotalReplacementCost float64 `json:"total_replacement_cost"`
	ScheduledCost        float64 `json:"scheduled_cost"`
	UnscheduledCost      float64 `json:"unscheduled_cost"`
	StartingBalance      float64 `json:"starting_balance"`
}

// PortfolioDTO summarizes every stored study.
type PortfolioDTO struct {
	Studies []PortfolioStudyDTO `json:"studies"`
}

type PortfolioStudyDTO struct {
	StudyID        string          `json:"study_id"`
	PropertyName   string          `json:"property_name"`
	SelectedPolicy string          `json:"selected_policy,omitempty"`
	CriticalCount  int             `json:"critical_count"`
	Policies       []TrajectoryDTO `json:"policies"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest is the request body for loading a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toStudySummaryDTO(s study.Summary) StudySummaryDTO {
	return StudySummaryDTO{
		ID:             s.ID,
		Name:           s.Name,
		Address:        s.Address,
		ComponentCount: s.ComponentCount,
		StartYear:      s.StartYear,
		HorizonYears:   s.HorizonYears,
		UpdatedAt:      s.UpdatedAt,
	}
}

func toProjectionDTO(p *study.Projection) ProjectionDTO {
	r := p.Result
	dto := ProjectionDTO{
		StudyID:        p.Study.ID,
		PropertyName:   p.Study.Property.Name,
		StartYear:      r.StartYear,
		HorizonYears:   r.HorizonYears,
		SelectedPolicy: p.Study.SelectedPolicy,
		Years:          make([]YearDTO, len(r.Years)),
		Policies:       toTrajectoryDTOs(r, p.Study.SelectedPolicy),
		Categories:     make([]CategoryTotalDTO, len(r.Categories)),
		Critical:       toCriticalDTOs(r.Critical, r.StartYear),
		Totals: TotalsDTO{
			ComponentCount:       r.Totals.ComponentCount,
			TotalReplacementCost: r.Totals.TotalReplacementCost.InexactFloat64(),
			ScheduledCost:        r.Totals.ScheduledCost.InexactFloat64(),
			UnscheduledCost:      r.Totals.UnscheduledCost.InexactFloat64(),
			StartingBalance:      r.Totals.StartingBalance.InexactFloat64(),
		},
	}
	for i, y := range r.Years {
		row := YearDTO{
			Offset:       y.OffsetYear,
			Year:         y.CalendarYear,
			Expenditures: y.Expenditures.InexactFloat64(),
			Balances:     make([]PolicyBalanceDTO, len(y.Balances)),
		}
		for j, b := range y.Balances {
			row.Balances[j] = PolicyBalanceDTO{Policy: b.Policy, Balance: b.Balance.InexactFloat64()}
		}
		dto.Years[i] = row
	}
	for i, c := range r.Categories {
		dto.Categories[i] = toCategoryDTO(c)
	}
	return dto
}

func toTrajectoryDTOs(r *reserve.ProjectionResult, selected string) []TrajectoryDTO {
	out := make([]TrajectoryDTO, len(r.Trajectories))
	for i, t := range r.Trajectories {
		dto := TrajectoryDTO{
			Policy:             t.Policy,
			AnnualContribution: t.AnnualContribution.InexactFloat64(),
			Balances:           make([]float64, len(t.Balances)),
			EndingBalance:      t.EndingBalance.InexactFloat64(),
			MinBalance:         t.MinBalance.InexactFloat64(),
			Solvent:            t.Solvent(),
			Selected:           t.Policy == selected,
		}
		for j, b := range t.Balances {
			dto.Balances[j] = b.InexactFloat64()
		}
		if t.MinOffsetYear >= 0 {
			y := r.StartYear + t.MinOffsetYear
			dto.MinBalanceYear = &y
		}
		if t.FirstDeficitOffset >= 0 {
			y := r.StartYear + t.FirstDeficitOffset
			dto.FirstDeficitYear = &y
		}
		out[i] = dto
	}
	return out
}

func toCategoryDTO(c reserve.CategoryTotal) CategoryTotalDTO {
	return CategoryTotalDTO{Category: c.Category, Total: c.Total.InexactFloat64(), Count: c.Count}
}

func toCriticalDTOs(items []reserve.CriticalComponent, startYear int) []CriticalComponentDTO {
	out := make([]CriticalComponentDTO, len(items))
	for i, cc := range items {
		c := cc.Component
		out[i] = CriticalComponentDTO{
			ID:              c.ID,
			Name:            c.Name,
			Category:        c.Category,
			RemainingLife:   c.RemainingLife,
			ReplacementYear: startYear + c.ReplacementOffset(),
			ReplacementCost: c.ReplacementCost.InexactFloat64(),
			Condition:       string(c.Condition),
			Urgency:         string(cc.Urgency),
		}
	}
	return out
}

func toStudyDTO(f *factory.StudyFactory, st study.Study) StudyDTO {
	return StudyDTO{
		StudyJSON: f.ToJSON(st),
		CreatedAt: st.CreatedAt,
		UpdatedAt: st.UpdatedAt,
	}
}
