package summary

import (
	"sort"

	"github.com/darajahq/daraja/internal/domain"
)

// CountryImpact is one country's rollup across all of a partner's program
// summaries. Institutions, Teachers and Projects are distinct-id counts, so
// an entity referenced from two programs counts once. Students is a plain
// sum per occurrence.
type CountryImpact struct {
	Country           string
	Institutions      int
	Teachers          int
	Projects          int
	Students          int
	CompletedProjects int
	EngagementScore   float64
}

type countryAccumulator struct {
	country      string
	institutions map[string]struct{}
	teachers     map[string]struct{}
	projects     map[string]struct{}
	completed    map[string]struct{}
	students     int
}

// ComputeCountryImpact aggregates summaries into per-country impact rows,
// sorted by student count descending with project count as tiebreaker.
func ComputeCountryImpact(summaries []ProgramSummary) []CountryImpact {
	accumulators := make(map[string]*countryAccumulator)
	var order []string

	accumulatorFor := func(country string) *countryAccumulator {
		acc, ok := accumulators[country]
		if !ok {
			acc = &countryAccumulator{
				country:      country,
				institutions: make(map[string]struct{}),
				teachers:     make(map[string]struct{}),
				projects:     make(map[string]struct{}),
				completed:    make(map[string]struct{}),
			}
			accumulators[country] = acc
			order = append(order, country)
		}
		return acc
	}

	for _, summary := range summaries {
		countryByInstitution := make(map[string]string)
		for _, institution := range summary.Institutions {
			if institution.Country == "" {
				continue
			}
			countryByInstitution[institution.ID] = institution.Country
			acc := accumulatorFor(institution.Country)
			acc.students += institution.StudentCount
			acc.institutions[institution.ID] = struct{}{}
		}
		for _, teacher := range summary.Teachers {
			country, ok := countryByInstitution[teacher.InstitutionID]
			if !ok {
				continue
			}
			accumulatorFor(country).teachers[teacher.ID] = struct{}{}
		}
		for _, project := range summary.Projects {
			country, ok := countryByInstitution[project.InstitutionID]
			if !ok {
				continue
			}
			acc := accumulatorFor(country)
			acc.projects[project.Project.ID] = struct{}{}
			if project.Project.Status == domain.ProjectStatusCompleted {
				acc.completed[project.Project.ID] = struct{}{}
			}
		}
	}

	impacts := make([]CountryImpact, 0, len(order))
	for _, country := range order {
		acc := accumulators[country]
		impact := CountryImpact{
			Country:           country,
			Institutions:      len(acc.institutions),
			Teachers:          len(acc.teachers),
			Projects:          len(acc.projects),
			Students:          acc.students,
			CompletedProjects: len(acc.completed),
		}
		impact.EngagementScore = engagementScore(impact.Teachers, impact.Projects, impact.CompletedProjects)
		impacts = append(impacts, impact)
	}

	sort.SliceStable(impacts, func(i, j int) bool {
		if impacts[i].Students != impacts[j].Students {
			return impacts[i].Students > impacts[j].Students
		}
		return impacts[i].Projects > impacts[j].Projects
	})
	return impacts
}

// engagementScore is a display heuristic carried over for parity, not a
// measured quantity.
func engagementScore(teachers, projects, completed int) float64 {
	if teachers < 1 || projects < 1 {
		return 3.6
	}
	divisor := projects
	if divisor < 1 {
		divisor = 1
	}
	return 4.0 + float64(completed)/float64(divisor)*0.5
}
