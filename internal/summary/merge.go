package summary

// SchoolStatus classifies a merged school by observed engagement.
type SchoolStatus string

const (
	// SchoolStatusActive marks schools with teachers and more than one project.
	SchoolStatusActive SchoolStatus = "active"
	// SchoolStatusPartial marks schools with some teachers or projects.
	SchoolStatusPartial SchoolStatus = "partial"
	// SchoolStatusOnboarding marks schools with no activity yet.
	SchoolStatusOnboarding SchoolStatus = "onboarding"
)

// MergedSchool is one deduplicated school row for cross-program dashboard
// views.
type MergedSchool struct {
	Name     string
	Country  string
	Students int
	Teachers int
	Projects int
	Status   SchoolStatus
}

// MergeSchools deduplicates institutions across summaries by name. Two
// institutions sharing a name are treated as one physical school: teacher
// and project counts sum, student counts take the maximum observed value so
// a school appearing in multiple program contexts is not double counted.
// Rows come back in first-seen order.
func MergeSchools(summaries []ProgramSummary) []MergedSchool {
	index := make(map[string]int)
	var merged []MergedSchool

	for _, summary := range summaries {
		teachersByInstitution := make(map[string]int)
		for _, teacher := range summary.Teachers {
			teachersByInstitution[teacher.InstitutionID]++
		}
		projectsByInstitution := make(map[string]int)
		for _, project := range summary.Projects {
			if project.InstitutionID != "" {
				projectsByInstitution[project.InstitutionID]++
			}
		}

		for _, institution := range summary.Institutions {
			teachers := teachersByInstitution[institution.ID]
			projects := projectsByInstitution[institution.ID]

			at, seen := index[institution.Name]
			if !seen {
				index[institution.Name] = len(merged)
				merged = append(merged, MergedSchool{
					Name:     institution.Name,
					Country:  institution.Country,
					Students: institution.StudentCount,
					Teachers: teachers,
					Projects: projects,
				})
				continue
			}

			merged[at].Teachers += teachers
			merged[at].Projects += projects
			if institution.StudentCount > merged[at].Students {
				merged[at].Students = institution.StudentCount
			}
		}
	}

	for i := range merged {
		merged[i].Status = classifySchool(merged[i].Teachers, merged[i].Projects)
	}
	return merged
}

func classifySchool(teachers, projects int) SchoolStatus {
	switch {
	case teachers > 0 && projects > 1:
		return SchoolStatusActive
	case teachers > 0 || projects > 0:
		return SchoolStatusPartial
	default:
		return SchoolStatusOnboarding
	}
}
