// Package main prints partner dashboards: per-program summaries, the merged
// school table and country impact rows, resolved from a local database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/darajahq/daraja/internal/platform/config"
	"github.com/darajahq/daraja/internal/platform/countries"
	"github.com/darajahq/daraja/internal/platform/otel"
	"github.com/darajahq/daraja/internal/storage/sqlite"
	"github.com/darajahq/daraja/internal/summary"
)

type appConfig struct {
	DBPath    string `env:"DARAJA_DB_PATH" envDefault:"daraja.db"`
	PartnerID string `env:"DARAJA_PARTNER_ID"`
}

func main() {
	var cfg appConfig
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("Error: %v", err)
	}
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the sqlite database")
	flag.StringVar(&cfg.PartnerID, "partner", cfg.PartnerID, "partner id to render dashboards for")
	related := flag.Bool("related", false, "include programs the partner joined as co-partner")
	flag.Parse()

	if strings.TrimSpace(cfg.PartnerID) == "" {
		config.Exitf("Error: a partner id is required (-partner or DARAJA_PARTNER_ID)")
	}

	ctx := context.Background()
	shutdown, err := otel.Setup(ctx, "daraja")
	if err != nil {
		log.Printf("otel setup: %v", err)
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Printf("otel shutdown: %v", err)
			}
		}()
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	defer store.Close()

	var opts []summary.Option
	if *related {
		opts = append(opts, summary.IncludeRelatedPrograms())
	}
	summaries, err := summary.NewService(store).ProgramSummariesForPartner(ctx, cfg.PartnerID, opts...)
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	if len(summaries) == 0 {
		fmt.Printf("No programs found for partner %s\n", cfg.PartnerID)
		return
	}

	printSummaries(summaries)
	printSchools(summary.MergeSchools(summaries))
	printImpact(summary.ComputeCountryImpact(summaries))
}

func printSummaries(summaries []summary.ProgramSummary) {
	for _, s := range summaries {
		fmt.Printf("Program: %s [%s]\n", s.Program.Name, s.Program.ID)
		if s.Host != nil {
			fmt.Printf("  host: %s\n", s.Host.OrganizationName)
		}
		m := s.Metrics
		fmt.Printf("  institutions: %d  teachers: %d  students: %d\n",
			m.InstitutionCount, m.TeacherCount, m.StudentCount)
		fmt.Printf("  coordinators: %d  projects: %d  pending invitations: %d\n",
			m.CoordinatorCount, m.ProjectCount, m.PendingInvitations)
		if len(m.Countries) > 0 {
			names := make([]string, 0, len(m.Countries))
			for _, code := range m.Countries {
				names = append(names, countries.Flag(code)+" "+countries.DisplayName(code))
			}
			fmt.Printf("  countries: %s\n", strings.Join(names, ", "))
		}
		fmt.Println()
	}
}

func printSchools(schools []summary.MergedSchool) {
	if len(schools) == 0 {
		return
	}
	fmt.Println("Schools (merged across programs):")
	for _, school := range schools {
		fmt.Printf("  %-28s %s  students: %-5d teachers: %-3d projects: %-3d %s\n",
			school.Name, countries.Flag(school.Country), school.Students,
			school.Teachers, school.Projects, school.Status)
	}
	fmt.Println()
}

func printImpact(impacts []summary.CountryImpact) {
	if len(impacts) == 0 {
		return
	}
	fmt.Println("Country impact:")
	for _, impact := range impacts {
		fmt.Printf("  %s %-20s students: %-6d schools: %-3d teachers: %-3d projects: %d/%d  engagement: %.2f\n",
			countries.Flag(impact.Country), countries.DisplayName(impact.Country),
			impact.Students, impact.Institutions, impact.Teachers,
			impact.CompletedProjects, impact.Projects, impact.EngagementScore)
	}
}
