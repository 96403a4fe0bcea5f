package reports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nutritrack/internal/api"
)

type mealsLoader interface {
	LoadMeals(ctx context.Context, date string, force bool) ([]api.Meal, error)
}

type profileLoader interface {
	Profile(ctx context.Context) (*api.Profile, error)
}

// Service assembles day reports and writes them to the reports directory.
type Service struct {
	generator *Generator
	meals     mealsLoader
	account   profileLoader
	dir       string
}

func NewService(generator *Generator, meals mealsLoader, account profileLoader, dir string) *Service {
	return &Service{
		generator: generator,
		meals:     meals,
		account:   account,
		dir:       dir,
	}
}

// Export generates the report for date and writes it to disk, returning the
// file path. Meals come through the normal load path, so a fresh cache is
// reused instead of refetched. A missing profile only drops the targets
// section.
func (s *Service) Export(ctx context.Context, date string, format Format) (string, error) {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	meals, err := s.meals.LoadMeals(ctx, date, false)
	if err != nil {
		return "", fmt.Errorf("export report: %w", err)
	}

	report := DayReport{Date: date, Meals: meals}
	if s.account != nil {
		if profile, err := s.account.Profile(ctx); err == nil {
			report.Profile = profile
		}
	}

	data, err := s.generator.Generate(report, format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("nutritrack-%s.%s", report.Date, format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
