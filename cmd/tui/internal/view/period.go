package view

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
)

// Period is a reporting window over invoice issue dates. SRI declarations are
// monthly (IVA) or semiannual (RIMPE), so those are the presets offered.
type Period string

const (
	PeriodAll            Period = "all"
	PeriodThisMonth      Period = "this_month"
	PeriodLastMonth      Period = "last_month"
	PeriodFirstSemester  Period = "first_semester"
	PeriodSecondSemester Period = "second_semester"
	PeriodThisYear       Period = "this_year"
	PeriodLastYear       Period = "last_year"
	PeriodCustom         Period = "custom"
)

var periodLabels = map[Period]string{
	PeriodAll:            "All invoices",
	PeriodThisMonth:      "This month",
	PeriodLastMonth:      "Last month (IVA declaration)",
	PeriodFirstSemester:  "January to June",
	PeriodSecondSemester: "July to December",
	PeriodThisYear:       "This fiscal year",
	PeriodLastYear:       "Last fiscal year",
	PeriodCustom:         "Custom range",
}

func (p Period) String() string {
	if l, ok := periodLabels[p]; ok {
		return l
	}

	return string(p)
}

// Range returns the first and last instant of p relative to now. PeriodAll and
// PeriodCustom have no fixed range and return ok=false. Semesters refer to the
// current year.
func (p Period) Range(now time.Time) (start, end time.Time, ok bool) {
	year, month := now.Year(), now.Month()

	switch p {
	case PeriodThisMonth:
		start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
	case PeriodLastMonth:
		start = time.Date(year, month-1, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
	case PeriodFirstSemester:
		start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 6, 0)
	case PeriodSecondSemester:
		start = time.Date(year, time.July, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 6, 0)
	case PeriodThisYear:
		start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(1, 0, 0)
	case PeriodLastYear:
		start = time.Date(year-1, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(1, 0, 0)
	default:
		return time.Time{}, time.Time{}, false
	}

	return start, end.Add(-time.Nanosecond), true
}

// ParseCustomRange parses two YYYY-MM-DD dates into an inclusive range.
func ParseCustomRange(from, to string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.DateOnly, strings.TrimSpace(from))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("start date must be YYYY-MM-DD")
	}

	end, err := time.Parse(time.DateOnly, strings.TrimSpace(to))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("end date must be YYYY-MM-DD")
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("end date is before start date")
	}

	return start, end.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
}

// periodSelection holds the values bound to a period form. It is shared by
// pointer so copies of the owning bubbletea model see the same answers.
type periodSelection struct {
	period Period
	from   string
	to     string
}

// Bounds resolves the selection into optional filter bounds; nil means unbounded.
func (s *periodSelection) Bounds(now time.Time) (*time.Time, *time.Time, error) {
	if s.period == PeriodCustom {
		start, end, err := ParseCustomRange(s.from, s.to)
		if err != nil {
			return nil, nil, err
		}

		return &start, &end, nil
	}

	start, end, ok := s.period.Range(now)
	if !ok {
		return nil, nil, nil
	}

	return &start, &end, nil
}

// periodGroups returns the form groups asking for a period: a preset select and,
// only for PeriodCustom, the two dates.
func periodGroups(sel *periodSelection, presets ...Period) []*huh.Group {
	options := make([]huh.Option[Period], 0, len(presets)+1)
	for _, p := range presets {
		options = append(options, huh.NewOption(p.String(), p))
	}

	options = append(options, huh.NewOption(PeriodCustom.String(), PeriodCustom))

	return []*huh.Group{
		huh.NewGroup(
			huh.NewSelect[Period]().
				Title("Invoice period").
				Description("Filters on the invoice issue date").
				Options(options...).
				Value(&sel.period),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("From").
				Placeholder("YYYY-MM-DD").
				Value(&sel.from).
				Validate(func(s string) error {
					_, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
					if err != nil {
						return errors.New("use YYYY-MM-DD")
					}

					return nil
				}),
			huh.NewInput().
				Title("To").
				Placeholder("YYYY-MM-DD").
				Value(&sel.to).
				Validate(func(s string) error {
					_, _, err := ParseCustomRange(sel.from, s)
					return err
				}),
		).WithHideFunc(func() bool { return sel.period != PeriodCustom }),
	}
}
