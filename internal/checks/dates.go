package checks

import (
	"time"

	"github.com/tidwall/gjson"

	"bods-validate/internal/core"
	"bods-validate/internal/types"
)

// maxLifespanDays is roughly 120 years.
const maxLifespanDays = 43830

// parseDate accepts YYYY, YYYY-MM and YYYY-MM-DD, and date-times whose
// first ten characters are a date.  Missing month and day default to 1.
func parseDate(value string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	if len(value) > 10 {
		if parsed, err := time.Parse("2006-01-02", value[:10]); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func dateAt(r gjson.Result, path string) (time.Time, bool) {
	value, ok := core.StringOf(r, path)
	if !ok {
		return time.Time{}, false
	}
	return parseDate(value)
}

// personDates checks birth and death dates against the configured year
// window, today, and each other.
type personDates struct {
	baseCheck
}

func newPersonDates(env *Env) Check {
	return &personDates{baseCheck: newBase(env, "person_dates")}
}

func (c *personDates) maxYear() int {
	if c.env.Config.MaxBirthYear != 0 {
		return c.env.Config.MaxBirthYear
	}
	return c.env.Today().Year()
}

func (c *personDates) PersonFirstPass(s core.Statement) {
	details := c.accessor().Details(s)
	today := c.env.Today()

	birth, hasBirth := dateAt(details, "birthDate")
	if hasBirth {
		c.checkYear(s, "birth", birth)
		if birth.After(today) {
			c.report(types.NewCheckResult("person_birth_date_in_future").With("statement", c.id(s)))
		}
	}
	death, hasDeath := dateAt(details, "deathDate")
	if !hasDeath {
		return
	}
	c.checkYear(s, "death", death)
	if death.After(today) {
		c.report(types.NewCheckResult("person_death_date_in_future").With("statement", c.id(s)))
	}
	if !hasBirth {
		return
	}
	if death.Before(birth) {
		c.report(types.NewCheckResult("person_death_date_before_birth_date").With("statement", c.id(s)))
		return
	}
	if death.Sub(birth) > maxLifespanDays*24*time.Hour {
		c.report(types.NewCheckResult("person_death_date_too_far_from_birth_date").With("statement", c.id(s)))
	}
}

func (c *personDates) checkYear(s core.Statement, event string, date time.Time) {
	year := date.Year()
	switch {
	case year < c.env.Config.MinBirthYear:
		c.report(types.NewCheckResult("person_"+event+"_year_too_early").
			With("year", year).
			With("statement", c.id(s)))
	case year > c.maxYear():
		c.report(types.NewCheckResult("person_"+event+"_year_too_late").
			With("year", year).
			With("statement", c.id(s)))
	}
}

// futureDates compares the dates a record statement carries about itself
// with today.  Only the calendar date is compared.
type futureDates struct {
	baseCheck
}

func newFutureDates(env *Env) Check {
	return &futureDates{baseCheck: newBase(env, "future_dates")}
}

func (c *futureDates) StatementFirstPass(s core.Statement) {
	today := c.env.Today()
	inFuture := func(r gjson.Result, path string) bool {
		date, ok := dateAt(r, path)
		return ok && date.After(today)
	}
	if inFuture(s.JSON, "statementDate") {
		c.report(types.NewCheckResult("statement_date_is_in_future").With("statement", c.id(s)))
	}
	if inFuture(s.JSON, "source.retrievedAt") {
		c.report(types.NewCheckResult("statement_source_retrieved_at_is_in_future").With("statement", c.id(s)))
	}
	for _, annotation := range core.ArrayOf(s.JSON, "annotations") {
		if inFuture(annotation, "creationDate") {
			c.report(types.NewCheckResult("statement_annotation_creation_date_is_in_future").With("statement", c.id(s)))
		}
	}
	if inFuture(s.JSON, "publicationDetails.publicationDate") {
		c.report(types.NewCheckResult("statement_publication_date_is_in_future").With("statement", c.id(s)))
	}
}
