package checks

import (
	"regexp"
	"slices"

	"golang.org/x/text/language"

	"bods-validate/internal/core"
	"bods-validate/internal/types"
)

// entityIdentifierScheme reports entity identifier schemes that are not
// org-id list prefixes.
type entityIdentifierScheme struct {
	baseCheck
}

func newEntityIdentifierScheme(env *Env) Check {
	return &entityIdentifierScheme{baseCheck: newBase(env, "entity_identifier_scheme")}
}

func (c *entityIdentifierScheme) EntityFirstPass(s core.Statement) {
	if c.env.Prefixes == nil {
		return
	}
	for _, identifier := range c.accessor().Identifiers(s) {
		scheme, ok := core.StringOf(identifier, "scheme")
		if !ok {
			continue
		}
		if _, known := c.env.Prefixes[scheme]; known {
			continue
		}
		c.report(types.NewCheckResult("entity_identifier_scheme_not_known").
			With("scheme", scheme).
			With("statement", c.id(s)))
	}
}

var personSchemePattern = regexp.MustCompile(`^([A-Z]{3})-(PASSPORT|TAXID|IDCARD)$`)

// personIdentifierScheme checks the COUNTRY-TYPE composition of person
// identifier schemes.
type personIdentifierScheme struct {
	baseCheck
}

func newPersonIdentifierScheme(env *Env) Check {
	return &personIdentifierScheme{baseCheck: newBase(env, "person_identifier_scheme")}
}

func (c *personIdentifierScheme) PersonFirstPass(s core.Statement) {
	for _, identifier := range c.accessor().Identifiers(s) {
		scheme, ok := core.StringOf(identifier, "scheme")
		if !ok {
			continue
		}
		match := personSchemePattern.FindStringSubmatch(scheme)
		if match == nil {
			c.report(types.NewCheckResult("person_identifier_scheme_invalid_composition").
				With("scheme", scheme).
				With("statement", c.id(s)))
			continue
		}
		if !c.knownCountry(match[1]) {
			c.report(types.NewCheckResult("person_identifier_scheme_unknown_country").
				With("scheme", scheme).
				With("country", match[1]).
				With("statement", c.id(s)))
		}
	}
}

func (c *personIdentifierScheme) knownCountry(code string) bool {
	if slices.Contains(c.env.Config.PersonIdentifierCountryExceptions, code) {
		return true
	}
	return IsCountryAlpha3(code)
}

// IsCountryAlpha3 reports whether code is an ISO 3166-1 alpha-3 country.
func IsCountryAlpha3(code string) bool {
	region, err := language.ParseRegion(code)
	if err != nil {
		return false
	}
	return region.IsCountry() && region.ISO3() == code
}
