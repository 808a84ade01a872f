package checks

import (
	"bods-validate/internal/core"
	"bods-validate/internal/types"
)

// beneficialOwnershipParty reports beneficial ownership interests whose
// interested party is not a person statement.
type beneficialOwnershipParty struct {
	baseCheck
}

func newBeneficialOwnershipParty(env *Env) Check {
	return &beneficialOwnershipParty{baseCheck: newBase(env, "beneficial_ownership_party")}
}

func (c *beneficialOwnershipParty) OwnershipFirstPass(s core.Statement) {
	acc := c.accessor()
	if acc.InterestedParty(s).Kind == types.PartyKindPerson {
		return
	}
	for _, interest := range acc.Interests(s) {
		if core.IsTrue(interest, "beneficialOwnershipOrControl") {
			c.report(types.NewCheckResult("statement_is_beneficial_ownership_or_control_but_no_person_specified").
				With("statement", c.id(s)))
			return
		}
	}
}

// subtypes allowed per entity type.  Types not listed take no subtype.
var (
	flatEntitySubtypes = map[string][]string{
		"stateBody": {"governmentDepartment", "stateAgency", "other"},
	}
	recordEntitySubtypes = map[string][]string{
		"stateBody":   {"governmentDepartment", "stateAgency", "other"},
		"arrangement": {"trust", "nomination", "other"},
	}
)

type entitySubtype struct {
	baseCheck
}

func newEntitySubtype(env *Env) Check {
	return &entitySubtype{baseCheck: newBase(env, "entity_subtype")}
}

func (c *entitySubtype) EntityFirstPass(s core.Statement) {
	acc := c.accessor()
	subtype, ok := acc.EntitySubtype(s)
	if !ok {
		return
	}
	entityType := acc.EntityType(s)
	allowed := flatEntitySubtypes
	if acc.RecordBased() {
		allowed = recordEntitySubtypes
	}
	for _, candidate := range allowed[entityType] {
		if candidate == subtype {
			return
		}
	}
	c.report(types.NewCheckResult("entity_subtype_not_allowed_for_entity_type").
		With("entity_type", entityType).
		With("entity_subtype", subtype).
		With("statement", c.id(s)))
}

// publicListing checks publicListing for internal consistency.
type publicListing struct {
	baseCheck
}

func newPublicListing(env *Env) Check {
	return &publicListing{baseCheck: newBase(env, "public_listing")}
}

func (c *publicListing) EntityFirstPass(s core.Statement) {
	listing, ok := core.ObjectOf(c.accessor().Details(s), "publicListing")
	if !ok {
		return
	}
	hasListing, declared := core.BoolOf(listing, "hasPublicListing")
	if declared && !hasListing &&
		(core.NonEmpty(listing, "companyFilingsURLs") || core.NonEmpty(listing, "securitiesListings")) {
		c.report(types.NewCheckResult("has_public_listing_information_but_has_public_listing_is_false").
			With("statement", c.id(s)))
	}
	for _, security := range core.ArrayOf(listing, "securitiesListings") {
		mic, hasMic := core.StringOf(security, "marketIdentifierCode")
		operating, hasOperating := core.StringOf(security, "operatingMarketIdentifierCode")
		hasMic = hasMic && mic != ""
		hasOperating = hasOperating && operating != ""
		switch {
		case hasMic && !hasOperating:
			c.report(types.NewCheckResult("entity_security_listing_market_identifier_code_set_but_not_operating_market_identifier_code").
				With("statement", c.id(s)))
		case hasOperating && !hasMic:
			c.report(types.NewCheckResult("entity_security_listing_operating_market_identifier_code_set_but_not_market_identifier_code").
				With("statement", c.id(s)))
		}
	}
}
