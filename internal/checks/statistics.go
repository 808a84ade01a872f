package checks

import (
	"strconv"

	"bods-validate/internal/core"
	"bods-validate/internal/types"
)

const (
	statEntityStatements           = "count_entity_statements"
	statEntityTypes                = "count_entity_statements_types"
	statEntityTypesWithIdentifier  = "count_entity_statements_types_with_any_identifier"
	statEntityTypesWithIDAndScheme = "count_entity_statements_types_with_any_identifier_with_id_and_scheme"
	statPersonStatements           = "count_person_statements"
	statPersonTypes                = "count_person_statements_types"
	statPersonPepStatus            = "count_person_statements_have_pep_status"
	statPersonPepMissingInfo       = "count_person_statements_have_pep_status_and_reason_missing_info"
	statOwnershipStatements        = "count_ownership_or_control_statement"
	statOwnershipPartyPerson       = "count_ownership_or_control_statement_interested_party_with_person"
	statOwnershipPartyEntity       = "count_ownership_or_control_statement_interested_party_with_entity"
	statOwnershipPartyUnspecified  = "count_ownership_or_control_statement_interested_party_with_unspecified"
	statOwnershipInterestTypes     = "count_ownership_or_control_statement_interest_statement_types"
	statOwnershipInterestLevel     = "count_ownership_or_control_statement_interest_direct_or_indirect"
	statOwnershipByYear            = "count_ownership_or_control_statement_by_year"
)

var statisticKeys = []string{
	statEntityStatements,
	statEntityTypes,
	statEntityTypesWithIdentifier,
	statEntityTypesWithIDAndScheme,
	statPersonStatements,
	statPersonTypes,
	statPersonPepStatus,
	statPersonPepMissingInfo,
	statOwnershipStatements,
	statOwnershipPartyPerson,
	statOwnershipPartyEntity,
	statOwnershipPartyUnspecified,
	statOwnershipInterestTypes,
	statOwnershipInterestLevel,
	statOwnershipByYear,
}

// statistics counts statements by type and a few of their properties.
// Interested parties are counted in the second pass so record-based
// relationships can look up the type of the record they point at.
type statistics struct {
	baseCheck

	entities               int
	entityTypes            map[string]int
	entityTypesIdentified  map[string]int
	entityTypesIDAndScheme map[string]int
	persons                int
	personTypes            map[string]int
	pepStatus              int
	pepMissingInfo         int
	ownerships             int
	partyPerson            int
	partyEntity            int
	partyUnspecified       int
	interestTypes          map[string]int
	interestDirectIndirect map[string]int
	ownershipsByYear       map[string]int
	recordTypes            map[string]types.RecordType
}

func newStatistics(env *Env) Check {
	return &statistics{
		baseCheck:              newBase(env, "statistics"),
		entityTypes:            map[string]int{},
		entityTypesIdentified:  map[string]int{},
		entityTypesIDAndScheme: map[string]int{},
		personTypes:            map[string]int{},
		interestTypes:          map[string]int{},
		interestDirectIndirect: map[string]int{},
		ownershipsByYear:       map[string]int{},
		recordTypes:            map[string]types.RecordType{},
	}
}

func (c *statistics) StatementFirstPass(s core.Statement) {
	acc := c.accessor()
	if id := acc.RecordID(s); id != "" {
		c.recordTypes[id] = types.RecordType(acc.RecordTypeRaw(s))
	}
}

func (c *statistics) EntityFirstPass(s core.Statement) {
	acc := c.accessor()
	c.entities++
	entityType := acc.EntityType(s)
	if entityType != "" {
		c.entityTypes[entityType]++
	}
	identifiers := acc.Identifiers(s)
	if len(identifiers) == 0 {
		return
	}
	c.entityTypesIdentified[entityType]++
	for _, identifier := range identifiers {
		_, hasID := core.StringOf(identifier, "id")
		_, hasScheme := core.StringOf(identifier, "scheme")
		if hasID && hasScheme {
			c.entityTypesIDAndScheme[entityType]++
			return
		}
	}
}

func (c *statistics) PersonFirstPass(s core.Statement) {
	acc := c.accessor()
	c.persons++
	if personType := acc.PersonType(s); personType != "" {
		c.personTypes[personType]++
	}

	details := acc.Details(s)
	if acc.Before("0.3") {
		if core.IsTrue(details, "hasPepStatus") {
			c.pepStatus++
		}
		return
	}
	status, ok := core.StringOf(details, "politicalExposure.status")
	if !ok {
		return
	}
	if status == "isPep" {
		c.pepStatus++
	}
	for _, entry := range core.ArrayOf(details, "politicalExposure.details") {
		if entry.IsObject() && entry.Get("missingInfoReason").Exists() {
			c.pepMissingInfo++
			break
		}
	}
}

func (c *statistics) OwnershipFirstPass(s core.Statement) {
	acc := c.accessor()
	c.ownerships++
	for _, interest := range acc.Interests(s) {
		if interestType, ok := core.StringOf(interest, "type"); ok {
			c.interestTypes[interestType]++
		}
		if level, ok := acc.DirectOrIndirect(interest); ok {
			c.interestDirectIndirect[level]++
		}
	}
	if date := acc.StatementDate(s); len(date) >= 4 {
		if _, err := strconv.Atoi(date[:4]); err == nil {
			c.ownershipsByYear[date[:4]]++
		}
	}
}

func (c *statistics) OwnershipSecondPass(s core.Statement) {
	party := c.accessor().InterestedParty(s)
	kind := party.Kind
	if kind == types.PartyKindRecord {
		switch c.recordTypes[party.ID] {
		case types.RecordTypePerson:
			kind = types.PartyKindPerson
		case types.RecordTypeEntity:
			kind = types.PartyKindEntity
		}
	}
	switch kind {
	case types.PartyKindPerson:
		c.partyPerson++
	case types.PartyKindEntity:
		c.partyEntity++
	case types.PartyKindUnspecified:
		c.partyUnspecified++
	}
}

func (c *statistics) Finalize() {
	c.stats[statEntityStatements] = c.entities
	c.stats[statEntityTypes] = c.entityTypes
	c.stats[statEntityTypesWithIdentifier] = c.entityTypesIdentified
	c.stats[statEntityTypesWithIDAndScheme] = c.entityTypesIDAndScheme
	c.stats[statPersonStatements] = c.persons
	c.stats[statPersonTypes] = c.personTypes
	c.stats[statOwnershipStatements] = c.ownerships
	c.stats[statOwnershipPartyPerson] = c.partyPerson
	c.stats[statOwnershipPartyEntity] = c.partyEntity
	c.stats[statOwnershipPartyUnspecified] = c.partyUnspecified
	c.stats[statOwnershipInterestTypes] = c.interestTypes
	c.stats[statOwnershipByYear] = c.ownershipsByYear

	acc := c.accessor()
	if acc.AtLeast("0.2") {
		c.stats[statPersonPepStatus] = c.pepStatus
	}
	if acc.AtLeast("0.3") {
		c.stats[statPersonPepMissingInfo] = c.pepMissingInfo
		c.stats[statOwnershipInterestLevel] = c.interestDirectIndirect
	}
}
