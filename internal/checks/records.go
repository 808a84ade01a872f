package checks

import (
	"slices"
	"sort"

	"bods-validate/internal/core"
	"bods-validate/internal/types"
)

// recordIndex remembers what each recordId describes.  The last statement
// of a record wins so later updates are taken into account.
type recordIndex map[string]recordInfo

type recordInfo struct {
	recordType    types.RecordType
	entityType    string
	entitySubtype string
}

func (idx recordIndex) add(acc core.Accessor, s core.Statement) {
	id := acc.RecordID(s)
	if id == "" {
		return
	}
	subtype, _ := acc.EntitySubtype(s)
	idx[id] = recordInfo{
		recordType:    types.RecordType(acc.RecordTypeRaw(s)),
		entityType:    acc.EntityType(s),
		entitySubtype: subtype,
	}
}

// declarationSubject requires declarationSubject to name an entity or
// person record of the dataset.
type declarationSubject struct {
	baseCheck
	records recordIndex
}

func newDeclarationSubject(env *Env) Check {
	return &declarationSubject{baseCheck: newBase(env, "declaration_subject"), records: recordIndex{}}
}

func (c *declarationSubject) StatementFirstPass(s core.Statement) {
	c.records.add(c.accessor(), s)
}

func (c *declarationSubject) StatementSecondPass(s core.Statement) {
	subject, ok := c.accessor().DeclarationSubject(s)
	if !ok {
		return
	}
	record, found := c.records[subject]
	switch {
	case !found:
		c.report(types.NewCheckResult("statement_declaration_subject_not_exist").
			With("declaration_subject", subject).
			With("statement", c.id(s)))
	case record.recordType != types.RecordTypeEntity && record.recordType != types.RecordTypePerson:
		c.report(types.NewCheckResult("statement_declaration_subject_not_entity_or_person").
			With("declaration_subject", subject).
			With("statement", c.id(s)))
	}
}

type seriesEntry struct {
	statement  string
	date       string
	status     types.RecordStatus
	recordType string
}

// recordSeries checks the statements of each record, ordered by
// statementDate: one recordType, at most one new and it comes first, at
// most one closed and it comes last.
type recordSeries struct {
	baseCheck
	order  []string
	series map[string][]seriesEntry
}

func newRecordSeries(env *Env) Check {
	return &recordSeries{baseCheck: newBase(env, "record_series"), series: map[string][]seriesEntry{}}
}

func (c *recordSeries) StatementFirstPass(s core.Statement) {
	acc := c.accessor()
	id := acc.RecordID(s)
	if id == "" {
		return
	}
	if _, ok := c.series[id]; !ok {
		c.order = append(c.order, id)
	}
	c.series[id] = append(c.series[id], seriesEntry{
		statement:  c.id(s),
		date:       acc.StatementDate(s),
		status:     acc.RecordStatus(s),
		recordType: acc.RecordTypeRaw(s),
	})
}

func (c *recordSeries) Finalize() {
	for _, id := range c.order {
		entries := c.series[id]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].date < entries[j].date
		})
		c.checkSeries(id, entries)
	}
}

func (c *recordSeries) checkSeries(id string, entries []seriesEntry) {
	result := func(tag string) types.CheckResult {
		return types.NewCheckResult(tag).With("record_id", id)
	}

	var recordTypes []string
	var newAt, closedAt []int
	for i, entry := range entries {
		if !slices.Contains(recordTypes, entry.recordType) {
			recordTypes = append(recordTypes, entry.recordType)
		}
		switch entry.status {
		case types.RecordStatusNew:
			newAt = append(newAt, i)
		case types.RecordStatusClosed:
			closedAt = append(closedAt, i)
		}
	}

	if len(recordTypes) > 1 {
		c.report(result("statement_series_has_mismatched_record_types").With("record_types", recordTypes))
	}
	if len(newAt) > 1 {
		c.report(result("statement_series_has_more_than_one_new"))
	}
	if len(newAt) > 0 && newAt[0] != 0 {
		c.report(result("statement_series_new_not_first").With("statement", entries[newAt[0]].statement))
	}
	if len(closedAt) > 1 {
		c.report(result("statement_series_has_more_than_one_closed"))
	}
	if len(closedAt) > 0 && closedAt[len(closedAt)-1] != len(entries)-1 {
		c.report(result("statement_series_closed_not_last").With("statement", entries[closedAt[len(closedAt)-1]].statement))
	}
}

// relationshipParties checks the roles of the records a relationship
// points at.  References to unknown records are left to record_references.
type relationshipParties struct {
	baseCheck
	records recordIndex
}

func newRelationshipParties(env *Env) Check {
	return &relationshipParties{baseCheck: newBase(env, "relationship_parties"), records: recordIndex{}}
}

func (c *relationshipParties) StatementFirstPass(s core.Statement) {
	c.records.add(c.accessor(), s)
}

var (
	nominationInterests = []string{"nominee", "nominator"}
	trustInterests      = []string{"settlor", "trustee", "protector"}
)

func (c *relationshipParties) OwnershipSecondPass(s core.Statement) {
	acc := c.accessor()
	statement := c.id(s)

	subject, subjectKnown := c.lookup(acc.Subject(s))
	if subjectKnown && subject.recordType != types.RecordTypeEntity {
		c.report(types.NewCheckResult("relationship_subject_not_entity").
			With("statement", statement))
	}
	interestedParty := acc.InterestedParty(s)
	party, partyKnown := c.lookup(interestedParty)
	if partyKnown && party.recordType != types.RecordTypeEntity && party.recordType != types.RecordTypePerson {
		c.report(types.NewCheckResult("relationship_interested_party_not_entity_or_person").
			With("statement", statement))
	}
	// an unspecified party cannot be the required person either
	notPerson := interestedParty.Kind == types.PartyKindUnspecified ||
		(partyKnown && party.recordType != types.RecordTypePerson)

	for _, interest := range acc.Interests(s) {
		interestType, _ := core.StringOf(interest, "type")
		if notPerson && core.IsTrue(interest, "beneficialOwnershipOrControl") {
			c.report(types.NewCheckResult("relationship_interests_beneficial_ownership_interested_party_not_person").
				With("statement", statement))
		}
		if !subjectKnown {
			continue
		}
		if slices.Contains(nominationInterests, interestType) && !subject.isArrangement("nomination") {
			c.report(types.NewCheckResult("relationship_interests_subject_should_be_entity_nomination_arrangement").
				With("interest_type", interestType).
				With("statement", statement))
		}
		if slices.Contains(trustInterests, interestType) && !subject.isArrangement("trust") {
			c.report(types.NewCheckResult("relationship_interests_subject_should_be_entity_trust_arrangement").
				With("interest_type", interestType).
				With("statement", statement))
		}
	}
}

func (c *relationshipParties) lookup(party core.Party) (recordInfo, bool) {
	if party.Kind != types.PartyKindRecord {
		return recordInfo{}, false
	}
	info, ok := c.records[party.ID]
	return info, ok
}

func (r recordInfo) isArrangement(subtype string) bool {
	return r.recordType == types.RecordTypeEntity && r.entityType == "arrangement" && r.entitySubtype == subtype
}
