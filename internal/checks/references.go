package checks

import (
	"bods-validate/internal/core"
	"bods-validate/internal/types"
)

// reference is a pointer from a relationship statement to a party.
type reference struct {
	kind string // entity, person or record
	id   string
	from string // subject or interestedParty
}

type pendingReference struct {
	reference
	statement string
}

// referenceCheck separates references to statements that appear later in
// the dataset from references to statements that never appear.
//
// The first pass notes every reference to an id not seen yet as possibly
// out of order.  The second pass reports references missing from the
// complete set of ids.  Finalize turns each possible entry whose id did
// turn up into an out of order finding.
type referenceCheck struct {
	baseCheck

	// declares returns the kind and id a statement makes available.
	declares func(s core.Statement) (string, string)
	// references returns the references a relationship statement makes.
	references func(s core.Statement) []reference
	seenInKey  string

	seen     map[string]map[string]struct{}
	possible []pendingReference
}

func newReferenceCheck(env *Env, name string, seenInKey string,
	declares func(core.Statement) (string, string),
	references func(core.Statement) []reference,
) *referenceCheck {
	return &referenceCheck{
		baseCheck:  newBase(env, name),
		declares:   declares,
		references: references,
		seenInKey:  seenInKey,
		seen:       map[string]map[string]struct{}{},
	}
}

func (c *referenceCheck) isSeen(kind string, id string) bool {
	_, ok := c.seen[kind][id]
	return ok
}

func (c *referenceCheck) StatementFirstPass(s core.Statement) {
	if kind, id := c.declares(s); id != "" {
		if c.seen[kind] == nil {
			c.seen[kind] = map[string]struct{}{}
		}
		c.seen[kind][id] = struct{}{}
	}
	if c.accessor().StatementType(s) != types.StatementTypeOwnership {
		return
	}
	for _, ref := range c.references(s) {
		if !c.isSeen(ref.kind, ref.id) {
			c.possible = append(c.possible, pendingReference{reference: ref, statement: c.id(s)})
		}
	}
}

func (c *referenceCheck) OwnershipSecondPass(s core.Statement) {
	for _, ref := range c.references(s) {
		if c.isSeen(ref.kind, ref.id) {
			continue
		}
		tag := ref.kind + "_statement_missing"
		c.report(types.NewCheckResult(tag).
			With("missing_from", ref.from).
			With(tag, ref.id).
			With(c.seenInKey, c.id(s)))
	}
}

func (c *referenceCheck) Finalize() {
	for _, pending := range c.possible {
		if !c.isSeen(pending.kind, pending.id) {
			continue
		}
		tag := pending.kind + "_statement_out_of_order"
		c.report(types.NewCheckResult(tag).
			With("referenced_from", pending.from).
			With(tag, pending.id).
			With(c.seenInKey, pending.statement))
	}
}

// ---------------------------------------------------------------------------
// flat and record-based instances
// ---------------------------------------------------------------------------

const (
	kindEntity = "entity"
	kindPerson = "person"
	kindRecord = "record"
)

func newStatementReferences(env *Env) Check {
	acc := env.Accessor
	declares := func(s core.Statement) (string, string) {
		switch acc.StatementType(s) {
		case types.StatementTypeEntity:
			return kindEntity, acc.StatementID(s)
		case types.StatementTypePerson:
			return kindPerson, acc.StatementID(s)
		}
		return "", ""
	}
	references := func(s core.Statement) []reference {
		var refs []reference
		if subject := acc.Subject(s); subject.Kind == types.PartyKindEntity && subject.ID != "" {
			refs = append(refs, reference{kind: kindEntity, id: subject.ID, from: "subject"})
		}
		party := acc.InterestedParty(s)
		if party.ID != "" {
			switch party.Kind {
			case types.PartyKindEntity:
				refs = append(refs, reference{kind: kindEntity, id: party.ID, from: "interestedParty"})
			case types.PartyKindPerson:
				refs = append(refs, reference{kind: kindPerson, id: party.ID, from: "interestedParty"})
			}
		}
		return refs
	}
	return newReferenceCheck(env, "statement_references", "seen_in_ownership_or_control_statement", declares, references)
}

func newRecordReferences(env *Env) Check {
	acc := env.Accessor
	declares := func(s core.Statement) (string, string) {
		return kindRecord, acc.RecordID(s)
	}
	references := func(s core.Statement) []reference {
		var refs []reference
		if subject := acc.Subject(s); subject.Kind == types.PartyKindRecord && subject.ID != "" {
			refs = append(refs, reference{kind: kindRecord, id: subject.ID, from: "subject"})
		}
		if party := acc.InterestedParty(s); party.Kind == types.PartyKindRecord && party.ID != "" {
			refs = append(refs, reference{kind: kindRecord, id: party.ID, from: "interestedParty"})
		}
		return refs
	}
	return newReferenceCheck(env, "record_references", "seen_in_relationship_statement", declares, references)
}
