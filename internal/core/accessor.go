package core

import (
	"github.com/tidwall/gjson"

	"bods-validate/internal/types"
)

// Party is a reference from a relationship to one of its parties.
type Party struct {
	Kind types.PartyKind
	ID   string
}

// Accessor reads fields whose location depends on the dialect.  No method
// panics or fails; a missing or wrongly typed field yields a zero value.
type Accessor struct {
	dialect types.Dialect
}

func NewAccessor(dialect types.Dialect) Accessor {
	return Accessor{dialect: dialect}
}

func (a Accessor) Dialect() types.Dialect {
	return a.dialect
}

func (a Accessor) RecordBased() bool {
	return a.dialect.RecordBased
}

// AtLeast reports whether the dialect version is >= version.
func (a Accessor) AtLeast(version string) bool {
	return VersionAtLeast(a.dialect.Version, version)
}

// Before reports whether the dialect version is < version.
func (a Accessor) Before(version string) bool {
	return VersionBefore(a.dialect.Version, version)
}

func (a Accessor) idField() string {
	if a.dialect.RecordBased {
		return "statementId"
	}
	return "statementID"
}

func (a Accessor) StatementID(s Statement) string {
	id, _ := StringOf(s.JSON, a.idField())
	return id
}

// StatementType returns the flat statement type.  Record-based statements
// are mapped from recordType.
func (a Accessor) StatementType(s Statement) types.StatementType {
	if a.dialect.RecordBased {
		return StatementTypeForRecord(types.RecordType(a.RecordTypeRaw(s)))
	}
	value, _ := StringOf(s.JSON, "statementType")
	switch t := types.StatementType(value); t {
	case types.StatementTypeEntity, types.StatementTypePerson, types.StatementTypeOwnership:
		return t
	}
	return types.StatementTypeNone
}

// StatementTypeForRecord maps a recordType to its flat statement type.
func StatementTypeForRecord(recordType types.RecordType) types.StatementType {
	switch recordType {
	case types.RecordTypeEntity:
		return types.StatementTypeEntity
	case types.RecordTypePerson:
		return types.StatementTypePerson
	case types.RecordTypeRelationship:
		return types.StatementTypeOwnership
	}
	return types.StatementTypeNone
}

// ClassifyStatement derives a statement type without knowing the dialect.
// It is used while streaming, before the dialect is resolved.
func ClassifyStatement(r gjson.Result) types.StatementType {
	if value, ok := StringOf(r, "statementType"); ok {
		switch t := types.StatementType(value); t {
		case types.StatementTypeEntity, types.StatementTypePerson, types.StatementTypeOwnership:
			return t
		}
		return types.StatementTypeNone
	}
	value, _ := StringOf(r, "recordType")
	return StatementTypeForRecord(types.RecordType(value))
}

func (a Accessor) RecordID(s Statement) string {
	id, _ := StringOf(s.JSON, "recordId")
	return id
}

func (a Accessor) RecordTypeRaw(s Statement) string {
	value, _ := StringOf(s.JSON, "recordType")
	return value
}

func (a Accessor) RecordStatus(s Statement) types.RecordStatus {
	value, _ := StringOf(s.JSON, "recordStatus")
	return types.RecordStatus(value)
}

func (a Accessor) StatementDate(s Statement) string {
	value, _ := StringOf(s.JSON, "statementDate")
	return value
}

func (a Accessor) DeclarationSubject(s Statement) (string, bool) {
	return StringOf(s.JSON, "declarationSubject")
}

// Details returns recordDetails for record-based dialects and the statement
// itself otherwise.
func (a Accessor) Details(s Statement) gjson.Result {
	if !a.dialect.RecordBased {
		return s.JSON
	}
	details, ok := ObjectOf(s.JSON, "recordDetails")
	if !ok {
		return gjson.Result{}
	}
	return details
}

func (a Accessor) EntityType(s Statement) string {
	if a.dialect.RecordBased {
		value, _ := StringOf(a.Details(s), "entityType.type")
		return value
	}
	value, _ := StringOf(s.JSON, "entityType")
	return value
}

// EntitySubtype returns the subtype, or false when the statement has none.
func (a Accessor) EntitySubtype(s Statement) (string, bool) {
	if a.dialect.RecordBased {
		return StringOf(a.Details(s), "entityType.subtype")
	}
	return StringOf(s.JSON, "entitySubtype.generalCategory")
}

func (a Accessor) PersonType(s Statement) string {
	value, _ := StringOf(a.Details(s), "personType")
	return value
}

func (a Accessor) Addresses(s Statement) []gjson.Result {
	return ArrayOf(a.Details(s), "addresses")
}

func (a Accessor) Identifiers(s Statement) []gjson.Result {
	return ArrayOf(a.Details(s), "identifiers")
}

func (a Accessor) Interests(s Statement) []gjson.Result {
	return ArrayOf(a.Details(s), "interests")
}

func (a Accessor) ReplacesStatements(s Statement) []string {
	return Strings(s.JSON, "replacesStatements")
}

func (a Accessor) IsComponent(s Statement) bool {
	return IsTrue(a.Details(s), "isComponent")
}

// ComponentRefs returns componentStatementIDs on flat dialects and
// recordDetails.componentRecords on record-based ones.
func (a Accessor) ComponentRefs(s Statement) []string {
	if a.dialect.RecordBased {
		return Strings(a.Details(s), "componentRecords")
	}
	return Strings(s.JSON, "componentStatementIDs")
}

// InterestedParty reads the interested party of an ownership or
// relationship statement.
func (a Accessor) InterestedParty(s Statement) Party {
	if a.dialect.RecordBased {
		return recordParty(a.Details(s).Get("interestedParty"))
	}
	party, ok := ObjectOf(s.JSON, "interestedParty")
	if !ok {
		return Party{}
	}
	if id, ok := StringOf(party, "describedByPersonStatement"); ok {
		return Party{Kind: types.PartyKindPerson, ID: id}
	}
	if id, ok := StringOf(party, "describedByEntityStatement"); ok {
		return Party{Kind: types.PartyKindEntity, ID: id}
	}
	if party.Get("unspecified").Exists() {
		return Party{Kind: types.PartyKindUnspecified}
	}
	return Party{}
}

// Subject reads the subject of an ownership or relationship statement.
func (a Accessor) Subject(s Statement) Party {
	if a.dialect.RecordBased {
		return recordParty(a.Details(s).Get("subject"))
	}
	if id, ok := StringOf(s.JSON, "subject.describedByEntityStatement"); ok {
		return Party{Kind: types.PartyKindEntity, ID: id}
	}
	return Party{}
}

// record-based parties are a recordId string or an object describing why
// the party is unspecified.
func recordParty(value gjson.Result) Party {
	switch {
	case value.Type == gjson.String:
		return Party{Kind: types.PartyKindRecord, ID: value.Str}
	case value.IsObject():
		return Party{Kind: types.PartyKindUnspecified}
	}
	return Party{}
}

// DirectOrIndirect reads the interest level of one interest.
func (a Accessor) DirectOrIndirect(interest gjson.Result) (string, bool) {
	if a.dialect.RecordBased {
		return StringOf(interest, "directOrIndirect")
	}
	return StringOf(interest, "interestLevel")
}

// PublicationDate returns publicationDetails.publicationDate.
func (a Accessor) PublicationDate(s Statement) (string, bool) {
	return StringOf(s.JSON, "publicationDetails.publicationDate")
}
