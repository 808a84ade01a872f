package types

type StatementType string

const (
	StatementTypeNone      StatementType = ""
	StatementTypeEntity    StatementType = "entityStatement"
	StatementTypePerson    StatementType = "personStatement"
	StatementTypeOwnership StatementType = "ownershipOrControlStatement"
)

// KnownStatementTypes lists the statement types in their canonical order.
var KnownStatementTypes = []StatementType{
	StatementTypeEntity,
	StatementTypePerson,
	StatementTypeOwnership,
}

type RecordType string

const (
	RecordTypeEntity       RecordType = "entity"
	RecordTypePerson       RecordType = "person"
	RecordTypeRelationship RecordType = "relationship"
)

type RecordStatus string

const (
	RecordStatusNew     RecordStatus = "new"
	RecordStatusUpdated RecordStatus = "updated"
	RecordStatusClosed  RecordStatus = "closed"
)

// PartyKind says how an interested party or subject is described.
type PartyKind string

const (
	PartyKindNone        PartyKind = ""
	PartyKindEntity      PartyKind = "entity"
	PartyKindPerson      PartyKind = "person"
	PartyKindUnspecified PartyKind = "unspecified"
	// PartyKindRecord is a bare recordId whose type is only known once the
	// referenced record has been seen.
	PartyKindRecord PartyKind = "record"
)

type OutputFormat string

const (
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)
