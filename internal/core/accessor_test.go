package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"bods-validate/internal/types"
)

var (
	flat03   = NewAccessor(types.Dialect{Version: "0.3"})
	record04 = NewAccessor(types.Dialect{Version: "0.4", RecordBased: true})
)

func statement(raw string) Statement {
	return Statement{JSON: gjson.Parse(raw)}
}

// ---------------------------------------------------------------------------
// optional access helpers
// ---------------------------------------------------------------------------

func TestOptionalAccessRejectsWrongShapes(t *testing.T) {
	doc := gjson.Parse(`{"a":"x","n":4,"list":[1,2],"obj":{"b":true},"scalarList":"nope"}`)

	assert.Nil(t, ArrayOf(doc, "scalarList"))
	assert.Nil(t, ArrayOf(doc, "missing"))
	assert.Len(t, ArrayOf(doc, "list"), 2)

	_, ok := StringOf(doc, "n")
	assert.False(t, ok)
	value, ok := StringOf(doc, "a")
	assert.True(t, ok)
	assert.Equal(t, "x", value)

	_, ok = ObjectOf(doc, "list")
	assert.False(t, ok)
	assert.True(t, IsTrue(doc, "obj.b"))
	assert.False(t, IsTrue(doc, "a"))

	num, ok := NumberOf(doc, "n")
	assert.True(t, ok)
	assert.Equal(t, 4.0, num)

	_, ok = StringOf(gjson.Parse(`"top"`), "a")
	assert.False(t, ok)
}

func TestNewDataset(t *testing.T) {
	dataset, err := NewDataset([]byte(`[{"statementID":"a"},{"statementID":"b"}]`))
	require.NoError(t, err)
	require.Equal(t, 2, dataset.Len())
	assert.Equal(t, 1, dataset.Statements[1].Index)

	single, err := NewDataset([]byte(`{"statementID":"a"}`))
	require.NoError(t, err)
	assert.Equal(t, 1, single.Len())

	_, err = NewDataset([]byte(`[{`))
	require.Error(t, err)
}

// ---------------------------------------------------------------------------
// Accessor
// ---------------------------------------------------------------------------

func TestAccessorStatementType(t *testing.T) {
	assert.Equal(t, types.StatementTypeEntity, flat03.StatementType(statement(`{"statementType":"entityStatement"}`)))
	assert.Equal(t, types.StatementTypeNone, flat03.StatementType(statement(`{"statementType":"other"}`)))
	assert.Equal(t, types.StatementTypeOwnership, record04.StatementType(statement(`{"recordType":"relationship"}`)))
	assert.Equal(t, types.StatementTypePerson, record04.StatementType(statement(`{"recordType":"person"}`)))
	assert.Equal(t, types.StatementTypeNone, record04.StatementType(statement(`{"recordType":5}`)))
}

func TestAccessorIDs(t *testing.T) {
	assert.Equal(t, "a", flat03.StatementID(statement(`{"statementID":"a","statementId":"b"}`)))
	assert.Equal(t, "b", record04.StatementID(statement(`{"statementID":"a","statementId":"b"}`)))
}

func TestAccessorEntityFields(t *testing.T) {
	flat := statement(`{"entityType":"stateBody","entitySubtype":{"generalCategory":"other"}}`)
	assert.Equal(t, "stateBody", flat03.EntityType(flat))
	subtype, ok := flat03.EntitySubtype(flat)
	assert.True(t, ok)
	assert.Equal(t, "other", subtype)

	record := statement(`{"recordDetails":{"entityType":{"type":"arrangement","subtype":"trust"}}}`)
	assert.Equal(t, "arrangement", record04.EntityType(record))
	subtype, ok = record04.EntitySubtype(record)
	assert.True(t, ok)
	assert.Equal(t, "trust", subtype)

	assert.Equal(t, "", record04.EntityType(statement(`{"recordDetails":"broken"}`)))
}

func TestAccessorParties(t *testing.T) {
	flat := statement(`{
		"subject":{"describedByEntityStatement":"e1"},
		"interestedParty":{"describedByPersonStatement":"p1"}
	}`)
	assert.Equal(t, Party{Kind: types.PartyKindEntity, ID: "e1"}, flat03.Subject(flat))
	assert.Equal(t, Party{Kind: types.PartyKindPerson, ID: "p1"}, flat03.InterestedParty(flat))

	unspecified := statement(`{"interestedParty":{"unspecified":{"reason":"unknown"}}}`)
	assert.Equal(t, Party{Kind: types.PartyKindUnspecified}, flat03.InterestedParty(unspecified))

	record := statement(`{"recordDetails":{"subject":"r1","interestedParty":{"reason":"unknown"}}}`)
	assert.Equal(t, Party{Kind: types.PartyKindRecord, ID: "r1"}, record04.Subject(record))
	assert.Equal(t, Party{Kind: types.PartyKindUnspecified}, record04.InterestedParty(record))

	assert.Equal(t, Party{}, flat03.InterestedParty(statement(`{"interestedParty":[]}`)))
}

func TestAccessorComponents(t *testing.T) {
	flat := statement(`{"isComponent":true,"componentStatementIDs":["a",1,"b"]}`)
	assert.True(t, flat03.IsComponent(flat))
	if diff := cmp.Diff([]string{"a", "b"}, flat03.ComponentRefs(flat)); diff != "" {
		t.Fatalf("component refs mismatch (-want +got):\n%s", diff)
	}

	record := statement(`{"recordDetails":{"isComponent":"yes","componentRecords":["r2"]}}`)
	assert.False(t, record04.IsComponent(record))
	assert.Equal(t, []string{"r2"}, record04.ComponentRefs(record))
}

func TestAccessorDirectOrIndirect(t *testing.T) {
	level, ok := flat03.DirectOrIndirect(gjson.Parse(`{"interestLevel":"direct"}`))
	assert.True(t, ok)
	assert.Equal(t, "direct", level)

	level, ok = record04.DirectOrIndirect(gjson.Parse(`{"directOrIndirect":"indirect"}`))
	assert.True(t, ok)
	assert.Equal(t, "indirect", level)
}

func TestClassifyStatement(t *testing.T) {
	assert.Equal(t, types.StatementTypePerson, ClassifyStatement(gjson.Parse(`{"statementType":"personStatement"}`)))
	assert.Equal(t, types.StatementTypeEntity, ClassifyStatement(gjson.Parse(`{"recordType":"entity"}`)))
	assert.Equal(t, types.StatementTypeNone, ClassifyStatement(gjson.Parse(`{"statementType":"bogus"}`)))
	assert.Equal(t, types.StatementTypeNone, ClassifyStatement(gjson.Parse(`[1]`)))
}
