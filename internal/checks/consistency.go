package checks

import (
	"bods-validate/internal/core"
	"bods-validate/internal/types"
)

// duplicateStatementIDs reports every id used more than once, a single
// time, with the total number of uses.
type duplicateStatementIDs struct {
	baseCheck
	counts map[string]int
}

func newDuplicateStatementIDs(env *Env) Check {
	return &duplicateStatementIDs{
		baseCheck: newBase(env, "duplicate_statement_id"),
		counts:    map[string]int{},
	}
}

func (c *duplicateStatementIDs) StatementFirstPass(s core.Statement) {
	if id := c.id(s); id != "" {
		c.counts[id]++
	}
}

func (c *duplicateStatementIDs) StatementSecondPass(s core.Statement) {
	id := c.id(s)
	count := c.counts[id]
	if id == "" || count < 2 {
		return
	}
	c.report(types.NewCheckResult("duplicate_statement_id").
		With("id", id).
		With("count", count))
	c.counts[id] = 0
}

// schemaVersionConsistency compares each statement's own version with the
// one the dataset was resolved from.
type schemaVersionConsistency struct {
	baseCheck
}

func newSchemaVersionConsistency(env *Env) Check {
	return &schemaVersionConsistency{baseCheck: newBase(env, "schema_version_consistency")}
}

func (c *schemaVersionConsistency) StatementFirstPass(s core.Statement) {
	if c.env.Resolver == nil {
		return
	}
	attempted := c.env.Resolver.AttemptedVersionOf(s.JSON)
	if attempted == c.env.Resolution.AttemptedVersion {
		return
	}
	c.report(types.NewCheckResult("inconsistent_schema_version_used").
		With("schema_version", attempted).
		With("statement", c.id(s)))
}
