package checks

import (
	"bods-validate/internal/core"
	"bods-validate/internal/types"
)

type declaredStatement struct {
	id  string
	tag string
}

// unusedStatements reports entity and person statements that no
// ownership-or-control statement refers to and no statement replaces.
type unusedStatements struct {
	baseCheck
	declared   []declaredStatement
	referenced map[string]struct{}
	replaced   map[string]struct{}
}

func newUnusedStatements(env *Env) Check {
	return &unusedStatements{
		baseCheck:  newBase(env, "unused_statements"),
		referenced: map[string]struct{}{},
		replaced:   map[string]struct{}{},
	}
}

func (c *unusedStatements) StatementFirstPass(s core.Statement) {
	for _, id := range c.accessor().ReplacesStatements(s) {
		c.replaced[id] = struct{}{}
	}
}

func (c *unusedStatements) EntityFirstPass(s core.Statement) {
	if id := c.id(s); id != "" {
		c.declared = append(c.declared, declaredStatement{id: id, tag: "entity_statement_not_used_in_ownership_or_control_statement"})
	}
}

func (c *unusedStatements) PersonFirstPass(s core.Statement) {
	if id := c.id(s); id != "" {
		c.declared = append(c.declared, declaredStatement{id: id, tag: "person_statement_not_used_in_ownership_or_control_statement"})
	}
}

func (c *unusedStatements) OwnershipFirstPass(s core.Statement) {
	acc := c.accessor()
	if subject := acc.Subject(s); subject.ID != "" {
		c.referenced[subject.ID] = struct{}{}
	}
	if party := acc.InterestedParty(s); party.ID != "" {
		c.referenced[party.ID] = struct{}{}
	}
}

func (c *unusedStatements) Finalize() {
	for _, stmt := range c.declared {
		if _, ok := c.referenced[stmt.id]; ok {
			continue
		}
		if _, ok := c.replaced[stmt.id]; ok {
			continue
		}
		c.report(types.NewCheckResult(stmt.tag).With(stmt.tag, stmt.id))
	}
}

// replacedStatements counts ids listed in replacesStatements that never
// appear in the dataset.
type replacedStatements struct {
	baseCheck
	seen     map[string]struct{}
	replaces []string
}

func newReplacedStatements(env *Env) Check {
	return &replacedStatements{
		baseCheck: newBase(env, "replaced_statements"),
		seen:      map[string]struct{}{},
	}
}

func (c *replacedStatements) StatementFirstPass(s core.Statement) {
	if id := c.id(s); id != "" {
		c.seen[id] = struct{}{}
	}
	c.replaces = append(c.replaces, c.accessor().ReplacesStatements(s)...)
}

func (c *replacedStatements) Finalize() {
	missing := 0
	for _, id := range c.replaces {
		if _, ok := c.seen[id]; !ok {
			missing++
		}
	}
	c.stats["count_replaces_statements_missing"] = missing
}
