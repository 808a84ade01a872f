package checks

import (
	"bods-validate/internal/core"
	"bods-validate/internal/types"
)

// componentTags names the findings of one componentCheck instance.
type componentTags struct {
	notUsed   string
	afterUse  string
	notFound  string
	notFoundK string
}

// componentCheck makes sure every component is referenced by an aggregate
// that appears after it, and that every referenced component exists.
type componentCheck struct {
	baseCheck
	tags componentTags
	// key returns the id components are referenced by.
	key func(s core.Statement) string

	firstIndex map[string]int
	components []string
	isComp     map[string]struct{}
	usedAt     map[string]int
	refOrder   []componentRef
}

type componentRef struct {
	id        string
	statement string
}

func newComponentCheck(env *Env, name string, tags componentTags, key func(core.Statement) string) *componentCheck {
	return &componentCheck{
		baseCheck:  newBase(env, name),
		tags:       tags,
		key:        key,
		firstIndex: map[string]int{},
		isComp:     map[string]struct{}{},
		usedAt:     map[string]int{},
	}
}

func (c *componentCheck) StatementFirstPass(s core.Statement) {
	acc := c.accessor()
	key := c.key(s)
	if key != "" {
		if _, ok := c.firstIndex[key]; !ok {
			c.firstIndex[key] = s.Index
		}
		if acc.IsComponent(s) {
			if _, ok := c.isComp[key]; !ok {
				c.isComp[key] = struct{}{}
				c.components = append(c.components, key)
			}
		}
	}
	for _, ref := range acc.ComponentRefs(s) {
		if _, ok := c.usedAt[ref]; !ok {
			c.usedAt[ref] = s.Index
		}
		c.refOrder = append(c.refOrder, componentRef{id: ref, statement: c.id(s)})
	}
}

func (c *componentCheck) Finalize() {
	for _, id := range c.components {
		used, ok := c.usedAt[id]
		switch {
		case !ok:
			c.report(types.NewCheckResult(c.tags.notUsed).With("statement", id))
		case c.firstIndex[id] > used:
			c.report(types.NewCheckResult(c.tags.afterUse).With("statement", id))
		}
	}
	for _, ref := range c.refOrder {
		if _, ok := c.firstIndex[ref.id]; ok {
			continue
		}
		c.report(types.NewCheckResult(c.tags.notFound).
			With(c.tags.notFoundK, ref.id).
			With("statement", ref.statement))
	}
}

func newComponentStatements(env *Env) Check {
	return newComponentCheck(env, "component_statements", componentTags{
		notUsed:   "statement_is_component_but_not_used_in_component_statement_ids",
		afterUse:  "statement_is_component_but_is_after_use_in_component_statement_ids",
		notFound:  "component_statement_id_not_found",
		notFoundK: "component_statement_id",
	}, env.Accessor.StatementID)
}

func newComponentRecords(env *Env) Check {
	return newComponentCheck(env, "component_records", componentTags{
		notUsed:   "record_is_component_but_not_used_in_component_records",
		afterUse:  "record_is_component_but_is_after_use_in_component_records",
		notFound:  "component_record_not_found",
		notFoundK: "component_record",
	}, env.Accessor.RecordID)
}
