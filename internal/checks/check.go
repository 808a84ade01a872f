// Package checks holds the additional checks run over a dataset after its
// dialect has been resolved, and the orchestrator that drives them.
package checks

import (
	"time"

	"bods-validate/internal/core"
	"bods-validate/internal/types"
)

// Check is one cross-statement validation or statistic.  The orchestrator
// calls the generic hook for every statement, then the hook matching the
// statement type.  Every first pass hook runs before any second pass hook.
type Check interface {
	Name() string

	StatementFirstPass(s core.Statement)
	EntityFirstPass(s core.Statement)
	PersonFirstPass(s core.Statement)
	OwnershipFirstPass(s core.Statement)

	StatementSecondPass(s core.Statement)
	EntitySecondPass(s core.Statement)
	PersonSecondPass(s core.Statement)
	OwnershipSecondPass(s core.Statement)

	Finalize()

	Results() []types.CheckResult
	Statistics() types.Statistics
}

// Descriptor registers a check.  AppliesTo and ResultTypes are usable
// without building the check.
type Descriptor struct {
	Name          string
	ResultTypes   []string
	StatisticKeys []string
	AppliesTo     func(dialect types.Dialect, cfg types.CheckConfig) bool
	New           func(env *Env) Check

	// UsesPrefixes marks checks that read Env.Prefixes, so callers only
	// load the org-id list when one of them runs.
	UsesPrefixes bool
}

// Env is what a check may read while it runs.  It is shared by every check
// of one run and must not be modified by them.
type Env struct {
	Accessor   core.Accessor
	Resolver   *core.VersionResolver
	Resolution core.Resolution
	Config     types.CheckConfig

	// Prefixes is the set of known org-id scheme prefixes.  Nil disables
	// the entity identifier scheme check.
	Prefixes map[string]struct{}

	Now func() time.Time

	sink *resultSink
}

// Today returns the current calendar date at UTC midnight.
func (e *Env) Today() time.Time {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	y, m, d := now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// resultSink is the single ordered list every check appends to.
type resultSink struct {
	results []types.CheckResult
}

func (s *resultSink) append(result types.CheckResult) {
	s.results = append(s.results, result)
}

// baseCheck supplies no-op hooks and result storage.
type baseCheck struct {
	env     *Env
	name    string
	results []types.CheckResult
	stats   types.Statistics
}

func newBase(env *Env, name string) baseCheck {
	return baseCheck{env: env, name: name, stats: types.Statistics{}}
}

func (b *baseCheck) Name() string { return b.name }

func (b *baseCheck) StatementFirstPass(core.Statement) {}
func (b *baseCheck) EntityFirstPass(core.Statement)    {}
func (b *baseCheck) PersonFirstPass(core.Statement)    {}
func (b *baseCheck) OwnershipFirstPass(core.Statement) {}

func (b *baseCheck) StatementSecondPass(core.Statement) {}
func (b *baseCheck) EntitySecondPass(core.Statement)    {}
func (b *baseCheck) PersonSecondPass(core.Statement)    {}
func (b *baseCheck) OwnershipSecondPass(core.Statement) {}

func (b *baseCheck) Finalize() {}

func (b *baseCheck) Results() []types.CheckResult { return b.results }

func (b *baseCheck) Statistics() types.Statistics { return b.stats }

// report records a finding and forwards it to the shared sink.
func (b *baseCheck) report(result types.CheckResult) {
	b.results = append(b.results, result)
	if b.env != nil && b.env.sink != nil {
		b.env.sink.append(result)
	}
}

func (b *baseCheck) accessor() core.Accessor {
	return b.env.Accessor
}

func (b *baseCheck) id(s core.Statement) string {
	return b.env.Accessor.StatementID(s)
}

// ---------------------------------------------------------------------------
// applicability predicates
// ---------------------------------------------------------------------------

func always(types.Dialect, types.CheckConfig) bool { return true }

func flatOnly(d types.Dialect, _ types.CheckConfig) bool { return !d.RecordBased }

func recordOnly(d types.Dialect, _ types.CheckConfig) bool { return d.RecordBased }

func since(version string) func(types.Dialect, types.CheckConfig) bool {
	return func(d types.Dialect, _ types.CheckConfig) bool {
		return core.VersionAtLeast(d.Version, version)
	}
}

func flatSince(version string) func(types.Dialect, types.CheckConfig) bool {
	return func(d types.Dialect, _ types.CheckConfig) bool {
		return !d.RecordBased && core.VersionAtLeast(d.Version, version)
	}
}

func flatBefore(version string) func(types.Dialect, types.CheckConfig) bool {
	return func(d types.Dialect, _ types.CheckConfig) bool {
		return !d.RecordBased && core.MustSatisfy(d.Version, "<"+version)
	}
}
