package checks

import (
	"context"
	"fmt"
	"slices"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/rs/zerolog/log"

	"bods-validate/internal/core"
	"bods-validate/internal/types"
)

type runState int

const (
	stateIdle runState = iota
	statePass1
	statePass2
	stateFinalize
	stateDone
)

func (s runState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case statePass1:
		return "pass1"
	case statePass2:
		return "pass2"
	case stateFinalize:
		return "finalize"
	case stateDone:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// RunInput is everything one run of the additional checks needs.
type RunInput struct {
	Dataset    *core.Dataset
	Resolution core.Resolution
	Resolver   *core.VersionResolver
	Config     types.CheckConfig
	Prefixes   map[string]struct{}
	Now        func() time.Time
}

// Orchestrator builds the checks that apply to a dialect and drives them
// over a dataset in two passes.
type Orchestrator struct {
	roster []Descriptor
}

func NewOrchestrator(roster []Descriptor) *Orchestrator {
	return &Orchestrator{roster: roster}
}

// Roster returns the registered descriptors in order.
func (o *Orchestrator) Roster() []Descriptor {
	return o.roster
}

// Applicable returns the descriptors that would run for dialect and cfg.
func (o *Orchestrator) Applicable(dialect types.Dialect, cfg types.CheckConfig) []Descriptor {
	cfg = cfg.WithDefaults()
	var out []Descriptor
	for _, desc := range o.roster {
		if cfg.SampleMode && slices.Contains(cfg.SampleModeExcludedChecks, desc.Name) {
			continue
		}
		if desc.AppliesTo(dialect, cfg) {
			out = append(out, desc)
		}
	}
	return out
}

type activeCheck struct {
	check  Check
	failed bool
}

type run struct {
	state  runState
	checks []*activeCheck
	sink   *resultSink
}

// advance moves the run to the next state; states are never skipped.
func (r *run) advance(ctx context.Context, next runState) {
	assert.Assert(ctx, next == r.state+1,
		fmt.Sprintf("invalid check run transition %s -> %s", r.state, next),
		assert.WithPanicOnFailure())
	r.state = next
}

// Run executes every applicable check.  A version resolution error is the
// first result.  A check that panics is disabled for the rest of the run
// and listed in FailedChecks; the others carry on.
func (o *Orchestrator) Run(ctx context.Context, in RunInput) (types.CheckReport, error) {
	dialect := in.Resolution.Dialect
	assert.NotEmpty(ctx, dialect.Version, "resolved dialect must have a version")

	cfg := in.Config.WithDefaults()
	r := &run{sink: &resultSink{}}
	if in.Resolution.Err != nil {
		r.sink.append(in.Resolution.Err)
	}

	env := &Env{
		Accessor:   core.NewAccessor(dialect),
		Resolver:   in.Resolver,
		Resolution: in.Resolution,
		Config:     cfg,
		Prefixes:   in.Prefixes,
		Now:        in.Now,
		sink:       r.sink,
	}
	for _, desc := range o.Applicable(dialect, cfg) {
		r.checks = append(r.checks, &activeCheck{check: desc.New(env)})
	}
	log.Ctx(ctx).Debug().
		Str("dialect", dialect.Version).
		Int("checks", len(r.checks)).
		Msg("running additional checks")

	var statements []core.Statement
	if in.Dataset != nil {
		statements = in.Dataset.Statements
	}

	r.advance(ctx, statePass1)
	for _, s := range statements {
		statementType := env.Accessor.StatementType(s)
		r.each(ctx, func(c Check) {
			c.StatementFirstPass(s)
			switch statementType {
			case types.StatementTypeEntity:
				c.EntityFirstPass(s)
			case types.StatementTypePerson:
				c.PersonFirstPass(s)
			case types.StatementTypeOwnership:
				c.OwnershipFirstPass(s)
			}
		})
	}

	r.advance(ctx, statePass2)
	for _, s := range statements {
		statementType := env.Accessor.StatementType(s)
		r.each(ctx, func(c Check) {
			c.StatementSecondPass(s)
			switch statementType {
			case types.StatementTypeEntity:
				c.EntitySecondPass(s)
			case types.StatementTypePerson:
				c.PersonSecondPass(s)
			case types.StatementTypeOwnership:
				c.OwnershipSecondPass(s)
			}
		})
	}

	r.advance(ctx, stateFinalize)
	r.each(ctx, func(c Check) { c.Finalize() })

	r.advance(ctx, stateDone)

	report := types.CheckReport{
		SchemaVersion:    dialect.Version,
		AdditionalChecks: r.sink.results,
		Statistics:       types.Statistics{},
	}
	if report.AdditionalChecks == nil {
		report.AdditionalChecks = []types.CheckResult{}
	}
	for _, ac := range r.checks {
		if ac.failed {
			report.FailedChecks = append(report.FailedChecks, ac.check.Name())
			continue
		}
		report.Statistics.Merge(ac.check.Statistics())
	}
	report.AdditionalChecksCount = len(report.AdditionalChecks)
	return report, nil
}

// each calls hook on every check still enabled, in registration order.
func (r *run) each(ctx context.Context, hook func(Check)) {
	for _, ac := range r.checks {
		if ac.failed {
			continue
		}
		r.invoke(ctx, ac, hook)
	}
}

func (r *run) invoke(ctx context.Context, ac *activeCheck, hook func(Check)) {
	defer func() {
		if recovered := recover(); recovered != nil {
			ac.failed = true
			log.Ctx(ctx).Error().
				Str("check", ac.check.Name()).
				Str("stage", r.state.String()).
				Interface("panic", recovered).
				Msg("additional check failed and was disabled")
		}
	}()
	hook(ac.check)
}
