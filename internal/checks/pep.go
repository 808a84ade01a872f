package checks

import (
	"bods-validate/internal/core"
	"bods-validate/internal/types"
)

// pepStatusFlag covers the boolean hasPepStatus shape.
type pepStatusFlag struct {
	baseCheck
}

func newPepStatusFlag(env *Env) Check {
	return &pepStatusFlag{baseCheck: newBase(env, "pep_status_flag")}
}

func (c *pepStatusFlag) PersonFirstPass(s core.Statement) {
	if !core.NonEmpty(s.JSON, "pepStatusDetails") || core.IsTrue(s.JSON, "hasPepStatus") {
		return
	}
	c.report(types.NewCheckResult("person_has_pep_details_but_pep_status_not_true").
		With("statement", c.id(s)))
}

// pepStatusStructured covers politicalExposure.  A statement already
// reported for missing-info details is not reported again by the broader
// status check.
type pepStatusStructured struct {
	baseCheck
}

func newPepStatusStructured(env *Env) Check {
	return &pepStatusStructured{baseCheck: newBase(env, "pep_status_structured")}
}

func (c *pepStatusStructured) PersonFirstPass(s core.Statement) {
	details := c.accessor().Details(s)
	entries := core.ArrayOf(details, "politicalExposure.details")
	if len(entries) == 0 {
		return
	}
	status, _ := core.StringOf(details, "politicalExposure.status")

	missingInfo := false
	for _, entry := range entries {
		if entry.IsObject() && entry.Get("missingInfoReason").Exists() {
			missingInfo = true
			break
		}
	}
	if missingInfo {
		if status != "unknown" {
			c.report(types.NewCheckResult("person_has_pep_details_with_missing_info_but_incorrect_pep_status").
				With("pep_status", status).
				With("statement", c.id(s)))
		}
		return
	}
	if status != "isPep" {
		c.report(types.NewCheckResult("person_has_pep_details_but_incorrect_pep_status").
			With("pep_status", status).
			With("statement", c.id(s)))
	}
}
