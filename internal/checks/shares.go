package checks

import (
	"github.com/tidwall/gjson"

	"bods-validate/internal/core"
	"bods-validate/internal/types"
)

// interestShares checks the bounds of each interest share.  Exclusive
// bounds are compared as if they were inclusive.
type interestShares struct {
	baseCheck
}

func newInterestShares(env *Env) Check {
	return &interestShares{baseCheck: newBase(env, "interest_shares")}
}

func (c *interestShares) OwnershipFirstPass(s core.Statement) {
	for _, interest := range c.accessor().Interests(s) {
		share, ok := core.ObjectOf(interest, "share")
		if !ok {
			continue
		}
		c.checkShare(s, share)
	}
}

func (c *interestShares) checkShare(s core.Statement, share gjson.Result) {
	minimum, hasMin := core.NumberOf(share, "minimum")
	exclusiveMin, hasExclusiveMin := core.NumberOf(share, "exclusiveMinimum")
	maximum, hasMax := core.NumberOf(share, "maximum")
	exclusiveMax, hasExclusiveMax := core.NumberOf(share, "exclusiveMaximum")
	_, hasExact := core.NumberOf(share, "exact")

	result := func(tag string) types.CheckResult {
		return types.NewCheckResult(tag).With("statement", c.id(s))
	}
	if hasMin && hasExclusiveMin {
		c.report(result("min_and_exclusive_min"))
	}
	if hasMax && hasExclusiveMax {
		c.report(result("max_and_exclusive_max"))
	}
	if hasExact && (hasMin || hasExclusiveMin || hasMax || hasExclusiveMax) {
		c.report(result("exact_has_min_max"))
		return
	}
	if !(hasMin || hasExclusiveMin) || !(hasMax || hasExclusiveMax) {
		return
	}
	low := exclusiveMin
	if hasMin {
		low = minimum
	}
	high := exclusiveMax
	if hasMax {
		high = maximum
	}
	switch {
	case high < low:
		c.report(result("not_exact_max_greater_than_min"))
	case high == low:
		c.report(result("exact_max_equals_min"))
	}
}
