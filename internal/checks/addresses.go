package checks

import (
	"bods-validate/internal/core"
	"bods-validate/internal/types"
)

var (
	entityAddressTypes = map[string]struct{}{
		"registered": {}, "business": {}, "alternative": {},
	}
	personAddressTypes = map[string]struct{}{
		"placeOfBirth": {}, "home": {}, "residence": {}, "registered": {},
		"service": {}, "alternative": {}, "business": {},
	}
)

// addressTypes checks address types against the role of the statement and
// that an alternative address never stands alone.
type addressTypes struct {
	baseCheck
}

func newAddressTypes(env *Env) Check {
	return &addressTypes{baseCheck: newBase(env, "address_types")}
}

func (c *addressTypes) EntityFirstPass(s core.Statement) {
	c.checkAddresses(s, "entity", entityAddressTypes)
}

func (c *addressTypes) PersonFirstPass(s core.Statement) {
	c.checkAddresses(s, "person", personAddressTypes)
}

func (c *addressTypes) checkAddresses(s core.Statement, role string, allowed map[string]struct{}) {
	var hasAlternative, hasOther bool
	for _, address := range c.accessor().Addresses(s) {
		addressType, ok := core.StringOf(address, "type")
		if !ok {
			continue
		}
		if addressType == "alternative" {
			hasAlternative = true
		} else {
			hasOther = true
		}
		if _, ok := allowed[addressType]; !ok {
			c.report(types.NewCheckResult("wrong_address_type_used").
				With("address_type", addressType).
				With("statement_type", role).
				With("statement", c.id(s)))
		}
	}
	if hasAlternative && !hasOther {
		c.report(types.NewCheckResult("alternative_address_with_no_other_address_types").
			With("statement_type", role).
			With("statement", c.id(s)))
	}
}
