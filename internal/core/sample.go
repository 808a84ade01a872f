package core

import (
	"bods-validate/internal/types"
)

// SampleQuota keeps at most Limit statements of each known statement type
// and at most Limit statements of any other type.
type SampleQuota struct {
	Limit   int
	counts  map[types.StatementType]int
	unknown int
}

func NewSampleQuota(limit int) *SampleQuota {
	return &SampleQuota{Limit: limit, counts: map[types.StatementType]int{}}
}

// Offer reports whether a statement of the given type is kept, and counts
// it when it is.
func (q *SampleQuota) Offer(statementType types.StatementType) bool {
	if statementType == types.StatementTypeNone {
		if q.unknown >= q.Limit {
			return false
		}
		q.unknown++
		return true
	}
	if q.counts[statementType] >= q.Limit {
		return false
	}
	q.counts[statementType]++
	return true
}

// Exhausted reports whether no further statement can be kept.
func (q *SampleQuota) Exhausted() bool {
	if q.unknown < q.Limit {
		return false
	}
	for _, statementType := range types.KnownStatementTypes {
		if q.counts[statementType] < q.Limit {
			return false
		}
	}
	return true
}
