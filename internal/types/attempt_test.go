package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailed(t *testing.T) {
	r := Failed(ReasonNavigationTimeout, "context deadline exceeded", nil)
	assert.Equal(t, StatusFailed, r.Status)
	assert.Equal(t, "navigation_timeout: context deadline exceeded", r.ErrorMessage)
	assert.Equal(t, ReasonNavigationTimeout, r.Reason())
}

func TestFailed_NoDetail(t *testing.T) {
	r := Failed(ReasonSubmitButtonNotFound, "", nil)
	assert.Equal(t, ReasonSubmitButtonNotFound, r.ErrorMessage)
	assert.Equal(t, ReasonSubmitButtonNotFound, r.Reason())
}

func TestBatchSummary_Record(t *testing.T) {
	var s BatchSummary

	s.Record(&ApplicationResult{Status: StatusSubmitted})
	s.Record(Failed(ReasonNetworkError, "connection refused", nil))
	s.Record(&ApplicationResult{Status: StatusAwaitingApproval})

	assert.Equal(t, 3, s.Attempted)
	assert.Equal(t, 1, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	assert.Len(t, s.Results, 3)
}
