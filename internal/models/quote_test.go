package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuoteStatus(t *testing.T) {
	for _, valid := range []string{"draft", "sent", "accepted", "rejected", "expired"} {
		status, err := ParseQuoteStatus(valid)
		assert.NoError(t, err)
		assert.Equal(t, QuoteStatus(valid), status)
	}

	_, err := ParseQuoteStatus("archived")
	assert.Error(t, err)
	_, err = ParseQuoteStatus("")
	assert.Error(t, err)
}

func TestQuoteStatusTransitions(t *testing.T) {
	cases := []struct {
		from    QuoteStatus
		to      QuoteStatus
		allowed bool
	}{
		{QuoteStatusDraft, QuoteStatusSent, true},
		{QuoteStatusSent, QuoteStatusSent, true},
		{QuoteStatusSent, QuoteStatusAccepted, true},
		{QuoteStatusSent, QuoteStatusRejected, true},
		{QuoteStatusSent, QuoteStatusExpired, true},
		{QuoteStatusDraft, QuoteStatusAccepted, false},
		{QuoteStatusDraft, QuoteStatusRejected, false},
		{QuoteStatusDraft, QuoteStatusExpired, false},
		{QuoteStatusAccepted, QuoteStatusSent, false},
		{QuoteStatusAccepted, QuoteStatusRejected, false},
		{QuoteStatusRejected, QuoteStatusSent, false},
		{QuoteStatusExpired, QuoteStatusSent, false},
		{QuoteStatusExpired, QuoteStatusAccepted, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestQuoteStatusMutability(t *testing.T) {
	assert.True(t, QuoteStatusDraft.Mutable())
	assert.True(t, QuoteStatusSent.Mutable())
	assert.False(t, QuoteStatusAccepted.Mutable())
	assert.False(t, QuoteStatusRejected.Mutable())
	assert.False(t, QuoteStatusExpired.Mutable())

	assert.False(t, QuoteStatusDraft.IsTerminal())
	assert.False(t, QuoteStatusSent.IsTerminal())
	assert.True(t, QuoteStatusAccepted.IsTerminal())
	assert.True(t, QuoteStatusRejected.IsTerminal())
	assert.True(t, QuoteStatusExpired.IsTerminal())
}

func TestParseJobPriority(t *testing.T) {
	for _, valid := range []string{"low", "medium", "high", "urgent"} {
		priority, err := ParseJobPriority(valid)
		assert.NoError(t, err)
		assert.Equal(t, JobPriority(valid), priority)
	}

	_, err := ParseJobPriority("critical")
	assert.Error(t, err)
}
