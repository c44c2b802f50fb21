package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommittedCardIsNotRejectable(t *testing.T) {
	card := SalesCallCard{Priority: PriorityCommitted, Status: CardPending}
	assert.False(t, card.Rejectable(), "committed shipments must be carried")
}

func TestNonCommittedCardIsRejectable(t *testing.T) {
	card := SalesCallCard{Priority: PriorityNonCommitted, Status: CardPending}
	assert.True(t, card.Rejectable())
}
