package domain

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewReferenceFormat(t *testing.T) {
	now := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

	orderRef := NewReference(OrderReferencePrefix, now)
	assert.Regexp(t, regexp.MustCompile(`^ORD-2026-[0-9A-Z]{6}$`), orderRef)

	leadRef := NewReference(LeadReferencePrefix, now)
	assert.Regexp(t, regexp.MustCompile(`^OO-2026-[0-9A-Z]{6}$`), leadRef)
}

func TestNewReferenceUsesYearOfClock(t *testing.T) {
	ref := NewReference(OrderReferencePrefix, time.Date(1999, time.December, 31, 23, 59, 59, 0, time.UTC))
	assert.Regexp(t, regexp.MustCompile(`^ORD-1999-`), ref)
}

func TestNewReferenceVaries(t *testing.T) {
	now := time.Now()

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		seen[NewReference(OrderReferencePrefix, now)] = true
	}

	// 36^6 вариантов: 100 подряд совпадений практически невозможны
	assert.Greater(t, len(seen), 1, fmt.Sprintf("got %d unique references", len(seen)))
}
