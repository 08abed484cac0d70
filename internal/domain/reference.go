package domain

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Префиксы человекочитаемых номеров.
const (
	OrderReferencePrefix = "ORD"
	LeadReferencePrefix  = "OO"
)

const (
	referenceAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	referenceLength   = 6
)

var (
	refRand  = rand.New(rand.NewSource(time.Now().UnixNano()))
	refMutex sync.Mutex
)

// NewReference генерирует номер вида PREFIX-YYYY-XXXXXX (base36, верхний регистр).
// Уникальность обеспечивается уникальным индексом в БД и повторной
// генерацией при конфликте на стороне вызывающего кода.
func NewReference(prefix string, now time.Time) string {
	buf := make([]byte, referenceLength)

	refMutex.Lock()
	for i := range buf {
		buf[i] = referenceAlphabet[refRand.Intn(len(referenceAlphabet))]
	}
	refMutex.Unlock()

	return fmt.Sprintf("%s-%d-%s", prefix, now.Year(), buf)
}
