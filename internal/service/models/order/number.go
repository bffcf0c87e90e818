package order

import (
	"fmt"
	"math/rand"
	"time"
)

// NewNumber generates a human-readable order number in the form
// ORD-YYYYMMDD-XXXXX. Uniqueness is enforced by the database.
func NewNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%05d", now.UTC().Format("20060102"), rand.Intn(100000))
}
