package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RefNumber builds a human-readable reference number: a short prefix (BK for
// bookings, OD for orders, SP for split records), a UTC timestamp, and eight
// uppercased hex characters of randomness. Collisions are backstopped by the
// unique index on the column.
func RefNumber(prefix string) string {
	ts := time.Now().UTC().Format("20060102150405")
	id := strings.ToUpper(uuid.NewString()[:8])
	return prefix + ts + id
}
