// Package identity mints the stable per-realm origin identifier and the
// per-hop dedup tokens used by the relay's loop suppression.
package identity

import (
	"fmt"
	"time"

	"github.com/goliatone/go-broadcast/pkg/domain"
	"github.com/google/uuid"
)

// New derives an origin identity for a realm. The seed combines the realm's
// location with the current high-resolution time and a random draw, so two
// realms never feed the hash the same input even when they share a location.
// Call once at realm initialization; the result is immutable afterwards.
func New(location string) domain.OriginID {
	seed := fmt.Sprintf("%s|%d|%s", location, time.Now().UnixNano(), uuid.NewString())
	return domain.OriginID(hashString(seed))
}

// MintToken creates a fresh dedup token for one relay hop. Tokens are opaque;
// a realm only ever compares incoming tokens against tokens it minted itself.
func MintToken(origin domain.OriginID, eventType string) string {
	seed := fmt.Sprintf("%s|%s|%d|%s", origin, eventType, time.Now().UnixNano(), uuid.NewString())
	return hashString(seed)
}
