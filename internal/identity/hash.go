package identity

import (
	"strconv"
	"unicode/utf16"
)

// fnvOffsetBasis seeds the rolling hash (standard 32-bit FNV offset basis).
const fnvOffsetBasis uint32 = 2166136261

// hashString computes a short opaque digest of s: a 32-bit rolling hash over
// UTF-16 code units rendered in base36. Deterministic, non-cryptographic;
// collision resistance only has to cover seeds that already embed a timestamp
// and a random draw. The shift-add mixing is fixed: changing it would break
// token compatibility with envelopes minted by other builds.
func hashString(s string) string {
	h := fnvOffsetBasis
	for _, u := range utf16.Encode([]rune(s)) {
		h ^= uint32(u)
		h += (h << 1) + (h << 4) + (h << 7) + (h << 8) + (h << 24)
	}
	// Absolute value of the signed 32-bit hash; widen first so the minimum
	// int32 does not overflow on negation.
	v := int64(int32(h))
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 36)
}
