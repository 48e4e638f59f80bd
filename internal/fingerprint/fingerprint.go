// Package fingerprint derives the deterministic identity of one matrix
// request. The fingerprint is the system's content-addressing mechanism: it
// keys the archived raw response and the exported matrix files, so both are
// traceable to the exact inputs that produced them.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"distance-matrix-service/internal/domain"
)

// Length of the truncated hex digest. Long enough to make collisions
// negligible for practical batch sizes; this is a cache key, not a security
// boundary.
const Length = 12

const fragmentMaxLen = 6

var nonWord = regexp.MustCompile(`\W+`)

// Compute returns the fingerprint of (origins, destinations, options).
// Order-sensitive by design: permuting either sequence, or changing any
// option value, yields a different fingerprint. Identical inputs always
// yield the identical fingerprint across process runs.
func Compute(origins, destinations []domain.Location, opts domain.TravelOptions) string {
	var b strings.Builder
	b.WriteString("origins=")
	writeForms(&b, origins)
	b.WriteString(";destinations=")
	writeForms(&b, destinations)
	b.WriteString(";options=")
	b.WriteString(opts.CanonicalString())

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])[:Length]
}

func writeForms(b *strings.Builder, locs []domain.Location) {
	for i, l := range locs {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(l.CanonicalForm())
	}
}

// Name builds the derived file/object name <prefix>_<fragment>_<fingerprint>.
// The fragment is a short human-readable hint assembled from the first few
// location strings; it is cosmetic and carries no identity.
func Name(prefix string, origins, destinations []domain.Location, fp string) string {
	all := make([]domain.Location, 0, len(origins)+len(destinations))
	all = append(all, origins...)
	all = append(all, destinations...)

	parts := make([]string, 0, 3)
	for _, l := range all {
		if len(parts) == 3 {
			break
		}
		if frag := sanitizeFragment(l.CanonicalForm()); frag != "" {
			parts = append(parts, frag)
		}
	}

	name := prefix
	if len(parts) > 0 {
		name += "_" + strings.Join(parts, "_")
	}
	return name + "_" + fp
}

// sanitizeFragment reduces a location string to a short filename-safe token.
func sanitizeFragment(s string) string {
	clean := nonWord.ReplaceAllString(s, "")
	if len(clean) > fragmentMaxLen {
		clean = clean[:fragmentMaxLen]
	}
	return clean
}
