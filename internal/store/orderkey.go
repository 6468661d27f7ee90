package store

import (
	"errors"
	"strings"
)

const keyAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func keyDigit(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'z':
		return 10 + int(c-'a'), true
	default:
		return 0, false
	}
}

func keyChar(d int) byte {
	if d < 0 {
		d = 0
	}
	if d > 35 {
		d = 35
	}
	return keyAlphabet[d]
}

// KeyBetween returns an order key strictly between a and b.
// a may be empty (no lower bound) and b may be empty (no upper bound).
//
// Keys are lowercase base36-like strings ordered purely lexicographically.
// Insertions between the same two neighbors extend the key rather than
// renumbering siblings, so the sibling set never needs a global rewrite.
func KeyBetween(a, b string) (string, error) {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a != "" && b != "" && !(a < b) {
		return "", errors.New("KeyBetween requires a < b")
	}

	betweenOK := func(k string) bool {
		if strings.TrimSpace(k) == "" {
			return false
		}
		if a != "" && !(a < k) {
			return false
		}
		if b != "" && !(k < b) {
			return false
		}
		return true
	}

	const min = 0
	const max = 35

	prefix := make([]byte, 0, 8)
	for i := 0; i < 256; i++ {
		da := min
		db := max
		if i < len(a) {
			if v, ok := keyDigit(a[i]); ok {
				da = v
			} else {
				return "", errors.New("invalid order key character in a")
			}
		}
		if i < len(b) {
			if v, ok := keyDigit(b[i]); ok {
				db = v
			} else {
				return "", errors.New("invalid order key character in b")
			}
		}

		if da == db {
			prefix = append(prefix, keyChar(da))
			continue
		}

		if db-da > 1 {
			mid := da + (db-da)/2
			prefix = append(prefix, keyChar(mid))
			k := string(prefix)
			if !betweenOK(k) {
				// Happens when the upper bound is a prefix extension of the
				// lower (e.g. "y" < "y0"): no string sorts strictly between.
				return "", errors.New("no space between order keys")
			}
			return k, nil
		}

		// Adjacent digits: commit the lower digit and extend past a's remaining
		// suffix. Since b differs at this position, any such extension is < b.
		// The extension digit is chosen strictly above a's suffix digit and is
		// never '0', so the result always leaves room below itself for later
		// insertions (a trailing '0' would create a new prefix-adjacent pair).
		prefix = append(prefix, keyChar(da))
		for j := i + 1; ; j++ {
			dj := min
			if j < len(a) {
				v, ok := keyDigit(a[j])
				if !ok {
					return "", errors.New("invalid order key character in a")
				}
				dj = v
			}
			if dj == max {
				prefix = append(prefix, keyChar(dj))
				continue
			}
			mid := dj + (max+1-dj)/2
			prefix = append(prefix, keyChar(mid))
			k := string(prefix)
			if !betweenOK(k) {
				return "", errors.New("no space between order keys")
			}
			return k, nil
		}
	}
	return "", errors.New("unable to compute order key between bounds")
}

func KeyAfter(a string) (string, error)  { return KeyBetween(a, "") }
func KeyBefore(b string) (string, error) { return KeyBetween("", b) }
func KeyInitial() (string, error)        { return KeyBetween("", "") }

// KeyBetweenUnique returns a key between lower and upper that is not already
// present in existing.
//
// existing keys should be normalized (lowercase + trimmed). The generated key
// is normalized before the existence check.
//
// This keeps newly assigned keys unique within a sibling set without
// rewriting the other siblings.
func KeyBetweenUnique(existing map[string]bool, lower, upper string) (string, error) {
	if existing == nil {
		existing = map[string]bool{}
	}
	lower = strings.ToLower(strings.TrimSpace(lower))
	upper = strings.ToLower(strings.TrimSpace(upper))

	// Tighten the lower bound on collision. KeyBetween guarantees strictly
	// between bounds when both are non-empty, so each iteration produces a
	// different value.
	curLower := lower
	for i := 0; i < 256; i++ {
		k, err := KeyBetween(curLower, upper)
		if err != nil {
			return "", err
		}
		kn := strings.ToLower(strings.TrimSpace(k))
		if kn == "" {
			return "", errors.New("generated empty order key")
		}
		if !existing[kn] {
			return kn, nil
		}
		curLower = kn
	}
	return "", errors.New("unable to find unique order key")
}
