// Package identicon generates the deterministic short identifiers the
// compiler uses to name utility classes, CSS variables, and keyframes.
//
// All functions here are pure: the same input byte-for-byte always
// produces the same output, on every platform. That determinism is the
// whole point of this package and is covered by tests.
package identicon

import "strings"

const (
	alpha       = "abcdefghijklmnopqrstuvwxyz"
	alphaLen    = uint64(len(alpha))
	alphanum    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	alphanumLen = uint64(len(alphanum))
	seed        = uint64(5381)
)

// cipher hashes str with a DJB2-like mix: multiply-by-33 walked from the
// end of the string, XOR-ing in each byte, with a final fold of the
// string length.
func cipher(str string) uint64 {
	hash := seed
	for i := len(str) - 1; i >= 0; i-- {
		hash = hash*33 ^ uint64(str[i])
	}
	return (hash * 33) ^ uint64(len(str))
}

func alphabet(alphaOnly bool) (string, uint64) {
	if alphaOnly {
		return alpha, alphaLen
	}
	return alphanum, alphanumLen
}

// ShortID reduces seedStr's hash into a string of at most size characters
// drawn from either the 26-letter or 62-character alphanumeric alphabet.
// The result is stable across runs, builds, and platforms.
func ShortID(seedStr string, alphaOnly bool, size int) string {
	letters, base := alphabet(alphaOnly)

	code := cipher(seedStr)
	var b strings.Builder

	// Prepend digits as the hash is divided down, same as the original
	// base-N conversion; leading digits beyond `size` are dropped below.
	var digits []byte
	x := code
	for x > base {
		digits = append(digits, letters[x%base])
		x /= base
	}
	digits = append(digits, letters[x%base])

	// digits was built least-significant-first by repeated division;
	// reverse it to get the natural most-significant-first string.
	for i := len(digits) - 1; i >= 0; i-- {
		b.WriteByte(digits[i])
	}
	name := b.String()

	if len(name) > size {
		return name[len(name)-size:]
	}
	return name
}

func isVowel(c byte) bool {
	switch c | 0x20 {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// Abbreviate strips vowels from word (ASCII, case-insensitive, keeping
// '-'), splits on '-'/space, and for every token longer than two
// characters keeps only its first, middle, and last character.
func Abbreviate(word string) string {
	var stripped strings.Builder
	for i := 0; i < len(word); i++ {
		c := word[i]
		isAlpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if (isAlpha && !isVowel(c)) || c == '-' {
			stripped.WriteByte(c)
		}
	}

	tokens := strings.FieldsFunc(stripped.String(), func(r rune) bool {
		return r == '-' || r == ' '
	})

	abbreviated := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) > 2 {
			half := len(tok) / 2
			abbreviated = append(abbreviated, string(tok[0])+string(tok[half])+string(tok[len(tok)-1]))
		} else {
			abbreviated = append(abbreviated, tok)
		}
	}

	return strings.Join(abbreviated, "-")
}

// UtilityClassName composes the deterministic short name for one utility
// class from its generating tuple, following the naming grammar:
//
//	{breakpoint-abbrev\.}{importance\!}{pattern-abbrev\.}{property-abbrev}-{value-id}
func UtilityClassName(breakpoint *string, isImportant bool, pattern, property, value string) string {
	abbrBreakpoint := ""
	if breakpoint != nil {
		abbrBreakpoint = Abbreviate(*breakpoint) + `\.`
	}

	importancePrefix := ""
	if isImportant {
		importancePrefix = `\!`
	}

	abbrPattern := ""
	if pattern != "_" {
		abbrPattern = Abbreviate(pattern) + `\.`
	}

	abbrProperty := Abbreviate(property)
	valueID := ShortID(value, false, 4)

	return abbrBreakpoint + importancePrefix + abbrPattern + abbrProperty + "-" + valueID
}

// VariableName composes the unique CSS custom-property name for a
// variable or theme entry declared in context by identifier.
func VariableName(context, identifier string) string {
	return "--g" + ShortID(context+"-"+identifier, false, 10)
}

// AnimationName composes the unique keyframes name for an animation
// declared in context under name.
func AnimationName(context, name string) string {
	return "g" + ShortID(context+"-"+name, false, 14)
}
