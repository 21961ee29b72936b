package verify

import "strings"

// ValidIBAN checks an account identifier with the mod-97 algorithm: move the
// first four characters to the end, map A-Z to 10-35, and reduce the digit
// string modulo 97 one digit at a time so the intermediate value never
// overflows. Valid iff the remainder is 1.
//
// The first two characters must be letters (country code) and the next two
// digits (check digits); mod-97 alone cannot reject every letter/digit swap
// there because the swap changes the length of the expanded digit string.
func ValidIBAN(iban string) bool {
	cleaned := strings.ToUpper(strings.Join(strings.Fields(iban), ""))
	if len(cleaned) < 15 || len(cleaned) > 34 {
		return false
	}
	for i, r := range cleaned {
		switch {
		case i < 2:
			if r < 'A' || r > 'Z' {
				return false
			}
		case i < 4:
			if r < '0' || r > '9' {
				return false
			}
		default:
			if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
				return false
			}
		}
	}

	rearranged := cleaned[4:] + cleaned[:4]
	rem := 0
	for _, r := range rearranged {
		if r >= '0' && r <= '9' {
			rem = (rem*10 + int(r-'0')) % 97
			continue
		}
		// Letters expand to two digits (A=10 ... Z=35).
		v := int(r-'A') + 10
		rem = (rem*10 + v/10) % 97
		rem = (rem*10 + v%10) % 97
	}
	return rem == 1
}
