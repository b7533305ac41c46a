package staging

import "strings"

const (
	minUsernameLen = 4
	minPasswordLen = 8
)

func validUsername(s string) bool {
	if len(s) < minUsernameLen {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// validEmail is a sanity check, not RFC 5322. Anything with a local
// part, one "@" and a dotted domain passes.
func validEmail(s string) bool {
	at := strings.Index(s, "@")
	if at < 1 || at != strings.LastIndex(s, "@") {
		return false
	}
	domain := s[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
