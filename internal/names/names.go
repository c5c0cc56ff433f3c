package names

import (
	"strings"
)

// UnknownAuthor is displayed when an author row carries no name parts at all.
const UnknownAuthor = "Unknown"

// NameParts is the decomposition of a free-text full name.
// Splitting on whitespace is a heuristic: suffixes, compound surnames and
// single-token religious names are not special-cased.
type NameParts struct {
	FirstName  string
	MiddleName string
	LastName   string
}

// ParseFullName splits a full name into first/middle/last parts.
// One token fills only the first name, two tokens fill first and last,
// three or more put everything between the ends into the middle name.
func ParseFullName(fullName string) NameParts {
	tokens := strings.Fields(strings.TrimSpace(fullName))
	switch len(tokens) {
	case 0:
		return NameParts{}
	case 1:
		return NameParts{FirstName: tokens[0]}
	case 2:
		return NameParts{FirstName: tokens[0], LastName: tokens[1]}
	default:
		return NameParts{
			FirstName:  tokens[0],
			MiddleName: strings.Join(tokens[1:len(tokens)-1], " "),
			LastName:   tokens[len(tokens)-1],
		}
	}
}

// DisplayName assembles a human-readable name from the stored parts in the
// fixed order: title, first, middle, last, alias in parentheses.
func DisplayName(title, first, middle, last, alias string) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{title, first, middle, last} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	if a := strings.TrimSpace(alias); a != "" {
		parts = append(parts, "("+a+")")
	}
	if len(parts) == 0 {
		return UnknownAuthor
	}
	return strings.Join(parts, " ")
}
