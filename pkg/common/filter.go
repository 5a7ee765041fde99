package common

import (
	"path"
)

// MatchWildcard reports whether the whole name matches the shell pattern.
// Supported syntax is '*', '?' and bracket classes, case-sensitive.
func MatchWildcard(name string, pattern string) (bool, error) {
	matched, err := path.Match(pattern, name)
	if err != nil {
		return false, NewUserInputError(pattern, "malformed wildcard pattern")
	}

	return matched, nil
}

// FilterByWildcard keeps the names matching pattern, preserving their order.
func FilterByWildcard(names []string, pattern string) ([]string, error) {
	// validate up front so an empty listing still rejects a bad pattern
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, NewUserInputError(pattern, "malformed wildcard pattern")
	}

	matching := []string{}
	for _, name := range names {
		matched, err := MatchWildcard(name, pattern)
		if err != nil {
			return nil, err
		}
		if matched {
			matching = append(matching, name)
		}
	}

	return matching, nil
}
