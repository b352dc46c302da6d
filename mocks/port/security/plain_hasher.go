package security

import "strings"

// PlainHasher is a reversible stand-in for bcrypt in use case tests
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) {
	return "hash:" + password, nil
}

func (PlainHasher) Matches(hash, password string) bool {
	return strings.TrimPrefix(hash, "hash:") == password && strings.HasPrefix(hash, "hash:")
}
