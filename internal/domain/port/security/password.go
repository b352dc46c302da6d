package security

// PasswordHasher hashes and verifies passwords with a salted one-way function
type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(hash, password string) bool
}
