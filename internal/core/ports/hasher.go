package ports

// PasswordHasher is the injected one-way hash capability. Algorithm choice
// lives entirely behind this interface.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
