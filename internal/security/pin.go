// Package security holds the client-side PIN hashing helper. The
// AUTH_REQUEST handler never verifies the PIN it's sent — presence of the
// urn is sufficient — so bcrypt is used only when a client registers a
// user and wants to store something other than a raw PIN, following
// golang.org/x/crypto/bcrypt as already required by the retrieved
// ride-hailing corpus's own user registration path (internal/shared/user
// in ember-in-void-ride-hail).
package security

import "golang.org/x/crypto/bcrypt"

// HashPIN returns a bcrypt hash of pin suitable for REGISTER_USER's
// pin_hash field.
func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPIN reports whether pin matches hash. Provided for completeness
// and for tests; no server handler in this module calls it, since
// AUTH_REQUEST does not check the PIN.
func VerifyPIN(hash, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
