// Package password hashes the short-lived secrets the API stores at
// rest, currently the six-digit partner login codes.
package password

import "golang.org/x/crypto/bcrypt"

// Hash bcrypt-hashes a login code at the default cost. The plain code
// only ever travels in the outbound email; the database sees the hash.
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare reports whether plain matches the stored hash. A nil return
// means match.
func Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
