package principal

import "golang.org/x/crypto/bcrypt"

// comparePassword checks a plaintext secret against a stored bcrypt hash.
func comparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
