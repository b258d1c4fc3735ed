package pkg

import "golang.org/x/crypto/bcrypt"

// PasswordHashCost is the bcrypt work factor used for all new hashes.
const PasswordHashCost = 12

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", err
	}
	return BytesToString(bytes), nil
}

// CheckPasswordHash reports whether password matches hash. A malformed
// or empty hash never matches.
func CheckPasswordHash(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
