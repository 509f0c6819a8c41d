package pkg

import "golang.org/x/crypto/bcrypt"

const passwordHashCost = 12

// HashPassword returns the bcrypt hash stored in profiles.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	return string(hash), err
}

// CheckPasswordHash also accepts hashes made with a different cost.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
