package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted bcrypt digest of pw.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost) // cost=10
	return string(b), err
}

// CheckPassword reports whether pw matches the stored digest. It never
// returns an error: any failure (including a malformed digest) reads as a
// mismatch.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
