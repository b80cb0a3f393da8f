package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plain-text password with the configured bcrypt
// cost (BCRYPT_COST).  An out-of-range cost falls back to
// bcrypt.DefaultCost so a misconfigured deployment degrades to a sane
// work factor instead of refusing every registration.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// The comparison is constant-time inside bcrypt.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
