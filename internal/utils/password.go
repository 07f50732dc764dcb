package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a rider's registration password with bcrypt.
// The cost comes from BCRYPT_COST; values outside bcrypt's supported
// range fall back to the library default so a missing or garbled
// setting degrades to slower hashing, never to a weak hash.
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

// VerifyPassword reports whether plain matches the stored hash.
// Used on login before any tokens are minted; bcrypt embeds the cost
// in the hash, so raising BCRYPT_COST later keeps old accounts valid.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
