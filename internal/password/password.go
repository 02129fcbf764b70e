// Package password hashes user passwords with bcrypt.
package password

import "golang.org/x/crypto/bcrypt"

// Hasher implements filemanager.PasswordHasher.
type Hasher struct {
	cost int
}

// New returns a Hasher using bcrypt.DefaultCost when cost is zero.
func New(cost int) *Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare reports whether password matches hash. Malformed hashes never match.
func (h *Hasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
