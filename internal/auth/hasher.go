package auth

import (
	"github.com/2beens/neuralspace/pkg"
)

// dummyPasswordHash is a bcrypt hash at pkg.PasswordHashCost of a password
// nobody can log in with.
const dummyPasswordHash = "$2b$12$LRk/VZ.uoOjBZB5w/IvTn.P91.iNZ4vtM7pQAxjdmriDDkRoQUa.i"

// Hasher hashes and verifies admin passwords with bcrypt.
type Hasher struct {
	dummyHash string
}

func NewHasher() *Hasher {
	return &Hasher{
		dummyHash: dummyPasswordHash,
	}
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	return pkg.HashPassword(plaintext)
}

// Verify never panics; a malformed hash does not match.
func (h *Hasher) Verify(plaintext, hash string) bool {
	return pkg.CheckPasswordHash(plaintext, hash)
}

// VerifyDummy runs a full bcrypt comparison against a throwaway hash, so a
// lookup miss costs about as much as a wrong password.
func (h *Hasher) VerifyDummy(plaintext string) {
	_ = pkg.CheckPasswordHash(plaintext, h.dummyHash)
}
