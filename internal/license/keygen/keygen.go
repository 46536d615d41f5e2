// Package keygen produces opaque, unguessable license keys.
package keygen

import (
	"strings"

	"github.com/google/uuid"
)

// Generator mints candidate license keys. The format is opaque to the rest of
// the system; only uniqueness and stability are contracted. Collisions are
// handled by the repository's insert retry, not here.
type Generator interface {
	NewKey() string
}

type generator struct{}

// New returns the default uuid-backed generator.
func New() Generator {
	return generator{}
}

func (generator) NewKey() string {
	return strings.ToUpper(uuid.NewString())
}
