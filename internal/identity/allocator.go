package identity

import (
	"encoding/binary"
	"io"
	"strconv"

	"github.com/google/uuid"
)

// Allocator hands out short device identifiers. Ids are drawn from a random
// 128-bit value folded to 64 bits, so collisions are unlikely but possible;
// the registry remains the authority on uniqueness.
type Allocator struct {
	rand io.Reader
}

func NewAllocator() *Allocator {
	return &Allocator{}
}

// NewAllocatorWithReader uses r as the entropy source. Tests use it for
// deterministic ids.
func NewAllocatorWithReader(r io.Reader) *Allocator {
	return &Allocator{rand: r}
}

// Generate returns a base-36 id of at most 13 characters.
func (a *Allocator) Generate() string {
	u := a.newUUID()
	hi := binary.BigEndian.Uint64(u[:8])
	lo := binary.BigEndian.Uint64(u[8:])
	return strconv.FormatUint(hi^lo, 36)
}

func (a *Allocator) newUUID() uuid.UUID {
	if a.rand == nil {
		return uuid.New()
	}
	u, err := uuid.NewRandomFromReader(a.rand)
	if err != nil {
		// exhausted test reader; fall back to the process source
		return uuid.New()
	}
	return u
}
