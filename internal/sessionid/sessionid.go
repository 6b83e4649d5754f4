// Package sessionid issues identifiers for server sessions. IDs are UUIDv7
// layouts encoded as 26 characters of lowercase Crockford base32, so they sort
// by creation time.
package sessionid

import (
	"encoding/base32"
	"fmt"
	rand "math/rand/v2"
	"strings"
	"sync"

	"github.com/coder/quartz"
	"github.com/lox/blackjackforbots/internal/randutil"
)

const (
	alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

	// Length of every encoded ID
	Length = 26
)

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// Generator creates session IDs. It is safe for concurrent use.
type Generator struct {
	clock quartz.Clock
	mu    sync.Mutex
	rng   *rand.Rand
}

// NewGenerator creates a generator. A nil clock uses the real clock and a nil
// rng a time-seeded one.
func NewGenerator(clock quartz.Clock, rng *rand.Rand) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if rng == nil {
		rng = randutil.NewFromTime()
	}
	return &Generator{clock: clock, rng: rng}
}

// Next returns a new ID stamped with the generator's clock
func (g *Generator) Next() string {
	var id [16]byte

	// 48-bit millisecond timestamp, big-endian
	now := g.clock.Now().UnixMilli()
	for i := range 6 {
		id[i] = byte(now >> (40 - 8*i))
	}

	g.mu.Lock()
	for i := 6; i < 16; i++ {
		id[i] = byte(g.rng.IntN(256))
	}
	g.mu.Unlock()

	id[6] = (id[6] & 0x0f) | 0x70 // version 7
	id[8] = (id[8] & 0x3f) | 0x80 // variant 10

	return encoding.EncodeToString(id[:])
}

// Validate checks that id is a well-formed session ID
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("session ID must be exactly %d characters, got %d", Length, len(id))
	}
	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	if _, err := encoding.DecodeString(id); err != nil {
		return fmt.Errorf("invalid session ID: %w", err)
	}
	return nil
}
