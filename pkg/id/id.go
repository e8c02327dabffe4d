package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SimulatedPrefix marks deal ids that were never booked.
const SimulatedPrefix = "SIM"

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// Monotonic entropy keeps ids minted in the same millisecond ordered.
	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID string. Run ids and simulated deal ids sort by creation
// time, which keeps the audit journal in order.
func New() string {
	return newAt(time.Now())
}

// Deal returns a synthetic deal id, "<prefix>-<ULID>".
func Deal(prefix string) string {
	return prefix + "-" + New()
}

func newAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(t.UTC()), mono)
	if err != nil {
		panic(err)
	}
	return id.String()
}

// Generator mints ids. Tests substitute a deterministic one.
type Generator interface {
	Next() string
}

type ulidGenerator struct{ prefix string }

func (g ulidGenerator) Next() string { return Deal(g.prefix) }

// NewGenerator returns a Generator of "<prefix>-<ULID>" ids.
func NewGenerator(prefix string) Generator {
	return ulidGenerator{prefix: prefix}
}
