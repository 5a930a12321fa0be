package history

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	idMu    sync.Mutex
	entropy io.Reader
)

func init() {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	entropy = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// NewID returns a ULID for a record created at t. IDs generated within the
// same millisecond still sort in creation order.
func NewID(t time.Time) string {
	idMu.Lock()
	defer idMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(t.UTC()), entropy).String()
}

// ParseID reports whether s is a well-formed record ID.
func ParseID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
