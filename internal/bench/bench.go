// Package bench adapts the teacher codebase's common/benchmark/metrics.go
// accumulator (counts, byte totals, duration, derived throughput) to
// drive store.Database directly instead of the generic
// common.StorageEngine interface, which this store doesn't implement
// (no Delete, no range Iterator - both explicit non-goals).
package bench

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/skogkatt/wasteisland/store"
)

// Metrics accumulates the results of a Run.
type Metrics struct {
	Puts       int
	Gets       int
	BytesPut   int64
	Duration   time.Duration
}

// PutsPerSecond is the derived write throughput.
func (m Metrics) PutsPerSecond() float64 {
	if m.Duration <= 0 {
		return 0
	}
	return float64(m.Puts) / m.Duration.Seconds()
}

// String renders a human-readable summary, using go-humanize for byte
// counts the way the teacher's own cmd/demo narrates its output.
func (m Metrics) String() string {
	return fmt.Sprintf(
		"%d puts, %d gets, %s written in %s (%.0f puts/sec)",
		m.Puts, m.Gets, humanize.Bytes(uint64(m.BytesPut)), m.Duration, m.PutsPerSecond(),
	)
}

// Run puts numPayloads random payloads of payloadSize bytes into db,
// then reads every one of them back, returning accumulated Metrics.
func Run(db *store.Database, numPayloads, payloadSize int) (Metrics, error) {
	hashes := make([]string, 0, numPayloads)
	rng := rand.New(rand.NewSource(1))

	start := time.Now()
	var bytesPut int64
	for i := 0; i < numPayloads; i++ {
		payload := make([]byte, payloadSize)
		rng.Read(payload)
		h, err := db.Put(payload)
		if err != nil {
			return Metrics{}, err
		}
		hashes = append(hashes, h)
		bytesPut += int64(len(payload))
	}

	for _, h := range hashes {
		if _, err := db.Get(h); err != nil {
			return Metrics{}, err
		}
	}

	return Metrics{
		Puts:     numPayloads,
		Gets:     len(hashes),
		BytesPut: bytesPut,
		Duration: time.Since(start),
	}, nil
}
