// Package meta persists a catalog of engine runs in sqlite: which
// dataset was processed, with what engine and budget, and what the
// counters came out to.
package meta

import (
	"time"

	"github.com/RoaringBitmap/roaring"
	log "github.com/sirupsen/logrus"
)

var logger = log.StandardLogger()

func SetLogger(l *log.Logger) {
	logger = l
}

// RunRecord is one catalog entry.
type RunRecord struct {
	ID            int64
	Dataset       string
	Engine        string
	OutputMode    string
	MaxItemsInRAM uint32
	InputSets     int64
	MaximalSets   int64
	Checks        int64
	StartedAt     time.Time
	Duration      time.Duration
	// MaximalIDs optionally holds the emitted set ids; stored as a
	// serialized roaring bitmap.
	MaximalIDs *roaring.Bitmap
}
