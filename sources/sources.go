// Package sources provides sequential record readers over sorted itemset
// datasets: the packed binary format, the whitespace text format, and the
// DIMACS CNF clause format consumed by the preprocessor.
package sources

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var logger = log.StandardLogger()

func SetLogger(l *log.Logger) {
	logger = l
}

// ErrMalformed is the cause of the record-format violations reported by
// the text and DIMACS sources (empty sets or clauses, non-increasing
// items, truncated records, stray tokens), of non-increasing items in the
// binary source, and of input that breaks an engine's ordering premise.
// The binary source reports zero-size, oversized and truncated records
// with errors from misc/serde, whose cause is not ErrMalformed.
var ErrMalformed = errors.New("malformed record")

func IsMalformed(err error) bool {
	return errors.Cause(err) == ErrMalformed
}

// IRecordSource is a sequential reader over a sorted dataset.
// Next returns ok=false with a nil error on EOF; every error is fatal to
// the run consuming the source. The returned item slice is only valid
// until the following Next call. Tell reports the byte offset of the next
// unread record, usable as a Seek target to resume a scan.
type IRecordSource interface {
	Next() (id uint32, items []uint32, ok bool, err error)
	Seek(offset int64) error
	Tell() int64
}
