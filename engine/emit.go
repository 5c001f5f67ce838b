package engine

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/RoaringBitmap/roaring"
	"github.com/ovlad32/ams/sets"
	"github.com/pkg/errors"
)

// Emitter writes maximal sets according to the output mode. Output is
// buffered; the engines flush it at every emission boundary (pass tail,
// chunk tail). An optional roaring bitmap collects the emitted ids for
// the run catalog.
type Emitter struct {
	mode    OutputMode
	w       *bufio.Writer
	collect *roaring.Bitmap
}

// NewEmitter builds an emitter for the mode. A nil writer means standard
// output.
func NewEmitter(mode OutputMode, w io.Writer) *Emitter {
	if w == nil {
		w = os.Stdout
	}
	return &Emitter{
		mode: mode,
		w:    bufio.NewWriter(w),
	}
}

// CollectInto additionally records every emitted set id in bm.
func (e *Emitter) CollectInto(bm *roaring.Bitmap) {
	e.collect = bm
}

func (e *Emitter) Emit(s *sets.Set) (err error) {
	if e.collect != nil {
		e.collect.Add(s.ID)
	}
	switch e.mode {
	case CountOnly:
		return
	case ID:
		_, err = e.w.WriteString(strconv.FormatUint(uint64(s.ID), 10))
		if err == nil {
			err = e.w.WriteByte('\n')
		}
	case IDAndItems:
		_, err = e.w.WriteString(s.String())
		if err == nil {
			err = e.w.WriteByte('\n')
		}
	}
	if err != nil {
		err = errors.Wrap(err, "couldn't write maximal set")
	}
	return
}

func (e *Emitter) Flush() error {
	if err := e.w.Flush(); err != nil {
		return errors.Wrap(err, "couldn't flush output")
	}
	return nil
}
