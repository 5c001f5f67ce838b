package sources

import (
	"bufio"
	"io"
	"os"

	"github.com/ovlad32/ams/misc/serde"
	"github.com/ovlad32/ams/sets"
	"github.com/pkg/errors"
)

// BinarySource reads packed binary records: {id u32le, size u32le,
// items u32le x size} with no framing between records.
type BinarySource struct {
	// Lenient disables the strictly-increasing items check; the sorter
	// reads dirty datasets and skips invalid sets itself.
	Lenient bool

	path   string
	f      *os.File
	br     *bufio.Reader
	offset int64
	items  []uint32
}

// Open opens a packed binary dataset.
func Open(path string) (*BinarySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening dataset %v", path)
	}
	return &BinarySource{
		path: path,
		f:    f,
		br:   bufio.NewReader(f),
	}, nil
}

func (s *BinarySource) Close() error {
	return s.f.Close()
}

func (s *BinarySource) Next() (id uint32, items []uint32, ok bool, err error) {
	var n int64
	n, err = serde.SetReadFrom(&id, &s.items, s.br)
	s.offset += n
	if err != nil {
		if err == io.EOF {
			err = nil
			return
		}
		err = errors.Wrapf(err, "%v at offset %v", s.path, s.offset)
		return
	}
	if !s.Lenient && !sets.IsStrictlyIncreasing(s.items) {
		err = errors.Wrapf(ErrMalformed, "%v: set %v items are not strictly increasing", s.path, id)
		return
	}
	items = s.items
	ok = true
	return
}

// Size returns the dataset size in bytes, or 0 if it cannot be read.
func (s *BinarySource) Size() int64 {
	fi, err := s.f.Stat()
	if err != nil {
		return 0
	}
	return fi.Size()
}

func (s *BinarySource) Seek(offset int64) error {
	if _, err := s.f.Seek(offset, io.SeekStart); err != nil {
		return errors.Wrapf(err, "seeking %v to offset %v", s.path, offset)
	}
	s.br.Reset(s.f)
	s.offset = offset
	return nil
}

func (s *BinarySource) Tell() int64 {
	return s.offset
}
