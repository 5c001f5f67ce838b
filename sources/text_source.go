package sources

import (
	"bufio"
	"io"
	"os"

	"github.com/ovlad32/ams/sets"
	"github.com/pkg/errors"
)

// TextSource reads whitespace-separated text records: a set id followed
// by item ids, terminated by the item "0". Newlines are ordinary
// separators; a record may span lines.
type TextSource struct {
	// Lenient disables the strictly-increasing items check.
	Lenient bool

	path   string
	f      *os.File
	br     *bufio.Reader
	offset int64
	items  []uint32
}

// OpenText opens a text format dataset.
func OpenText(path string) (*TextSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening dataset %v", path)
	}
	return &TextSource{
		path: path,
		f:    f,
		br:   bufio.NewReader(f),
	}, nil
}

func (s *TextSource) Close() error {
	return s.f.Close()
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// nextToken scans the next unsigned decimal token. eof is only reported
// when the stream ends before any digit of the token was seen.
func (s *TextSource) nextToken() (value uint32, eof bool, err error) {
	var c byte
	for {
		c, err = s.br.ReadByte()
		if err == io.EOF {
			return 0, true, nil
		}
		if err != nil {
			return 0, false, errors.Wrapf(err, "reading %v at offset %v", s.path, s.offset)
		}
		s.offset++
		if !isSpace(c) {
			break
		}
	}
	var wide uint64
	for {
		if c < '0' || c > '9' {
			return 0, false, errors.Wrapf(ErrMalformed, "%v: unexpected character %q at offset %v", s.path, c, s.offset-1)
		}
		wide = wide*10 + uint64(c-'0')
		if wide > 1<<32-1 {
			return 0, false, errors.Wrapf(ErrMalformed, "%v: value overflows 32 bits at offset %v", s.path, s.offset-1)
		}
		c, err = s.br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, false, errors.Wrapf(err, "reading %v at offset %v", s.path, s.offset)
		}
		s.offset++
		if isSpace(c) {
			break
		}
	}
	return uint32(wide), false, nil
}

func (s *TextSource) Next() (id uint32, items []uint32, ok bool, err error) {
	var eof bool
	id, eof, err = s.nextToken()
	if err != nil {
		return
	}
	if eof {
		return
	}
	s.items = s.items[:0]
	for {
		var item uint32
		item, eof, err = s.nextToken()
		if err != nil {
			return
		}
		if eof {
			err = errors.Wrapf(ErrMalformed, "%v: truncated record for set %v", s.path, id)
			return
		}
		if item == 0 {
			break
		}
		s.items = append(s.items, item)
	}
	if len(s.items) == 0 {
		err = errors.Wrapf(ErrMalformed, "%v: empty set %v", s.path, id)
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
func (s *TextSource) Size() int64 {
	fi, err := s.f.Stat()
	if err != nil {
		return 0
	}
	return fi.Size()
}

func (s *TextSource) Seek(offset int64) error {
	if _, err := s.f.Seek(offset, io.SeekStart); err != nil {
		return errors.Wrapf(err, "seeking %v to offset %v", s.path, offset)
	}
	s.br.Reset(s.f)
	s.offset = offset
	return nil
}

func (s *TextSource) Tell() int64 {
	return s.offset
}
