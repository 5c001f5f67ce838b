package serde

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const uint32Size = 4

// MaxSetSize bounds a single record's item count. A size field beyond it
// almost certainly means the reader lost record framing.
const MaxSetSize uint32 = 1 << 28

func Uint32WriteTo(w io.Writer, payload uint32) (total int64, err error) {
	var buffer [uint32Size]byte
	var ni int
	binary.LittleEndian.PutUint32(buffer[:], payload)
	ni, err = w.Write(buffer[:])
	if err != nil {
		err = errors.Wrap(err, "couldn't serialize uint32 value")
		return
	}
	if ni != len(buffer) {
		err = errors.Errorf("written data length %v. Expected %v", ni, len(buffer))
		return
	}
	total += int64(ni)
	return
}

func Uint32ReadFrom(payload *uint32, r io.Reader) (total int64, err error) {
	var buffer [uint32Size]byte
	var ni int
	ni, err = io.ReadFull(r, buffer[:])
	total += int64(ni)
	if err != nil {
		if err == io.EOF {
			return
		}
		err = errors.Wrap(err, "couldn't deserialize uint32 value")
		return
	}
	*payload = binary.LittleEndian.Uint32(buffer[:])
	return
}

// SetWriteTo serializes one packed record: id, size, then the items.
func SetWriteTo(w io.Writer, id uint32, items []uint32) (total int64, err error) {
	var ni64 int64
	ni64, err = Uint32WriteTo(w, id)
	if err != nil {
		err = errors.Wrap(err, "couldn't serialize set id")
		return
	}
	total += ni64
	ni64, err = Uint32WriteTo(w, uint32(len(items)))
	if err != nil {
		err = errors.Wrap(err, "couldn't serialize set size")
		return
	}
	total += ni64
	for i := range items {
		ni64, err = Uint32WriteTo(w, items[i])
		if err != nil {
			err = errors.Wrapf(err, "couldn't serialize item at position #%v", i)
			return
		}
		total += ni64
	}
	return
}

// SetReadFrom deserializes one packed record into items, reusing its
// capacity. A clean EOF before the id field is reported as io.EOF with no
// bytes consumed; a truncation anywhere later is an error.
func SetReadFrom(id *uint32, items *[]uint32, r io.Reader) (total int64, err error) {
	var ni64 int64
	ni64, err = Uint32ReadFrom(id, r)
	total += ni64
	if err != nil {
		if err == io.EOF && ni64 == 0 {
			return
		}
		err = errors.Wrap(err, "couldn't deserialize set id")
		return
	}
	var size uint32
	ni64, err = Uint32ReadFrom(&size, r)
	total += ni64
	if err != nil {
		err = errors.Wrap(err, "couldn't deserialize set size")
		return
	}
	if size == 0 {
		err = errors.New("malformed record: zero set size")
		return
	}
	if size > MaxSetSize {
		err = errors.Errorf("malformed record: set size %v exceeds limit %v", size, MaxSetSize)
		return
	}
	if cap(*items) < int(size) {
		*items = make([]uint32, size)
	} else {
		*items = (*items)[:size]
	}
	for i := uint32(0); i < size; i++ {
		ni64, err = Uint32ReadFrom(&(*items)[i], r)
		total += ni64
		if err != nil {
			err = errors.Wrapf(err, "couldn't deserialize item at position #%v", i)
			return
		}
	}
	return
}
