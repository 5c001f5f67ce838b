package sources

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DimacsScanner reads clauses from a DIMACS CNF stream. Comment and
// header lines (any line whose first token is not an integer) are
// skipped; a clause is a run of non-zero signed literals terminated by
// 0 and may span lines.
type DimacsScanner struct {
	r       *bufio.Reader
	pending []string
	clause  []int32
	line    int
}

func NewDimacsScanner(r io.Reader) *DimacsScanner {
	return &DimacsScanner{r: bufio.NewReader(r)}
}

func (d *DimacsScanner) nextFields() (fields []string, eof bool, err error) {
	for {
		line, rerr := d.r.ReadString('\n')
		if rerr != nil && rerr != io.EOF {
			err = errors.Wrap(rerr, "reading dimacs input")
			return
		}
		d.line++
		fields = strings.Fields(line)
		if len(fields) > 0 {
			return
		}
		if rerr == io.EOF {
			eof = true
			return
		}
	}
}

// Next returns the next clause, or ok=false on a clean EOF. The returned
// slice is only valid until the following call.
func (d *DimacsScanner) Next() (clause []int32, ok bool, err error) {
	d.clause = d.clause[:0]
	for {
		fields := d.pending
		d.pending = nil
		if len(fields) == 0 {
			var eof bool
			fields, eof, err = d.nextFields()
			if err != nil {
				return
			}
			if len(fields) == 0 && eof {
				if len(d.clause) > 0 {
					err = errors.Wrapf(ErrMalformed, "line %v: unterminated clause", d.line)
				}
				return
			}
		}
		for i, field := range fields {
			literal, perr := strconv.ParseInt(field, 10, 32)
			if perr != nil {
				if len(d.clause) > 0 || i > 0 {
					err = errors.Wrapf(ErrMalformed, "line %v: unexpected non-integer %q in clause", d.line, field)
					return
				}
				// Comment or header line; drop the rest of it.
				fields = nil
				break
			}
			if literal == 0 {
				if len(d.clause) == 0 {
					err = errors.Wrapf(ErrMalformed, "line %v: empty clause", d.line)
					return
				}
				d.pending = fields[i+1:]
				clause = d.clause
				ok = true
				return
			}
			d.clause = append(d.clause, int32(literal))
		}
	}
}
