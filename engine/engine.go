// Package engine implements the two out-of-core maximal-set discovery
// engines. Both stream a sorted dataset through a record source, keep a
// bounded number of item occurrences in RAM, and emit every set that no
// other set in the input properly contains.
package engine

import (
	log "github.com/sirupsen/logrus"
)

var logger = log.StandardLogger()

func SetLogger(l *log.Logger) {
	logger = l
}

// OutputMode selects what is written for each maximal set found.
type OutputMode int

const (
	// CountOnly produces no per-set output; only counters.
	CountOnly OutputMode = iota
	// ID writes the set id of each maximal set, one per line.
	ID
	// IDAndItems writes the id followed by the items in input order.
	IDAndItems
)

func (m OutputMode) String() string {
	switch m {
	case CountOnly:
		return "count-only"
	case ID:
		return "id"
	case IDAndItems:
		return "id_and_items"
	}
	return "unknown"
}

// ParseOutputMode maps the CLI spelling of a mode to its value.
func ParseOutputMode(s string) (OutputMode, bool) {
	switch s {
	case "count", "count-only":
		return CountOnly, true
	case "id":
		return ID, true
	case "id_items", "id_and_items":
		return IDAndItems, true
	}
	return CountOnly, false
}
