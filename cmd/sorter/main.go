// Sorts a packed binary dataset in increasing lexicographic order, or
// in increasing cardinality order when -c is given.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ovlad32/ams/prep"
	"github.com/ovlad32/ams/sources"
)

func main() {
	startTime := time.Now()

	args := os.Args[1:]
	byCardinality := false
	if len(args) > 0 && args[0] == "-c" {
		byCardinality = true
		args = args[1:]
	}
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "ERROR: Usage is: sorter [-c] <input_dataset_path> <output_dataset_path>")
		os.Exit(1)
	}

	src, err := sources.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(2)
	}
	defer src.Close()
	src.Lenient = true

	if err := prep.Sort(src, args[1], byCardinality); err != nil {
		fmt.Fprintf(os.Stderr, "IO ERROR: %v\n", err)
		os.Exit(3)
	}
	fmt.Fprintf(os.Stderr, "; Total running time: %v\n", time.Since(startTime))
}
