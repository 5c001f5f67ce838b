// Converts a DIMACS CNF file into a packed binary itemset dataset with
// frequency-relabeled items, sorted for the chosen engine.
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
		fmt.Fprintln(os.Stderr, "ERROR: Usage is: dimacs-to-apriori [-c] <input_cnf_path> <output_dataset_path>")
		os.Exit(1)
	}

	fl, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to open input file (%v): %v\n", args[0], err)
		os.Exit(2)
	}
	defer fl.Close()

	if err := prep.DimacsToApriori(sources.NewDimacsScanner(fl), args[1], byCardinality); err != nil {
		fmt.Fprintf(os.Stderr, "IO ERROR: %v\n", err)
		os.Exit(3)
	}
	fmt.Fprintf(os.Stderr, "; Total running time: %v\n", time.Since(startTime))
}
