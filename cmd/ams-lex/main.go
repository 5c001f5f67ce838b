// Invokes the lexicographic all-maximal-sets engine over a packed
// binary dataset sorted in increasing lexicographic order.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ovlad32/ams/engine"
	"github.com/ovlad32/ams/sources"
)

func main() {
	startTime := time.Now()

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "ERROR: Usage is: ams-lex <dataset_path>")
		os.Exit(1)
	}

	src, err := sources.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(2)
	}
	defer src.Close()

	eng := engine.NewLexicographic(engine.NewEmitter(engine.CountOnly, nil))
	if err := eng.FindAllMaximalSets(src, 8000000, 1000000000); err != nil {
		fmt.Fprintf(os.Stderr, "IO ERROR: %v\n", err)
		os.Exit(3)
	}

	fmt.Fprintf(os.Stderr, "; Found %v maximal itemsets.\n", eng.MaximalSetsCount())
	fmt.Fprintf(os.Stderr, "; Number of itemsets in the input: %v\n", eng.InputSetsCount())
	fmt.Fprintf(os.Stderr, "; Number of candidate seeks performed: %v\n", eng.CandidateSeekCount())
	fmt.Fprintf(os.Stderr, "; Total running time: %v\n", time.Since(startTime))
}
