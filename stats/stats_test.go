package stats

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"

	"github.com/ovlad32/ams/misc/serde"
	"github.com/ovlad32/ams/sources"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.bin")
	fl, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fl.Close()
	w := bufio.NewWriter(fl)
	records := [][]uint32{
		{1, 2},
		{1, 2, 3},
		{2, 3},
		{1, 2, 3, 40},
	}
	for i, items := range records {
		if _, err := serde.SetWriteTo(w, uint32(i+1), items); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	return path
}

func Test_InspectExact(t *testing.T) {
	src, err := sources.Open(writeFixture(t))
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	s, err := Inspect(src, false)
	if err != nil {
		t.Fatal(err)
	}
	if s.Records != 4 {
		t.Errorf("Records: expect 4, got %v", s.Records)
	}
	if s.ItemOccurrences != 11 {
		t.Errorf("ItemOccurrences: expect 11, got %v", s.ItemOccurrences)
	}
	if s.MinSetSize != 2 || s.MaxSetSize != 4 {
		t.Errorf("set size range: expect 2..4, got %v..%v", s.MinSetSize, s.MaxSetSize)
	}
	if s.MaxItemID != 40 {
		t.Errorf("MaxItemID: expect 40, got %v", s.MaxItemID)
	}
	if s.DistinctItems != 4 {
		t.Errorf("DistinctItems: expect 4, got %v", s.DistinctItems)
	}
	if s.Approximate {
		t.Error("exact scan must not be marked approximate")
	}
}

func Test_InspectApproximate(t *testing.T) {
	src, err := sources.Open(writeFixture(t))
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	s, err := Inspect(src, true)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Approximate {
		t.Error("estimated scan must be marked approximate")
	}
	// At precision 14 an estimate over 4 distinct values is exact in
	// practice; allow a generous margin anyway.
	if s.DistinctItems < 3 || s.DistinctItems > 5 {
		t.Errorf("DistinctItems estimate: expect about 4, got %v", s.DistinctItems)
	}
	if s.MaxItemID != 40 {
		t.Errorf("MaxItemID: expect 40, got %v", s.MaxItemID)
	}
}
