package meta

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/RoaringBitmap/roaring"
	_ "github.com/mattn/go-sqlite3"
)

func openTestDb(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+filepath.Join(t.TempDir(), "catalog.db3"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func Test_RunRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := RunRepo{Db: openTestDb(t)}
	if err := repo.Init(ctx); err != nil {
		t.Fatalf("Init: %+v", err)
	}
	// Init must be idempotent.
	if err := repo.Init(ctx); err != nil {
		t.Fatalf("repeated Init: %+v", err)
	}

	ids := roaring.BitmapOf(3, 40, 1000)
	run := &RunRecord{
		Dataset:       "testdata/sample.bin",
		Engine:        "lex",
		OutputMode:    "count-only",
		MaxItemsInRAM: 50,
		InputSets:     1000,
		MaximalSets:   3,
		Checks:        123456,
		StartedAt:     time.Date(2021, 5, 14, 10, 30, 0, 0, time.UTC),
		Duration:      1500 * time.Millisecond,
		MaximalIDs:    ids,
	}
	if err := repo.Insert(ctx, run); err != nil {
		t.Fatalf("Insert: %+v", err)
	}
	if run.ID == 0 {
		t.Fatal("Insert must assign an id")
	}

	second := &RunRecord{
		Dataset:    "testdata/sample.bin",
		Engine:     "cardinality",
		OutputMode: "id",
		StartedAt:  time.Date(2021, 5, 14, 11, 0, 0, 0, time.UTC),
	}
	if err := repo.Insert(ctx, second); err != nil {
		t.Fatalf("second Insert: %+v", err)
	}

	runs, err := repo.History(ctx, 10)
	if err != nil {
		t.Fatalf("History: %+v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("History: expected 2 runs, got %v", len(runs))
	}
	if runs[0].ID != second.ID || runs[1].ID != run.ID {
		t.Errorf("History must be newest first: got %v then %v", runs[0].ID, runs[1].ID)
	}
	got := runs[1]
	if got.Engine != "lex" || got.InputSets != 1000 || got.MaximalSets != 3 || got.Checks != 123456 {
		t.Errorf("restored run differs: %+v", got)
	}
	if !got.StartedAt.Equal(run.StartedAt) {
		t.Errorf("StartedAt: expected %v, got %v", run.StartedAt, got.StartedAt)
	}
	if got.Duration != run.Duration {
		t.Errorf("Duration: expected %v, got %v", run.Duration, got.Duration)
	}
	if got.MaximalIDs == nil || !got.MaximalIDs.Equals(ids) {
		t.Errorf("MaximalIDs: expected %v, got %v", ids, got.MaximalIDs)
	}
	if runs[0].MaximalIDs != nil {
		t.Errorf("run without a bitmap must restore as nil, got %v", runs[0].MaximalIDs)
	}
}
