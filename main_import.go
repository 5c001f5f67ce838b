package main

import (
	"bufio"
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/ovlad32/ams/misc/serde"
	"github.com/pkg/errors"
)

// mainImport streams (set_id, item) pairs out of a database query and
// groups consecutive rows with the same set_id into packed binary
// records. The query must order by set_id, then item. The resulting file
// still needs item-fixer or sorter before an engine can consume it.
func mainImport(ctx context.Context) (err error) {
	db, err := sql.Open(sqlDriver, sqlDsn)
	if err != nil {
		return errors.Wrapf(err, "opening %v datasource", sqlDriver)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, sqlQuery)
	if err != nil {
		return errors.Wrap(err, "running import query")
	}
	defer rows.Close()

	fl, err := os.Create(datasetPath)
	if err != nil {
		return errors.Wrapf(err, "couldn't open output file %v for writing", datasetPath)
	}
	defer func() {
		if cerr := fl.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "couldn't close output file %v", datasetPath)
		}
	}()
	w := bufio.NewWriter(fl)

	startTime := time.Now()
	tickTime := startTime
	var currentID uint32
	var items []uint32
	var totalRows, totalSets int

	flush := func() error {
		if len(items) == 0 {
			return nil
		}
		if _, werr := serde.SetWriteTo(w, currentID, items); werr != nil {
			return errors.Wrapf(werr, "couldn't write set %v", currentID)
		}
		totalSets++
		items = items[:0]
		return nil
	}

	for rows.Next() {
		var setID, item uint32
		if err = rows.Scan(&setID, &item); err != nil {
			err = errors.WithStack(err)
			return
		}
		if len(items) > 0 && setID != currentID {
			if err = flush(); err != nil {
				return
			}
		}
		currentID = setID
		items = append(items, item)
		totalRows++
		if time.Since(tickTime).Seconds() >= 1 {
			tickTime = time.Now()
			logger.Infof("Imported %v rows into %v sets", totalRows, totalSets)
		}
	}
	if err = rows.Err(); err != nil {
		err = errors.Wrap(err, "reading import query rows")
		return
	}
	if err = flush(); err != nil {
		return
	}
	if err = w.Flush(); err != nil {
		err = errors.Wrap(err, "couldn't flush output")
		return
	}
	logger.Infof("Imported %v rows into %v sets in %v", totalRows, totalSets, time.Since(startTime))
	return nil
}
