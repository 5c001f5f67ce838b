package meta

import (
	"context"
	"database/sql"
	"time"

	"github.com/RoaringBitmap/roaring"
	"github.com/pkg/errors"
)

type RunRepo struct {
	Db *sql.DB
}

// Init creates the catalog schema.
func (r RunRepo) Init(ctx context.Context) (err error) {
	var ddls = []string{
		`create table if not exists runs(
				id integer primary key autoincrement,
				dataset text not null,
				engine text not null,
				output_mode text not null,
				max_items_in_ram integer not null,
				input_sets integer not null,
				maximal_sets integer not null,
				checks integer not null,
				started_at text not null,
				duration_ms integer not null,
				maximal_ids blob
			)`,
		`create index if not exists runs__dataset on runs(dataset)`,
	}
	for _, ddl := range ddls {
		_, err = r.Db.ExecContext(ctx, ddl)
		if err != nil {
			err = errors.Wrap(err, "couldn't initialize run catalog schema")
			return
		}
	}
	return
}

// Insert stores one run and fills in its assigned id.
func (r RunRepo) Insert(ctx context.Context, run *RunRecord) (err error) {
	var ids []byte
	if run.MaximalIDs != nil {
		ids, err = run.MaximalIDs.MarshalBinary()
		if err != nil {
			err = errors.Wrap(err, "couldn't serialize maximal id bitmap")
			return
		}
	}
	res, err := r.Db.ExecContext(ctx, `
			insert into runs(
				dataset, engine, output_mode, max_items_in_ram,
				input_sets, maximal_sets, checks,
				started_at, duration_ms, maximal_ids
			) values (?,?,?,?, ?,?,?, ?,?,?)`,
		run.Dataset, run.Engine, run.OutputMode, run.MaxItemsInRAM,
		run.InputSets, run.MaximalSets, run.Checks,
		run.StartedAt.UTC().Format(time.RFC3339), run.Duration.Milliseconds(), ids,
	)
	if err != nil {
		err = errors.WithStack(err)
		return
	}
	run.ID, err = res.LastInsertId()
	if err != nil {
		err = errors.WithStack(err)
	}
	return
}

// History returns the most recent runs, newest first.
func (r RunRepo) History(ctx context.Context, limit int) (runs []*RunRecord, err error) {
	rs, err := r.Db.QueryContext(ctx, `
			select id, dataset, engine, output_mode, max_items_in_ram,
				input_sets, maximal_sets, checks,
				started_at, duration_ms, maximal_ids
			from runs order by id desc limit ?`, limit)
	if err != nil {
		err = errors.WithStack(err)
		return
	}
	defer rs.Close()
	runs = make([]*RunRecord, 0)
	for rs.Next() {
		run := &RunRecord{}
		var startedAt string
		var durationMs int64
		var ids []byte
		err = rs.Scan(&run.ID, &run.Dataset, &run.Engine, &run.OutputMode, &run.MaxItemsInRAM,
			&run.InputSets, &run.MaximalSets, &run.Checks,
			&startedAt, &durationMs, &ids)
		if err != nil {
			err = errors.WithStack(err)
			return
		}
		run.StartedAt, err = time.Parse(time.RFC3339, startedAt)
		if err != nil {
			err = errors.Wrapf(err, "couldn't parse started_at of run %v", run.ID)
			return
		}
		run.Duration = time.Duration(durationMs) * time.Millisecond
		if len(ids) > 0 {
			bm := roaring.NewBitmap()
			if err = bm.UnmarshalBinary(ids); err != nil {
				err = errors.Wrapf(err, "couldn't deserialize maximal id bitmap of run %v", run.ID)
				return
			}
			run.MaximalIDs = bm
		}
		runs = append(runs, run)
	}
	err = errors.WithStack(rs.Err())
	return
}
