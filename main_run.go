package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/RoaringBitmap/roaring"
	"github.com/ovlad32/ams/engine"
	"github.com/ovlad32/ams/meta"
	"github.com/ovlad32/ams/stats"
	"github.com/pkg/errors"
)

func mainRun(ctx context.Context, db *sql.DB) (err error) {
	outputMode, ok := engine.ParseOutputMode(outputModeName)
	if !ok {
		return errors.Errorf("unknown output mode %q", outputModeName)
	}

	src, closeSrc, err := openSource()
	if err != nil {
		return err
	}
	defer closeSrc()

	hint := uint32(maxItemID)
	if hint == 0 {
		logger.Info("No max item id hint given; pre-scanning the dataset")
		summary, serr := stats.Inspect(src, false)
		if serr != nil {
			return serr
		}
		hint = summary.MaxItemID + 1
		if err = src.Seek(0); err != nil {
			return err
		}
	}

	emitter := engine.NewEmitter(outputMode, nil)
	maximalIDs := roaring.NewBitmap()
	emitter.CollectInto(maximalIDs)

	run := meta.RunRecord{
		Dataset:       datasetPath,
		Engine:        engineName,
		OutputMode:    outputMode.String(),
		MaxItemsInRAM: uint32(maxItemsInRAM),
		StartedAt:     time.Now(),
	}

	switch engineName {
	case "cardinality":
		eng := engine.NewCardinality(emitter)
		if err = eng.FindAllMaximalSets(src, hint, uint32(maxItemsInRAM)); err != nil {
			return err
		}
		run.InputSets = eng.InputSetsCount()
		run.MaximalSets = eng.MaximalSetsCount()
		run.Checks = eng.SubsumptionChecksCount()
		logger.Infof("Found %v maximal itemsets", eng.MaximalSetsCount())
		logger.Infof("Number of itemsets in the input: %v", eng.InputSetsCount())
		logger.Infof("Number of subsumption checks performed: %v", eng.SubsumptionChecksCount())
	case "lex":
		eng := engine.NewLexicographic(emitter)
		if err = eng.FindAllMaximalSets(src, hint, uint32(maxItemsInRAM)); err != nil {
			return err
		}
		run.InputSets = eng.InputSetsCount()
		run.MaximalSets = eng.MaximalSetsCount()
		run.Checks = eng.CandidateSeekCount()
		logger.Infof("Found %v maximal itemsets", eng.MaximalSetsCount())
		logger.Infof("Number of itemsets in the input: %v", eng.InputSetsCount())
		logger.Infof("Number of candidate seeks performed: %v", eng.CandidateSeekCount())
	default:
		return errors.Errorf("unknown engine %q", engineName)
	}
	run.Duration = time.Since(run.StartedAt)
	run.MaximalIDs = maximalIDs
	logger.Infof("Total running time: %v", run.Duration)

	if db != nil {
		if err = (meta.RunRepo{Db: db}).Insert(ctx, &run); err != nil {
			return err
		}
		logger.Infof("Run recorded in the catalog with id %v", run.ID)
	}
	return nil
}

func mainHistory(ctx context.Context, db *sql.DB) (err error) {
	runs, err := meta.RunRepo{Db: db}.History(ctx, historyLimit)
	if err != nil {
		return err
	}
	for _, run := range runs {
		logger.Infof("#%v %v engine=%v out=%v ram=%v input=%v maximal=%v checks=%v at=%v took=%v",
			run.ID, run.Dataset, run.Engine, run.OutputMode, run.MaxItemsInRAM,
			run.InputSets, run.MaximalSets, run.Checks,
			run.StartedAt.Format(time.RFC3339), run.Duration)
	}
	return nil
}
