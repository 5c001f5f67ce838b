package main

import (
	"github.com/ovlad32/ams/stats"
)

func mainStats() (err error) {
	src, closeSrc, err := openSource()
	if err != nil {
		return err
	}
	defer closeSrc()

	summary, err := stats.Inspect(src, approximate)
	if err != nil {
		return err
	}
	logger.Infof("Records: %v", summary.Records)
	logger.Infof("Item occurrences: %v", summary.ItemOccurrences)
	logger.Infof("Set size range: %v..%v", summary.MinSetSize, summary.MaxSetSize)
	logger.Infof("Max item id: %v", summary.MaxItemID)
	if summary.Approximate {
		logger.Infof("Distinct items (estimated): %v", summary.DistinctItems)
	} else {
		logger.Infof("Distinct items: %v", summary.DistinctItems)
	}
	return nil
}
