package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ovlad32/ams/engine"
	"github.com/ovlad32/ams/meta"
	"github.com/ovlad32/ams/prep"
	"github.com/ovlad32/ams/sources"
	"github.com/ovlad32/ams/stats"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

/*
go run . -mode=init
go run . -mode=stats -dataset=./data.apriori.bin
go run . -mode=run -engine=cardinality -dataset=./data.card.bin -out=count
go run . -mode=run -engine=lex -dataset=./data.lex.bin -ram=1000000000 -out=id
go run . -mode=import -driver=mysql -dsn="user:pass@/db" -query="select tran_id, item_id from baskets order by tran_id, item_id" -dataset=./data.raw.bin
go run . -mode=history
*/
var logger = log.New()

var mode string
var workConfFile string
var datasetPath string
var engineName string
var outputModeName string
var maxItemsInRAM uint
var maxItemID uint
var textFormat bool
var approximate bool
var noCatalog bool
var sqlDriver string
var sqlDsn string
var sqlQuery string
var historyLimit int

func init() {
	flag.StringVar(&mode, "mode", "", "usage mode: init,run,stats,import,history")
	flag.StringVar(&workConfFile, "conf", "./workconf.ams.json", "config json file")
	flag.StringVar(&datasetPath, "dataset", "", "dataset file path")
	flag.StringVar(&engineName, "engine", "cardinality", "engine: cardinality,lex")
	flag.StringVar(&outputModeName, "out", "count", "output mode: count,id,id_items")
	flag.UintVar(&maxItemsInRAM, "ram", 1000000000, "max item occurrences held in RAM")
	flag.UintVar(&maxItemID, "maxItemId", 0, "max item id hint; 0 discovers it with a pre-scan")
	flag.BoolVar(&textFormat, "text", false, "dataset is in whitespace text format")
	flag.BoolVar(&approximate, "approx", false, "stats: estimate distinct items instead of exact counting")
	flag.BoolVar(&noCatalog, "noCatalog", false, "run: do not record the run in the catalog")
	flag.StringVar(&sqlDriver, "driver", "sqlite3", "import: database/sql driver name")
	flag.StringVar(&sqlDsn, "dsn", "", "import: connection string")
	flag.StringVar(&sqlQuery, "query", "", "import: query returning (set_id, item) ordered by set_id, item")
	flag.IntVar(&historyLimit, "limit", 20, "history: number of runs to list")

	flag.Parse()
	logger.Out = os.Stderr

	engine.SetLogger(logger)
	sources.SetLogger(logger)
	prep.SetLogger(logger)
	stats.SetLogger(logger)
	meta.SetLogger(logger)
}

type WorkConfType struct {
	SqliteConnString string `json:"sqlite-conn-string"`
	ShowCallerInLog  bool   `json:"show-caller-in-log"`
}

func readWorkConf() (wc WorkConfType, err error) {
	fl, err := os.OpenFile(workConfFile, os.O_RDONLY, 0x444)
	if err != nil {
		if os.IsNotExist(err) {
			err = nil
			return
		}
		err = errors.Wrapf(err, "Opening file %v", workConfFile)
		return
	}
	defer fl.Close()
	dec := json.NewDecoder(fl)
	err = dec.Decode(&wc)
	if err != nil {
		err = errors.Wrapf(err, "Parsing json work config")
	}
	return
}

func openSource() (sources.IRecordSource, func() error, error) {
	if textFormat {
		src, err := sources.OpenText(datasetPath)
		if err != nil {
			return nil, nil, err
		}
		return src, src.Close, nil
	}
	src, err := sources.Open(datasetPath)
	if err != nil {
		return nil, nil, err
	}
	return src, src.Close, nil
}

func main() {
	logger.SetLevel(log.InfoLevel)
	logger.SetFormatter(&log.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})

	ctx := context.TODO()
	wc, err := readWorkConf()
	if err != nil {
		logger.Fatal(err)
	}
	logger.SetReportCaller(wc.ShowCallerInLog)
	if wc.SqliteConnString == "" {
		wc.SqliteConnString = "file:./ams.db3"
	}

	switch strings.ToLower(mode) {
	case "init":
		{
			db, err := sql.Open("sqlite3", wc.SqliteConnString)
			if err != nil {
				logger.Fatal(err)
			}
			defer db.Close()
			err = meta.RunRepo{Db: db}.Init(ctx)
			if err != nil {
				logger.Fatalf("%+v", err)
			}
			logger.Info("run catalog initialized")
		}
	case "run":
		{
			if datasetPath == "" {
				logger.Fatal("Dataset has not been specified")
			}
			var db *sql.DB
			if !noCatalog {
				db, err = sql.Open("sqlite3", wc.SqliteConnString)
				if err != nil {
					logger.Fatal(err)
				}
				defer db.Close()
			}
			if err = mainRun(ctx, db); err != nil {
				logger.Fatalf("%+v", err)
			}
		}
	case "stats":
		{
			if datasetPath == "" {
				logger.Fatal("Dataset has not been specified")
			}
			if err = mainStats(); err != nil {
				logger.Fatalf("%+v", err)
			}
		}
	case "import":
		{
			if datasetPath == "" {
				logger.Fatal("Output dataset has not been specified")
			}
			if sqlDsn == "" || sqlQuery == "" {
				logger.Fatal("Import requires both -dsn and -query")
			}
			if err = mainImport(ctx); err != nil {
				logger.Fatalf("%+v", err)
			}
		}
	case "history":
		{
			db, err := sql.Open("sqlite3", wc.SqliteConnString)
			if err != nil {
				logger.Fatal(err)
			}
			defer db.Close()
			if err = mainHistory(ctx, db); err != nil {
				logger.Fatalf("%+v", err)
			}
		}
	default:
		logger.Fatalf("Unknown mode %q", mode)
	}
}
