package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/pcdogyu/tradesession/internal/config"
	"github.com/pcdogyu/tradesession/internal/market"
	"github.com/pcdogyu/tradesession/internal/source"
	"github.com/pcdogyu/tradesession/internal/store/sqlite"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "init-db":
		fs := flag.NewFlagSet("init-db", flag.ExitOnError)
		cfgPath := fs.String("config", "configs/config.yaml", "config path (YAML)")
		_ = fs.Parse(os.Args[2:])

		cfg, err := config.Load(*cfgPath)
		fatalIf(logger, err)
		db, err := sqlite.Open(cfg.DBPath)
		fatalIf(logger, err)
		defer db.Close()
		fatalIf(logger, sqlite.Migrate(db))
		logger.Info("db initialized", zap.String("path", cfg.DBPath))
	case "import":
		fs := flag.NewFlagSet("import", flag.ExitOnError)
		cfgPath := fs.String("config", "configs/config.yaml", "config path (YAML)")
		csvPath := fs.String("csv", "", "database export CSV (symbol[,exchange],sessions-json)")
		_ = fs.Parse(os.Args[2:])

		cfg, err := config.Load(*cfgPath)
		fatalIf(logger, err)
		db, err := sqlite.Open(cfg.DBPath)
		fatalIf(logger, err)
		defer db.Close()
		fatalIf(logger, sqlite.Migrate(db))
		fatalIf(logger, importExport(logger, db, *csvPath))
	case "check":
		fs := flag.NewFlagSet("check", flag.ExitOnError)
		cfgPath := fs.String("config", "configs/config.yaml", "config path (YAML)")
		symbol := fs.String("symbol", "", "instrument symbol")
		at := fs.String("at", "", "time of day HH:MM, default now")
		closed := fs.Bool("closed-end", false, "treat the closing minute as in session")
		_ = fs.Parse(os.Args[2:])

		mgr, closeFn, err := buildMgr(logger, *cfgPath)
		fatalIf(logger, err)
		defer closeFn()

		hm, err := atMinute(*at)
		fatalIf(logger, err)
		s, err := mgr.GetSession(*symbol)
		fatalIf(logger, err)
		fmt.Printf("%s @ %02d:%02d in session: %v\n", *symbol, hm/60, hm%60, s.InSessionMinute(hm, *closed))
	case "show":
		fs := flag.NewFlagSet("show", flag.ExitOnError)
		cfgPath := fs.String("config", "configs/config.yaml", "config path (YAML)")
		symbol := fs.String("symbol", "", "instrument symbol; empty shows all")
		_ = fs.Parse(os.Args[2:])

		mgr, closeFn, err := buildMgr(logger, *cfgPath)
		fatalIf(logger, err)
		defer closeFn()

		if *symbol != "" {
			s, err := mgr.GetSession(*symbol)
			fatalIf(logger, err)
			fmt.Printf("%s: %s\n", *symbol, s)
			return
		}
		m := mgr.SessionMap()
		symbols := make([]string, 0, len(m))
		for k := range m {
			symbols = append(symbols, k)
		}
		sort.Strings(symbols)
		for _, k := range symbols {
			fmt.Printf("%s: %s\n", k, m[k])
		}
	case "presets":
		for _, name := range market.PresetNames() {
			s, err := market.PresetSession(name)
			fatalIf(logger, err)
			fmt.Printf("%s: %s\n", name, s)
		}
	default:
		usage()
		os.Exit(2)
	}
}

// buildMgr loads the registry from the configured sources, layered in a
// fixed order: presets, slice CSV, export CSV, SQLite.
func buildMgr(logger *zap.Logger, cfgPath string) (*market.SessionMgr, func(), error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	merge := *cfg.Reload.Merge

	closeFn := func() {}
	mgr := market.NewSessionMgr(logger)
	if len(cfg.Presets) > 0 {
		if err := mgr.Reload(source.Presets{Assign: cfg.Presets}, merge); err != nil {
			return nil, nil, err
		}
	}
	if cfg.SlicesCSV != "" {
		if err := mgr.Reload(source.SliceCSV{Path: cfg.SlicesCSV}, merge); err != nil {
			return nil, nil, err
		}
	}
	if cfg.ExportCSV != "" {
		if err := mgr.Reload(source.DBExportCSV{Path: cfg.ExportCSV}, merge); err != nil {
			return nil, nil, err
		}
	}
	if cfg.DBPath != "" {
		db, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		closeFn = func() { db.Close() }
		if err := sqlite.Migrate(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		if err := mgr.Reload(source.SQLite{DB: db}, merge); err != nil {
			db.Close()
			return nil, nil, err
		}
	}
	return mgr, closeFn, nil
}

// importExport validates an export file and upserts its rows into the db.
func importExport(logger *zap.Logger, db *sql.DB, csvPath string) error {
	rows, err := source.ReadExportFile(csvPath)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, r := range rows {
		defs, err := source.ParseJSONSlices(r.Sessions)
		if err != nil {
			return fmt.Errorf("symbol %q: %w", r.Symbol, err)
		}
		s := market.NewTradeSession()
		for _, d := range defs {
			if err := s.AddSlice(d.StartHour, d.StartMinute, d.EndHour, d.EndMinute); err != nil {
				return fmt.Errorf("symbol %q: %w", r.Symbol, err)
			}
		}
		if err := s.PostFix(); err != nil {
			return fmt.Errorf("symbol %q: %w", r.Symbol, err)
		}
		if err := sqlite.UpsertSessionDef(db, r.Symbol, r.Exchange, r.Sessions, now); err != nil {
			return err
		}
	}
	logger.Info("session defs imported", zap.Int("rows", len(rows)), zap.String("csv", csvPath))
	return nil
}

func atMinute(at string) (int, error) {
	if at == "" {
		now := time.Now()
		return now.Hour()*60 + now.Minute(), nil
	}
	t, err := time.Parse("15:04", at)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  tsq init-db -config configs/config.yaml")
	fmt.Fprintln(os.Stderr, "  tsq import  -config configs/config.yaml -csv sessions.csv")
	fmt.Fprintln(os.Stderr, "  tsq check   -config configs/config.yaml -symbol ru [-at HH:MM] [-closed-end]")
	fmt.Fprintln(os.Stderr, "  tsq show    -config configs/config.yaml [-symbol ru]")
	fmt.Fprintln(os.Stderr, "  tsq presets")
}

func fatalIf(logger *zap.Logger, err error) {
	if err != nil {
		logger.Fatal(err.Error())
	}
}
