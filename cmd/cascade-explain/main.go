package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dshills/CascadeDB/internal/catalog"
	"github.com/dshills/CascadeDB/internal/config"
	"github.com/dshills/CascadeDB/internal/log"
	"github.com/dshills/CascadeDB/internal/sql/opt"
	"github.com/dshills/CascadeDB/internal/sql/types"
)

var (
	version = "0.1.0"
	commit  = "unknown"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
		logLevel    = flag.String("log-level", "", "Log level (debug, info, warn, error)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("cascade-explain v%s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	cfg := config.DefaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = config.LoadFromFile(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config file: %v\n", err)
			os.Exit(1)
		}
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	logger := log.NewTextLogger(os.Stderr, log.ParseLevel(cfg.LogLevel))

	cat, err := sampleCatalog()
	if err != nil {
		logger.Error("failed to build sample catalog", "error", err)
		os.Exit(1)
	}

	for _, q := range sampleQueries() {
		fmt.Printf("-- %s\n", q.name)
		if err := explain(cfg, logger, cat, q); err != nil {
			logger.Error("optimization failed", "query", q.name, "error", err)
			os.Exit(1)
		}
		fmt.Println()
	}
}

type query struct {
	name     string
	tree     *opt.Node
	required *opt.PropertySet
}

func explain(cfg *config.Config, logger log.Logger, cat catalog.Catalog, q *query) error {
	memo := opt.NewMemo(cat)
	root, err := memo.Insert(q.tree)
	if err != nil {
		return err
	}

	optimizer := opt.NewOptimizer(memo, nil, &cfg.Optimizer, logger)
	plan, err := optimizer.Optimize(context.Background(), root, q.required)
	if err != nil {
		return err
	}
	fmt.Print(plan.Format())
	return nil
}

// sampleCatalog builds two analyzed tables with a secondary index, enough
// for the optimizer to face real alternatives.
func sampleCatalog() (catalog.Catalog, error) {
	cat := catalog.NewMemoryCatalog()

	if _, err := cat.CreateTable(&catalog.TableSchema{
		SchemaName: "public",
		TableName:  "users",
		Columns: []catalog.ColumnDef{
			{Name: "id", DataType: types.Integer},
			{Name: "email", DataType: types.Text},
			{Name: "created_at", DataType: types.Timestamp},
		},
	}); err != nil {
		return nil, err
	}
	if _, err := cat.CreateIndex(&catalog.IndexSchema{
		SchemaName: "public",
		TableName:  "users",
		IndexName:  "idx_users_id",
		Type:       catalog.BTreeIndex,
		IsUnique:   true,
		Columns:    []catalog.IndexColumnDef{{ColumnName: "id"}},
	}); err != nil {
		return nil, err
	}
	if err := cat.SetTableStats("public", "users", &catalog.TableStats{
		RowCount: 1_000_000, PageCount: 12_500, AvgRowSize: 100,
	}); err != nil {
		return nil, err
	}

	if _, err := cat.CreateTable(&catalog.TableSchema{
		SchemaName: "public",
		TableName:  "orders",
		Columns: []catalog.ColumnDef{
			{Name: "id", DataType: types.Integer},
			{Name: "user_id", DataType: types.Integer},
			{Name: "total", DataType: types.Float},
		},
	}); err != nil {
		return nil, err
	}
	if err := cat.SetTableStats("public", "orders", &catalog.TableStats{
		RowCount: 50_000, PageCount: 800, AvgRowSize: 60,
	}); err != nil {
		return nil, err
	}

	return cat, nil
}

func sampleQueries() []*query {
	usersID := &opt.ColumnRef{Table: "users", Name: "id"}
	ordersUserID := &opt.ColumnRef{Table: "orders", Name: "user_id"}
	ordersTotal := &opt.ColumnRef{Table: "orders", Name: "total"}

	filteredOrders := opt.NewFilterNode(
		opt.NewScanNode("public", "orders"),
		&opt.ComparisonExpr{
			Op:    opt.CmpGreater,
			Left:  ordersTotal,
			Right: &opt.Literal{Value: types.NewFloatValue(100)},
		},
	)

	return []*query{
		{
			name: "SELECT * FROM orders WHERE total > 100",
			tree: filteredOrders,
		},
		{
			name: "SELECT * FROM users JOIN orders ON users.id = orders.user_id",
			tree: opt.NewJoinNode(opt.InnerJoin,
				opt.NewScanNode("public", "users"),
				opt.NewScanNode("public", "orders"),
				&opt.ComparisonExpr{Op: opt.CmpEqual, Left: usersID, Right: ordersUserID},
			),
		},
		{
			name: "SELECT * FROM users ORDER BY id",
			tree: opt.NewScanNode("public", "users"),
			required: opt.NewPropertySet(
				opt.NewSortProperty(opt.SortKey{Column: "id", Order: opt.Ascending}),
			),
		},
	}
}
