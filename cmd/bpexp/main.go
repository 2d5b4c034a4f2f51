// bpexp runs the random-operation experiment over a grid of tree orders and
// bulk-load distributions and reports the resulting tree shapes.
//
// Usage:
//
//	bpexp                                   # orders 13,24, dense and sparse, CSV to stdout
//	bpexp -orders 3,5,8 -ops 5000 -oracle   # cross-check every step against Pebble
//	bpexp -csv out.csv -plot fill.png       # write CSV and a leaf fill chart
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"

	"github.com/dacapoday/bpindex"
	"github.com/dacapoday/bpindex/internal/experiment"
	"go.uber.org/zap"
)

func main() {
	ordersFlag := flag.String("orders", "13,24", "comma-separated tree orders")
	distsFlag := flag.String("dists", "dense,sparse", "comma-separated distributions")
	records := flag.Int("n", 10000, "records to bulk load")
	low := flag.Int("low", 100000, "smallest sampled key")
	high := flag.Int("high", 200000, "sampled keys stay below this")
	ops := flag.Int("ops", 1000, "random operations after the load")
	seed := flag.Uint64("seed", 1, "random seed shared by every configuration")
	useOracle := flag.Bool("oracle", false, "cross-check against an in-memory Pebble store")
	parallel := flag.Int("p", runtime.GOMAXPROCS(0), "configurations run at once")
	csvPath := flag.String("csv", "-", "CSV output path (- for stdout)")
	plotPath := flag.String("plot", "", "leaf fill chart path (png, svg or pdf)")
	verbose := flag.Bool("v", false, "log structural changes")
	flag.Parse()

	if err := run(options{
		orders:   *ordersFlag,
		dists:    *distsFlag,
		base:     experiment.Config{Records: *records, KeyLow: *low, KeyHigh: *high, Operations: *ops, Seed: *seed, Oracle: *useOracle},
		parallel: *parallel,
		csvPath:  *csvPath,
		plotPath: *plotPath,
		verbose:  *verbose,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	orders, dists string
	base          experiment.Config
	parallel      int
	csvPath       string
	plotPath      string
	verbose       bool
}

func run(opts options) error {
	log, err := newLogger(opts.verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	orders, err := parseOrders(opts.orders)
	if err != nil {
		return err
	}
	dists, err := parseDists(opts.dists)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfgs := experiment.Matrix(opts.base, orders, dists)
	log.Info("experiment", zap.Int("configs", len(cfgs)), zap.Int("records", opts.base.Records), zap.Int("ops", opts.base.Operations))
	results, err := experiment.RunAll(ctx, cfgs, opts.parallel, log)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if opts.csvPath != "-" {
		f, err := os.Create(opts.csvPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if err := experiment.WriteCSV(out, results); err != nil {
		return err
	}

	if opts.plotPath != "" {
		if err := experiment.Plot(results, opts.plotPath); err != nil {
			return err
		}
		log.Info("plot written", zap.String("path", opts.plotPath))
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func parseOrders(s string) (orders []int, err error) {
	for _, field := range strings.Split(s, ",") {
		order, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("%w: order %q", bpindex.ErrInvalidConfiguration, field)
		}
		orders = append(orders, order)
	}
	return
}

func parseDists(s string) (dists []bpindex.Distribution, err error) {
	for _, field := range strings.Split(s, ",") {
		dist, err := bpindex.ParseDistribution(strings.TrimSpace(field))
		if err != nil {
			return nil, err
		}
		dists = append(dists, dist)
	}
	return
}
