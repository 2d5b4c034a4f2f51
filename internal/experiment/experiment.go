// Package experiment drives bulk-loaded trees through random inserts and
// deletes, validating structure after every step and optionally checking
// every answer against a reference store.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dacapoday/bpindex"
	"github.com/dacapoday/bpindex/bptree"
	"github.com/dacapoday/bpindex/internal/keygen"
	"github.com/dacapoday/bpindex/internal/oracle"
	"go.uber.org/zap"
)

// ErrMismatch reports a tree answer that differs from the reference store.
var ErrMismatch = errors.New("experiment: mismatch")

// Config describes one run.
type Config struct {
	Order        int
	Distribution bpindex.Distribution

	// Records keys are sampled from [KeyLow, KeyHigh) and bulk loaded.
	Records int
	KeyLow  int
	KeyHigh int

	// Operations random inserts and deletes follow the load.
	Operations int

	Seed uint64

	// Oracle mirrors every mutation into a Pebble store and compares
	// searches, ranges and the final key sequence against it.
	Oracle bool
}

func (cfg Config) String() string {
	return fmt.Sprintf("order=%d/%s", cfg.Order, cfg.Distribution)
}

// Result records the shape of the tree after the load and after the operations.
type Result struct {
	Config   Config
	Loaded   bptree.Stats
	Final    bptree.Stats
	Inserts  int
	Deletes  int
	Misses   int
	Elapsed  time.Duration
	Verified bool
}

// Matrix crosses orders with distributions over base.
func Matrix(base Config, orders []int, dists []bpindex.Distribution) []Config {
	cfgs := make([]Config, 0, len(orders)*len(dists))
	for _, order := range orders {
		for _, dist := range dists {
			cfg := base
			cfg.Order = order
			cfg.Distribution = dist
			cfgs = append(cfgs, cfg)
		}
	}
	return cfgs
}

// RunAll runs every configuration, at most parallel at once. Every
// configuration samples the same keys when they share a seed. Results keep
// the order of cfgs; a failed configuration leaves a zero Result.
func RunAll(ctx context.Context, cfgs []Config, parallel int, log *zap.Logger) ([]Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	results := make([]Result, len(cfgs))
	task := newTask(parallel)
	for i, cfg := range cfgs {
		task.run(cfg.String(), func() (err error) {
			results[i], err = Run(ctx, cfg, log.With(zap.Stringer("config", cfg)))
			return
		})
	}
	return results, task.wait()
}

// Run loads one tree and applies cfg.Operations random operations.
func Run(ctx context.Context, cfg Config, log *zap.Logger) (res Result, err error) {
	if log == nil {
		log = zap.NewNop()
	}
	res.Config = cfg
	gen := keygen.New(cfg.Seed)
	keys, err := gen.Sample(cfg.KeyLow, cfg.KeyHigh, cfg.Records)
	if err != nil {
		return
	}

	start := time.Now()
	tree, err := bptree.Construct(keys, &bptree.Options{
		Order:        cfg.Order,
		Distribution: cfg.Distribution,
		Logger:       log,
	})
	if err != nil {
		return
	}
	if err = tree.Validate(); err != nil {
		return res, fmt.Errorf("after load: %w", err)
	}
	res.Loaded = tree.Stats()

	r := &runner{tree: tree, gen: gen, present: keys, pos: make(map[int]int, len(keys))}
	for i, key := range keys {
		r.pos[key] = i
	}
	if cfg.Oracle {
		if r.ref, err = oracle.Open(); err != nil {
			return
		}
		defer func() {
			if cerr := r.ref.Close(); err == nil {
				err = cerr
			}
		}()
		for _, key := range keys {
			if err = r.ref.Set(key, fmt.Sprint(key)); err != nil {
				return
			}
		}
	}

	for step := range cfg.Operations {
		if err = ctx.Err(); err != nil {
			return
		}
		if err = r.step(); err != nil {
			return res, fmt.Errorf("step %d: %w", step, err)
		}
		if err = tree.Validate(); err != nil {
			return res, fmt.Errorf("step %d: %w", step, err)
		}
	}
	if err = r.verify(); err != nil {
		return
	}

	res.Final = tree.Stats()
	res.Inserts, res.Deletes, res.Misses = r.inserts, r.deletes, r.misses
	res.Elapsed = time.Since(start)
	res.Verified = cfg.Oracle
	log.Info("run complete",
		zap.Int("height", res.Final.Height),
		zap.Int("keys", res.Final.Keys),
		zap.Float64("leafFill", res.Final.LeafFill),
		zap.Duration("elapsed", res.Elapsed),
	)
	return
}

type runner struct {
	tree *bptree.Tree[int, string]
	gen  *keygen.Generator
	ref  *oracle.Store

	// present holds the live keys; pos indexes into it.
	present []int
	pos     map[int]int

	inserts, deletes, misses int
}

// step applies one random operation: a delete of a key known to be absent
// one time in ten, otherwise an insert of a fresh key or a delete of a live
// one with equal odds.
func (r *runner) step() error {
	switch op := r.gen.IntN(10); {
	case op == 0:
		key, err := r.gen.FreshKey(r.tree)
		if err != nil {
			return err
		}
		if err := r.tree.Delete(key); !errors.Is(err, bpindex.ErrKeyNotFound) {
			return fmt.Errorf("%w: delete of absent %d returned %v", ErrMismatch, key, err)
		}
		r.misses++
		return nil
	case op <= 5 || len(r.present) == 0:
		key, err := r.gen.FreshKey(r.tree)
		if err != nil {
			return err
		}
		return r.insert(key)
	default:
		key, _ := r.gen.Pick(r.present)
		return r.delete(key)
	}
}

func (r *runner) insert(key int) error {
	val := fmt.Sprint(key)
	r.tree.Insert(key, val)
	r.pos[key] = len(r.present)
	r.present = append(r.present, key)
	r.inserts++
	if r.ref == nil {
		return nil
	}
	if err := r.ref.Set(key, val); err != nil {
		return err
	}
	return r.compare(key)
}

func (r *runner) delete(key int) error {
	if err := r.tree.Delete(key); err != nil {
		return err
	}
	i, last := r.pos[key], len(r.present)-1
	r.present[i] = r.present[last]
	r.pos[r.present[i]] = i
	r.present = r.present[:last]
	delete(r.pos, key)
	r.deletes++
	if r.ref == nil {
		return nil
	}
	if err := r.ref.Delete(key); err != nil {
		return err
	}
	return r.compare(key)
}

// compare checks the point lookup of key and a range around it.
func (r *runner) compare(key int) error {
	got, gotFound := r.tree.Search(key)
	want, wantFound, err := r.ref.Get(key)
	if err != nil {
		return err
	}
	if got != want || gotFound != wantFound {
		return fmt.Errorf("%w: search %d: tree (%q, %t), reference (%q, %t)", ErrMismatch, key, got, gotFound, want, wantFound)
	}

	low, high := key-keygen.Slack, key+keygen.Slack
	wantRange, err := r.ref.Range(low, high)
	if err != nil {
		return err
	}
	if gotRange := r.tree.RangeSearch(low, high); !slices.Equal(gotRange, wantRange) {
		return fmt.Errorf("%w: range [%d, %d]: tree %v, reference %v", ErrMismatch, low, high, gotRange, wantRange)
	}
	return nil
}

// verify checks the final key sequence in both traversal orders.
func (r *runner) verify() error {
	want := slices.Sorted(slices.Values(r.present))
	if r.ref != nil {
		keys, err := r.ref.Keys()
		if err != nil {
			return err
		}
		if !slices.Equal(keys, want) {
			return fmt.Errorf("%w: reference holds %d keys, expected %d", ErrMismatch, len(keys), len(want))
		}
	}
	for _, order := range []bpindex.Traversal{bpindex.Sequential, bpindex.TopDown} {
		if got := r.tree.LeafKeys(order); !slices.Equal(got, want) {
			return fmt.Errorf("%w: %s leaf keys differ from the %d live keys", ErrMismatch, order, len(want))
		}
	}
	return nil
}
