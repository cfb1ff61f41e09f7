package pda

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"solpda/address"
	"solpda/config"
	"solpda/internal/logging"
	"solpda/metrics"
	"solpda/seed"
)

// Runtime limits on seeds, checked when Config.EnforceSeedLimits is set.
const (
	// MaxSeeds is the largest number of seeds, counting the bump seed.
	MaxSeeds = 16
	// MaxSeedLength is the largest encoded length of a single seed.
	MaxSeedLength = 32
)

// ErrMaxSeedsExceeded reports more than MaxSeeds seeds. Count includes the
// bump seed in SearchBump mode.
type ErrMaxSeedsExceeded struct {
	Count int
}

func (e ErrMaxSeedsExceeded) Error() string {
	return fmt.Sprintf("max seeds exceeded: %d (max: %d)", e.Count, MaxSeeds)
}

// ErrSeedTooLong reports the first seed whose encoding exceeds MaxSeedLength.
type ErrSeedTooLong struct {
	Index  int
	Length int
}

func (e ErrSeedTooLong) Error() string {
	return fmt.Sprintf("seed %d too long: %d bytes (max: %d)", e.Index, e.Length, MaxSeedLength)
}

// Cache stores encoded results between derivations. storage.Store
// implements it.
type Cache interface {
	Lookup(key []byte) ([]byte, bool, error)
	Store(key, val []byte) error
}

// Deriver runs derivations with configured limits, parallelism, caching,
// logging and metrics.
type Deriver struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	cache   Cache
}

type Option func(*Deriver)

func WithLogger(l *slog.Logger) Option { return func(d *Deriver) { d.logger = l } }

func WithMetrics(m *metrics.Metrics) Option { return func(d *Deriver) { d.metrics = m } }

func WithCache(c Cache) Option { return func(d *Deriver) { d.cache = c } }

// NewDeriver returns a Deriver for cfg. Without WithLogger it logs debug
// output to stderr when cfg.Debug is set and discards logs otherwise.
func NewDeriver(cfg config.Config, opts ...Option) *Deriver {
	d := &Deriver{cfg: cfg, logger: logging.Discard()}
	if cfg.Debug {
		d.logger = logging.New(os.Stderr, true)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Program returns the configured default program id.
func (d *Deriver) Program() address.Address { return d.cfg.Program }

// Mode returns the mode selected by the configuration.
func (d *Deriver) Mode() Mode {
	if d.cfg.NoBumpSeed {
		return NoBump
	}
	return SearchBump
}

// DeriveLiterals parses seed literals and derives the address.
func (d *Deriver) DeriveLiterals(ctx context.Context, program address.Address, literals []string, mode Mode) (Result, error) {
	values, err := seed.ParseAll(literals)
	if err != nil {
		d.metrics.Observe(mode.String(), metrics.OutcomeError, 0, time.Now())
		return Result{}, err
	}
	return d.Derive(ctx, program, values, mode)
}

// Derive encodes values in order and derives the address for program.
func (d *Deriver) Derive(ctx context.Context, program address.Address, values []seed.Value, mode Mode) (Result, error) {
	start := time.Now()

	if err := seed.ValidateAll(values); err != nil {
		d.metrics.Observe(mode.String(), metrics.OutcomeError, 0, start)
		return Result{}, err
	}
	if d.cfg.EnforceSeedLimits {
		if err := checkLimits(values, mode); err != nil {
			d.metrics.Observe(mode.String(), metrics.OutcomeError, 0, start)
			return Result{}, err
		}
	}
	buf := seed.EncodeAll(values)
	key := cacheKey(program, mode, buf)

	if r, ok := d.lookup(key); ok {
		d.logger.Debug("cache hit", "program", program, "mode", mode, "address", r.Address)
		d.metrics.Observe(mode.String(), metrics.OutcomeCached, 0, start)
		return r, nil
	}

	var (
		r   Result
		err error
	)
	switch {
	case mode == NoBump:
		r, err = Derive(program, buf, NoBump)
	case d.cfg.Workers != 1:
		r, err = FindParallel(ctx, program, buf, d.cfg.Workers)
	default:
		r, err = Find(program, buf)
	}

	tried := candidatesTried(r, err, mode)
	switch {
	case errors.Is(err, ErrNotFound):
		d.logger.Debug("no off-curve candidate", "program", program, "mode", mode, "candidates", tried)
		d.metrics.Observe(mode.String(), metrics.OutcomeNotFound, tried, start)
		return Result{}, err
	case err != nil:
		d.metrics.Observe(mode.String(), metrics.OutcomeError, 0, start)
		return Result{}, err
	}

	d.logger.Debug("derived program address",
		"program", program, "mode", mode, "address", r.Address, "bump", r.Bump, "candidates", tried)
	d.metrics.Observe(mode.String(), metrics.OutcomeFound, tried, start)
	d.store(key, r)
	return r, nil
}

func checkLimits(values []seed.Value, mode Mode) error {
	count := len(values)
	if mode == SearchBump {
		count++ // room for the bump seed
	}
	if count > MaxSeeds {
		return ErrMaxSeedsExceeded{Count: count}
	}
	for i, v := range values {
		if n := len(seed.Encode(v)); n > MaxSeedLength {
			return ErrSeedTooLong{Index: i, Length: n}
		}
	}
	return nil
}

func candidatesTried(r Result, err error, mode Mode) int {
	switch {
	case mode == NoBump:
		return 1
	case err != nil:
		return MaxBump + 1
	default:
		return MaxBump - int(r.Bump) + 1
	}
}

func cacheKey(program address.Address, mode Mode, buf []byte) []byte {
	key := make([]byte, 0, address.Size+1+len(buf))
	key = append(key, program[:]...)
	key = append(key, byte(mode))
	return append(key, buf...)
}

func (d *Deriver) lookup(key []byte) (Result, bool) {
	if d.cache == nil {
		return Result{}, false
	}
	val, ok, err := d.cache.Lookup(key)
	if err != nil {
		d.logger.Warn("cache lookup failed", "err", err)
		return Result{}, false
	}
	if !ok || len(val) != address.Size+2 {
		return Result{}, false
	}
	var r Result
	copy(r.Address[:], val)
	r.HasBump = val[address.Size] == 1
	r.Bump = val[address.Size+1]
	return r, true
}

func (d *Deriver) store(key []byte, r Result) {
	if d.cache == nil {
		return
	}
	val := make([]byte, 0, address.Size+2)
	val = append(val, r.Address[:]...)
	if r.HasBump {
		val = append(val, 1, r.Bump)
	} else {
		val = append(val, 0, 0)
	}
	if err := d.cache.Store(key, val); err != nil {
		d.logger.Warn("cache store failed", "err", err)
	}
}
