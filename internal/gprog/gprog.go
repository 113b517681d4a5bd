// Public domain.

// Package gprog drives the analysis pipeline: reduce observations to
// datasets, fit a spectral model jointly, estimate flux points,
// simulate.  The cobra command wrappers in cmd/gammastat are thin
// shells over this package.
package gprog

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	xrand "golang.org/x/exp/rand"

	"github.com/rs/zerolog"

	"github.com/soniakeys/gammastat/dataset"
	"github.com/soniakeys/gammastat/event"
	"github.com/soniakeys/gammastat/fit"
	"github.com/soniakeys/gammastat/fluxpoint"
	"github.com/soniakeys/gammastat/model"
)

// Prog is one configured pipeline run.
type Prog struct {
	Cfg *Config
	Log zerolog.Logger
}

// New binds a configuration to a logger.
func New(cfg *Config, lg zerolog.Logger) *Prog {
	return &Prog{Cfg: cfg, Log: lg}
}

type reduceResult struct {
	fn   string
	spec *dataset.Spectrum
	err  error
}

// Reduce reduces all configured observations concurrently and returns
// the datasets in configuration order.
//
// Each observation gets a ticket: a buffered return channel queued in
// submission order, so workers finish in any order while results come
// back in input order.  A failing observation is logged and skipped;
// one bad file must not abort a batch.
func (p *Prog) Reduce() ([]*dataset.Spectrum, error) {
	rcfg, err := p.Cfg.ReduceConfig()
	if err != nil {
		return nil, err
	}
	irfs, err := p.Cfg.IRFs()
	if err != nil {
		return nil, err
	}

	maxWorkers := runtime.GOMAXPROCS(0)
	type ticket struct {
		fn  string
		rch chan reduceResult
	}
	jobCh := make(chan ticket)
	prCh := make(chan chan reduceResult, maxWorkers*2)

	// dispatcher: queue each observation for a worker and drop its
	// ticket in the pickup queue
	go func() {
		for _, fn := range p.Cfg.Observations {
			t := ticket{fn, make(chan reduceResult, 1)}
			jobCh <- t
			prCh <- t.rch
		}
		close(jobCh)
		close(prCh)
	}()

	for n := 0; n < maxWorkers; n++ {
		go func() {
			for t := range jobCh {
				spec, err := reduceOne(t.fn, irfs, rcfg)
				t.rch <- reduceResult{fn: t.fn, spec: spec, err: err}
			}
		}()
	}

	var specs []*dataset.Spectrum
	for rch := range prCh {
		r := <-rch
		if r.err != nil {
			p.Log.Warn().Str("obs", r.fn).Err(r.err).
				Msg("reduction failed, observation skipped")
			continue
		}
		if r.spec.Incomplete {
			p.Log.Warn().Str("obs", r.spec.Name).Str("reason", r.spec.Reason).
				Msg("dataset incomplete")
		} else {
			p.Log.Info().Str("obs", r.spec.Name).
				Float64("alpha", r.spec.Alpha).
				Msg("observation reduced")
		}
		specs = append(specs, r.spec)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("gprog: no observation reduced")
	}
	return specs, nil
}

func reduceOne(fn string, irfs dataset.IRFs, cfg dataset.ReduceConfig) (*dataset.Spectrum, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	l, err := event.ReadList(f)
	if err != nil {
		return nil, err
	}
	return dataset.Reduce(l, irfs, cfg)
}

// Fit builds the configured spectral model and fits it jointly over
// the datasets.  The returned model holds the best-fit parameters.
func (p *Prog) Fit(specs []*dataset.Spectrum) (*fit.Result, model.Spectral, error) {
	m, err := p.Cfg.Model.Spectral()
	if err != nil {
		return nil, nil, err
	}
	ds := make([]fit.Dataset, len(specs))
	for i, s := range specs {
		ds[i] = dataset.Eval{Spec: s, Model: m}
	}
	var f fit.Fitter
	t0 := time.Now()
	r, err := f.Fit(m.Params(), ds...)
	if err != nil {
		return r, m, err
	}
	p.Log.Info().
		Float64("stat", r.TotalStat).
		Bool("converged", r.Converged).
		Int("nfev", r.NFev).
		Dur("elapsed", time.Since(t0)).
		Msg("joint fit done")
	if !r.Converged {
		p.Log.Warn().Str("status", r.Status.String()).Msg("fit did not converge")
	}
	return r, m, nil
}

// FluxPoints estimates flux points on the configured axis using the
// fitted model as shape template.
func (p *Prog) FluxPoints(shape model.Spectral, specs []*dataset.Spectrum) ([]fluxpoint.Point, error) {
	ax, err := p.Cfg.FluxPoints.Axis.Axis()
	if err != nil {
		return nil, fmt.Errorf("gprog: flux point axis: %w", err)
	}
	est := fluxpoint.Estimator{
		Axis:        ax,
		TSThreshold: p.Cfg.FluxPoints.TSThreshold,
		ULDelta:     p.Cfg.FluxPoints.ULDelta,
		Workers:     p.Cfg.FluxPoints.Workers,
	}
	return est.Estimate(shape, specs)
}

// Simulate replaces each dataset's counts with a Poisson realization
// of the configured model.  A zero seed seeds from the clock.
func (p *Prog) Simulate(specs []*dataset.Spectrum) ([]*dataset.Spectrum, error) {
	m, err := p.Cfg.Model.Spectral()
	if err != nil {
		return nil, err
	}
	src := xrand.New(&xrand.PCGSource{})
	if p.Cfg.Seed != 0 {
		src.Seed(p.Cfg.Seed)
	} else {
		src.Seed(uint64(time.Now().UnixNano()))
	}
	out := make([]*dataset.Spectrum, len(specs))
	for i, s := range specs {
		out[i] = s.Fake(m, src)
	}
	return out, nil
}

// Run executes the full pipeline and writes plain-text result tables
// to w: per-dataset summary, fit parameters, flux points.
func (p *Prog) Run(w io.Writer) error {
	specs, err := p.Reduce()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%-10s %8s %8s %8s\n", "obs", "n_on", "n_off", "alpha")
	for _, s := range specs {
		var non, noff float64
		for i := range s.OnCounts {
			non += s.OnCounts[i]
			noff += s.OffCounts[i]
		}
		fmt.Fprintf(w, "%-10s %8.0f %8.0f %8.4f", s.Name, non, noff, s.Alpha)
		if s.Incomplete {
			fmt.Fprint(w, " incomplete")
		}
		fmt.Fprintln(w)
	}

	r, m, err := p.Fit(specs)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, r.String())

	pts, err := p.FluxPoints(m, specs)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, fluxpoint.Table(pts))
	return nil
}
