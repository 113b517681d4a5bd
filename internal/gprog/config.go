// Public domain.

package gprog

import (
	"errors"
	"fmt"
	"os"

	"github.com/soniakeys/unit"
	"gopkg.in/yaml.v3"

	"github.com/soniakeys/gammastat/dataset"
	"github.com/soniakeys/gammastat/energy"
	"github.com/soniakeys/gammastat/irf"
	"github.com/soniakeys/gammastat/model"
	"github.com/soniakeys/gammastat/region"
	"github.com/soniakeys/gammastat/sky"
)

// Config is the YAML run configuration: the full declared analysis from
// observation files to flux points.
type Config struct {
	Observations []string `yaml:"observations"`

	OnRegion struct {
		RADeg     float64 `yaml:"ra_deg"`
		DecDeg    float64 `yaml:"dec_deg"`
		RadiusDeg float64 `yaml:"radius_deg"`
	} `yaml:"on_region"`

	Reflected struct {
		MinSepDeg float64 `yaml:"min_sep_deg"`
		Max       int     `yaml:"max_regions"`
	} `yaml:"reflected"`

	RecoAxis AxisConfig `yaml:"reco_axis"`
	TrueAxis AxisConfig `yaml:"true_axis"`

	SafeAreaFrac float64 `yaml:"safe_area_frac"`

	FitRange struct {
		EMin float64 `yaml:"emin"`
		EMax float64 `yaml:"emax"`
	} `yaml:"fit_range"`

	IRF struct {
		Aeff struct {
			Energy []float64 `yaml:"energy"`
			Area   []float64 `yaml:"area"`
		} `yaml:"aeff"`
		EDisp struct {
			Energy []float64 `yaml:"energy"`
			Sigma  []float64 `yaml:"sigma"`
			Bias   []float64 `yaml:"bias"`
		} `yaml:"edisp"`
	} `yaml:"irf"`

	Model ModelConfig `yaml:"model"`

	FluxPoints struct {
		Axis        AxisConfig `yaml:"axis"`
		TSThreshold float64    `yaml:"ts_threshold"`
		ULDelta     float64    `yaml:"ul_delta"`
		Workers     int        `yaml:"workers"`
	} `yaml:"flux_points"`

	Seed uint64 `yaml:"seed"`
}

// AxisConfig declares a logarithmic energy axis.
type AxisConfig struct {
	EMin  float64 `yaml:"emin"`
	EMax  float64 `yaml:"emax"`
	NBins int     `yaml:"nbins"`
}

// Axis builds the axis.
func (a AxisConfig) Axis() (energy.Axis, error) {
	return energy.LogAxis(a.EMin, a.EMax, a.NBins)
}

// ModelConfig declares the spectral model to fit.
type ModelConfig struct {
	Type      string  `yaml:"type"` // powerlaw, ecpl, logparabola
	Amplitude float64 `yaml:"amplitude"`
	Index     float64 `yaml:"index"`
	Lambda    float64 `yaml:"lambda"`
	Alpha     float64 `yaml:"alpha"`
	Beta      float64 `yaml:"beta"`
	Reference float64 `yaml:"reference"`
}

// Spectral builds the starting model.
func (m ModelConfig) Spectral() (model.Spectral, error) {
	ref := m.Reference
	if ref == 0 {
		ref = 1
	}
	switch m.Type {
	case "", "powerlaw":
		return model.NewPowerLaw(m.Amplitude, m.Index, ref), nil
	case "ecpl":
		return model.NewExpCutoffPowerLaw(m.Amplitude, m.Index, m.Lambda, ref), nil
	case "logparabola":
		return model.NewLogParabola(m.Amplitude, m.Alpha, m.Beta, ref), nil
	}
	return nil, fmt.Errorf("config: unknown model type %q", m.Type)
}

// Load reads and validates a run configuration file.
func Load(fn string) (*Config, error) {
	b, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(cfg.Observations) == 0 {
		return nil, errors.New("config: no observations listed")
	}
	if !(cfg.OnRegion.RadiusDeg > 0) {
		return nil, errors.New("config: on_region radius not positive")
	}
	if _, err := cfg.RecoAxis.Axis(); err != nil {
		return nil, fmt.Errorf("config: reco_axis: %w", err)
	}
	if _, err := cfg.TrueAxis.Axis(); err != nil {
		return nil, fmt.Errorf("config: true_axis: %w", err)
	}
	if cfg.Model.Amplitude <= 0 {
		return nil, errors.New("config: model amplitude not positive")
	}
	return cfg, nil
}

// ReduceConfig assembles the reduction geometry from the configuration.
func (c *Config) ReduceConfig() (dataset.ReduceConfig, error) {
	reco, err := c.RecoAxis.Axis()
	if err != nil {
		return dataset.ReduceConfig{}, err
	}
	tru, err := c.TrueAxis.Axis()
	if err != nil {
		return dataset.ReduceConfig{}, err
	}
	return dataset.ReduceConfig{
		On: region.Circle{
			Center: sky.FromDeg(c.OnRegion.RADeg, c.OnRegion.DecDeg),
			Radius: unit.AngleFromDeg(c.OnRegion.RadiusDeg),
		},
		Finder: region.ReflectedFinder{
			MinSep: unit.AngleFromDeg(c.Reflected.MinSepDeg),
			Max:    c.Reflected.Max,
		},
		Reco:         reco,
		True:         tru,
		SafeAreaFrac: c.SafeAreaFrac,
		FitEMin:      c.FitRange.EMin,
		FitEMax:      c.FitRange.EMax,
	}, nil
}

// IRFs assembles the instrument response from the configuration.
func (c *Config) IRFs() (dataset.IRFs, error) {
	aeff, err := irf.NewEffArea(c.IRF.Aeff.Energy, c.IRF.Aeff.Area)
	if err != nil {
		return dataset.IRFs{}, err
	}
	ed, err := irf.NewEDisp(c.IRF.EDisp.Energy, c.IRF.EDisp.Sigma, c.IRF.EDisp.Bias)
	if err != nil {
		return dataset.IRFs{}, err
	}
	return dataset.IRFs{Aeff: aeff, EDisp: ed}, nil
}
