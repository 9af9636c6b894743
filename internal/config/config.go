package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"

	flightcalc "github.com/lucasjlepore/flight-analyzer"
)

// DefaultPlaneName is the profile used when no plane is selected.
// It resolves to k = k1 = 1 unless the file overrides it.
const DefaultPlaneName = "default"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// ErrUnknownPlane is returned by Plane for a name missing from the file.
var ErrUnknownPlane = errors.New("unknown plane profile")

// Config is the calculation configuration file. Every field is optional; the
// Get* methods fall back to built-in defaults, so partial files are safe.
type Config struct {
	// Planes maps a profile name to its velocity scale factors.
	Planes map[string]PlaneEntry `json:"planes,omitempty"`
	// PlaneName selects the profile used when the caller does not name one.
	PlaneName *string `json:"plane,omitempty"`

	Diss   *DissEntry  `json:"diss,omitempty"`
	Angles *AngleEntry `json:"angles,omitempty"`

	// Intervals holds the detector thresholds in the legacy array layout:
	// tang and kren are [max deviation, max angle], h is [max deviation,
	// min altitude], wx is [max ratio deviation, min Wx, baseline window,
	// instant window].
	Intervals *IntervalEntry `json:"koef_for_intervals,omitempty"`

	TolerancePct *float64 `json:"tolerance_pct,omitempty"`
}

// PlaneEntry is one aircraft profile.
type PlaneEntry struct {
	K  float64 `json:"k"`
	K1 float64 `json:"k1"`
}

// DissEntry holds the DISS scale coefficients.
type DissEntry struct {
	Wx *float64 `json:"wx,omitempty"`
	Wy *float64 `json:"wy,omitempty"`
	Wz *float64 `json:"wz,omitempty"`
}

// AngleEntry holds the attitude corrections in degrees.
type AngleEntry struct {
	Kren *float64 `json:"kren,omitempty"`
	Tang *float64 `json:"tang,omitempty"`
	Kurs *float64 `json:"kurs,omitempty"`
}

// IntervalEntry is the koef_for_intervals block.
type IntervalEntry struct {
	Tang []float64 `json:"tang,omitempty"`
	Kren []float64 `json:"kren,omitempty"`
	H    []float64 `json:"h,omitempty"`
	Wx   []float64 `json:"wx,omitempty"`
}

// Default returns a configuration with nothing set.
func Default() *Config {
	return &Config{}
}

// LoadConfig reads a configuration file. The path must end in .json and the
// file must not exceed 1MB.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates configuration JSON.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that are set.
func (c *Config) Validate() error {
	for name, p := range c.Planes {
		if name == "" {
			return errors.New("plane profile with empty name")
		}
		if !positive(p.K) || !positive(p.K1) {
			return fmt.Errorf("plane %q: k and k1 must be positive, got %v and %v", name, p.K, p.K1)
		}
	}
	if c.PlaneName != nil && *c.PlaneName != DefaultPlaneName {
		if _, ok := c.Planes[*c.PlaneName]; !ok {
			return fmt.Errorf("plane %q: %w", *c.PlaneName, ErrUnknownPlane)
		}
	}

	if c.Diss != nil {
		for key, v := range map[string]*float64{"wx": c.Diss.Wx, "wy": c.Diss.Wy, "wz": c.Diss.Wz} {
			if v != nil && !positive(*v) {
				return fmt.Errorf("diss.%s must be positive, got %v", key, *v)
			}
		}
	}
	if c.Angles != nil {
		for key, v := range map[string]*float64{"kren": c.Angles.Kren, "tang": c.Angles.Tang, "kurs": c.Angles.Kurs} {
			if v != nil && !finite(*v) {
				return fmt.Errorf("angles.%s must be finite", key)
			}
		}
	}

	if iv := c.Intervals; iv != nil {
		// Slot 0 is always a deviation threshold; the wx windows are checked below.
		if err := checkKoef("tang", iv.Tang, 2); err != nil {
			return err
		}
		if err := checkKoef("kren", iv.Kren, 2); err != nil {
			return err
		}
		if err := checkKoef("h", iv.H, 2); err != nil {
			return err
		}
		if err := checkKoef("wx", iv.Wx, 4); err != nil {
			return err
		}
		if len(iv.Wx) == 4 {
			for _, w := range iv.Wx[2:] {
				if w < 1 || w != math.Trunc(w) {
					return fmt.Errorf("koef_for_intervals.wx windows must be positive integers, got %v", iv.Wx[2:])
				}
			}
		}
	}

	if c.TolerancePct != nil && !positive(*c.TolerancePct) {
		return fmt.Errorf("tolerance_pct must be positive, got %v", *c.TolerancePct)
	}
	return nil
}

func checkKoef(name string, values []float64, want int) error {
	if values == nil {
		return nil
	}
	if len(values) != want {
		return fmt.Errorf("koef_for_intervals.%s must have %d values, got %d", name, want, len(values))
	}
	for _, v := range values {
		if !finite(v) {
			return fmt.Errorf("koef_for_intervals.%s must be finite, got %v", name, values)
		}
	}
	if values[0] < 0 {
		return fmt.Errorf("koef_for_intervals.%s deviation must be non-negative, got %v", name, values[0])
	}
	return nil
}

func positive(v float64) bool { return finite(v) && v > 0 }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// PlaneNames returns the configured profile names, sorted, always including
// the default profile.
func (c *Config) PlaneNames() []string {
	names := []string{DefaultPlaneName}
	for name := range c.Planes {
		if name != DefaultPlaneName {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Plane resolves a profile by name. An empty name selects the file's plane
// setting, then the default profile.
func (c *Config) Plane(name string) (flightcalc.PlaneProfile, error) {
	if name == "" && c.PlaneName != nil {
		name = *c.PlaneName
	}
	if name == "" {
		name = DefaultPlaneName
	}
	if p, ok := c.Planes[name]; ok {
		return flightcalc.PlaneProfile{Name: name, K: p.K, K1: p.K1}, nil
	}
	if name == DefaultPlaneName {
		return flightcalc.PlaneProfile{Name: name, K: 1, K1: 1}, nil
	}
	return flightcalc.PlaneProfile{}, fmt.Errorf("plane %q: %w", name, ErrUnknownPlane)
}

// GetDiss returns the DISS coefficients, defaulting each to 1.
func (c *Config) GetDiss() flightcalc.DissCoefficients {
	d := flightcalc.UnitDissCoefficients()
	if c.Diss == nil {
		return d
	}
	d.Wx = orDefault(c.Diss.Wx, d.Wx)
	d.Wy = orDefault(c.Diss.Wy, d.Wy)
	d.Wz = orDefault(c.Diss.Wz, d.Wz)
	return d
}

// GetAngles returns the angle corrections, defaulting each to 0.
func (c *Config) GetAngles() flightcalc.AngleCorrections {
	if c.Angles == nil {
		return flightcalc.AngleCorrections{}
	}
	return flightcalc.AngleCorrections{
		Kren: orDefault(c.Angles.Kren, 0),
		Tang: orDefault(c.Angles.Tang, 0),
		Kurs: orDefault(c.Angles.Kurs, 0),
	}
}

// GetThresholds returns the detector thresholds. Each koef group that is not
// set keeps its default values.
func (c *Config) GetThresholds() flightcalc.Thresholds {
	th := flightcalc.DefaultThresholds()
	iv := c.Intervals
	if iv == nil {
		return th
	}
	if len(iv.Tang) == 2 {
		th.Tang = flightcalc.AngleThreshold{MaxDeviation: iv.Tang[0], MaxAngle: iv.Tang[1]}
	}
	if len(iv.Kren) == 2 {
		th.Kren = flightcalc.AngleThreshold{MaxDeviation: iv.Kren[0], MaxAngle: iv.Kren[1]}
	}
	if len(iv.H) == 2 {
		th.H = flightcalc.AltitudeThreshold{MaxDeviation: iv.H[0], MinAltitude: iv.H[1]}
	}
	if len(iv.Wx) == 4 {
		th.Wx = flightcalc.DriftThreshold{
			MaxRatioDeviation: iv.Wx[0],
			MinWx:             iv.Wx[1],
			BaselineWindow:    int(iv.Wx[2]),
			InstantWindow:     int(iv.Wx[3]),
		}
	}
	return th
}

// GetTolerancePct returns the Wp tolerance used by the report summary.
func (c *Config) GetTolerancePct() float64 {
	return orDefault(c.TolerancePct, flightcalc.DefaultTolerancePct)
}

// Calculation assembles the calculation settings for one plane.
func (c *Config) Calculation(plane, manualIntervals string) (flightcalc.Config, error) {
	p, err := c.Plane(plane)
	if err != nil {
		return flightcalc.Config{}, err
	}
	return flightcalc.Config{
		Diss:            c.GetDiss(),
		Angles:          c.GetAngles(),
		Plane:           p,
		Thresholds:      c.GetThresholds(),
		ManualIntervals: manualIntervals,
		TolerancePct:    c.GetTolerancePct(),
	}, nil
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
