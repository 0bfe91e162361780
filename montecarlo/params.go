package montecarlo

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/tuneinsight/polyquad/poly"
)

const (
	// DefaultSamples is the default number of samples per estimate.
	DefaultSamples = 100000
	// DefaultBoundaryTolerance is the default relative tolerance with which
	// stationary points slightly outside of [a, b] are still considered.
	DefaultBoundaryTolerance = 1e-9
)

// ParametersLiteral is a literal representation of the estimator parameters. It has
// public fields and is used to express unchecked user-defined parameters literally
// into Go programs or configuration files. The NewParametersFromLiteral function is
// used to generate the actual checked parameters from the literal representation.
//
// Zero fields are substituted by default values at parameter creation:
//   - Samples: DefaultSamples
//   - Tolerance: poly.DefaultTolerance
//   - BoundaryTolerance: DefaultBoundaryTolerance
//   - MaxIterations: poly.DefaultMaxIterations
//   - RootMethod: "companion"
//   - Workers: runtime.NumCPU()
//
// An empty Seed means that a fresh random seed is drawn for each estimate.
// Estimates are reproducible for a given Seed and a given number of Workers.
type ParametersLiteral struct {
	Samples           int     `json:"samples,omitempty" yaml:"samples,omitempty"`
	Tolerance         float64 `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
	BoundaryTolerance float64 `json:"boundary_tolerance,omitempty" yaml:"boundary_tolerance,omitempty"`
	MaxIterations     int     `json:"max_iterations,omitempty" yaml:"max_iterations,omitempty"`
	RootMethod        string  `json:"root_method,omitempty" yaml:"root_method,omitempty"`
	Seed              string  `json:"seed,omitempty" yaml:"seed,omitempty"` // hexadecimal
	Workers           int     `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// DefaultParametersLiteral returns the literal with all the default values filled in.
func DefaultParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		Samples:           DefaultSamples,
		Tolerance:         poly.DefaultTolerance,
		BoundaryTolerance: DefaultBoundaryTolerance,
		MaxIterations:     poly.DefaultMaxIterations,
		RootMethod:        poly.Companion.String(),
		Workers:           runtime.NumCPU(),
	}
}

// Parameters represents a checked set of estimator parameters. Its fields are
// private and immutable. See ParametersLiteral for user-specified parameters.
type Parameters struct {
	samples           int
	tolerance         float64
	boundaryTolerance float64
	maxIterations     int
	method            poly.Method
	seed              []byte
	workers           int
}

// NewParametersFromLiteral instantiates a set of Parameters from a ParametersLiteral
// specification. It returns the empty parameters Parameters{} and a non-nil error
// if the specified parameters are invalid.
func NewParametersFromLiteral(pl ParametersLiteral) (params Parameters, err error) {

	switch {
	case pl.Samples < 0:
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w: %d", ErrInvalidSampleCount, pl.Samples)
	case pl.Samples == 0:
		params.samples = DefaultSamples
	default:
		params.samples = pl.Samples
	}

	if params.tolerance, err = checkTolerance("Tolerance", pl.Tolerance, poly.DefaultTolerance); err != nil {
		return Parameters{}, err
	}

	if params.boundaryTolerance, err = checkTolerance("BoundaryTolerance", pl.BoundaryTolerance, DefaultBoundaryTolerance); err != nil {
		return Parameters{}, err
	}

	switch {
	case pl.MaxIterations < 0:
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w: MaxIterations must be positive but is %d", ErrInvalidParameters, pl.MaxIterations)
	case pl.MaxIterations == 0:
		params.maxIterations = poly.DefaultMaxIterations
	default:
		params.maxIterations = pl.MaxIterations
	}

	if params.method, err = poly.ParseMethod(pl.RootMethod); err != nil {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w: %s", ErrInvalidParameters, err.Error())
	}

	if pl.Seed != "" {
		if params.seed, err = hex.DecodeString(pl.Seed); err != nil {
			return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w: Seed must be hexadecimal: %s", ErrInvalidParameters, err.Error())
		}
	}

	switch {
	case pl.Workers < 0:
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w: Workers must be positive but is %d", ErrInvalidParameters, pl.Workers)
	case pl.Workers == 0:
		params.workers = runtime.NumCPU()
	default:
		params.workers = pl.Workers
	}

	return params, nil
}

func checkTolerance(name string, value, defaultValue float64) (float64, error) {
	switch {
	case math.IsNaN(value) || math.IsInf(value, 0) || value < 0 || value >= 1:
		return 0, fmt.Errorf("cannot NewParametersFromLiteral: %w: %s must be in [0, 1) but is %v", ErrInvalidParameters, name, value)
	case value == 0:
		return defaultValue, nil
	default:
		return value, nil
	}
}

// Samples returns the number of samples drawn per estimate.
func (p Parameters) Samples() int {
	return p.samples
}

// Tolerance returns the root acceptance tolerance.
func (p Parameters) Tolerance() float64 {
	return p.tolerance
}

// BoundaryTolerance returns the relative tolerance applied to the bounds of the
// interval when filtering the stationary points.
func (p Parameters) BoundaryTolerance() float64 {
	return p.boundaryTolerance
}

// MaxIterations returns the iteration budget of the root polishing.
func (p Parameters) MaxIterations() int {
	return p.maxIterations
}

// RootMethod returns the root finding method.
func (p Parameters) RootMethod() poly.Method {
	return p.method
}

// Seed returns a copy of the seed, or nil if the parameters do not specify one.
func (p Parameters) Seed() []byte {
	if p.seed == nil {
		return nil
	}
	return bytes.Clone(p.seed)
}

// Workers returns the number of concurrent sampling workers.
func (p Parameters) Workers() int {
	return p.workers
}

// RootFinderParameters returns the parameters of the root finder.
func (p Parameters) RootFinderParameters() poly.RootFinderParameters {
	return poly.RootFinderParameters{
		Method:        p.method,
		Tolerance:     p.tolerance,
		MaxIterations: p.maxIterations,
	}
}

// ParametersLiteral returns the ParametersLiteral of the target Parameters.
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		Samples:           p.samples,
		Tolerance:         p.tolerance,
		BoundaryTolerance: p.boundaryTolerance,
		MaxIterations:     p.maxIterations,
		RootMethod:        p.method.String(),
		Seed:              hex.EncodeToString(p.seed),
		Workers:           p.workers,
	}
}

// Equal compares two sets of parameters for equality.
func (p Parameters) Equal(other *Parameters) bool {
	return cmp.Equal(p.ParametersLiteral(), other.ParametersLiteral())
}

// MarshalJSON returns a JSON representation of this parameter set. See `Marshal` from the `encoding/json` package.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ParametersLiteral())
}

// UnmarshalJSON reads a JSON representation of a parameter set into the receiver Parameter. See `Unmarshal` from the `encoding/json` package.
func (p *Parameters) UnmarshalJSON(data []byte) (err error) {
	var pl ParametersLiteral
	if err = json.Unmarshal(data, &pl); err != nil {
		return
	}
	*p, err = NewParametersFromLiteral(pl)
	return
}

// LoadParametersLiteral reads a ParametersLiteral from a JSON (.json) or
// YAML (.yaml, .yml) file. Unknown fields are rejected.
func LoadParametersLiteral(path string) (pl ParametersLiteral, err error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return ParametersLiteral{}, fmt.Errorf("cannot LoadParametersLiteral: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&pl)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&pl)
	default:
		return ParametersLiteral{}, fmt.Errorf("cannot LoadParametersLiteral: %w: unsupported file extension %q", ErrInvalidParameters, ext)
	}

	if err != nil {
		return ParametersLiteral{}, fmt.Errorf("cannot LoadParametersLiteral: %w: %s", ErrInvalidParameters, err.Error())
	}

	return
}
