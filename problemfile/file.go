package problemfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/cmrx/cmrx"
	"github.com/katalvlaran/cmrx/order"
	"github.com/katalvlaran/cmrx/zone"
)

var (
	// ErrParse is returned when the data is neither YAML nor JSON.
	ErrParse = errors.New("problemfile: cannot parse")

	// ErrSchema is returned when a parsed file violates its field rules.
	ErrSchema = errors.New("problemfile: schema violation")
)

// File is the on-disk problem description.
type File struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Means is nvar rows of ncond observed means.
	Means [][]float64 `json:"means" yaml:"means" validate:"required,min=1,max=20,dive,required,min=1"`

	// Weights is one full ncond×ncond symmetric matrix per variable.
	Weights [][][]float64 `json:"weights,omitempty" yaml:"weights,omitempty" validate:"omitempty,dive,required,dive,required"`

	// WeightsDiag is the shorthand for diagonal weights, one row per variable.
	WeightsDiag [][]float64 `json:"weights_diag,omitempty" yaml:"weights_diag,omitempty" validate:"omitempty,dive,required,dive,gte=0"`

	Base []order.Constraint `json:"base,omitempty" yaml:"base,omitempty"`

	Covectors [][]int `json:"covectors,omitempty" yaml:"covectors,omitempty" validate:"omitempty,dive,required,dive,min=-1,max=1"`

	// InfeasibleZones overrides the zones derived from Covectors.
	InfeasibleZones []int `json:"infeasible_zones,omitempty" yaml:"infeasible_zones,omitempty" validate:"omitempty,dive,min=1"`

	Offset float64 `json:"offset,omitempty" yaml:"offset,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and validates the file at path. The base name without
// extension is used when the file carries no name.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("problemfile: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return f, nil
}

// Parse decodes data as YAML, then as JSON, and validates the result.
func Parse(data []byte) (*File, error) {
	var f File
	if yerr := yaml.Unmarshal(data, &f); yerr != nil {
		f = File{}
		if jerr := json.Unmarshal(data, &f); jerr != nil {
			return nil, fmt.Errorf("%w (tried YAML and JSON): YAML error: %v, JSON error: %v", ErrParse, yerr, jerr)
		}
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

// Validate checks the field rules and the shapes that tags cannot express.
func (f *File) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	nvar, ncond := len(f.Means), len(f.Means[0])
	for k, row := range f.Means {
		if len(row) != ncond {
			return fmt.Errorf("%w: means row %d has %d entries, want %d", ErrSchema, k, len(row), ncond)
		}
	}
	if f.Weights != nil && f.WeightsDiag != nil {
		return fmt.Errorf("%w: weights and weights_diag are exclusive", ErrSchema)
	}
	if f.Weights != nil {
		if len(f.Weights) != nvar {
			return fmt.Errorf("%w: %d weight matrices for %d variables", ErrSchema, len(f.Weights), nvar)
		}
		for k, w := range f.Weights {
			if err := checkSymmetric(w, ncond); err != nil {
				return fmt.Errorf("%w: weights[%d]: %w", ErrSchema, k, err)
			}
		}
	}
	if f.WeightsDiag != nil {
		if len(f.WeightsDiag) != nvar {
			return fmt.Errorf("%w: %d diagonal weight rows for %d variables", ErrSchema, len(f.WeightsDiag), nvar)
		}
		for k, d := range f.WeightsDiag {
			if len(d) != ncond {
				return fmt.Errorf("%w: weights_diag[%d] has %d entries, want %d", ErrSchema, k, len(d), ncond)
			}
		}
	}
	for i, c := range f.Covectors {
		if len(c) != nvar {
			return fmt.Errorf("%w: covector %d has %d entries, want %d", ErrSchema, i, len(c), nvar)
		}
	}

	return nil
}

func checkSymmetric(w [][]float64, n int) error {
	if len(w) != n {
		return fmt.Errorf("%d rows, want %d", len(w), n)
	}
	for i := range w {
		if len(w[i]) != n {
			return fmt.Errorf("row %d has %d entries, want %d", i, len(w[i]), n)
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if math.Abs(w[i][j]-w[j][i]) > 1e-9 {
				return fmt.Errorf("not symmetric at (%d,%d)", i, j)
			}
		}
	}

	return nil
}

// Problem converts f into a cmrx.Problem, filling the defaults.
func (f *File) Problem() (*cmrx.Problem, error) {
	nvar, ncond := len(f.Means), len(f.Means[0])
	p := &cmrx.Problem{
		Means:     f.Means,
		Base:      f.Base,
		Covectors: f.Covectors,
		Offset:    f.Offset,
	}

	// 1) Weights.
	switch {
	case f.Weights != nil:
		p.Weights = make([]mat.Symmetric, nvar)
		for k, w := range f.Weights {
			data := make([]float64, 0, ncond*ncond)
			for _, row := range w {
				data = append(data, row...)
			}
			p.Weights[k] = mat.NewSymDense(ncond, data)
		}
	case f.WeightsDiag != nil:
		p.Weights = make([]mat.Symmetric, nvar)
		for k, d := range f.WeightsDiag {
			w := mat.NewSymDense(ncond, nil)
			for i, v := range d {
				w.SetSym(i, i, v)
			}
			p.Weights[k] = w
		}
	default:
		p.Weights = cmrx.Identity(nvar, ncond)
	}

	// 2) Covectors and zones.
	if p.Covectors == nil {
		p.Covectors = zone.Monotone(nvar)
	}
	p.InfeasibleZones = f.InfeasibleZones
	if p.InfeasibleZones == nil {
		zones, err := zone.Infeasible(nvar, p.Covectors)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSchema, err)
		}
		p.InfeasibleZones = zones
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}
