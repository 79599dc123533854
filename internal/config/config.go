// Package config describes a propagation run: the time horizon, tolerances,
// and the linear operator to exponentiate.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/expmv/internal/krylov"
	"github.com/san-kum/expmv/internal/operator"
)

const (
	DefaultT       = 1.0
	DefaultTol     = 1e-7
	DefaultSize    = 64
	DefaultSpacing = 1.0
	DefaultSpring  = 100.0
	DefaultMass    = 1.0
)

type Config struct {
	T          float64        `yaml:"t"`
	Tol        float64        `yaml:"tol"`
	M          int            `yaml:"m"`
	Anorm      float64        `yaml:"anorm"`
	Operator   OperatorConfig `yaml:"operator"`
	InitVector []float64      `yaml:"init_vector"`
}

// OperatorConfig selects one operator kind; only the fields for that kind
// are consulted.
type OperatorConfig struct {
	Type    string        `yaml:"type"` // dense, diagonal, sparse, laplacian, chain
	Size    int           `yaml:"size"`
	Spacing float64       `yaml:"spacing"`
	Rows    [][]float64   `yaml:"rows"`
	Diag    []float64     `yaml:"diag"`
	Entries []EntryConfig `yaml:"entries"`
	Spring  float64       `yaml:"spring"`
	Mass    float64       `yaml:"mass"`
	Damping float64       `yaml:"damping"`
}

type EntryConfig struct {
	Row int     `yaml:"row"`
	Col int     `yaml:"col"`
	Val float64 `yaml:"val"`
}

func DefaultConfig() *Config {
	return &Config{
		T:   DefaultT,
		Tol: DefaultTol,
		Operator: OperatorConfig{
			Type:    "laplacian",
			Size:    DefaultSize,
			Spacing: DefaultSpacing,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BuildOperator constructs the configured linear operator.
func (c *Config) BuildOperator() (krylov.Operator, error) {
	oc := c.Operator
	switch oc.Type {
	case "dense":
		return operator.FromRows(oc.Rows)
	case "diagonal":
		if len(oc.Diag) == 0 {
			return nil, fmt.Errorf("config: diagonal operator needs diag entries")
		}
		return operator.NewDiagonal(oc.Diag), nil
	case "sparse":
		if oc.Size <= 0 {
			return nil, fmt.Errorf("config: sparse operator needs a positive size")
		}
		entries := make([]operator.Triplet, len(oc.Entries))
		for i, e := range oc.Entries {
			entries[i] = operator.Triplet{Row: e.Row, Col: e.Col, Val: e.Val}
		}
		return operator.NewCSR(oc.Size, oc.Size, entries)
	case "laplacian":
		size, spacing := oc.Size, oc.Spacing
		if size <= 0 {
			size = DefaultSize
		}
		if spacing <= 0 {
			spacing = DefaultSpacing
		}
		return operator.Laplacian1D(size, spacing), nil
	case "chain":
		return buildChain(oc)
	default:
		return nil, fmt.Errorf("config: unknown operator type: %s", oc.Type)
	}
}

// buildChain assembles the linearized mass-spring chain with fixed walls,
// state [x1..xn, v1..vn], as a sparse operator.
func buildChain(oc OperatorConfig) (krylov.Operator, error) {
	n := oc.Size
	if n <= 0 {
		return nil, fmt.Errorf("config: chain operator needs a positive size")
	}
	spring, mass := oc.Spring, oc.Mass
	if spring <= 0 {
		spring = DefaultSpring
	}
	if mass <= 0 {
		mass = DefaultMass
	}
	km := spring / mass
	dm := oc.Damping / mass

	entries := make([]operator.Triplet, 0, 5*n)
	for i := 0; i < n; i++ {
		// dx_i/dt = v_i
		entries = append(entries, operator.Triplet{Row: i, Col: n + i, Val: 1})
		// dv_i/dt = (k/m)(x_{i-1} - 2 x_i + x_{i+1}) - (d/m) v_i
		entries = append(entries, operator.Triplet{Row: n + i, Col: i, Val: -2 * km})
		if i > 0 {
			entries = append(entries, operator.Triplet{Row: n + i, Col: i - 1, Val: km})
		}
		if i < n-1 {
			entries = append(entries, operator.Triplet{Row: n + i, Col: i + 1, Val: km})
		}
		if dm != 0 {
			entries = append(entries, operator.Triplet{Row: n + i, Col: n + i, Val: -dm})
		}
	}
	return operator.NewCSR(2*n, 2*n, entries)
}

// BuildInitVector returns the configured initial vector, or a vector of ones
// when none is given. n is the operator dimension.
func (c *Config) BuildInitVector(n int) ([]float64, error) {
	if len(c.InitVector) > 0 {
		if len(c.InitVector) != n {
			return nil, fmt.Errorf("config: init_vector has length %d, operator dimension is %d", len(c.InitVector), n)
		}
		v := make([]float64, n)
		copy(v, c.InitVector)
		return v, nil
	}
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v, nil
}

// KrylovOptions translates the configuration into propagation options.
func (c *Config) KrylovOptions() *krylov.Options {
	return &krylov.Options{
		Tol:   c.Tol,
		M:     c.M,
		Anorm: c.Anorm,
	}
}
