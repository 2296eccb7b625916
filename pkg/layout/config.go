package layout

import (
	"github.com/matzehuels/castgraph/pkg/cache"
	"github.com/matzehuels/castgraph/pkg/errors"
)

// Config holds the simulation parameters.
type Config struct {
	IdealEdgeLength float64 `toml:"ideal_edge_length" json:"ideal_edge_length"`
	NodeRepulsion   float64 `toml:"node_repulsion" json:"node_repulsion"`
	EdgeElasticity  float64 `toml:"edge_elasticity" json:"edge_elasticity"`
	Gravity         float64 `toml:"gravity" json:"gravity"`

	NumIter              int     `toml:"num_iter" json:"num_iter"`
	InitialTemp          float64 `toml:"initial_temp" json:"initial_temp"`
	CoolingFactor        float64 `toml:"cooling_factor" json:"cooling_factor"`
	MinTemp              float64 `toml:"min_temp" json:"min_temp"`
	ConvergenceThreshold float64 `toml:"convergence_threshold" json:"convergence_threshold"`

	// Refresh is the number of iterations per animation frame.
	Refresh int `toml:"refresh" json:"refresh"`

	// Padding is the frame margin used by Fit.
	Padding float64 `toml:"padding" json:"padding"`

	// Randomize scatters the initial placement using Seed.
	Randomize bool   `toml:"randomize" json:"randomize"`
	Seed      uint64 `toml:"seed" json:"seed"`
}

// DefaultConfig returns the standard parameters.
func DefaultConfig() Config {
	return Config{
		IdealEdgeLength:      100,
		NodeRepulsion:        450000,
		EdgeElasticity:       100,
		Gravity:              80,
		NumIter:              1500,
		InitialTemp:          200,
		CoolingFactor:        0.95,
		MinTemp:              1.0,
		ConvergenceThreshold: 0.1,
		Refresh:              20,
		Padding:              30,
	}
}

// Validate rejects parameter combinations the simulation cannot run with.
func (c Config) Validate() error {
	switch {
	case c.IdealEdgeLength <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "ideal edge length must be positive, got %g", c.IdealEdgeLength)
	case c.NodeRepulsion < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "node repulsion must not be negative, got %g", c.NodeRepulsion)
	case c.EdgeElasticity <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "edge elasticity must be positive, got %g", c.EdgeElasticity)
	case c.Gravity < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "gravity must not be negative, got %g", c.Gravity)
	case c.NumIter <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "iteration count must be positive, got %d", c.NumIter)
	case c.InitialTemp <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "initial temperature must be positive, got %g", c.InitialTemp)
	case c.CoolingFactor <= 0 || c.CoolingFactor > 1:
		return errors.New(errors.ErrCodeInvalidConfig, "cooling factor must be in (0, 1], got %g", c.CoolingFactor)
	case c.MinTemp <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "minimum temperature must be positive, got %g", c.MinTemp)
	case c.MinTemp > c.InitialTemp:
		return errors.New(errors.ErrCodeInvalidConfig, "minimum temperature %g exceeds initial temperature %g", c.MinTemp, c.InitialTemp)
	case c.ConvergenceThreshold < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "convergence threshold must not be negative, got %g", c.ConvergenceThreshold)
	case c.Refresh <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "refresh must be positive, got %d", c.Refresh)
	case c.Padding < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "padding must not be negative, got %g", c.Padding)
	}
	return nil
}

// KeyOpts returns the cache key options for a layout computed with c in a
// width x height frame.
func (c Config) KeyOpts(width, height float64) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		IdealEdgeLength: c.IdealEdgeLength,
		NodeRepulsion:   c.NodeRepulsion,
		EdgeElasticity:  c.EdgeElasticity,
		Gravity:         c.Gravity,
		NumIter:         c.NumIter,
		InitialTemp:     c.InitialTemp,
		CoolingFactor:   c.CoolingFactor,
		MinTemp:         c.MinTemp,
		Convergence:     c.ConvergenceThreshold,
		Randomize:       c.Randomize,
		Seed:            c.Seed,
		Width:           width,
		Height:          height,
		Padding:         c.Padding,
	}
}
