// Package driver abstracts the external forecast-model drivers the run
// controller can delegate to.
package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/NaureenBharwaniNOAA/ufs-srweather-app/internal/config"
)

// Spec carries everything needed to construct a driver for one run.
type Spec struct {
	ConfigFile string
	Cycle      time.Time
	KeyPath    []string
	Member     string
	// Block is the driver's configuration block, already resolved from the
	// experiment config via the key path. Must contain a "rundir" entry.
	Block config.Tree
}

// Driver executes one forecast model run. Run is synchronous and blocking;
// the driver owns its internal scheduling.
type Driver interface {
	Name() string
	RunDir() string
	Run(ctx context.Context) error
}

// Factory constructs a Driver for a run.
type Factory func(spec Spec) (Driver, error)

// Registry maps model names to driver factories.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// New constructs a driver for the named model.
func (r *Registry) New(name string, spec Spec) (Driver, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("driver not registered: %s", name)
	}
	return f(spec)
}

// Default returns a registry with the production drivers registered.
func Default() *Registry {
	r := NewRegistry()
	r.Register("fv3", NewFV3)
	return r
}
