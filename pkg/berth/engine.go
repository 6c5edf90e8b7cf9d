// Package berth wraps the Docker SDK client with label-based resource
// isolation. Every resource an Engine creates carries a managed label,
// and every list or destructive operation filters on it, so an Engine
// can never touch resources it did not create.
package berth

import (
	"context"

	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
)

// EngineOptions configures the behavior of the Engine.
type EngineOptions struct {
	// LabelPrefix is the prefix for all managed labels (e.g., "dev.seqpack").
	LabelPrefix string

	// ManagedLabel is the label key suffix that marks resources as managed.
	// Default: "managed". Combined with LabelPrefix to form the full key,
	// e.g. "dev.seqpack.managed=true".
	ManagedLabel string

	// ExtraLabels are applied to every resource the engine creates,
	// in addition to the managed label.
	ExtraLabels map[string]string
}

// DefaultManagedLabel is the default label suffix for marking managed resources.
const DefaultManagedLabel = "managed"

// Engine wraps the Docker client with automatic label-based resource isolation.
type Engine struct {
	cli     client.APIClient
	options EngineOptions

	managedLabelKey   string // e.g., "dev.seqpack.managed"
	managedLabelValue string // always "true"
}

// New creates a new Engine connected to the Docker daemon from the
// environment. It verifies the connection before returning.
func New(ctx context.Context, opts EngineOptions) (*Engine, error) {
	cli, err := client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, ErrDaemonUnreachable(err)
	}

	engine := NewWithClient(cli, opts)

	if err := engine.HealthCheck(ctx); err != nil {
		cli.Close()
		return nil, err
	}

	return engine, nil
}

// NewWithClient creates an Engine around an existing API client.
// No connection check is performed; intended for tests and fakes.
func NewWithClient(cli client.APIClient, opts EngineOptions) *Engine {
	if opts.ManagedLabel == "" {
		opts.ManagedLabel = DefaultManagedLabel
	}
	return &Engine{
		cli:               cli,
		options:           opts,
		managedLabelKey:   opts.LabelPrefix + "." + opts.ManagedLabel,
		managedLabelValue: "true",
	}
}

// HealthCheck verifies the Docker daemon is reachable.
func (e *Engine) HealthCheck(ctx context.Context) error {
	if _, err := e.cli.Ping(ctx); err != nil {
		return ErrDaemonUnreachable(err)
	}
	return nil
}

// Close releases Docker client resources.
func (e *Engine) Close() error {
	return e.cli.Close()
}

// Client returns the underlying Docker client for advanced operations.
// Direct client usage bypasses label filtering.
func (e *Engine) Client() client.APIClient {
	return e.cli
}

// ManagedLabelKey returns the full managed label key.
func (e *Engine) ManagedLabelKey() string {
	return e.managedLabelKey
}

// ManagedLabelValue returns the managed label value (always "true").
func (e *Engine) ManagedLabelValue() string {
	return e.managedLabelValue
}

// managedFilter creates a filter matching only managed resources.
func (e *Engine) managedFilter() filters.Args {
	return filters.NewArgs(
		filters.Arg("label", e.managedLabelKey+"="+e.managedLabelValue),
	)
}

// managedLabels returns the labels applied to every created resource:
// the managed label plus any configured extras, plus per-call extras.
func (e *Engine) managedLabels(extra ...map[string]string) map[string]string {
	base := map[string]string{e.managedLabelKey: e.managedLabelValue}
	all := append([]map[string]string{base, e.options.ExtraLabels}, extra...)
	return MergeLabels(all...)
}

// isManagedLabelPresent reports whether the label set marks a managed resource.
func (e *Engine) isManagedLabelPresent(labels map[string]string) bool {
	return labels[e.managedLabelKey] == e.managedLabelValue
}
