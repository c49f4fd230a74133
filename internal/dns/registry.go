package dns

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"go_gizmo/internal/model"
)

const tracerName = "go_gizmo"

// FactoryConfig is handed to a Factory when its adapter is first resolved
type FactoryConfig struct {
	BaseURL string // empty means the vendor's public endpoint
	Client  *http.Client
	Logger  *logrus.Entry
}

// Factory constructs an adapter
type Factory func(cfg FactoryConfig) (Provider, error)

// Options configures the adapters a Registry constructs
type Options struct {
	Timeout  time.Duration     // per call timeout, 10s when zero
	BaseURLs map[string]string // adapter name -> base URL override
	Client   *http.Client      // shared client; built from Timeout when nil
	Logger   *logrus.Entry
}

// Registry maps provider names to adapters.
// Adapters are built lazily on first resolution and kept for the
// lifetime of the registry; entries are never invalidated.
type Registry struct {
	mu        sync.Mutex
	opts      Options
	factories map[string]Factory
	resolved  map[string]Provider
}

// NewRegistry creates an empty registry
func NewRegistry(opts Options) *Registry {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Registry{
		opts:      opts,
		factories: make(map[string]Factory),
		resolved:  make(map[string]Provider),
	}
}

// Register adds an adapter factory under name
func (r *Registry) Register(name string, f Factory) error {
	name = normalizeName(name)
	if name == "" {
		return fmt.Errorf("DNS provider name is empty")
	}
	if f == nil {
		return fmt.Errorf("DNS provider %q has a nil factory", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("DNS provider %q is already registered", name)
	}
	r.factories[name] = f
	return nil
}

// Resolve returns the adapter registered under name, constructing it on first use
func (r *Registry) Resolve(ctx context.Context, name string) (Provider, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "dnsregistry.Resolve")
	defer span.End()

	name = normalizeName(name)
	span.SetAttributes(attribute.String("dns_provider.name", name))

	// Holding the lock across construction keeps first resolution single-flight.
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.resolved[name]; ok {
		span.SetAttributes(attribute.Bool("dns_provider.cached", true))
		return p, nil
	}

	f, ok := r.factories[name]
	if !ok {
		err := &UnresolvableError{Name: name, Registered: r.namesLocked()}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	p, err := f(FactoryConfig{
		BaseURL: r.opts.BaseURLs[name],
		Client:  r.opts.Client,
		Logger:  r.opts.Logger.WithField("provider", name),
	})
	if err == nil && p == nil {
		err = fmt.Errorf("factory returned no adapter")
	}
	if err != nil {
		uerr := &UnresolvableError{Name: name, Registered: r.namesLocked(), Err: err}
		span.RecordError(uerr)
		span.SetStatus(codes.Error, uerr.Error())
		return nil, uerr
	}

	r.resolved[name] = p
	span.SetAttributes(attribute.Bool("dns_provider.cached", false))
	return p, nil
}

// ResolveFor resolves the adapter of a Provider entity
func (r *Registry) ResolveFor(ctx context.Context, provider *model.Provider) (Provider, error) {
	if provider == nil {
		return nil, &UnresolvableError{Err: fmt.Errorf("no provider configured")}
	}
	return r.Resolve(ctx, provider.Name)
}

// Names returns all registered provider names, sorted
func (r *Registry) Names(ctx context.Context) []string {
	_, span := otel.Tracer(tracerName).Start(ctx, "dnsregistry.Names")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	names := r.namesLocked()
	span.SetAttributes(attribute.Int("dns_provider.count", len(names)))
	return names
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
