package pipetab

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-viper/mapstructure/v2"

	"github.com/pipetab/pipetab/pkg/errs"
	"github.com/pipetab/pipetab/pkg/logging"
)

// TargetKey is the reserved key in a configuration record naming the
// component to construct; every other key is a constructor argument.
const TargetKey = "target"

// maxResolveDepth bounds recursive resolution of nested configuration
// records. Configs are trees supplied externally, so this only guards
// against runaway nesting.
const maxResolveDepth = 32

// CapabilityKind tags what a registered component produces.
type CapabilityKind string

const (
	CapIngestor    CapabilityKind = "ingestor"
	CapTransformer CapabilityKind = "transformer"
	CapExporter    CapabilityKind = "exporter"
)

// Factory constructs a component from the non-reserved keys of a
// configuration record. The Resolver lets factories resolve nested
// records (a wrapper's inner transformer, for example).
type Factory func(res *Resolver, args map[string]any) (any, error)

// Registration describes one constructible component.
type Registration struct {
	Name        string
	Kind        CapabilityKind
	Description string
	Factory     Factory
}

// Registry maps component names to factories and resolves configuration
// records into live capability objects.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Registration)}
}

// Register adds a component. Names must be unique.
func (r *Registry) Register(reg Registration) error {
	if reg.Name == "" || reg.Factory == nil {
		return errors.New("registration needs a name and a factory")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[reg.Name]; exists {
		return errors.Newf("component already registered: %s", reg.Name)
	}
	r.entries[reg.Name] = reg
	return nil
}

// MustRegister is Register for wiring code where a failure is a bug.
func (r *Registry) MustRegister(reg Registration) {
	if err := r.Register(reg); err != nil {
		panic(err)
	}
}

// Lookup returns the registration for name.
func (r *Registry) Lookup(name string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.entries[name]
	return reg, ok
}

// List returns all registrations sorted by name.
func (r *Registry) List() []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Registration, 0, len(r.entries))
	for _, reg := range r.entries {
		out = append(out, reg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// IsConfig reports whether v is a configuration record for a component of
// the expected kind. It never errors: any structural mismatch is false.
func (r *Registry) IsConfig(v any, kind CapabilityKind) bool {
	m, ok := asConfigMap(v)
	if !ok {
		return false
	}
	target, ok := m[TargetKey].(string)
	if !ok {
		return false
	}
	reg, found := r.Lookup(target)
	return found && reg.Kind == kind
}

// Resolve turns v into a capability object of the expected kind:
//
//   - a value already satisfying the capability interface is returned
//     unchanged (identity passthrough);
//   - a configuration record is constructed via its registered factory,
//     with construction failures surfacing as InstantiationError;
//   - anything else is returned as-is after logging a config warning.
//     This is the permissive branch for experimentation. Callers that need the
//     capability guaranteed use the typed resolvers instead.
func (r *Registry) Resolve(v any, kind CapabilityKind) (any, error) {
	return r.resolve(v, kind, 0)
}

func (r *Registry) resolve(v any, kind CapabilityKind, depth int) (any, error) {
	if depth > maxResolveDepth {
		return nil, errors.Newf("configuration nesting exceeds %d levels", maxResolveDepth)
	}
	if satisfies(v, kind) {
		return v, nil
	}
	m, ok := asConfigMap(v)
	if !ok {
		logging.L.Warnf("config: resolving non-record value of type %T as a %s; leaving it unchanged", v, kind)
		return v, nil
	}
	target, ok := m[TargetKey].(string)
	if !ok {
		logging.L.Warnf("config: mapping without %q key resolved as a %s; leaving it unchanged", TargetKey, kind)
		return v, nil
	}
	reg, found := r.Lookup(target)
	if !found {
		return nil, errs.NewInstantiation(target, errors.New("unknown component"))
	}

	args := make(map[string]any, len(m)-1)
	for k, val := range m {
		if k != TargetKey {
			args[k] = val
		}
	}
	obj, err := reg.Factory(&Resolver{reg: r, depth: depth}, args)
	if err != nil {
		var inst *errs.InstantiationError
		if errors.As(err, &inst) {
			return nil, err
		}
		return nil, errs.NewInstantiation(target, err)
	}
	if reg.Kind != kind {
		logging.L.Warnf("config: %q is registered as a %s but was resolved as a %s", target, reg.Kind, kind)
	}
	return obj, nil
}

// ResolveIngestor resolves v and requires the result to be an Ingestor.
func (r *Registry) ResolveIngestor(v any) (Ingestor, error) {
	return resolveTyped[Ingestor](r, v, CapIngestor, 0)
}

// ResolveTransformer resolves v and requires the result to be a Transformer.
func (r *Registry) ResolveTransformer(v any) (Transformer, error) {
	return resolveTyped[Transformer](r, v, CapTransformer, 0)
}

// ResolveExporter resolves v and requires the result to be an Exporter.
func (r *Registry) ResolveExporter(v any) (Exporter, error) {
	return resolveTyped[Exporter](r, v, CapExporter, 0)
}

func resolveTyped[T any](r *Registry, v any, kind CapabilityKind, depth int) (T, error) {
	var zero T
	obj, err := r.resolve(v, kind, depth)
	if err != nil {
		return zero, err
	}
	typed, ok := obj.(T)
	if !ok {
		return zero, errs.NewInstantiation(
			describeTarget(v),
			errors.Newf("resolved %T does not satisfy %s", obj, kind),
		)
	}
	return typed, nil
}

func describeTarget(v any) string {
	if m, ok := asConfigMap(v); ok {
		if t, ok := m[TargetKey].(string); ok {
			return t
		}
	}
	return fmt.Sprintf("%T", v)
}

// Resolver is handed to factories so they can resolve nested configuration
// records with the recursion depth carried along.
type Resolver struct {
	reg   *Registry
	depth int
}

// Registry returns the underlying registry.
func (r *Resolver) Registry() *Registry { return r.reg }

// Ingestor resolves a nested value as an Ingestor.
func (r *Resolver) Ingestor(v any) (Ingestor, error) {
	return resolveTyped[Ingestor](r.reg, v, CapIngestor, r.depth+1)
}

// Transformer resolves a nested value as a Transformer.
func (r *Resolver) Transformer(v any) (Transformer, error) {
	return resolveTyped[Transformer](r.reg, v, CapTransformer, r.depth+1)
}

// Transformers resolves a list of nested values as Transformers.
func (r *Resolver) Transformers(vs []any) ([]Transformer, error) {
	out := make([]Transformer, 0, len(vs))
	for i, v := range vs {
		tr, err := r.Transformer(v)
		if err != nil {
			return nil, errors.Wrapf(err, "step %d", i)
		}
		out = append(out, tr)
	}
	return out, nil
}

// Exporter resolves a nested value as an Exporter.
func (r *Resolver) Exporter(v any) (Exporter, error) {
	return resolveTyped[Exporter](r.reg, v, CapExporter, r.depth+1)
}

// DecodeArgs decodes a configuration record's argument keys into a stage
// option struct. Unused keys are an error so typos fail construction
// instead of being silently dropped.
func DecodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(args)
}

func satisfies(v any, kind CapabilityKind) bool {
	switch kind {
	case CapIngestor:
		_, ok := v.(Ingestor)
		return ok
	case CapTransformer:
		_, ok := v.(Transformer)
		return ok
	case CapExporter:
		_, ok := v.(Exporter)
		return ok
	default:
		return false
	}
}

func asConfigMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			s, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[s] = val
		}
		return out, true
	default:
		return nil, false
	}
}
