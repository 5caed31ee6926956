package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/navstack/pkg/domain"
)

var (
	// ErrSealed is returned when registering after the variant set was closed.
	ErrSealed = errors.New("registry is sealed")
	// ErrDuplicateVariant is returned when a variant is registered twice.
	ErrDuplicateVariant = errors.New("variant already registered")
	// ErrIncomplete is returned when a definition lacks a required function.
	ErrIncomplete = errors.New("incomplete variant definition")
)

// ReducerFunc applies an inner action to a payload of one variant.
// It must be pure and total over the variant's action alphabet.
type ReducerFunc func(domain.Payload, domain.InnerAction) (domain.Payload, domain.ItemEffect)

// TitleFunc derives the title of an item from its payload.
type TitleFunc func(domain.Payload) string

// RendererFunc creates the renderable a presentation surface shows for an item.
type RendererFunc func(domain.ID, domain.Payload) any

// IntentFunc inspects an item action together with the already-updated payload
// of the originating item and returns the stack change it implies, or nil.
type IntentFunc func(domain.Payload, domain.InnerAction) domain.Intent

// DecodeFunc resolves an action name (from a CLI or HTTP host) into an inner action.
type DecodeFunc func(name string) (domain.InnerAction, error)

// Definition describes everything the engine knows about one payload variant.
type Definition struct {
	Variant domain.Variant
	Title   TitleFunc
	Reduce  ReducerFunc
	Render  RendererFunc
	Intent  IntentFunc
	Decode  DecodeFunc
}

// Registry is the dispatch table of payload variants.
// Variants are registered at composition time and then sealed.
type Registry struct {
	mu     sync.RWMutex
	defs   map[domain.Variant]Definition
	sealed bool
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		defs: make(map[domain.Variant]Definition),
	}
}

// Register adds a variant definition.
// Title and Reduce are mandatory; Render, Intent and Decode are optional.
func (r *Registry) Register(def Definition) error {
	if def.Variant == "" {
		return fmt.Errorf("%w: empty variant", ErrIncomplete)
	}
	if def.Title == nil || def.Reduce == nil {
		return fmt.Errorf("%w: %q needs Title and Reduce", ErrIncomplete, def.Variant)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("%w: cannot register %q", ErrSealed, def.Variant)
	}
	if _, exists := r.defs[def.Variant]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateVariant, def.Variant)
	}
	r.defs[def.Variant] = def
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(defs ...Definition) *Registry {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
	return r
}

// Seal closes the variant set. It is idempotent.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether the variant set is closed.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Lookup returns the definition registered for a variant.
func (r *Registry) Lookup(v domain.Variant) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[v]
	return def, ok
}

// MustLookup returns the definition for a variant and panics with
// domain.ErrUnknownVariant when none is registered.
func (r *Registry) MustLookup(v domain.Variant) Definition {
	def, ok := r.Lookup(v)
	if !ok {
		panic(fmt.Errorf("%w: %q", domain.ErrUnknownVariant, v))
	}
	return def
}

// Variants returns the registered variant tags, sorted.
func (r *Registry) Variants() []domain.Variant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Variant, 0, len(r.defs))
	for v := range r.defs {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RequireRenderers checks that every registered variant can be rendered.
func (r *Registry) RequireRenderers() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for v, def := range r.defs {
		if def.Render == nil {
			return fmt.Errorf("%w: %q has no renderer", ErrIncomplete, v)
		}
	}
	return nil
}

// NewItem builds a stack item with its title derived from the payload.
func (r *Registry) NewItem(id domain.ID, p domain.Payload) domain.Item {
	def := r.MustLookup(p.Variant())
	return domain.Item{
		ID:      id,
		Title:   def.Title(p),
		Payload: p,
	}
}

// Decode resolves an action name for the given variant.
func (r *Registry) Decode(v domain.Variant, name string) (domain.InnerAction, error) {
	def, ok := r.Lookup(v)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownVariant, v)
	}
	if def.Decode == nil {
		return nil, fmt.Errorf("variant %q does not accept named actions", v)
	}
	return def.Decode(name)
}
