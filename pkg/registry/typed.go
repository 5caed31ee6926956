package registry

import (
	"github.com/aretw0/navstack/pkg/domain"
)

// Reducer lifts a statically-typed reducer over payload P and action alphabet A.
// Actions outside A, and payloads that are not P, leave the payload untouched.
func Reducer[P domain.Payload, A domain.InnerAction](fn func(P, A) (P, domain.ItemEffect)) ReducerFunc {
	return func(p domain.Payload, a domain.InnerAction) (domain.Payload, domain.ItemEffect) {
		payload, ok := p.(P)
		if !ok {
			return p, nil
		}
		action, ok := a.(A)
		if !ok {
			return p, nil
		}
		return fn(payload, action)
	}
}

// Title lifts a typed title function.
func Title[P domain.Payload](fn func(P) string) TitleFunc {
	return func(p domain.Payload) string {
		if payload, ok := p.(P); ok {
			return fn(payload)
		}
		return string(p.Variant())
	}
}

// StaticTitle returns a TitleFunc that ignores the payload.
func StaticTitle(title string) TitleFunc {
	return func(domain.Payload) string {
		return title
	}
}

// Renderer lifts a typed renderer.
func Renderer[P domain.Payload](fn func(domain.ID, P) any) RendererFunc {
	return func(id domain.ID, p domain.Payload) any {
		payload, ok := p.(P)
		if !ok {
			return nil
		}
		return fn(id, payload)
	}
}

// Intent lifts a typed intent function.
func Intent[P domain.Payload, A domain.InnerAction](fn func(P, A) domain.Intent) IntentFunc {
	return func(p domain.Payload, a domain.InnerAction) domain.Intent {
		payload, ok := p.(P)
		if !ok {
			return nil
		}
		action, ok := a.(A)
		if !ok {
			return nil
		}
		return fn(payload, action)
	}
}

// Names builds a DecodeFunc from a fixed table of named actions.
func Names(actions ...domain.InnerAction) DecodeFunc {
	table := make(map[string]domain.InnerAction, len(actions))
	for _, a := range actions {
		table[a.ActionName()] = a
	}
	return func(name string) (domain.InnerAction, error) {
		a, ok := table[name]
		if !ok {
			return nil, &UnknownActionError{Name: name}
		}
		return a, nil
	}
}

// UnknownActionError is returned by decoders built with Names.
type UnknownActionError struct {
	Name string
}

func (e *UnknownActionError) Error() string {
	return "unknown action: " + e.Name
}
