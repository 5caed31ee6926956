package runtime

import (
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/registry"
)

// Translator turns navigation-shaped item actions into generic stack actions.
// It is the only place where screen semantics meet stack mechanics.
type Translator struct {
	reg  *registry.Registry
	mint domain.Minter
}

// NewTranslator creates a translator. mint is called for every synthesized push.
func NewTranslator(reg *registry.Registry, mint domain.Minter) *Translator {
	return &Translator{reg: reg, mint: mint}
}

// Translate inspects the original action and the post-update state of the
// originating item. It returns nil when the action implies no stack change.
func (t *Translator) Translate(stack domain.Stack, a domain.ItemAction) domain.Action {
	origin, ok := stack.Find(a.ID)
	if !ok {
		return nil
	}
	def := t.reg.MustLookup(origin.Payload.Variant())
	if def.Intent == nil {
		return nil
	}

	switch intent := def.Intent(origin.Payload, a.Inner).(type) {
	case domain.PushIntent:
		return domain.Push{Item: t.reg.NewItem(t.mint(), intent.Payload)}
	case domain.PopIntent:
		return domain.Pop{}
	case domain.PopToRootIntent:
		return domain.PopToRoot{}
	default:
		return nil
	}
}
