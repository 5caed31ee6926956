package runtime

import (
	"github.com/aretw0/navstack/pkg/domain"
)

// ReduceStack applies a generic stack action. It is pure, total and never
// inspects payloads. The input stack is never mutated.
// Actions that are not generic stack actions leave the stack unchanged.
func ReduceStack(stack domain.Stack, action domain.Action) (domain.Stack, []domain.Effect) {
	switch a := action.(type) {
	case domain.Set:
		return a.Items.Clone(), nil

	case domain.Push:
		next := make(domain.Stack, 0, len(stack)+1)
		next = append(next, stack...)
		return append(next, a.Item), nil

	case domain.Pop:
		// The root is only ever replaced through Set.
		if len(stack) <= 1 {
			return stack, nil
		}
		return stack[:len(stack)-1].Clone(), nil

	case domain.PopToRoot:
		if len(stack) == 0 {
			return stack, nil
		}
		return stack[:1].Clone(), nil
	}
	return stack, nil
}
