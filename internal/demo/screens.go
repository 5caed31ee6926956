package demo

import (
	"fmt"

	"github.com/aretw0/navstack/pkg/domain"
)

type rootScreen struct{}

func (rootScreen) Body(domain.Payload) string {
	return "# Root\n\nPick `push_counter` to open a counter."
}

func (rootScreen) Actions() []string {
	return []string{PushCounter{}.ActionName()}
}

type counterScreen struct{}

func (counterScreen) Body(p domain.Payload) string {
	c, _ := p.(Counter)
	return fmt.Sprintf("# Counter\n\n**%d**", c.Count)
}

func (counterScreen) Actions() []string {
	return []string{
		Increment{}.ActionName(),
		Decrement{}.ActionName(),
		IncrementLater{}.ActionName(),
		PushAnotherCounter{}.ActionName(),
		GoToRoot{}.ActionName(),
	}
}
