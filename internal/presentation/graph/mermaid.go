package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/navstack/pkg/domain"
)

// Overlay contains presentation state to visualize on top of the stack.
type Overlay struct {
	// Shown is the identity sequence the surface currently displays.
	// Items of the stack missing from it are styled as pending.
	Shown []domain.ID
}

// GenerateMermaid produces a Mermaid flowchart of the stack, root first.
// Shapes:
// - Root: ((Circle))
// - Top: [[Subroutine]]
// - Default: [Rectangle]
// The top item is always styled as current.
func GenerateMermaid(stack domain.Stack, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i, item := range stack {
		id := nodeID(item.ID)

		opener, closer := "[", "]"
		switch {
		case i == 0:
			opener, closer = "((", "))"
		case i == len(stack)-1:
			opener, closer = "[[", "]]"
		}

		label := strings.ReplaceAll(item.Title, "\"", "'")
		sb.WriteString(fmt.Sprintf("    %s%s\"%s <br/> %s\"%s\n", id, opener, label, item.Payload.Variant(), closer))

		if i > 0 {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", nodeID(stack[i-1].ID), id))
		}
	}

	if len(stack) == 0 {
		return sb.String()
	}

	sb.WriteString("\n    %% Overlay Styles\n")
	sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

	if overlay != nil {
		sb.WriteString("    classDef pending fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:5 5,color:#000;\n")
		shown := make(map[domain.ID]bool, len(overlay.Shown))
		for _, id := range overlay.Shown {
			shown[id] = true
		}
		for _, item := range stack {
			if !shown[item.ID] {
				sb.WriteString(fmt.Sprintf("    class %s pending;\n", nodeID(item.ID)))
			}
		}
	}

	sb.WriteString(fmt.Sprintf("    class %s current;\n", nodeID(stack.Top().ID)))
	return sb.String()
}

// nodeID turns an identity into a Mermaid-safe node name.
func nodeID(id domain.ID) string {
	return "n" + strings.ReplaceAll(id.String(), "-", "")
}
