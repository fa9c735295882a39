package inspect

import "github.com/cschladetsch/asyncflow-go/flow"

// childrenLister is implemented by the flow package's composite types
// (Node, Sequence, Barrier); it is not part of the flow.Generator interface
// since leaf Generators have no children to list.
type childrenLister interface {
	Children() []flow.Generator
}

// treeNode is the JSON-serializable projection of one Generator and its
// descendants, used by the /tree endpoint.
type treeNode struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	State    string     `json:"state"`
	Children []treeNode `json:"children,omitempty"`
}

func generatorState(g flow.Generator) string {
	switch {
	case g.IsFailed():
		return "failed"
	case g.IsCompleted():
		return "completed"
	case g.IsRunning():
		return "running"
	case g.IsActive():
		return "active"
	default:
		return "inactive"
	}
}

// buildTree walks g and its descendants (if any) into a treeNode.
func buildTree(g flow.Generator) treeNode {
	node := treeNode{
		ID:    g.ID().String(),
		Name:  g.Name(),
		State: generatorState(g),
	}

	if lister, ok := g.(childrenLister); ok {
		for _, child := range lister.Children() {
			node.Children = append(node.Children, buildTree(child))
		}
	}
	return node
}

// findGenerator walks g and its descendants looking for the Generator with
// the given id, returning nil if none matches.
func findGenerator(g flow.Generator, id string) flow.Generator {
	if g.ID().String() == id {
		return g
	}
	if lister, ok := g.(childrenLister); ok {
		for _, child := range lister.Children() {
			if found := findGenerator(child, id); found != nil {
				return found
			}
		}
	}
	return nil
}
