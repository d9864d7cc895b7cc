package roadmap

import (
	"strings"

	"github.com/google/uuid"

	errs "github.com/matzehuels/waymark/pkg/errors"
)

// Step is one row of the roadmap creation form.
//
// Parent is the 1-based position of an earlier step this step nests under.
// Zero makes the step a top-level node.
type Step struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	Parent      int    `json:"parent,omitempty" validate:"gte=0"`
}

// BuildTree reconstructs a node tree from a flat list of steps.
//
// Steps without a parent become top-level nodes in input order. Children keep
// their relative input order under their parent. A parent must refer to an
// earlier step, which rules out cycles and self-references. Every node gets a
// fresh random ID.
func BuildTree(steps []Step) ([]Node, error) {
	if len(steps) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidStep, "a roadmap needs at least one step")
	}

	for i, s := range steps {
		if err := errs.ValidateStepTitle(i+1, s.Title); err != nil {
			return nil, err
		}
		if s.Parent < 0 || s.Parent > i {
			if s.Parent == i+1 {
				return nil, errs.New(errs.ErrCodeInvalidStep, "step %d cannot be its own parent", i+1)
			}
			return nil, errs.New(errs.ErrCodeInvalidStep, "step %d parent %d must refer to an earlier step", i+1, s.Parent)
		}
	}

	children := make([][]int, len(steps)+1)
	for i, s := range steps {
		children[s.Parent] = append(children[s.Parent], i+1)
	}

	var build func(parent int) []Node
	build = func(parent int) []Node {
		idx := children[parent]
		if len(idx) == 0 {
			return nil
		}
		nodes := make([]Node, 0, len(idx))
		for _, i := range idx {
			s := steps[i-1]
			nodes = append(nodes, Node{
				ID:          uuid.NewString(),
				Title:       strings.TrimSpace(s.Title),
				Description: strings.TrimSpace(s.Description),
				Children:    build(i),
			})
		}
		return nodes
	}
	return build(0), nil
}

// Flatten is the inverse of BuildTree: it lists the nodes in pre-order with
// parent pointers. Node IDs are not preserved.
func Flatten(nodes []Node) []Step {
	var steps []Step
	var visit func(nodes []Node, parent int)
	visit = func(nodes []Node, parent int) {
		for _, n := range nodes {
			steps = append(steps, Step{Title: n.Title, Description: n.Description, Parent: parent})
			visit(n.Children, len(steps))
		}
	}
	visit(nodes, 0)
	return steps
}
