package roadmap

import (
	errs "github.com/matzehuels/waymark/pkg/errors"
)

// Validate checks the roadmap invariants:
//   - title is not blank
//   - every node has a non-blank title
//   - node IDs are non-empty and unique within the tree
//   - tags are well formed
func (r *Roadmap) Validate() error {
	if err := errs.ValidateTitle(r.Title); err != nil {
		return err
	}
	for _, tag := range r.Tags {
		if err := errs.ValidateTag(tag); err != nil {
			return err
		}
	}

	seen := make(map[string]bool)
	var err error
	pos := 0
	Walk(r.Nodes, func(n Node, _ int) bool {
		pos++
		if err != nil {
			return false
		}
		if n.ID == "" {
			err = errs.New(errs.ErrCodeInvalidStep, "step %d has no id", pos)
			return false
		}
		if seen[n.ID] {
			err = errs.New(errs.ErrCodeInvalidStep, "duplicate step id %q", n.ID)
			return false
		}
		seen[n.ID] = true
		if e := errs.ValidateStepTitle(pos, n.Title); e != nil {
			err = e
			return false
		}
		return true
	})
	return err
}
