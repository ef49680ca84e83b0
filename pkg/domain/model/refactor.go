package model

import (
	"github.com/m-mizutani/goerr/v2"
)

// RefactorOp is the kind of anchored source edit
type RefactorOp string

const (
	// RefactorInsertAfterLine inserts Text after the first line containing Anchor
	RefactorInsertAfterLine RefactorOp = "insert_after_line"
	// RefactorInsertBeforeLine inserts Text before the first line containing Anchor
	RefactorInsertBeforeLine RefactorOp = "insert_before_line"
	// RefactorDeleteDeclarations deletes the named declarations from Function's body
	RefactorDeleteDeclarations RefactorOp = "delete_declarations"
	// RefactorRemoveReturnProperties removes the named properties from Function's returned object
	RefactorRemoveReturnProperties RefactorOp = "remove_return_properties"
	// RefactorInsertReturnProperty inserts Text as a property after the After property
	RefactorInsertReturnProperty RefactorOp = "insert_return_property"
)

// RefactorStep is one edit of a refactor plan
type RefactorStep struct {
	Op     RefactorOp
	Anchor string
	Text   string
	Names  []string
	After  string
}

// RefactorPlan is an ordered list of edits applied to one TypeScript source file.
// Function names the function whose body and return object the steps operate on.
type RefactorPlan struct {
	Name     string
	Target   string
	Function string
	Steps    []RefactorStep
}

// Validate checks that every step carries the parameters its op needs
func (p *RefactorPlan) Validate() error {
	for i, s := range p.Steps {
		var ok bool
		switch s.Op {
		case RefactorInsertAfterLine, RefactorInsertBeforeLine:
			ok = s.Anchor != "" && s.Text != ""
		case RefactorDeleteDeclarations, RefactorRemoveReturnProperties:
			ok = p.Function != "" && len(s.Names) > 0
		case RefactorInsertReturnProperty:
			ok = p.Function != "" && s.After != "" && s.Text != ""
		}
		if !ok {
			return goerr.Wrap(ErrInvalidRefactorStep, "missing parameters for op",
				goerr.V(StepIndexKey, i), goerr.V("op", s.Op), goerr.V("plan", p.Name))
		}
	}
	return nil
}
