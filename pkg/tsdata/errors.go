package tsdata

import "github.com/m-mizutani/goerr/v2"

var (
	ErrTemplatesNotFound = goerr.New("no use case template array found")
	ErrTemplateSkipped   = goerr.New("template was skipped during parsing")
	ErrOverlappingEdit   = goerr.New("edits overlap")
	ErrEditOutOfRange    = goerr.New("edit is out of range")
	ErrSyntaxError       = goerr.New("source has syntax errors")
	ErrFunctionNotFound  = goerr.New("function not found")
	ErrReturnNotFound    = goerr.New("function does not return an object literal")
	ErrAnchorNotFound    = goerr.New("anchor not found")
	ErrUnsupportedValue  = goerr.New("unsupported literal")
)

// Context keys for error values
const (
	TemplateKey = "template"
	AnchorKey   = "anchor"
	FunctionKey = "function"
	OffsetKey   = "offset"
)
