package tsdata

import (
	"bytes"
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/domain/model"
	"github.com/merlin-energy/merlinctl/pkg/domain/types"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

const questionsKey = "customQuestions"

// Position is a 1-based line/column location in the source
type Position struct {
	Line   int
	Column int
	Detail string
}

// Template is a use case template located in a data file. Templates that
// could not be read structurally carry a SkipReason and no questions.
type Template struct {
	model.Template
	Index      int
	Line       int
	SkipReason string

	listOpen  int // offset of '['
	listClose int // offset of ']'
	elements  []element
}

type element struct {
	start int
	end   int
	id    types.QuestionID
}

// Skipped reports whether the template was left out of structural editing
func (t *Template) Skipped() bool {
	return t.SkipReason != ""
}

// Document is a parsed data file. It keeps the original bytes so that edits
// computed from it can be applied without touching unrelated text.
type Document struct {
	content   []byte
	newline   string
	Templates []*Template
	Errors    []Position
}

// Content returns the bytes the document was parsed from
func (d *Document) Content() []byte {
	return d.content
}

// Parse reads the use case templates from TypeScript source. Every top-level
// array literal holding an object with a customQuestions property is treated
// as a template array.
func Parse(ctx context.Context, content []byte) (*Document, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(typescript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse data file")
	}
	defer tree.Close()

	root := tree.RootNode()
	doc := &Document{
		content: content,
		newline: detectNewline(content),
		Errors:  collectErrors(root, content),
	}

	for _, arr := range findTemplateArrays(root, content) {
		idx := 0
		for i := 0; i < int(arr.NamedChildCount()); i++ {
			child := arr.NamedChild(i)
			if child.Type() == "comment" {
				continue
			}
			doc.Templates = append(doc.Templates, parseTemplate(child, idx, content))
			idx++
		}
	}

	if len(doc.Templates) == 0 {
		return nil, goerr.Wrap(ErrTemplatesNotFound, "data file has no template array",
			goerr.V("syntax_errors", len(doc.Errors)))
	}

	return doc, nil
}

// findTemplateArrays walks declaration-level nodes only; template arrays are
// never nested inside functions in the data file.
func findTemplateArrays(node *sitter.Node, content []byte) []*sitter.Node {
	var arrays []*sitter.Node

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "export_statement", "lexical_declaration", "variable_declaration", "ERROR":
			arrays = append(arrays, findTemplateArrays(child, content)...)

		case "variable_declarator":
			value := unwrap(child.ChildByFieldName("value"))
			if value != nil && value.Type() == "array" && holdsTemplates(value, content) {
				arrays = append(arrays, value)
			}

		case "array":
			if holdsTemplates(child, content) {
				arrays = append(arrays, child)
			}

		case "as_expression", "satisfies_expression", "parenthesized_expression":
			if value := unwrap(child); value.Type() == "array" && holdsTemplates(value, content) {
				arrays = append(arrays, value)
			}
		}
	}

	return arrays
}

func holdsTemplates(arr *sitter.Node, content []byte) bool {
	for i := 0; i < int(arr.NamedChildCount()); i++ {
		child := arr.NamedChild(i)
		if child.Type() != "object" {
			continue
		}
		if _, ok := objectProperties(child, content)[questionsKey]; ok {
			return true
		}
	}
	return false
}

func parseTemplate(node *sitter.Node, index int, content []byte) *Template {
	t := &Template{
		Template: model.Template{ID: fmt.Sprintf("#%d", index)},
		Index:    index,
		Line:     int(node.StartPoint().Row) + 1,
	}

	if node.Type() != "object" {
		t.SkipReason = "template is not an object literal"
		return t
	}

	props := objectProperties(node, content)
	for _, key := range []string{"id", "slug"} {
		if v, ok := props[key]; ok && v.Type() == "string" {
			t.ID = unquote(v.Content(content))
			break
		}
	}

	if node.HasError() {
		t.SkipReason = "template contains syntax errors"
		return t
	}

	list, ok := props[questionsKey]
	if !ok {
		t.SkipReason = questionsKey + " not found"
		return t
	}
	list = unwrap(list)
	if list.Type() != "array" {
		t.SkipReason = questionsKey + " is not an array literal"
		return t
	}

	t.listOpen = int(list.StartByte())
	t.listClose = int(list.EndByte()) - 1

	for i := 0; i < int(list.NamedChildCount()); i++ {
		el := list.NamedChild(i)
		if el.Type() == "comment" {
			continue
		}
		if el.Type() != "object" {
			t.SkipReason = fmt.Sprintf("question at line %d is not an object literal", el.StartPoint().Row+1)
			t.Questions = nil
			t.elements = nil
			return t
		}

		q, err := decodeQuestion(el, content)
		if err != nil {
			t.SkipReason = fmt.Sprintf("question at line %d: %s", el.StartPoint().Row+1, err.Error())
			t.Questions = nil
			t.elements = nil
			return t
		}

		t.Questions = append(t.Questions, *q)
		t.elements = append(t.elements, element{
			start: int(el.StartByte()),
			end:   int(el.EndByte()),
			id:    q.ID,
		})
	}

	return t
}

// detectNewline returns the line ending of the first line
func detectNewline(content []byte) string {
	i := bytes.IndexByte(content, '\n')
	if i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// unwrap strips type assertions and parentheses around an expression
func unwrap(node *sitter.Node) *sitter.Node {
	for node != nil {
		switch node.Type() {
		case "as_expression", "satisfies_expression", "parenthesized_expression", "non_null_expression":
			if node.NamedChildCount() == 0 {
				return node
			}
			node = node.NamedChild(0)
		default:
			return node
		}
	}
	return nil
}

// objectProperties maps the keys of an object literal to their value nodes
func objectProperties(obj *sitter.Node, content []byte) map[string]*sitter.Node {
	props := make(map[string]*sitter.Node)
	for i := 0; i < int(obj.NamedChildCount()); i++ {
		child := obj.NamedChild(i)
		if child.Type() != "pair" {
			continue
		}
		key := child.ChildByFieldName("key")
		value := child.ChildByFieldName("value")
		if key == nil || value == nil {
			continue
		}
		props[propertyKey(key, content)] = value
	}
	return props
}

func propertyKey(key *sitter.Node, content []byte) string {
	switch key.Type() {
	case "string":
		return unquote(key.Content(content))
	default:
		return key.Content(content)
	}
}

func collectErrors(node *sitter.Node, content []byte) []Position {
	if !node.HasError() && !node.IsMissing() {
		return nil
	}

	pos := Position{
		Line:   int(node.StartPoint().Row) + 1,
		Column: int(node.StartPoint().Column) + 1,
	}

	if node.IsMissing() {
		pos.Detail = "missing " + node.Type()
		return []Position{pos}
	}
	if node.Type() == "ERROR" {
		text := node.Content(content)
		if len(text) > 40 {
			text = text[:40] + "..."
		}
		pos.Detail = "unexpected " + fmt.Sprintf("%q", text)
		return []Position{pos}
	}

	var found []Position
	for i := 0; i < int(node.ChildCount()); i++ {
		found = append(found, collectErrors(node.Child(i), content)...)
	}
	return found
}
