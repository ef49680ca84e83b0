package tsdata

import (
	"bytes"
	"context"
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/domain/model"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// StepOutcome describes what one refactor step did
type StepOutcome struct {
	Index   int
	Op      model.RefactorOp
	Applied bool
	Detail  string
}

// Rewrite applies a refactor plan to TypeScript source. All edits are located
// on the original syntax tree and applied together, so no step depends on
// line numbers shifted by another. Steps whose result is already present are
// reported as not applied, which makes a plan safe to run twice.
func Rewrite(ctx context.Context, content []byte, plan *model.RefactorPlan) ([]byte, []StepOutcome, error) {
	if err := plan.Validate(); err != nil {
		return nil, nil, err
	}

	parser := sitter.NewParser()
	parser.SetLanguage(typescript.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to parse source")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		errs := collectErrors(root, content)
		return nil, nil, goerr.Wrap(ErrSyntaxError, "refusing to rewrite a file that does not parse",
			goerr.V("errors", errs))
	}

	m := &codemod{content: content, root: root, function: plan.Function}

	var edits []Edit
	outcomes := make([]StepOutcome, 0, len(plan.Steps))
	for i, step := range plan.Steps {
		stepEdits, detail, err := m.step(step)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "refactor step failed", goerr.V(model.StepIndexKey, i), goerr.V("op", step.Op))
		}
		edits = append(edits, stepEdits...)
		outcomes = append(outcomes, StepOutcome{
			Index:   i,
			Op:      step.Op,
			Applied: len(stepEdits) > 0,
			Detail:  detail,
		})
	}

	out, err := Apply(content, edits)
	if err != nil {
		return nil, nil, err
	}
	return out, outcomes, nil
}

type codemod struct {
	content  []byte
	root     *sitter.Node
	function string
}

func (m *codemod) step(s model.RefactorStep) ([]Edit, string, error) {
	switch s.Op {
	case model.RefactorInsertAfterLine:
		return m.insertAtLine(s.Anchor, s.Text, true)
	case model.RefactorInsertBeforeLine:
		return m.insertAtLine(s.Anchor, s.Text, false)
	case model.RefactorDeleteDeclarations:
		return m.deleteDeclarations(s.Names)
	case model.RefactorRemoveReturnProperties:
		return m.removeReturnProperties(s.Names)
	case model.RefactorInsertReturnProperty:
		return m.insertReturnProperty(s.After, s.Text)
	default:
		return nil, "", goerr.Wrap(model.ErrInvalidRefactorStep, "unknown op", goerr.V("op", s.Op))
	}
}

func (m *codemod) insertAtLine(anchor, text string, after bool) ([]Edit, string, error) {
	idx := bytes.Index(m.content, []byte(anchor))
	if idx < 0 {
		if bytes.Contains(m.content, []byte(strings.TrimSpace(text))) {
			return nil, "already present", nil
		}
		return nil, "", goerr.Wrap(ErrAnchorNotFound, "no line contains the anchor", goerr.V(AnchorKey, anchor))
	}

	text = reindent(text, lineIndent(m.content, idx))
	if bytes.Contains(m.content, []byte(strings.TrimSpace(text))) {
		return nil, "already present", nil
	}

	if !after {
		return []Edit{{Start: lineStart(m.content, idx), End: lineStart(m.content, idx), Text: text}}, "inserted", nil
	}

	end := lineEnd(m.content, idx)
	if end == len(m.content) {
		return []Edit{{Start: end, End: end, Text: "\n" + strings.TrimSuffix(text, "\n")}}, "inserted", nil
	}
	return []Edit{{Start: end + 1, End: end + 1, Text: text}}, "inserted", nil
}

// reindent shifts text so that its least indented line starts at indent.
// Relative indentation is kept and the result ends with a newline.
func reindent(text, indent string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")

	common := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if common < 0 || n < common {
			common = n
		}
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = indent + line[common:]
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m *codemod) deleteDeclarations(names []string) ([]Edit, string, error) {
	body, err := m.functionBody()
	if err != nil {
		return nil, "", err
	}

	var edits []Edit
	var deleted []string
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(i)
		name := declarationName(stmt, m.content)
		if name == "" || !slices.Contains(names, name) {
			continue
		}

		start, end := m.lineRange(m.leadingComments(stmt), int(stmt.EndByte()))
		edits = append(edits, Edit{Start: start, End: m.absorbBlankLine(start, end)})
		deleted = append(deleted, name)
	}

	if len(deleted) == 0 {
		return nil, "no declarations left to delete", nil
	}
	return edits, "deleted " + strings.Join(deleted, ", "), nil
}

func (m *codemod) removeReturnProperties(names []string) ([]Edit, string, error) {
	obj, err := m.returnObject()
	if err != nil {
		return nil, "", err
	}

	var edits []Edit
	var removed []string
	for i := 0; i < int(obj.NamedChildCount()); i++ {
		prop := obj.NamedChild(i)
		name := propertyName(prop, m.content)
		if name == "" || !slices.Contains(names, name) {
			continue
		}

		end := int(prop.EndByte())
		if next := prop.NextSibling(); next != nil && next.Type() == "," {
			end = int(next.EndByte())
		}
		start, end := m.lineRange(int(prop.StartByte()), end)
		edits = append(edits, Edit{Start: start, End: end})
		removed = append(removed, name)
	}

	if len(removed) == 0 {
		return nil, "no properties left to remove", nil
	}
	return edits, "removed " + strings.Join(removed, ", "), nil
}

func (m *codemod) insertReturnProperty(after, text string) ([]Edit, string, error) {
	obj, err := m.returnObject()
	if err != nil {
		return nil, "", err
	}

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	last := strings.TrimSuffix(strings.TrimSpace(lines[len(lines)-1]), ",")

	var anchor *sitter.Node
	for i := 0; i < int(obj.NamedChildCount()); i++ {
		prop := obj.NamedChild(i)
		if prop.Content(m.content) == last {
			return nil, "already present", nil
		}
		if propertyName(prop, m.content) == after {
			anchor = prop
		}
	}
	if anchor == nil {
		return nil, "", goerr.Wrap(ErrAnchorNotFound, "return object has no such property",
			goerr.V(AnchorKey, after), goerr.V(FunctionKey, m.function))
	}

	indent := lineIndent(m.content, int(anchor.StartByte()))
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = indent + strings.TrimSpace(line)
		} else {
			lines[i] = ""
		}
	}
	block := strings.Join(lines, "\n")
	if !strings.HasSuffix(block, ",") {
		block += ","
	}

	next := anchor.NextSibling()
	if next != nil && next.Type() == "," {
		pos := lineEnd(m.content, int(next.EndByte()))
		return []Edit{{Start: pos, End: pos, Text: "\n" + block}}, "inserted after " + after, nil
	}

	pos := int(anchor.EndByte())
	return []Edit{{Start: pos, End: pos, Text: ",\n" + strings.TrimSuffix(block, ",")}}, "inserted after " + after, nil
}

func (m *codemod) functionBody() (*sitter.Node, error) {
	if body := findFunctionBody(m.root, m.function, m.content); body != nil {
		return body, nil
	}
	return nil, goerr.Wrap(ErrFunctionNotFound, "function body not found", goerr.V(FunctionKey, m.function))
}

func (m *codemod) returnObject() (*sitter.Node, error) {
	body, err := m.functionBody()
	if err != nil {
		return nil, err
	}

	for i := int(body.NamedChildCount()) - 1; i >= 0; i-- {
		stmt := body.NamedChild(i)
		if stmt.Type() != "return_statement" || stmt.NamedChildCount() == 0 {
			continue
		}
		if obj := unwrap(stmt.NamedChild(0)); obj.Type() == "object" {
			return obj, nil
		}
	}
	return nil, goerr.Wrap(ErrReturnNotFound, "no return statement with an object literal", goerr.V(FunctionKey, m.function))
}

// leadingComments returns the start offset of the comment lines directly above node
func (m *codemod) leadingComments(node *sitter.Node) int {
	start := int(node.StartByte())
	for prev := node.PrevNamedSibling(); prev != nil && prev.Type() == "comment"; prev = prev.PrevNamedSibling() {
		if int(prev.EndPoint().Row)+1 < int(node.StartPoint().Row) {
			break
		}
		if !startsLine(m.content, int(prev.StartByte())) {
			break
		}
		start = int(prev.StartByte())
		node = prev
	}
	return start
}

// lineRange widens [start, end) to whole lines when nothing but whitespace or
// a trailing line comment shares those lines.
func (m *codemod) lineRange(start, end int) (int, int) {
	if !startsLine(m.content, start) {
		return start, end
	}

	eol := lineEnd(m.content, end)
	rest := bytes.TrimSpace(m.content[end:eol])
	if len(rest) != 0 && !bytes.HasPrefix(rest, []byte("//")) {
		return start, end
	}

	if eol < len(m.content) {
		eol++
	}
	return lineStart(m.content, start), eol
}

// absorbBlankLine extends a whole-line removal over one following blank line
// when a blank line already precedes it.
func (m *codemod) absorbBlankLine(start, end int) int {
	if start == 0 || end >= len(m.content) {
		return end
	}
	if start != lineStart(m.content, start) || end != lineStart(m.content, end) {
		return end
	}
	if len(bytes.TrimSpace(m.content[lineStart(m.content, start-1):start])) != 0 {
		return end
	}

	next := lineEnd(m.content, end)
	if len(bytes.TrimSpace(m.content[end:next])) != 0 {
		return end
	}
	if next < len(m.content) {
		next++
	}
	return next
}

func findFunctionBody(node *sitter.Node, name string, content []byte) *sitter.Node {
	switch node.Type() {
	case "function_declaration", "generator_function_declaration":
		if n := node.ChildByFieldName("name"); n != nil && n.Content(content) == name {
			return node.ChildByFieldName("body")
		}
	case "variable_declarator":
		if n := node.ChildByFieldName("name"); n != nil && n.Content(content) == name {
			if value := unwrap(node.ChildByFieldName("value")); value != nil {
				switch value.Type() {
				case "arrow_function", "function_expression", "function":
					if body := value.ChildByFieldName("body"); body != nil && body.Type() == "statement_block" {
						return body
					}
				}
			}
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		if body := findFunctionBody(node.NamedChild(i), name, content); body != nil {
			return body
		}
	}
	return nil
}

func declarationName(stmt *sitter.Node, content []byte) string {
	switch stmt.Type() {
	case "function_declaration":
		if n := stmt.ChildByFieldName("name"); n != nil {
			return n.Content(content)
		}
	case "lexical_declaration", "variable_declaration":
		if stmt.NamedChildCount() != 1 {
			return ""
		}
		decl := stmt.NamedChild(0)
		if n := decl.ChildByFieldName("name"); n != nil && n.Type() == "identifier" {
			return n.Content(content)
		}
	}
	return ""
}

func propertyName(prop *sitter.Node, content []byte) string {
	switch prop.Type() {
	case "shorthand_property_identifier":
		return prop.Content(content)
	case "pair":
		if key := prop.ChildByFieldName("key"); key != nil {
			return propertyKey(key, content)
		}
	case "method_definition":
		if n := prop.ChildByFieldName("name"); n != nil {
			return n.Content(content)
		}
	}
	return ""
}
