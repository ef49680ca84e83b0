package tsdata

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/domain/model"
	"github.com/merlin-energy/merlinctl/pkg/domain/types"
)

const indentUnit = "  "

// RenderQuestion serializes a question as an object literal in the data file
// style. The first line carries indent; the closing brace has no trailing comma.
func RenderQuestion(q model.Question, indent string) string {
	inner := indent + indentUnit
	var fields []string
	add := func(key, value string) {
		fields = append(fields, inner+key+": "+value)
	}

	add("id", quote(string(q.ID)))
	if q.Question != "" {
		add("question", quote(q.Question))
	}
	add("type", quote(string(q.Type)))
	if q.Default != nil {
		add("default", renderValue(q.Default))
	}
	if q.Unit != "" {
		add("unit", quote(q.Unit))
	}
	if len(q.Options) > 0 {
		lines := make([]string, len(q.Options))
		for i, opt := range q.Options {
			lines[i] = fmt.Sprintf("%s{ value: %s, label: %s }", inner+indentUnit, quote(opt.Value), quote(opt.Label))
		}
		fields = append(fields, inner+"options: [\n"+strings.Join(lines, ",\n")+"\n"+inner+"]")
	}
	if q.ImpactType != "" {
		add("impactType", quote(string(q.ImpactType)))
	}
	if q.HelpText != "" {
		add("helpText", quote(q.HelpText))
	}
	add("required", strconv.FormatBool(q.Required))

	return indent + "{\n" + strings.Join(fields, ",\n") + "\n" + indent + "}"
}

func renderQuestions(qs []model.Question, indent string) string {
	rendered := make([]string, len(qs))
	for i, q := range qs {
		rendered[i] = RenderQuestion(q, indent)
	}
	return strings.Join(rendered, ",\n")
}

func renderValue(v any) string {
	switch val := v.(type) {
	case string:
		return quote(val)
	case Expr:
		return string(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// quote produces a single-quoted JavaScript string literal
func quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			sb.WriteString(`\'`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

// elementIndent returns the indentation used for questions of the template
func (d *Document) elementIndent(t *Template, el *element) string {
	if el != nil && startsLine(d.content, el.start) {
		return lineIndent(d.content, el.start)
	}
	return lineIndent(d.content, t.listOpen) + indentUnit
}

// AppendQuestions returns the edit appending qs to the end of the template's
// question list, keeping existing questions and separators untouched.
func (d *Document) AppendQuestions(t *Template, qs []model.Question) (Edit, error) {
	if t.Skipped() {
		return Edit{}, goerr.Wrap(ErrTemplateSkipped, t.SkipReason, goerr.V(TemplateKey, t.ID))
	}

	if len(t.elements) == 0 {
		// replace whitespace (and keep comments) between the brackets
		base := lineIndent(d.content, t.listOpen)
		end := t.listClose
		start := end
		for start > t.listOpen+1 && isSpace(d.content[start-1]) {
			start--
		}
		return Edit{
			Start: start,
			End:   end,
			Text:  d.withNewline("\n" + renderQuestions(qs, base+indentUnit) + "\n" + base),
		}, nil
	}

	last := &t.elements[len(t.elements)-1]
	return d.insertAfterElement(t, last, qs), nil
}

// InsertAfter returns the edit placing qs directly after the question with ID
// after. The boolean is false when the template has no such question.
func (d *Document) InsertAfter(t *Template, after types.QuestionID, qs []model.Question) (Edit, bool, error) {
	if t.Skipped() {
		return Edit{}, false, goerr.Wrap(ErrTemplateSkipped, t.SkipReason, goerr.V(TemplateKey, t.ID))
	}

	for i := range t.elements {
		el := &t.elements[i]
		if el.id != after {
			continue
		}
		return d.insertAfterElement(t, el, qs), true, nil
	}

	return Edit{}, false, nil
}

// insertAfterElement builds the edit placing qs after el. A comment trailing
// el on the same line stays on el's line.
func (d *Document) insertAfterElement(t *Template, el *element, qs []model.Question) Edit {
	rendered := renderQuestions(qs, d.elementIndent(t, el))

	pos := skipBlank(d.content, el.end)
	hasComma := pos < len(d.content) && d.content[pos] == ','
	if hasComma {
		pos++
	}
	tail, ok := trailingComment(d.content, skipBlank(d.content, pos))
	if !ok {
		return Edit{Start: el.end, End: el.end, Text: d.withNewline(",\n" + rendered)}
	}

	if hasComma {
		return Edit{Start: tail, End: tail, Text: d.withNewline("\n" + rendered + ",")}
	}
	// move the missing separator in front of the comment
	between := string(d.content[el.end:tail])
	return Edit{Start: el.end, End: tail, Text: "," + between + d.withNewline("\n"+rendered)}
}

// trailingComment returns the end offset of a comment starting at off that
// is the last thing on its line
func trailingComment(content []byte, off int) (int, bool) {
	rest := content[off:]
	var end int
	switch {
	case bytes.HasPrefix(rest, []byte("//")):
		end = off + 2
		for end < len(content) && content[end] != '\n' && content[end] != '\r' {
			end++
		}
		return end, true
	case bytes.HasPrefix(rest, []byte("/*")):
		closing := bytes.Index(rest[2:], []byte("*/"))
		if closing < 0 || bytes.IndexByte(rest[2:2+closing], '\n') >= 0 {
			return 0, false
		}
		end = off + 2 + closing + 2
	default:
		return 0, false
	}

	next := skipBlank(content, end)
	if next < len(content) && content[next] != '\n' && content[next] != '\r' {
		return 0, false
	}
	return end, true
}

func skipBlank(content []byte, off int) int {
	for off < len(content) && (content[off] == ' ' || content[off] == '\t') {
		off++
	}
	return off
}

// withNewline converts rendered text to the line ending used by the document
func (d *Document) withNewline(text string) string {
	if d.newline == "\n" || d.newline == "" {
		return text
	}
	return strings.ReplaceAll(text, "\n", d.newline)
}

// QuestionBlock returns the source text of the template's question list including brackets
func (d *Document) QuestionBlock(t *Template) string {
	if t.Skipped() {
		return ""
	}
	return string(d.content[t.listOpen : t.listClose+1])
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
