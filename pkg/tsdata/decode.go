package tsdata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/merlin-energy/merlinctl/pkg/domain/model"
	"github.com/merlin-energy/merlinctl/pkg/domain/types"
	sitter "github.com/smacker/go-tree-sitter"
)

// Expr is a literal the decoder keeps as raw source, such as a constant reference
type Expr string

func decodeQuestion(obj *sitter.Node, content []byte) (*model.Question, error) {
	var q model.Question

	for key, value := range objectProperties(obj, content) {
		switch key {
		case "id":
			s, err := decodeString(value, content)
			if err != nil {
				return nil, goerr.Wrap(err, "invalid id")
			}
			q.ID = types.QuestionID(s)
		case "question":
			q.Question, _ = decodeString(value, content)
		case "type":
			s, _ := decodeString(value, content)
			q.Type = types.QuestionType(s)
		case "default":
			q.Default = decodeScalar(value, content)
		case "unit":
			q.Unit, _ = decodeString(value, content)
		case "impactType":
			s, _ := decodeString(value, content)
			q.ImpactType = types.ImpactType(s)
		case "helpText":
			q.HelpText, _ = decodeString(value, content)
		case "required":
			q.Required = value.Type() == "true"
		case "options":
			opts, err := decodeOptions(value, content)
			if err != nil {
				return nil, err
			}
			q.Options = opts
		}
	}

	if q.ID == "" {
		return nil, goerr.New("question has no id")
	}
	return &q, nil
}

func decodeOptions(node *sitter.Node, content []byte) ([]model.Option, error) {
	node = unwrap(node)
	if node.Type() != "array" {
		// options built elsewhere (e.g. a shared constant) are not inspected
		return nil, nil
	}

	var opts []model.Option
	for i := 0; i < int(node.NamedChildCount()); i++ {
		el := node.NamedChild(i)
		if el.Type() == "comment" {
			continue
		}
		if el.Type() != "object" {
			return nil, goerr.Wrap(ErrUnsupportedValue, "option is not an object literal",
				goerr.V("line", el.StartPoint().Row+1))
		}
		props := objectProperties(el, content)
		var opt model.Option
		if v, ok := props["value"]; ok {
			opt.Value = fmt.Sprint(decodeScalar(v, content))
		}
		if v, ok := props["label"]; ok {
			opt.Label, _ = decodeString(v, content)
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

func decodeString(node *sitter.Node, content []byte) (string, error) {
	switch node.Type() {
	case "string":
		return unquote(node.Content(content)), nil
	case "template_string":
		if hasSubstitution(node) {
			return "", goerr.Wrap(ErrUnsupportedValue, "template string with substitutions")
		}
		return unquote(node.Content(content)), nil
	default:
		return "", goerr.Wrap(ErrUnsupportedValue, "expected a string literal", goerr.V("type", node.Type()))
	}
}

// decodeScalar converts a literal to int64, float64, string, bool or nil.
// Anything else is kept as an Expr.
func decodeScalar(node *sitter.Node, content []byte) any {
	node = unwrap(node)
	raw := node.Content(content)

	switch node.Type() {
	case "string":
		return unquote(raw)
	case "template_string":
		if !hasSubstitution(node) {
			return unquote(raw)
		}
	case "number", "unary_expression":
		if v, ok := parseNumber(raw); ok {
			return v
		}
	case "true":
		return true
	case "false":
		return false
	case "null", "undefined":
		return nil
	}

	return Expr(raw)
}

func parseNumber(raw string) (any, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), "_", "")
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return i, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	return nil, false
}

func hasSubstitution(node *sitter.Node) bool {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if node.NamedChild(i).Type() == "template_substitution" {
			return true
		}
	}
	return false
}

// unquote decodes a JavaScript string literal including its quotes
func unquote(lit string) string {
	if len(lit) < 2 {
		return lit
	}
	body := lit[1 : len(lit)-1]
	if !strings.Contains(body, `\`) {
		return body
	}

	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			sb.WriteByte(c)
			continue
		}

		i++
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '0':
			sb.WriteByte(0)
		case '\n':
			// line continuation
		case 'u':
			if i+4 < len(body) {
				if r, err := strconv.ParseUint(body[i+1:i+5], 16, 32); err == nil {
					sb.WriteRune(rune(r))
					i += 4
					continue
				}
			}
			sb.WriteByte('u')
		case 'x':
			if i+2 < len(body) {
				if r, err := strconv.ParseUint(body[i+1:i+3], 16, 8); err == nil {
					sb.WriteRune(rune(r))
					i += 2
					continue
				}
			}
			sb.WriteByte('x')
		default:
			sb.WriteByte(body[i])
		}
	}
	return sb.String()
}
