package latexparser

import (
	"fmt"

	pc "github.com/shibukawa/parsercombinator"

	"github.com/shibukawa/mdomml/mathml"
	tok "github.com/shibukawa/mdomml/tokenizer"
)

// environment parses \begin{name} rows \end{name} into a table, fenced when the
// environment draws delimiters
func environment(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, pc.Token[Entity], error) {
	p := tokens[0].Val.Original.Position

	consumed, match, err := beginEnvironment(pctx, tokens)
	if err != nil {
		return 0, pc.Token[Entity]{}, fmt.Errorf("%w: malformed \\begin at %d:%d", pc.ErrCritical, p.Line, p.Column)
	}

	name := environmentName(match)
	offset := consumed

	// column format of array
	if name == "array" && isRaw(tokens[offset:], tok.OPENED_BRACE) {
		n, _, err := group(pctx, tokens[offset:])
		if err != nil {
			return 0, pc.Token[Entity]{}, err
		}

		offset += n
	}

	n, rows, err := parseRows(pctx, tokens[offset:])
	if err != nil {
		return 0, pc.Token[Entity]{}, err
	}

	offset += n

	n, match, err = endEnvironment(pctx, tokens[offset:])
	if err != nil {
		return 0, pc.Token[Entity]{}, fmt.Errorf("%w: \\begin{%s} at %d:%d is not closed", pc.ErrCritical, name, p.Line, p.Column)
	}

	if closing := environmentName(match); closing != name {
		return 0, pc.Token[Entity]{}, fmt.Errorf("%w: \\begin{%s} at %d:%d is closed by \\end{%s}", pc.ErrCritical, name, p.Line, p.Column, closing)
	}

	offset += n

	node := table(rows)
	if delimiters, ok := environments[name]; ok && (delimiters[0] != "" || delimiters[1] != "") {
		node = mathml.New(mathml.Fenced, node).WithAttr("open", delimiters[0]).WithAttr("close", delimiters[1])
	}

	return offset, nodeToken(tokens[0], node, false), nil
}

// parseRows parses cells separated by & and rows separated by \\.
// Each cell is returned as an mrow. A trailing \\ does not open an extra row.
func parseRows(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, [][]*mathml.Node, error) {
	offset := 0
	rows := [][]*mathml.Node{{}}

	for {
		n, children, err := parseExpression(pctx, tokens[offset:])
		if err != nil {
			return 0, nil, err
		}

		offset += n
		last := len(rows) - 1
		rows[last] = append(rows[last], mathml.New(mathml.Row, children...))

		n, separator, err := cellSeparator(pctx, tokens[offset:])
		if err != nil {
			break
		}

		offset += n

		if separator[0].Val.Original.Type == tok.ROW_SEPARATOR {
			rows = append(rows, []*mathml.Node{})
		}
	}

	if last := rows[len(rows)-1]; len(rows) > 1 && len(last) == 1 && len(last[0].Children) == 0 {
		rows = rows[:len(rows)-1]
	}

	return offset, rows, nil
}

// table builds an mtable from parsed rows
func table(rows [][]*mathml.Node) *mathml.Node {
	result := mathml.New(mathml.Table)

	for _, cells := range rows {
		tr := mathml.New(mathml.TableRow)
		for _, cell := range cells {
			tr.Children = append(tr.Children, mathml.New(mathml.TableCell, cell.Children...))
		}

		result.Children = append(result.Children, tr)
	}

	return result
}
