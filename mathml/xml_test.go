package mathml

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/stretchr/testify/require"
)

func TestParseXML(t *testing.T) {
	content := `<math xmlns="http://www.w3.org/1998/Math/MathML">
  <mfrac>
    <mi>a</mi>
    <mrow><mn>2</mn><mo>+</mo><mi mathvariant="normal">b</mi></mrow>
  </mfrac>
  <semantics><annotation>x</annotation></semantics>
</math>`

	node, err := ParseXML(content)
	require.NoError(t, err)

	assert.Equal(t, Math, node.Kind)
	assert.Equal(t, 0, len(node.Attrs))
	assert.Equal(t, 2, len(node.Children))

	frac := node.Children[0]
	assert.Equal(t, Fraction, frac.Kind)
	assert.Equal(t, "a", frac.Children[0].Text)
	assert.Equal(t, "normal", frac.Children[1].Children[2].Variant())

	unknown := node.Children[1]
	assert.Equal(t, Unknown, unknown.Kind)
	assert.Equal(t, "semantics", unknown.Tag)
}

func TestParseXMLWithPrefix(t *testing.T) {
	node, err := ParseXML(`<m:math xmlns:m="http://www.w3.org/1998/Math/MathML"><m:mo>∑</m:mo></m:math>`)
	require.NoError(t, err)

	assert.Equal(t, Math, node.Kind)
	assert.Equal(t, Operator, node.Children[0].Kind)
	assert.Equal(t, "∑", node.Children[0].Text)
}

func TestParseXMLErrors(t *testing.T) {
	_, err := ParseXML("<math><mi>x</math>")
	assert.IsError(t, err, ErrInvalidXML)

	_, err = ParseXML("")
	assert.Error(t, err)
}

func TestMarshalString(t *testing.T) {
	node := New(Math, New(Sup, Leaf(Identifier, "x"), Leaf(Number, "2")))

	output, err := MarshalString(node)
	require.NoError(t, err)

	assert.Contains(t, output, `<math xmlns="http://www.w3.org/1998/Math/MathML">`)
	assert.Contains(t, output, "<mi>x</mi>")
	assert.Contains(t, output, "<mn>2</mn>")

	parsed, err := ParseXML(output)
	require.NoError(t, err)
	assert.Equal(t, Sup, parsed.Children[0].Kind)
	assert.Equal(t, "2", parsed.Children[0].Children[1].Text)
}
