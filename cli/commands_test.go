package cli

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"github.com/shibukawa/mdomml"
	"github.com/shibukawa/mdomml/testhelper"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var app CLI

	parser, err := kong.New(&app, kong.Name("mdomml"))
	require.NoError(t, err)

	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer

	ctx := app.Context()
	ctx.Stdout = &out
	ctx.Stdin = strings.NewReader(stdin)

	err = kctx.Run(ctx)

	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "", "version")
	assert.NoError(t, err)
	assert.Equal(t, "mdomml v0.1.0\n", out)
}

func TestMathCmd(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		args     []string
		xml      bool
		expected string
	}{
		{
			name: "tree",
			args: []string{"math", "--format", "tree", "x^2"},
			expected: testhelper.TrimIndent(t, `
				superscript
				  base
				    run "x" italic
				  sup
				    run "2"
			`),
		},
		{
			name:     "omml",
			xml:      true,
			args:     []string{"math", `\frac{a}{b}`},
			expected: `<m:oMath xmlns:m="http://schemas.openxmlformats.org/officeDocument/2006/math"><m:f><m:fPr><m:type m:val="bar"/></m:fPr><m:num><m:r><m:t>a</m:t></m:r></m:num><m:den><m:r><m:t>b</m:t></m:r></m:den></m:f></m:oMath>`,
		},
		{
			name:     "display omml",
			xml:      true,
			args:     []string{"math", "--display", "$x$"},
			expected: `<m:oMathPara xmlns:m="http://schemas.openxmlformats.org/officeDocument/2006/math"><m:oMath><m:r><m:t>x</m:t></m:r></m:oMath></m:oMathPara>`,
		},
		{
			name:     "mathml",
			xml:      true,
			args:     []string{"math", "--format", "mathml", "x"},
			expected: `<math xmlns="http://www.w3.org/1998/Math/MathML"><mi>x</mi></math>`,
		},
		{
			name:     "mathml input from stdin",
			stdin:    "<math><msqrt><mi>x</mi></msqrt></math>\n",
			args:     []string{"math", "--mathml", "--format", "tree"},
			expected: "radical\n  radicand\n    run \"x\" italic\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.stdin, tt.args...)
			assert.NoError(t, err)

			if tt.xml {
				out = testhelper.CompactXML(t, out)
			}

			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestMathCmdErrors(t *testing.T) {
	_, err := run(t, "", "math", "$ $")
	assert.IsError(t, err, mdomml.ErrEmptyFormula)

	_, err = run(t, "<math><mfrac><mi>a</mi></mfrac></math>", "math", "--mathml")
	assert.IsError(t, err, mdomml.ErrUnconvertible)

	_, err = run(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "math", "x")
	assert.IsError(t, err, mdomml.ErrConfigFileNotFound)
}

func TestDetectCmd(t *testing.T) {
	out, err := run(t, "", "detect", "--latex", "the value α here")
	assert.NoError(t, err)
	assert.Equal(t, testhelper.TrimIndent(t, `
		0-10 text "the value "
		10-12 math "α"
		  latex: \alpha
		12-17 text " here"
	`), out)
}

func TestDetectCmdReadsLines(t *testing.T) {
	out, err := run(t, "a $x$\n\nx_i\n", "detect")
	assert.NoError(t, err)
	assert.Equal(t, "0-2 text \"a \"\n2-5 formula \"x\"\n0-3 math \"x_i\"\n", out)
}

func TestConvertCmd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "paper.md")
	require.NoError(t, os.WriteFile(input, []byte("# Paper\n\n$$x^2$$\n"), 0o644))

	_, err := run(t, "", "--quiet", "convert", input)
	require.NoError(t, err)

	reader, err := zip.OpenReader(filepath.Join(dir, "paper.docx"))
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, 7, len(reader.File))
}

func TestConvertCmdOutputWithMultipleInputs(t *testing.T) {
	_, err := run(t, "", "--quiet", "convert", "-o", "out.docx", "a.md", "b.md")
	assert.IsError(t, err, ErrOutputWithMultipleInputs)
}
