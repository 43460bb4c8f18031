package assembler

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

var greekMacros = map[rune]string{
	'α': `\alpha`, 'β': `\beta`, 'γ': `\gamma`, 'δ': `\delta`,
	'ε': `\epsilon`, 'ζ': `\zeta`, 'η': `\eta`, 'θ': `\theta`,
	'λ': `\lambda`, 'μ': `\mu`, 'ν': `\nu`, 'ξ': `\xi`,
	'π': `\pi`, 'ρ': `\rho`, 'σ': `\sigma`, 'φ': `\phi`,
	'χ': `\chi`, 'ψ': `\psi`, 'ω': `\omega`,
	'Γ': `\Gamma`, 'Δ': `\Delta`, 'Θ': `\Theta`, 'Λ': `\Lambda`,
	'Ξ': `\Xi`, 'Π': `\Pi`, 'Σ': `\Sigma`, 'Φ': `\Phi`,
	'Ψ': `\Psi`, 'Ω': `\Omega`,
}

var subscriptChars = map[rune]rune{
	'₀': '0', '₁': '1', '₂': '2', '₃': '3', '₄': '4',
	'₅': '5', '₆': '6', '₇': '7', '₈': '8', '₉': '9',
	'ₐ': 'a', 'ₑ': 'e', 'ᵢ': 'i', 'ⱼ': 'j', 'ₖ': 'k',
	'ₗ': 'l', 'ₘ': 'm', 'ₙ': 'n', 'ₒ': 'o', 'ₚ': 'p',
	'ᵣ': 'r', 'ₛ': 's', 'ₜ': 't', 'ᵤ': 'u', 'ᵥ': 'v', 'ₓ': 'x',
}

// ToLatex rewrites detected prose math as LaTeX. Fullwidth ASCII is folded to its
// narrow form, Greek letters become macros, Unicode subscripts become _x or _{xy} and
// ∈ becomes \in.
func ToLatex(prose string) string {
	runes := []rune(width.Narrow.String(prose))

	var b strings.Builder

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if macro, ok := greekMacros[r]; ok {
			b.WriteString(macro)

			if i+1 < len(runes) && unicode.IsLetter(runes[i+1]) && !rewritten(runes[i+1]) {
				b.WriteByte(' ')
			}

			continue
		}

		if _, ok := subscriptChars[r]; ok {
			var run []rune
			for ; i < len(runes); i++ {
				ascii, ok := subscriptChars[runes[i]]
				if !ok {
					break
				}

				run = append(run, ascii)
			}
			i--

			if len(run) == 1 {
				b.WriteString("_" + string(run))
			} else {
				b.WriteString("_{" + string(run) + "}")
			}

			continue
		}

		if r == '∈' {
			b.WriteString(`\in `)
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// rewritten reports whether r is itself replaced by a macro or a subscript
func rewritten(r rune) bool {
	_, greek := greekMacros[r]
	_, subscript := subscriptChars[r]

	return greek || subscript
}
