package latexparser

// Greek letter macros
var greekLetters = map[string]string{
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ", "epsilon": "ϵ", "varepsilon": "ε",
	"zeta": "ζ", "eta": "η", "theta": "θ", "vartheta": "ϑ", "iota": "ι", "kappa": "κ",
	"lambda": "λ", "mu": "μ", "nu": "ν", "xi": "ξ", "omicron": "ο", "pi": "π", "varpi": "ϖ",
	"rho": "ρ", "varrho": "ϱ", "sigma": "σ", "varsigma": "ς", "tau": "τ", "upsilon": "υ",
	"phi": "ϕ", "varphi": "φ", "chi": "χ", "psi": "ψ", "omega": "ω",
	"Gamma": "Γ", "Delta": "Δ", "Theta": "Θ", "Lambda": "Λ", "Xi": "Ξ", "Pi": "Π",
	"Sigma": "Σ", "Upsilon": "Υ", "Phi": "Φ", "Psi": "Ψ", "Omega": "Ω",
}

// Identifier-like symbols
var symbolIdentifiers = map[string]string{
	"infty": "∞", "partial": "∂", "nabla": "∇", "emptyset": "∅", "varnothing": "∅",
	"ell": "ℓ", "hbar": "ℏ", "Re": "ℜ", "Im": "ℑ", "aleph": "ℵ", "imath": "ı", "jmath": "ȷ",
}

// Operator symbols, control symbols included
var symbolOperators = map[string]string{
	"cdot": "⋅", "times": "×", "div": "÷", "pm": "±", "mp": "∓", "ast": "∗", "star": "⋆",
	"circ": "∘", "bullet": "∙", "oplus": "⊕", "otimes": "⊗", "odot": "⊙",
	"leq": "≤", "le": "≤", "geq": "≥", "ge": "≥", "neq": "≠", "ne": "≠", "ll": "≪", "gg": "≫",
	"approx": "≈", "sim": "∼", "simeq": "≃", "cong": "≅", "equiv": "≡", "propto": "∝",
	"in": "∈", "notin": "∉", "ni": "∋", "subset": "⊂", "supset": "⊃", "subseteq": "⊆",
	"supseteq": "⊇", "cup": "∪", "cap": "∩", "setminus": "∖", "mid": "∣", "parallel": "∥",
	"perp": "⊥", "forall": "∀", "exists": "∃", "nexists": "∄", "neg": "¬", "lnot": "¬",
	"land": "∧", "wedge": "∧", "lor": "∨", "vee": "∨",
	"to": "→", "rightarrow": "→", "leftarrow": "←", "gets": "←", "leftrightarrow": "↔",
	"Rightarrow": "⇒", "Leftarrow": "⇐", "Leftrightarrow": "⇔", "implies": "⟹", "iff": "⟺",
	"mapsto": "↦", "uparrow": "↑", "downarrow": "↓", "longrightarrow": "⟶",
	"cdots": "⋯", "ldots": "…", "dots": "…", "vdots": "⋮", "ddots": "⋱",
	"prime": "′", "angle": "∠", "triangle": "△", "degree": "°",
	"langle": "⟨", "rangle": "⟩", "lfloor": "⌊", "rfloor": "⌋", "lceil": "⌈", "rceil": "⌉",
	"vert": "|", "Vert": "‖", "lvert": "|", "rvert": "|", "lVert": "‖", "rVert": "‖",
	"{": "{", "}": "}", "|": "‖", "%": "%", "#": "#", "&": "&", "_": "_", "$": "$",
}

// Big operators taking limits
var bigOperators = map[string]string{
	"sum": "∑", "prod": "∏", "coprod": "∐", "int": "∫", "iint": "∬", "iiint": "∭",
	"oint": "∮", "bigcup": "⋃", "bigcap": "⋂", "bigoplus": "⨁", "bigotimes": "⨂",
	"bigvee": "⋁", "bigwedge": "⋀",
}

// Glyphs that take limits when written directly
var bigOperatorGlyphs = map[string]bool{
	"∑": true, "∏": true, "∫": true, "⋃": true, "⋂": true,
}

// Named functions. The value reports whether scripts attach as limits.
var functionNames = map[string]bool{
	"lim": true, "limsup": true, "liminf": true, "max": true, "min": true,
	"sup": true, "inf": true, "det": true, "gcd": true, "Pr": true,
	"sin": false, "cos": false, "tan": false, "cot": false, "sec": false, "csc": false,
	"arcsin": false, "arccos": false, "arctan": false, "sinh": false, "cosh": false,
	"tanh": false, "coth": false, "log": false, "ln": false, "lg": false, "exp": false,
	"dim": false, "ker": false, "deg": false, "arg": false, "hom": false,
}

// Accent commands and the mark placed over their argument
var overAccents = map[string]string{
	"hat": "^", "widehat": "^", "tilde": "~", "widetilde": "~",
	"bar": "¯", "overline": "¯", "vec": "→", "overrightarrow": "→",
	"overleftarrow": "←", "dot": "˙", "ddot": "¨", "check": "ˇ", "breve": "˘",
	"acute": "´", "grave": "`", "overbrace": "⏞",
}

// Commands placing a mark under their argument
var underAccents = map[string]string{
	"underline": "_", "underbrace": "⏟",
}

// Style wrappers taking one argument, rendered transparently
var styleWrappers = map[string]string{
	"mathbf": "bold", "mathbb": "double-struck", "mathcal": "script", "mathscr": "script",
	"mathfrak": "fraktur", "mathsf": "sans-serif", "mathtt": "monospace", "mathit": "italic",
	"boldsymbol": "bold-italic", "bm": "bold-italic", "textbf": "bold", "texttt": "monospace",
	"textsf": "sans-serif", "pmb": "bold",
}

// Commands without output
var ignoredCommands = map[string]bool{
	"displaystyle": true, "textstyle": true, "scriptstyle": true, "scriptscriptstyle": true,
	"limits": true, "nolimits": true, "nonumber": true, "notag": true,
	"big": true, "Big": true, "bigg": true, "Bigg": true, "bigl": true, "bigr": true,
	"Bigl": true, "Bigr": true, "biggl": true, "biggr": true, "!": true,
}

// Spacing commands and their widths
var spaces = map[string]string{
	",": "0.167em", ":": "0.222em", ">": "0.222em", ";": "0.278em", " ": "0.333em",
	"enspace": "0.5em", "quad": "1em", "qquad": "2em", "thinspace": "0.167em",
}

// Environments and the delimiters drawn around their table
var environments = map[string][2]string{
	"matrix":      {"", ""},
	"smallmatrix": {"", ""},
	"array":       {"", ""},
	"aligned":     {"", ""},
	"align":       {"", ""},
	"align*":      {"", ""},
	"gathered":    {"", ""},
	"gather":      {"", ""},
	"gather*":     {"", ""},
	"split":       {"", ""},
	"eqnarray":    {"", ""},
	"pmatrix":     {"(", ")"},
	"bmatrix":     {"[", "]"},
	"Bmatrix":     {"{", "}"},
	"vmatrix":     {"|", "|"},
	"Vmatrix":     {"‖", "‖"},
	"cases":       {"{", ""},
	"rcases":      {"", "}"},
}

// Delimiters accepted after \left and \right, by command name
var delimiterCommands = map[string]string{
	"{": "{", "}": "}", "|": "‖", "langle": "⟨", "rangle": "⟩",
	"lfloor": "⌊", "rfloor": "⌋", "lceil": "⌈", "rceil": "⌉",
	"vert": "|", "Vert": "‖", "lvert": "|", "rvert": "|",
}
