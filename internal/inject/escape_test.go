package inject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape_Empty(t *testing.T) {
	assert.Equal(t, "", Escape(""))
}

func TestEscape_PlainTextUnchanged(t *testing.T) {
	assert.Equal(t, "Backend engineer with Go experience", Escape("Backend engineer with Go experience"))
}

func TestEscape_Dollar(t *testing.T) {
	assert.Equal(t, `Saved \$2M in infra costs`, Escape("Saved $2M in infra costs"))
}

func TestEscape_PercentAndAmpersand(t *testing.T) {
	assert.Equal(t, `R\&D headcount grew 30\%`, Escape("R&D headcount grew 30%"))
}

func TestEscape_Underscore(t *testing.T) {
	assert.Equal(t, `snake\_case`, Escape("snake_case"))
}

func TestEscape_Hash(t *testing.T) {
	assert.Equal(t, `C\# developer`, Escape("C# developer"))
}

func TestEscape_Braces(t *testing.T) {
	assert.Equal(t, `\{config\}`, Escape("{config}"))
}

func TestEscape_Backslash(t *testing.T) {
	assert.Equal(t, `a\textbackslash{}b`, Escape(`a\b`))
}

func TestEscape_Caret(t *testing.T) {
	assert.Equal(t, `2\textasciicircum{}10`, Escape("2^10"))
}

func TestEscape_Tilde(t *testing.T) {
	assert.Equal(t, `\textasciitilde{}user`, Escape("~user"))
}

func TestEscape_BackslashNotDoubleEscaped(t *testing.T) {
	// The replacement text for one special character must never be
	// re-scanned for further specials.
	got := Escape(`\$`)
	assert.Equal(t, `\textbackslash{}\$`, got)
}

func TestEscape_AllSpecialsAtOnce(t *testing.T) {
	got := Escape(`# $ % & _ { } ~ ^ \`)
	assert.Equal(t, `\# \$ \% \& \_ \{ \} \textasciitilde{} \textasciicircum{} \textbackslash{}`, got)
}

func TestEscape_UnicodePassthrough(t *testing.T) {
	assert.Equal(t, "Zürich café", Escape("Zürich café"))
}
