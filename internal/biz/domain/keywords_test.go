package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "", Normalize("", ""))
	assert.Equal(t, "foo", Normalize("Foo", ""))
	assert.Equal(t, "bar", Normalize("", "bar"))
	assert.Equal(t, "foo bar", Normalize("Foo", "bar"))
}

func TestNormalize_NoExtraTransformation(t *testing.T) {
	// Punctuation and accents pass through untouched; only case changes.
	assert.Equal(t, "senha: 1234!", Normalize("Senha: 1234!", ""))
	assert.Equal(t, "informação confidencial", Normalize("Informação", "Confidencial"))
}

func TestNewKeywordSet(t *testing.T) {
	set := NewKeywordSet(" Senha, CONFIDENCIAL ,leak,, vazamento ")
	assert.Equal(t, KeywordSet{"senha", "confidencial", "leak", "vazamento"}, set)

	assert.Empty(t, NewKeywordSet(""))
	assert.Empty(t, NewKeywordSet(" , ,"))
}

func TestMatch_DeclarationOrder(t *testing.T) {
	set := NewKeywordSet("senha,confidencial,leak")

	// Result order follows the set declaration, not position in text.
	got := set.Match("um leak da senha")
	assert.Equal(t, []string{"senha", "leak"}, got)
}

func TestMatch_SubstringSemantics(t *testing.T) {
	set := NewKeywordSet("leak")

	// Partial-word matches count.
	assert.Equal(t, []string{"leak"}, set.Match("megaleaks dump"))
	assert.Nil(t, set.Match("hello world"))
}

func TestMatch_EmptyInputs(t *testing.T) {
	set := NewKeywordSet("senha,confidencial")

	assert.Nil(t, set.Match(""))
	assert.Nil(t, KeywordSet(nil).Match("qualquer texto"))
}

func TestMatch_Idempotent(t *testing.T) {
	set := NewKeywordSet("senha,confidencial,leak")
	text := "a senha confidencial vazou"

	first := set.Match(text)
	second := set.Match(text)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"senha", "confidencial"}, first)
}
