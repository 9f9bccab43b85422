package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	got, err := Parse([]byte(`{"a": {"b": "x", "c": {"d": "y"}}, "e": "z"}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"a/b":   "x",
		"a/c/d": "y",
		"e":     "z",
	}, got)

	_, err = Parse([]byte(`{"a": 1}`))
	require.Error(t, err)
}

func TestLoadFallback(t *testing.T) {
	c, err := Load("pt-BR")
	require.NoError(t, err)
	assert.Equal(t, "pt-BR", c.Locale)
	assert.Equal(t, "Sim", c.Tr("menus/common/yes"))
	// Only present in the default catalog.
	assert.Equal(t, "The application was updated and will now restart.", c.Tr("menus/utils/restart"))
	assert.Equal(t, "menus/unknown", c.Tr("menus/unknown"))
}

func TestLoadUnknownLocale(t *testing.T) {
	c, err := Load("xx-XX")
	require.NoError(t, err)
	assert.Equal(t, DefaultLocale, c.Locale)
	assert.Equal(t, "OK", c.Tr("menus/common/ok"))
}

func TestTrf(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Delete switch?", c.Trf("menus/utils/delete_entry", "switch"))

	var nilCatalog *Catalog
	assert.Equal(t, "menus/common/ok", nilCatalog.Tr("menus/common/ok"))
}

func TestLocales(t *testing.T) {
	assert.ElementsMatch(t, []string{"en-US", "pt-BR"}, Locales())
}
