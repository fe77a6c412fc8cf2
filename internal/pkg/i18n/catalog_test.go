package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Exception(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t,
		"The value of 'Color' is 7 characters long, the maximum is 5.",
		c.Exception("en_US", "maxLengthIsExceeded", map[string]any{"attribute": "Color", "max": 5, "actual": 7}))

	assert.Equal(t,
		"Das Feld 'Color' ist erforderlich.",
		c.Exception("de_DE", "fieldIsRequired", map[string]any{"field": "Color"}))
}

func TestCatalog_FallsBackToDefaultLocale(t *testing.T) {
	c := MustLoad()

	// not translated in de_DE
	assert.Equal(t,
		"No such unit 'lb' for attribute 'Weight'.",
		c.Exception("de_DE", "noSuchUnit", map[string]any{"unit": "lb", "attribute": "Weight"}))
	assert.Equal(t, "No group", c.Label("fr_FR", "noGroup"))
	assert.Equal(t, "Keine Gruppe", c.Label("de_DE", "noGroup"))
}

func TestCatalog_UnknownKey(t *testing.T) {
	c := MustLoad()
	assert.Equal(t, "somethingElse", c.Exception("en_US", "somethingElse", nil))
}

func TestCatalog_Locales(t *testing.T) {
	assert.Equal(t, []string{"de_DE", "en_US"}, MustLoad().Locales())
}
