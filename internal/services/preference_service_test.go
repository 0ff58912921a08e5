package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceServiceDefaultsToDark(t *testing.T) {
	svc := NewPreferenceService(nil)
	assert.Equal(t, ThemeDark, svc.Theme())
}

func TestSetThemeValidates(t *testing.T) {
	svc := NewPreferenceService(nil)

	require.NoError(t, svc.SetTheme(context.Background(), ThemeLight))
	assert.Equal(t, ThemeLight, svc.Theme())

	err := svc.SetTheme(context.Background(), "sepia")
	require.Error(t, err)
	assert.Equal(t, ThemeLight, svc.Theme())
}

func TestToggleThemeFlips(t *testing.T) {
	svc := NewPreferenceService(nil)

	theme, err := svc.ToggleTheme(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	theme, err = svc.ToggleTheme(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)
	assert.Equal(t, ThemeDark, svc.Theme())
}
