package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTheme(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestGetStyleFallbacks(t *testing.T) {
	th := DevComfortDark
	assert.Equal(t, th.Styles["SearchHighlight"], th.GetStyle("SearchHighlight.extra"))
	assert.Equal(t, th.Styles["Default"], th.GetStyle("missing"))

	empty := Theme{Name: "empty", Styles: map[string]tcell.Style{}}
	assert.Equal(t, tcell.StyleDefault, empty.GetStyle("anything"))
}

func TestLoadThemeFromFile(t *testing.T) {
	path := writeTheme(t, t.TempDir(), "sunrise.toml", `
[styles.Default]
fg = "#101010"

[styles.SearchHighlight]
bg = "yellow"
underline = true

[styles.Broken]
fg = "not-a-color"
`)
	th, err := LoadThemeFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sunrise", th.Name)

	fg, bg, attrs := th.GetStyle("SearchHighlight").Decompose()
	assert.Equal(t, tcell.NewHexColor(0x101010), fg, "inherits Default foreground")
	assert.Equal(t, tcell.ColorYellow, bg)
	assert.NotZero(t, attrs&tcell.AttrUnderline)

	_, _, currentAttrs := th.GetStyle("SearchHighlightCurrent").Decompose()
	assert.NotZero(t, currentAttrs&tcell.AttrBold)

	_, ok := th.Styles["Broken"]
	assert.False(t, ok)
}

func TestManager(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "a.toml", "name = \"Alpha\"\n[styles.Default]\nfg = \"reset\"\n")
	writeTheme(t, dir, "notes.txt", "ignored")

	m := NewManager()
	assert.Equal(t, DevComfortDark.Name, m.Current().Name)

	require.NoError(t, m.LoadDir(dir))
	require.NoError(t, m.LoadDir(filepath.Join(dir, "missing")))
	assert.Equal(t, []string{"Alpha", "DevComfort Dark"}, m.ListThemes())

	require.NoError(t, m.SetTheme("alpha"))
	assert.Equal(t, "Alpha", m.Current().Name)
	assert.Error(t, m.SetTheme("nope"))

	loaded, err := m.LoadFile(writeTheme(t, dir, "b.toml", "name = \"Beta\"\n"))
	require.NoError(t, err)
	assert.Same(t, loaded, m.Current())
}
