package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/decklist/internal/deck"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	csv := "name,type_line\nLlanowar Elves,Creature — Elf Druid\nForest,Basic Land — Forest\nShock,Instant\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cards.csv"), []byte(csv), 0o644))

	cfg := "[catalog]\ndata_dir = \"" + filepath.ToSlash(dir) + "\"\n\n" +
		"[store]\ndir = \"" + filepath.ToSlash(filepath.Join(dir, "blocks")) + "\"\n\n" +
		"[logging]\nlevel = \"error\"\nformat = \"console\"\n"
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTestPayload(t *testing.T, p deck.Payload) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "payload.json")
	require.NoError(t, writePayload(path, p))
	return path
}

func TestClassifyCommand(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := runCLI(t, "-c", cfg, "classify", "Artifact", "Creature", "—", "Golem")
	require.NoError(t, err)
	assert.Equal(t, "creatures\n", out)

	out, err = runCLI(t, "-c", cfg, "classify", "--sideboard", "Instant")
	require.NoError(t, err)
	assert.Equal(t, "sideboard\n", out)
}

func TestSearchCommandUsesDataDirCatalog(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := runCLI(t, "-c", cfg, "search", "for")
	require.NoError(t, err)
	assert.Equal(t, "Forest\n", out)
}

func TestAddCommandUpdatesPayloadFile(t *testing.T) {
	cfg := writeTestConfig(t)
	path := writeTestPayload(t, deck.NewPayload().WithName("Elves"))

	_, err := runCLI(t, "-c", cfg, "add", path, "llanowar")
	require.NoError(t, err)
	_, err = runCLI(t, "-c", cfg, "add", "--sideboard", path, "shock")
	require.NoError(t, err)

	p, err := readPayload(path)
	require.NoError(t, err)
	assert.Equal(t, "Elves", p.DecklistName)
	d, err := deck.FromPayload(p)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Count(deck.Creatures, "Llanowar Elves"))
	assert.Equal(t, 1, d.Count(deck.Sideboard, "Shock"))
}

func TestExportAndRenderCommands(t *testing.T) {
	cfg := writeTestConfig(t)
	d, err := deck.Add(deck.New(), deck.Lands, "Forest")
	require.NoError(t, err)
	d, err = deck.Increment(d, deck.Lands, "Forest")
	require.NoError(t, err)
	path := writeTestPayload(t, deck.ToPayload("Mono Green", "Sam", d))

	out, err := runCLI(t, "-c", cfg, "export", path)
	require.NoError(t, err)
	assert.Equal(t, "# Mono Green\nBy Sam\n\nLands\n2xForest\n", out)

	out, err = runCLI(t, "-c", cfg, "render", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Mono Green\nBy Sam\n"))
	assert.Contains(t, out, "Forest")
	assert.Contains(t, out, "main 2 / side 0")

	out, err = runCLI(t, "-c", cfg, "render", "--html", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `<figure class="decklist">`))
	assert.Contains(t, out, "[[Forest]]")
}

func TestQRCommandWritesPNG(t *testing.T) {
	cfg := writeTestConfig(t)
	d, err := deck.Add(deck.New(), deck.Lands, "Forest")
	require.NoError(t, err)
	path := writeTestPayload(t, deck.ToPayload("", "", d))
	out := filepath.Join(t.TempDir(), "list.png")

	_, err = runCLI(t, "-c", cfg, "qr", "-o", out, path)
	require.NoError(t, err)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG")))
}

func TestRenderCommandSkipsCorruptCategory(t *testing.T) {
	cfg := writeTestConfig(t)
	path := filepath.Join(t.TempDir(), "payload.json")
	doc := `{"decklistName":"Mono U","decklist":{"tokens":"junk","lands":{"Island":1}}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, err := runCLI(t, "-c", cfg, "render", "--html", path)
	require.NoError(t, err)
	assert.Contains(t, out, `<p data-category="lands">1x[[Island]]</p>`)
	assert.NotContains(t, out, "tokens")

	out, err = runCLI(t, "-c", cfg, "render", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Island")
}
