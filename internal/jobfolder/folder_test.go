package jobfolder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize_Lowercases(t *testing.T) {
	assert.Equal(t, "acme", Sanitize("ACME"))
}

func TestSanitize_WhitespaceBecomesUnderscore(t *testing.T) {
	assert.Equal(t, "acme_corp", Sanitize("Acme Corp"))
}

func TestSanitize_WhitespaceRunsCollapse(t *testing.T) {
	assert.Equal(t, "senior_go_engineer", Sanitize("Senior   Go\tEngineer"))
}

func TestSanitize_SpecialCharactersStripped(t *testing.T) {
	assert.Equal(t, "acme_gmbh", Sanitize("Acme GmbH & Co. KG!")[:9])
	assert.Equal(t, "cc_startup", Sanitize("C/C++ Startup"))
}

func TestSanitize_KeepsUnderscoreAndHyphen(t *testing.T) {
	assert.Equal(t, "acme-corp_intl", Sanitize("Acme-Corp_Intl"))
}

func TestSanitize_PunctuationVariantsConverge(t *testing.T) {
	assert.Equal(t, Sanitize("acme inc"), Sanitize("Acme, Inc.!!"))
}

func TestSanitize_EmptyYieldsPlaceholder(t *testing.T) {
	assert.Equal(t, Placeholder, Sanitize(""))
	assert.Equal(t, Placeholder, Sanitize("!!!"))
}

func TestCreate_BuildsCompanyRoleHierarchy(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root)

	folder, err := m.Create("Acme Corp", "Backend Engineer")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "acme_corp", "backend_engineer"), folder)
	info, err := os.Stat(folder)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreate_EmptyRoleDefaultsToGeneral(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root)

	folder, err := m.Create("Acme", "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "acme", "general"), folder)
}

func TestCreate_CollisionAppendsSuffix(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root)

	first, err := m.Create("Acme", "Engineer")
	require.NoError(t, err)
	second, err := m.Create("Acme", "Engineer")
	require.NoError(t, err)
	third, err := m.Create("Acme", "Engineer")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "acme", "engineer"), first)
	assert.Equal(t, filepath.Join(root, "acme", "engineer_1"), second)
	assert.Equal(t, filepath.Join(root, "acme", "engineer_2"), third)
}

func TestCreate_CollisionLeavesExistingDataIntact(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root)

	first, err := m.Create("Acme", "Engineer")
	require.NoError(t, err)
	marker := filepath.Join(first, "cv.tex")
	require.NoError(t, os.WriteFile(marker, []byte("original"), 0644))

	_, err = m.Create("Acme", "Engineer")
	require.NoError(t, err)

	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestStage_CopiesTemplateUnderFixedName(t *testing.T) {
	m := NewManager(t.TempDir())
	folder, err := m.Create("Acme", "Engineer")
	require.NoError(t, err)

	template := filepath.Join(t.TempDir(), "template_ee_v1.tex")
	require.NoError(t, os.WriteFile(template, []byte(`\documentclass{resume}`), 0644))

	staged, err := m.Stage(template, folder, "cv.tex")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(folder, "cv.tex"), staged)
	data, err := os.ReadFile(staged)
	require.NoError(t, err)
	assert.Equal(t, `\documentclass{resume}`, string(data))
}

func TestStage_MissingTemplateErrors(t *testing.T) {
	m := NewManager(t.TempDir())

	_, err := m.Stage(filepath.Join(t.TempDir(), "absent.tex"), t.TempDir(), "cv.tex")

	assert.Error(t, err)
}

func TestWriteNotes_BasicRecord(t *testing.T) {
	folder := t.TempDir()

	err := WriteNotes(folder, Notes{
		Company: "Acme Corp",
		Role:    "Backend Engineer",
		JobLink: "https://example.com/jobs/42",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(folder, NotesFileName))
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "# Job Application Notes - Acme Corp")
	assert.Contains(t, text, "**Role:** Backend Engineer")
	assert.Contains(t, text, "**Job Link:** https://example.com/jobs/42")
	assert.NotContains(t, text, "## Posting")
}

func TestWriteNotes_IncludesPostingWhenFetched(t *testing.T) {
	folder := t.TempDir()

	err := WriteNotes(folder, Notes{
		Company:        "Acme",
		Role:           "Engineer",
		JobLink:        "https://example.com/jobs/42",
		PostingTitle:   "Backend Engineer - Acme",
		PostingExcerpt: "We are looking for a backend engineer.",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(folder, NotesFileName))
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "## Posting")
	assert.Contains(t, text, "**Title:** Backend Engineer - Acme")
	assert.Contains(t, text, "We are looking for a backend engineer.")
}
