package ingest

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Skills</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Go,</w:t></w:r><w:r><w:t xml:space="preserve"> SQL</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Languages</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>English</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
    <w:p><w:r><w:t>Backend</w:t><w:tab/><w:t>Engineer</w:t></w:r></w:p>
    <w:p></w:p>
  </w:body>
</w:document>`

func writeDocx(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "resume.docx")
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestExtractDocx(t *testing.T) {
	path := writeDocx(t, t.TempDir(), documentXML)

	text, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nBackend Engineer\nSkills | Go, SQL\nLanguages | English", text)
}

func TestExtractEmptyDocx(t *testing.T) {
	path := writeDocx(t, t.TempDir(), `<w:document xmlns:w="x"><w:body><w:p/></w:body></w:document>`)

	_, err := ExtractFile(path)

	var noText *NoExtractableTextError
	require.ErrorAs(t, err, &noText)
	assert.Equal(t, path, noText.Path)
}

func TestExtractPlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jane   Doe\r\n\r\n\r\n\r\nGo\t developer  \n"), 0o600))

	text, err := ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\n\nGo developer", text)
}

func TestExtractBlankText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.md")
	require.NoError(t, os.WriteFile(path, []byte(" \n\t\n"), 0o600))

	_, err := ExtractFile(path)

	var noText *NoExtractableTextError
	assert.ErrorAs(t, err, &noText)
}

func TestExtractUnsupportedAndBroken(t *testing.T) {
	dir := t.TempDir()

	_, err := ExtractFile(filepath.Join(dir, "resume.odt"))
	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, ".odt", unsupported.Ext)

	broken := filepath.Join(dir, "resume.pdf")
	require.NoError(t, os.WriteFile(broken, []byte("not a pdf"), 0o600))
	_, err = ExtractFile(broken)
	assert.Error(t, err)

	_, err = ExtractFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestReadJobDescription(t *testing.T) {
	text, err := ReadJobDescription("")
	require.NoError(t, err)
	assert.Empty(t, text)

	path := filepath.Join(t.TempDir(), "jd.pdf")
	require.NoError(t, os.WriteFile(path, []byte("SQL \xff expert\n"), 0o600))

	text, err = ReadJobDescription(path)
	require.NoError(t, err)
	assert.Equal(t, "SQL � expert", text)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b\n\nc", CleanText("  a   b \r\n\n\n\n c  "))
	assert.Equal(t, "", CleanText("\n\n"))
}
