package pdftext

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_TwoPages(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "two_pages.pdf"))
	require.NoError(t, err)

	result, err := Extract(data)
	require.NoError(t, err)
	assert.Equal(t, 2, result.PageCount)
	assert.Contains(t, result.Text, "Accessibility statement")
	assert.Contains(t, result.Text, "text alternatives")
	assert.Less(t, bytes.Index([]byte(result.Text), []byte("Accessibility")), bytes.Index([]byte(result.Text), []byte("Tables")))
	assert.False(t, result.Scanned)
}

func TestExtract_BlankPageLooksScanned(t *testing.T) {
	result, err := ExtractFile(filepath.Join("testdata", "blank.pdf"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.PageCount)
	assert.Empty(t, result.Text)
	assert.True(t, result.Scanned)
}

func TestExtract_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"empty", nil, "empty input"},
		{"no magic", []byte("<html>not a pdf</html>"), "not a PDF"},
		{"too large", append([]byte("%PDF-1.4\n"), make([]byte, MaxBytes)...), "too large"},
		{"truncated", []byte("%PDF-1.4\n1 0 obj\n<<"), "pdf extraction failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Extract(tt.data)
			assert.Nil(t, result)
			require.Error(t, err)
			var extractErr *ExtractionError
			assert.ErrorAs(t, err, &extractErr)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExtractFile_Missing(t *testing.T) {
	_, err := ExtractFile(filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestNewResult(t *testing.T) {
	r := newResult([]string{"  first page ", "", "second"})
	assert.Equal(t, "first page \n\nsecond", r.Text)
	assert.Equal(t, 3, r.PageCount)
	assert.True(t, r.Scanned)

	long := newResult([]string{"This page has plenty of extracted text to clear the scanned threshold."})
	assert.False(t, long.Scanned)
}

func TestCleanPage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses spaces", "a    b\t\tc", "a b c"},
		{"normalizes line endings", "one\r\ntwo\rthree", "one\ntwo\nthree"},
		{"limits blank lines", "top\n\n\n\n\nbottom", "top\n\nbottom"},
		{"trims", "   \n text \n  ", "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanPage(tt.input))
		})
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "1.5 KB", FormatSize(1536))
	assert.Equal(t, "10.0 MB", FormatSize(MaxBytes))
}
