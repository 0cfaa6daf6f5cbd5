package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
		want string
		err  error
	}{
		{name: "pdf magic", file: "upload", data: []byte("%PDF-1.7\n..."), want: "pdf"},
		{name: "pdf extension", file: "Report.PDF", data: []byte("whatever"), want: "pdf"},
		{name: "plain text", file: "notes.txt", data: []byte("hello\n\nworld"), want: "text"},
		{name: "unicode text", file: "notes.md", data: []byte("Grüße aus Köln"), want: "text"},
		{name: "binary", file: "image.png", data: []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}, err: ErrUnsupported},
		{name: "invalid utf8", file: "x.txt", data: []byte{0xff, 0xfe, 0xfd}, err: ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Kind(tt.file, tt.data)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestText_PlainPassesThrough(t *testing.T) {
	got, err := Text("a.txt", []byte("first\n\nsecond"))
	require.NoError(t, err)
	assert.Equal(t, "first\n\nsecond", got)
}

func TestText_BlankPassesThrough(t *testing.T) {
	for _, data := range [][]byte{nil, []byte(" \n\t "), []byte("   \n\n   \n")} {
		got, err := Text("a.txt", data)
		require.NoError(t, err)
		assert.Empty(t, strings.TrimSpace(got))
	}
}

func TestText_BrokenPDF(t *testing.T) {
	_, err := Text("broken.pdf", []byte("%PDF-1.4\nnot really a pdf"))
	assert.Error(t, err)
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("Paris is the capital of France."), 0o644))

	got, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France.", got)

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestJoinPages(t *testing.T) {
	assert.Equal(t, "one\n\ntwo", joinPages([]string{"one", "two"}))
}
