package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePath(t *testing.T) {
	tmpDir := t.TempDir()

	filePath := filepath.Join(tmpDir, "regular.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("content"), 0644))

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "regular file", path: filePath, wantErr: false},
		{name: "directory", path: tmpDir, wantErr: true},
		{name: "missing file", path: filepath.Join(tmpDir, "missing"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReadText(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "note.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("hello\nworld"), 0644))

	text, err := ReadText(filePath)
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", text)

	_, err = ReadText(filepath.Join(tmpDir, "missing"))
	assert.Error(t, err)
}

func TestIsBinary(t *testing.T) {
	assert.False(t, IsBinary("plain text"))
	assert.False(t, IsBinary(""))
	assert.True(t, IsBinary("abc\x00def"))
}

func TestToSlash(t *testing.T) {
	assert.Equal(t, "a/b/c.ts", ToSlash(`a\b\c.ts`))
	assert.Equal(t, "a/b/c.ts", ToSlash("a/b/c.ts"))
}
