package bucketx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"missing separator", "reports/file.txt", "/reports/file.txt"},
		{"already normalized", "/reports/file.txt", "/reports/file.txt"},
		{"duplicate separator", "//reports/file.txt", "/reports/file.txt"},
		{"many duplicates", "////file.txt", "/file.txt"},
		{"bare name", "file.txt", "/file.txt"},
		{"empty", "", "/"},
		{"root", "/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.in))
		})
	}
}

func TestNormalizePathIdempotent(t *testing.T) {
	paths := []string{"a/b/c", "/a/b/c", "//a", "", "/", "file.txt"}
	for _, p := range paths {
		once := NormalizePath(p)
		assert.Equal(t, once, NormalizePath(once), "path %q", p)
	}
}

func TestNormalizePathPrefixInsensitive(t *testing.T) {
	paths := []string{"a/b/c", "file.txt", "nested/deep/file.bin"}
	for _, p := range paths {
		assert.Equal(t, NormalizePath("/"+p), NormalizePath(p), "path %q", p)
	}
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "a/b.txt", objectKey("a/b.txt"))
	assert.Equal(t, "a/b.txt", objectKey("/a/b.txt"))
	assert.Equal(t, "", objectKey("/"))
}

func TestFolderPrefix(t *testing.T) {
	assert.Equal(t, "", folderPrefix("/"))
	assert.Equal(t, "reports/", folderPrefix("reports"))
	assert.Equal(t, "reports/", folderPrefix("/reports/"))
	assert.Equal(t, "a/b/", folderPrefix("/a/b"))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "file.txt", baseName("a/b/file.txt"))
	assert.Equal(t, "sub", baseName("a/sub/"))
	assert.Equal(t, "file.txt", baseName("file.txt"))
}
