package bucketx

import "strings"

// NormalizePath returns the canonical form of a user-supplied path: exactly
// one leading separator, leading duplicates collapsed. The function is
// idempotent, so
// NormalizePath(p) == NormalizePath(NormalizePath(p)) for any p.
func NormalizePath(path string) string {
	for strings.HasPrefix(path, "//") {
		path = path[1:]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// objectKey converts a normalized path into the key sent to the backend.
// S3 keys carry no leading separator.
func objectKey(path string) string {
	return strings.TrimPrefix(NormalizePath(path), "/")
}

// folderPrefix converts a normalized path into a listing prefix. The root
// path maps to the empty prefix; anything else gets a trailing separator so
// the delimiter cuts at immediate children only.
func folderPrefix(path string) string {
	key := objectKey(path)
	if key == "" {
		return ""
	}
	return strings.TrimSuffix(key, "/") + "/"
}

// baseName returns the last path element of a key or prefix
func baseName(key string) string {
	key = strings.TrimSuffix(key, "/")
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}
