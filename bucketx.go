package bucketx

import "time"

// EntryType tags a listing entry as a file or a folder
type EntryType string

const (
	// EntryFile marks an object
	EntryFile EntryType = "file"

	// EntryFolder marks a common prefix (a "directory" in the bucket)
	EntryFolder EntryType = "folder"
)

// Entry describes one immediate child of a listed folder
type Entry struct {
	// Name is the base name of the entry, without the parent path
	Name string

	// Type is EntryFile or EntryFolder
	Type EntryType

	// Size is the object size in bytes (zero for folders)
	Size int64

	// LastModified is when the object was last written (zero for folders)
	LastModified time.Time
}

// IsDir reports whether the entry is a folder
func (e Entry) IsDir() bool { return e.Type == EntryFolder }
