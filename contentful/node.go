package contentful

import "fmt"

// The types in this file are the closed set of nodes a Contentful content
// graph can contain once decoded. Anything else reaching the payload
// serializer is treated as unsupported.

// Entry is a Contentful entry with its decoded field values. Field values
// are scalars, time.Time, []interface{}, map[string]interface{} or one of
// the node types below.
type Entry struct {
	Space  string
	ID     string
	Fields map[string]interface{}
}

// Asset is a Contentful asset. File is nil when no file has been attached.
type Asset struct {
	Space  string
	ID     string
	Fields map[string]interface{}
	File   *File
}

// File holds the attachment metadata of an asset.
type File struct {
	URL         string
	ContentType string
	Details     map[string]interface{}
}

// Link is an unresolved reference to an entry or asset, resolved through a
// Client during serialization.
type Link struct {
	LinkType string
	ID       string
}

func (e *Entry) EntityID() string {
	return fmt.Sprintf("%s:Entry:%s", e.Space, e.ID)
}

func (a *Asset) EntityID() string {
	return fmt.Sprintf("%s:Asset:%s", a.Space, a.ID)
}
