// Package filemanager provides a small file-hosting core: users own a tree of
// folders, files and images, may publish individual entries for public
// reading, and get thumbnails generated for uploaded images in the
// background.
//
// The Service orchestrates file creation, lookup, listing and visibility
// changes on top of pluggable backends: a Repository for file and user
// records, a BlobStore for raw content, a SessionStore for login tokens and a
// JobQueue feeding the thumbnail worker. In-memory implementations of every
// backend live in subpackages next to the production ones (Postgres,
// filesystem, Redis).
//
// # Hierarchy
//
// A file's ParentID is either RootID or the ID of a folder that already
// existed when the file was created. No operation changes ParentID after
// creation, so the hierarchy cannot contain cycles.
package filemanager
