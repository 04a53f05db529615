// Package media implements the local asset pipeline: directory
// scanning, rendition generation for images and videos, the bounded
// thumbnail cache, metadata extraction, and file lifecycle operations
// (move, soft-delete, restore).
//
// The pipeline is built around three rules: decode failures degrade to
// a placeholder instead of propagating, every boundary operation
// returns a typed error rather than panicking, and the thumbnail cache
// is the single shared mutable structure between the control channel
// and the streaming server.
package media
