// Package assets classifies filesystem paths into asset kinds and
// carries the extension and MIME tables shared by the scanner, the
// rendition pipeline, and the streaming server.
//
// Classification is a pure function of the lowercased file extension;
// it never touches the filesystem.
package assets
