// Package navigator enumerates viewable images next to the one being shown and
// steps through them in sort order.
package navigator

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ImagePath identifies one viewable image. Plain files carry only Path; archive
// entries also carry the archive and the entry name inside it.
type ImagePath struct {
	Path        string // Local file path or archive:entry format
	ArchivePath string // Empty for regular files, path to archive for entries
	EntryPath   string // Empty for regular files, path within archive for entries
}

// FilePath returns an ImagePath for a regular file.
func FilePath(path string) ImagePath {
	return ImagePath{Path: path}
}

// EntryPathIn returns an ImagePath for an entry inside an archive.
func EntryPathIn(archivePath, entry string) ImagePath {
	return ImagePath{
		Path:        archivePath + ":" + entry,
		ArchivePath: archivePath,
		EntryPath:   entry,
	}
}

// Key is the identity used for equality and cache lookups.
func (p ImagePath) Key() string {
	return p.Path
}

// InArchive reports whether p names an archive entry.
func (p ImagePath) InArchive() bool {
	return p.ArchivePath != ""
}

// Name returns the file name shown to the user.
func (p ImagePath) Name() string {
	if p.InArchive() {
		return filepath.Base(p.EntryPath)
	}
	return filepath.Base(p.Path)
}

// Ext returns the lower-case extension of the image.
func (p ImagePath) Ext() string {
	if p.InArchive() {
		return strings.ToLower(filepath.Ext(p.EntryPath))
	}
	return strings.ToLower(filepath.Ext(p.Path))
}

// Container returns the directory or archive the image lives in.
func (p ImagePath) Container() string {
	if p.InArchive() {
		return p.ArchivePath
	}
	return filepath.Dir(p.Path)
}

func (p ImagePath) String() string {
	return p.Path
}

// IoError reports a listing or read failure.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}

// IsSupportedExt reports whether path has an image extension the decoders handle.
func IsSupportedExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".bmp", ".gif", ".tif", ".tiff", ".svg":
		return true
	default:
		return false
	}
}

// IsArchiveExt reports whether path is an archive that can be browsed like a directory.
func IsArchiveExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".zip", ".rar", ".7z":
		return true
	default:
		return false
	}
}
