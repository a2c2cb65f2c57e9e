package navigator

import (
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// Listing is the sorted set of images inside one directory or archive.
type Listing struct {
	Dir   string
	Paths []ImagePath
	less  func(a, b string) bool
}

// Len returns the number of images in the listing.
func (l *Listing) Len() int {
	return len(l.Paths)
}

// IndexOf returns the position of p, or -1.
func (l *Listing) IndexOf(p ImagePath) int {
	for i, candidate := range l.Paths {
		if candidate.Key() == p.Key() {
			return i
		}
	}
	return -1
}

// Next returns the image after current, wrapping past the end. When current is
// not in the listing the first image ordered after it is returned.
func (l *Listing) Next(current ImagePath) (ImagePath, bool) {
	n := len(l.Paths)
	if n == 0 {
		return ImagePath{}, false
	}
	if i := l.IndexOf(current); i >= 0 {
		return l.Paths[(i+1)%n], true
	}
	i := sort.Search(n, func(i int) bool {
		return l.less(current.Path, l.Paths[i].Path)
	})
	return l.Paths[i%n], true
}

// Previous returns the image before current, wrapping past the start. When
// current is not in the listing the last image ordered before it is returned.
func (l *Listing) Previous(current ImagePath) (ImagePath, bool) {
	n := len(l.Paths)
	if n == 0 {
		return ImagePath{}, false
	}
	if i := l.IndexOf(current); i >= 0 {
		return l.Paths[(i-1+n)%n], true
	}
	i := sort.Search(n, func(i int) bool {
		return !l.less(l.Paths[i].Path, current.Path)
	})
	return l.Paths[(i-1+n)%n], true
}

// Navigator lists directories and archives and caches each listing until it
// is refreshed. It is used from the UI thread only.
type Navigator struct {
	strategy SortStrategy
	logger   *zap.Logger
	listings map[string]*Listing
}

// New creates a navigator ordering listings with strategy.
func New(strategy SortStrategy, logger *zap.Logger) *Navigator {
	if strategy == nil {
		strategy = &NaturalSortStrategy{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Navigator{
		strategy: strategy,
		logger:   logger,
		listings: make(map[string]*Listing),
	}
}

// List returns the images in dir, which may be a directory or an archive.
// Unreadable containers yield *IoError.
func (n *Navigator) List(dir string) (*Listing, error) {
	if cached, ok := n.listings[dir]; ok {
		return cached, nil
	}

	var (
		images []ImagePath
		err    error
	)
	if IsArchiveExt(dir) {
		images, err = listArchive(dir)
	} else {
		images, err = listDirectory(dir)
	}
	if err != nil {
		n.logger.Warn("listing failed", zap.String("dir", dir), zap.Error(err))
		return nil, &IoError{Path: dir, Err: err}
	}

	listing := &Listing{
		Dir:   dir,
		Paths: Sort(n.strategy, images),
		less:  n.strategy.Less,
	}
	n.listings[dir] = listing
	n.logger.Info("listed images",
		zap.String("dir", dir),
		zap.Int("count", len(listing.Paths)),
		zap.String("sort", n.strategy.Name()))
	return listing, nil
}

// ListingFor returns the listing an image belongs to. A directory or archive
// argument lists its own content.
func (n *Navigator) ListingFor(p ImagePath) (*Listing, error) {
	if !p.InArchive() {
		if IsArchiveExt(p.Path) {
			return n.List(p.Path)
		}
		if info, err := os.Stat(p.Path); err == nil && info.IsDir() {
			return n.List(p.Path)
		}
	}
	return n.List(p.Container())
}

// Refresh drops the cached listing of dir so the next lookup re-reads it.
func (n *Navigator) Refresh(dir string) {
	delete(n.listings, dir)
}

// Next returns the image after current in its container.
func (n *Navigator) Next(current ImagePath) (ImagePath, bool) {
	listing, err := n.List(current.Container())
	if err != nil {
		return ImagePath{}, false
	}
	return listing.Next(current)
}

// Previous returns the image before current in its container.
func (n *Navigator) Previous(current ImagePath) (ImagePath, bool) {
	listing, err := n.List(current.Container())
	if err != nil {
		return ImagePath{}, false
	}
	return listing.Previous(current)
}

// Remove drops p from its cached listing, e.g. after it was moved to the trash.
func (n *Navigator) Remove(p ImagePath) {
	listing, ok := n.listings[p.Container()]
	if !ok {
		return
	}
	i := listing.IndexOf(p)
	if i < 0 {
		return
	}
	paths := make([]ImagePath, 0, len(listing.Paths)-1)
	paths = append(paths, listing.Paths[:i]...)
	paths = append(paths, listing.Paths[i+1:]...)
	listing.Paths = paths
}

func listDirectory(dir string) ([]ImagePath, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var images []ImagePath
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsSupportedExt(entry.Name()) {
			images = append(images, FilePath(filepath.Join(dir, entry.Name())))
		}
	}
	return images, nil
}
