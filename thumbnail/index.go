package thumbnail

import (
	"fmt"
	"math"
	"path/filepath"
	"sync"

	"github.com/marquee-cli/marquee/filesystem"
	"github.com/marquee-cli/marquee/log"
	"github.com/marquee-cli/marquee/util"
	"github.com/marquee-cli/marquee/where"
	"github.com/samber/mo"
	"golang.org/x/exp/slices"
)

// Index holds images sorted ascending by At with at most one image per timestamp.
// It is safe for concurrent use.
type Index struct {
	mu     sync.RWMutex
	images []Image
}

// NewIndex builds an index from images in any order.
func NewIndex(images ...Image) *Index {
	idx := &Index{}
	for _, img := range images {
		idx.AddImage(img)
	}
	return idx
}

// ResetImages drops every image. Used when leaving a title.
func (x *Index) ResetImages() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.images = nil
}

// AddImage inserts img keeping the order. An image already stored at the same
// timestamp is replaced, so re-adding is idempotent. Images without a position
// (NaN) are ignored since they would break the ordering.
func (x *Index) AddImage(img Image) {
	if math.IsNaN(img.At) {
		log.Warn("thumbnail without a position ignored")
		return
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	n := len(x.images)
	if n == 0 || img.At > x.images[n-1].At {
		x.images = append(x.images, img)
		return
	}

	i, found := slices.BinarySearchFunc(x.images, img.At, func(existing Image, at float64) int {
		switch {
		case existing.At < at:
			return -1
		case existing.At > at:
			return 1
		default:
			return 0
		}
	})
	if found {
		x.images[i] = img
		return
	}
	x.images = slices.Insert(x.images, i, img)
}

// Images returns a copy of the sorted images.
func (x *Index) Images() []Image {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return slices.Clone(x.images)
}

// Len returns the number of stored images.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.images)
}

// Nearest returns the stored image closest to at.
func (x *Index) Nearest(at float64) mo.Option[Position] {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return NearestImageAt(x.images, at)
}

// PathFor returns where the index of a title is persisted.
func PathFor(titleID string) string {
	return filepath.Join(where.Thumbnails(), util.SanitizeFilename(titleID)+".json")
}

// Load reads a persisted index. A missing file yields an empty index.
func Load(path string) (*Index, error) {
	var images []Image
	if _, err := filesystem.ReadJSON(path, &images); err != nil {
		return nil, fmt.Errorf("load thumbnails: %w", err)
	}
	return NewIndex(images...), nil
}

// Save persists the index.
func (x *Index) Save(path string) error {
	if err := filesystem.WriteJSON(path, x.Images()); err != nil {
		return fmt.Errorf("save thumbnails: %w", err)
	}
	return nil
}
