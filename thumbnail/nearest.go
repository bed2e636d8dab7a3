// Package thumbnail keeps the time-ordered preview images of a title and answers
// nearest-timestamp queries for the scrubber.
package thumbnail

import (
	"github.com/samber/mo"
	"golang.org/x/exp/slices"
)

// Image is a preview frame taken at At seconds.
type Image struct {
	At   float64 `json:"at"`
	Data string  `json:"data"`
}

// Position is an image together with its index in the sequence.
type Position struct {
	Index int
	Image Image
}

// after returns the index of the first image strictly later than at.
func after(images []Image, at float64) int {
	i, _ := slices.BinarySearchFunc(images, at, func(img Image, target float64) int {
		if img.At <= target {
			return -1
		}
		return 1
	})
	return i
}

// NearestImageAt returns the image closest to at in a sequence sorted by At.
// On an exact tie the earlier image wins. An empty sequence yields None.
func NearestImageAt(images []Image, at float64) mo.Option[Position] {
	if len(images) == 0 {
		return mo.None[Position]()
	}

	past := after(images, at)
	if past == len(images) {
		last := len(images) - 1
		return mo.Some(Position{Index: last, Image: images[last]})
	}
	if past == 0 {
		return mo.Some(Position{Index: 0, Image: images[0]})
	}

	before := past - 1
	if at-images[before].At <= images[past].At-at {
		return mo.Some(Position{Index: before, Image: images[before]})
	}
	return mo.Some(Position{Index: past, Image: images[past]})
}
