package filesystem

import (
	"io"
	"os"
	"time"

	"github.com/metafates/gache"
)

// NewCache opens a JSON cache at path backed by the active filesystem.
// A zero lifetime keeps entries until they are overwritten.
func NewCache[T any](path string, lifetime time.Duration) *gache.Cache[T] {
	return gache.New[T](&gache.Options{
		Path:       path,
		Lifetime:   lifetime,
		FileSystem: gacheFs{},
	})
}

// gacheFs resolves the backend on every call, so caches follow SetMemMapFs.
type gacheFs struct{}

func (gacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return API().OpenFile(name, flag, perm)
}

func (gacheFs) MkdirAll(path string, perm os.FileMode) error {
	return API().MkdirAll(path, perm)
}
