// Package version checks whether a newer release of marquee exists.
package version

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/marquee-cli/marquee/filesystem"
	"github.com/marquee-cli/marquee/where"
	"github.com/metafates/gache"
)

var httpClient = &http.Client{Timeout: 5 * time.Second}

// releasesURL is queried for the latest published tag.
const releasesURL = "https://api.github.com/repos/marquee-cli/marquee/releases/latest"

var (
	cacherOnce    sync.Once
	versionCacher *gache.Cache[string]
)

func cache() *gache.Cache[string] {
	cacherOnce.Do(func() {
		versionCacher = filesystem.NewCache[string](filepath.Join(where.Cache(), "version.json"), 48*time.Hour)
	})
	return versionCacher
}

// Latest returns the newest released version. The answer is cached for two days.
func Latest() (version string, err error) {
	ver, expired, err := cache().Get()
	if err != nil {
		return "", err
	}

	if !expired && ver != "" {
		return ver, nil
	}

	resp, err := httpClient.Get(releasesURL)
	if err != nil {
		return
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("releases: %s", resp.Status)
		return
	}

	var release struct {
		TagName string `json:"tag_name"`
	}

	err = json.NewDecoder(resp.Body).Decode(&release)
	if err != nil {
		return
	}

	if release.TagName == "" {
		err = errors.New("empty tag name")
		return
	}

	version = strings.TrimPrefix(release.TagName, "v")
	_ = cache().Set(version)
	return
}
