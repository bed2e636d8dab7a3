package version

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// semver is a parsed release tag. Build and pre-release suffixes are ignored.
type semver [3]int

func parseSemver(tag string) (semver, error) {
	var v semver

	core, _, _ := strings.Cut(strings.TrimPrefix(strings.TrimSpace(tag), "v"), "-")
	core, _, _ = strings.Cut(core, "+")

	parts := strings.Split(core, ".")
	if len(parts) != len(v) {
		return v, fmt.Errorf("version %q: want major.minor.patch", tag)
	}

	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return v, fmt.Errorf("version %q: bad component %q", tag, part)
		}
		v[i] = n
	}
	return v, nil
}

// Compare orders two release tags: 1 when a is newer, -1 when b is newer, 0 when equal.
func Compare(a, b string) (int, error) {
	av, err := parseSemver(a)
	if err != nil {
		return 0, err
	}

	bv, err := parseSemver(b)
	if err != nil {
		return 0, err
	}

	for i := range av {
		if c := cmp.Compare(av[i], bv[i]); c != 0 {
			return c, nil
		}
	}
	return 0, nil
}
