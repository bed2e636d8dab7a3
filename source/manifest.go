package source

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/marquee-cli/marquee/filesystem"
	"github.com/samber/lo"
)

// Manifest describes one playable title: what it is, how to stream it and which captions exist.
type Manifest struct {
	Meta     Meta              `json:"meta"`
	Source   DescriptorJSON    `json:"source"`
	Captions []CaptionListItem `json:"captions,omitempty"`
	// Thumbnails is an optional path to a persisted thumbnail index.
	Thumbnails string `json:"thumbnails,omitempty"`
}

// DescriptorJSON is the tagged wire form of a Descriptor.
type DescriptorJSON struct {
	Type      Kind                  `json:"type" jsonschema:"enum=file,enum=hls"`
	URL       string                `json:"url,omitempty" jsonschema:"description=Adaptive stream URL (hls only)"`
	Qualities map[string]FileStream `json:"qualities,omitempty" jsonschema:"description=Quality label to file (file only)"`
	Headers   map[string]string     `json:"headers,omitempty"`
}

// Descriptor converts the wire form into the sealed descriptor.
func (d DescriptorJSON) Descriptor() (Descriptor, error) {
	switch d.Type {
	case KindHLS:
		if d.URL == "" {
			return nil, fmt.Errorf("hls: %w", ErrEmptySource)
		}
		return HLSSource{URL: d.URL, Headers: d.Headers}, nil
	case KindFile:
		labels := lo.Keys(d.Qualities)
		sort.Strings(labels)

		qualities := make(map[Quality]FileStream, len(labels))
		for _, label := range labels {
			q := ParseQuality(label)
			if existing, ok := qualities[q]; ok && existing.URL != "" {
				continue
			}
			qualities[q] = d.Qualities[label]
		}

		file := FileSource{Qualities: qualities, Headers: d.Headers}
		if len(file.Available()) == 0 {
			return nil, fmt.Errorf("file: %w", ErrEmptySource)
		}
		return file, nil
	default:
		return nil, fmt.Errorf("%q: %w", d.Type, ErrUnknownSourceType)
	}
}

// EncodeDescriptor converts a descriptor back into its wire form.
func EncodeDescriptor(d Descriptor) DescriptorJSON {
	return Match(d,
		func(f FileSource) DescriptorJSON {
			return DescriptorJSON{
				Type:      KindFile,
				Qualities: lo.MapKeys(f.Qualities, func(_ FileStream, q Quality) string { return string(q) }),
				Headers:   f.Headers,
			}
		},
		func(h HLSSource) DescriptorJSON {
			return DescriptorJSON{Type: KindHLS, URL: h.URL, Headers: h.Headers}
		},
	)
}

// ParseManifest decodes and validates a manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if _, err := m.Source.Descriptor(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads a manifest from the active filesystem.
func LoadManifest(path string) (*Manifest, error) {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}
