package config

import (
	"embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/samir-abis/facefusion/internal/acquire"
)

const defaultDownloadDir = ".assets/models"

// Entry pairs a remote URL with the expected local path. Relative paths are
// resolved against the manifest's download directory.
type Entry struct {
	URL  string `yaml:"url"`
	Path string `yaml:"path"`
}

// SetConfig groups the companion hash artifacts and model sources of one
// named asset set.
type SetConfig struct {
	Name    string           `yaml:"name"`
	Hashes  map[string]Entry `yaml:"hashes"`
	Sources map[string]Entry `yaml:"sources"`
}

// Manifest describes every asset set the application can acquire.
type Manifest struct {
	Version     int         `yaml:"version"`
	DownloadDir string      `yaml:"download_dir"`
	Sets        []SetConfig `yaml:"sets"`
}

//go:embed default.yaml
var embeddedManifest embed.FS

// BaseManifest returns the embedded default manifest.
func BaseManifest() (*Manifest, error) {
	data, err := embeddedManifest.ReadFile("default.yaml")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read embedded manifest")
	}
	return decodeManifest(data)
}

// LoadManifest loads a manifest file from disk.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest file: %s", path)
	}
	return decodeManifest(data)
}

// ParseManifest decodes manifest data from bytes.
func ParseManifest(data []byte) (*Manifest, error) {
	if len(data) == 0 {
		return &Manifest{}, nil
	}
	return decodeManifest(data)
}

// MergeManifests merges multiple manifests together, later entries
// overriding earlier ones. Sets are replaced wholesale by name.
func MergeManifests(manifests ...*Manifest) (*Manifest, error) {
	if len(manifests) == 0 {
		return nil, errors.New("no manifests provided")
	}

	var result Manifest
	setIndex := make(map[string]int)

	for i, manifest := range manifests {
		if manifest == nil {
			continue
		}

		if i == 0 {
			result = *manifest
			result.Sets = append([]SetConfig(nil), manifest.Sets...)
			for idx, set := range result.Sets {
				setIndex[set.Name] = idx
			}
			continue
		}

		if manifest.Version > 0 {
			result.Version = manifest.Version
		}
		if trimmed := strings.TrimSpace(manifest.DownloadDir); trimmed != "" {
			result.DownloadDir = trimmed
		}

		for _, set := range manifest.Sets {
			if set.Name == "" {
				continue
			}
			if idx, ok := setIndex[set.Name]; ok {
				result.Sets[idx] = set
			} else {
				setIndex[set.Name] = len(result.Sets)
				result.Sets = append(result.Sets, set)
			}
		}
	}

	if strings.TrimSpace(result.DownloadDir) == "" {
		result.DownloadDir = defaultDownloadDir
	}

	return &result, nil
}

// Set returns the named set.
func (m *Manifest) Set(name string) (SetConfig, bool) {
	for _, set := range m.Sets {
		if set.Name == name {
			return set, true
		}
	}
	return SetConfig{}, false
}

// SetNames returns the set names in declaration order.
func (m *Manifest) SetNames() []string {
	names := make([]string, 0, len(m.Sets))
	for _, set := range m.Sets {
		names = append(names, set.Name)
	}
	return names
}

// HashSet resolves the set's hash entries against dir.
func (s SetConfig) HashSet(dir string) acquire.AssetSet {
	return resolveSet(dir, s.Hashes)
}

// SourceSet resolves the set's source entries against dir.
func (s SetConfig) SourceSet(dir string) acquire.AssetSet {
	return resolveSet(dir, s.Sources)
}

func resolveSet(dir string, entries map[string]Entry) acquire.AssetSet {
	set := make(acquire.AssetSet, len(entries))
	for key, entry := range entries {
		set[key] = acquire.Asset{
			URL:  entry.URL,
			Path: ResolvePath(dir, entry.Path),
		}
	}
	return set
}

// ResolvePath anchors path at dir unless it is already absolute.
func ResolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func decodeManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "failed to parse asset manifest")
	}
	return &manifest, nil
}
