package acquire

import "sort"

// Asset pairs a remote origin with its expected local path.
type Asset struct {
	URL  string
	Path string
}

// AssetSet maps unique keys to assets. Iteration happens in sorted key
// order so every run processes a set the same way.
type AssetSet map[string]Asset

// Keys returns the set's keys in sorted order.
func (s AssetSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Paths returns the expected local paths in key order.
func (s AssetSet) Paths() []string {
	keys := s.Keys()
	paths := make([]string, 0, len(keys))
	for _, key := range keys {
		paths = append(paths, s[key].Path)
	}
	return paths
}
