package plugin

import (
	"encoding/json"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"emperror.dev/errors"
)

const (
	// ManifestExt is the extension of single-file cog manifests.
	ManifestExt = ".json"
	// InitFile is the reserved manifest name. In a directory, it marks the directory as a cog;
	// as a single file in the root, it is ignored.
	InitFile = "init" + ManifestExt
)

// Descriptor identifies a cog found on disk.
type Descriptor struct {
	// Name is the cog's name: the file name without extension, or the directory name.
	Name string
	// Path is the manifest file or the cog directory.
	Path string
	// Dir is true if the cog is a directory containing an init file.
	Dir bool
}

// ManifestPath returns the path of the descriptor's manifest file.
func (d Descriptor) ManifestPath() string {
	if d.Dir {
		return filepath.Join(d.Path, InitFile)
	}
	return d.Path
}

// Manifest is the content of a cog's manifest file. An empty file is an empty manifest.
type Manifest struct {
	Description string `json:"description"`
	// Disabled cogs are skipped by LoadAll, but can still be loaded by name.
	Disabled bool           `json:"disabled"`
	Settings map[string]any `json:"settings"`
}

// Manifest reads and parses the descriptor's manifest.
func (d Descriptor) Manifest() (m Manifest, err error) {
	b, err := os.ReadFile(d.ManifestPath())
	if err != nil {
		return m, errors.Wrap(err, "reading manifest")
	}

	if len(strings.TrimSpace(string(b))) == 0 {
		return m, nil
	}

	err = json.Unmarshal(b, &m)
	if err != nil {
		return m, errors.Wrap(err, "parsing manifest")
	}
	return m, nil
}

// String returns a setting as a string, or def if it isn't set or isn't a string.
func (m Manifest) String(key, def string) string {
	if v, ok := m.Settings[key].(string); ok && v != "" {
		return v
	}
	return def
}

// Discover returns the cogs in root.
// Each immediate child of root is either a single-file cog (<name>.json, except the init file)
// or a directory containing an init file. Anything else is skipped, as are duplicate names;
// since entries are read in name order, a directory wins over a file of the same name.
//
// The sequence reads the directory when iterated, so it can be iterated any number of times.
// If root can't be read, the sequence is empty.
func Discover(root string) iter.Seq[Descriptor] {
	return func(yield func(Descriptor) bool) {
		entries, err := os.ReadDir(root)
		if err != nil {
			return
		}

		seen := make(map[string]struct{}, len(entries))
		for _, e := range entries {
			d, ok := describe(root, e)
			if !ok {
				continue
			}

			if _, ok := seen[d.Name]; ok {
				continue
			}
			seen[d.Name] = struct{}{}

			if !yield(d) {
				return
			}
		}
	}
}

func describe(root string, e os.DirEntry) (d Descriptor, ok bool) {
	name := e.Name()
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return d, false
	}

	path := filepath.Join(root, name)

	if e.IsDir() {
		fi, err := os.Stat(filepath.Join(path, InitFile))
		if err != nil || !fi.Mode().IsRegular() {
			return d, false
		}
		return Descriptor{Name: name, Path: path, Dir: true}, true
	}

	if filepath.Ext(name) != ManifestExt || name == InitFile {
		return d, false
	}

	// follow symlinks, but only to regular files
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return d, false
	}

	return Descriptor{Name: strings.TrimSuffix(name, ManifestExt), Path: path}, true
}

// Resolve returns the descriptor named name in root.
func Resolve(root, name string) (Descriptor, error) {
	for d := range Discover(root) {
		if d.Name == name {
			return d, nil
		}
	}
	return Descriptor{}, &NotFoundError{Name: name, Reason: "no cog with that name in " + root}
}
