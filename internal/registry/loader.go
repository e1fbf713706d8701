package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"guidekit/internal/common/fsutil"
	"guidekit/pkg/types"
)

var siteExts = []string{".yaml", ".yml", ".json", ".toml"}

// sitesFile is the document shape of a multi-site file.
type sitesFile struct {
	Sites []types.Site `json:"sites" yaml:"sites" toml:"sites"`
}

// LoadFile reads a sites file. Supports: .yaml/.yml, .json, .toml, each
// holding a top-level "sites" list.
func LoadFile(path string) (*Registry, error) {
	sites, err := readSites(path, true)
	if err != nil {
		return nil, err
	}
	return New(sites)
}

// LoadDir builds a registry from a directory holding one site per file.
// Files with other extensions are skipped. Sites are ordered by file name.
func LoadDir(dir string) (*Registry, error) {
	abs, err := fsutil.Resolve(dir)
	if err != nil {
		return nil, err
	}
	files, err := fsutil.FilesByExt(abs, siteExts...)
	if err != nil {
		return nil, err
	}
	var sites []types.Site
	for _, f := range files {
		s, err := readSites(f, false)
		if err != nil {
			return nil, err
		}
		sites = append(sites, s...)
	}
	return New(sites)
}

// Load dispatches to LoadDir or LoadFile depending on what path is.
func Load(path string) (*Registry, error) {
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	st, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return LoadDir(p)
	}
	return LoadFile(p)
}

func readSites(path string, list bool) ([]types.Site, error) {
	if path == "" {
		return nil, fmt.Errorf("empty sites path")
	}
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	var (
		doc  sitesFile
		site types.Site
		dst  any = &site
	)
	if list {
		dst = &doc
	}
	switch ext := fsutil.Ext(p); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, dst)
	case ".json":
		err = json.Unmarshal(b, dst)
	case ".toml":
		err = toml.Unmarshal(b, dst)
	default:
		return nil, fmt.Errorf("unsupported sites extension: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
	}
	if list {
		return doc.Sites, nil
	}
	return []types.Site{site}, nil
}
