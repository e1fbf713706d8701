// Package registry holds the static set of sites the application knows about.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"guidekit/pkg/types"
)

// ErrUnknownSite is returned by Lookup for names not in the registry.
var ErrUnknownSite = errors.New("registry: unknown site")

// SiteChooser is the public site shown while the user picks a site.
const SiteChooser = "dozuki"

// Registry is an immutable, name-indexed set of sites.
type Registry struct {
	sites  []types.Site
	byName map[string]int
}

// New builds a registry. Site order is kept for List. Empty and duplicate
// names are rejected.
func New(sites []types.Site) (*Registry, error) {
	r := &Registry{
		sites:  make([]types.Site, 0, len(sites)),
		byName: make(map[string]int, len(sites)),
	}
	for _, s := range sites {
		if strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("registry: site with empty name (title %q)", s.Title)
		}
		if _, dup := r.byName[s.Name]; dup {
			return nil, fmt.Errorf("registry: duplicate site %q", s.Name)
		}
		r.byName[s.Name] = len(r.sites)
		r.sites = append(r.sites, s)
	}
	return r, nil
}

// Default returns the built-in registry.
func Default() *Registry {
	r, err := New([]types.Site{
		{Name: SiteChooser, Title: "Dozuki", Domain: "www.dozuki.com", Public: true, Theme: "dozuki",
			Description: "Site chooser"},
		{Name: "ifixit", Title: "iFixit", Domain: "www.ifixit.com", Public: true, Theme: "ifixit",
			Description: "The free repair manual"},
	})
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the site named name.
func (r *Registry) Lookup(name string) (types.Site, error) {
	i, ok := r.byName[name]
	if !ok {
		return types.Site{}, fmt.Errorf("%w: %q", ErrUnknownSite, name)
	}
	return r.sites[i], nil
}

// List returns all sites in registration order.
func (r *Registry) List() []types.Site {
	return append([]types.Site(nil), r.sites...)
}

// Names returns the site names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sites))
	for _, s := range r.sites {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of sites.
func (r *Registry) Len() int { return len(r.sites) }

// Search returns the sites matching query case-insensitively on name, title,
// domain or description. An empty query returns List.
func (r *Registry) Search(query string) []types.Site {
	return Filter(r.sites, query)
}

// Filter applies the registry search to an arbitrary site list, such as one
// fetched from the network.
func Filter(sites []types.Site, query string) []types.Site {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]types.Site, 0, len(sites))
	for _, s := range sites {
		if q == "" || s.Matches(q) {
			out = append(out, s)
		}
	}
	return out
}
