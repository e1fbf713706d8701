package screens

import (
	"errors"

	"guidekit/internal/bus"
	"guidekit/internal/gate"
	"guidekit/internal/registry"
	"guidekit/internal/savedstate"
	"guidekit/pkg/types"
)

// SiteList lets the user pick a site. It is public and survives logout.
type SiteList struct {
	*base
	sites  []types.Site
	loaded bool
}

// NewSiteList creates the screen. With a saved bundle holding sites, the list
// is restored instead of fetched.
func NewSiteList(d Deps, host Host, saved *savedstate.Bundle) *SiteList {
	s := &SiteList{}
	s.base = newBase(KindSiteList, d, host,
		gate.Policy{NeverDestroyOnLogout: true},
		bus.Handlers{bus.TagSites: s.onSites},
		nil)
	s.restoreQuery(saved)
	if saved != nil {
		if sites, err := saved.Sites(); err == nil {
			s.sites, s.loaded = sites, true
		} else if !errors.Is(err, savedstate.ErrNoValue) {
			s.log.Warn().Err(err).Msg("discarding saved sites")
		}
	}
	if !s.recreated(saved) {
		return s
	}
	if !s.loaded {
		s.fetch()
	}
	return s
}

// Resume makes the site chooser the current site and resumes the gate. A
// list that is still missing is requested again.
func (s *SiteList) Resume() {
	if chooser, err := s.deps.Registry.Lookup(registry.SiteChooser); err == nil {
		s.deps.Bus.Publish(bus.SiteChanged{Site: chooser})
	} else {
		s.log.Warn().Err(err).Msg("site chooser missing from registry")
	}
	s.gate.Resume()
	if !s.loaded && s.resumed() {
		s.fetch()
	}
}

// Refresh re-requests the site list.
func (s *SiteList) Refresh() { s.fetch() }

// Sites returns the loaded sites.
func (s *SiteList) Sites() []types.Site { return append([]types.Site(nil), s.sites...) }

// Loaded reports whether a site list has been received or restored.
func (s *SiteList) Loaded() bool { return s.loaded }

// Search filters the loaded sites and remembers the query.
func (s *SiteList) Search(query string) []types.Site {
	s.query = query
	return registry.Filter(s.sites, query)
}

// Save stores the site list and query.
func (s *SiteList) Save(b *savedstate.Bundle) error {
	if s.loaded {
		if err := b.PutSites(s.sites); err != nil {
			return err
		}
	}
	return s.saveQuery(b)
}

func (s *SiteList) fetch() { s.startFetch(s.deps.Client.FetchSites) }

func (s *SiteList) onSites(e bus.Event) {
	res, ok := e.(bus.APIResult[[]types.Site])
	if !ok {
		return
	}
	s.endFetch()
	if res.Err != nil {
		s.fail(res.Err)
		return
	}
	s.sites, s.loaded = res.Payload, true
	s.log.Debug().Int("sites", len(res.Payload)).Msg("sites loaded")
}
