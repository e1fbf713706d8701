package screens

import (
	"errors"

	"guidekit/internal/bus"
	"guidekit/internal/gate"
	"guidekit/internal/savedstate"
	"guidekit/internal/topic"
)

// TopicBrowser shows the topic tree of the current site.
type TopicBrowser struct {
	*base
	root *topic.Node
}

// NewTopicBrowser creates the screen. requiresAuth makes it close on logout
// even on a public site. A saved tree is restored instead of fetched.
func NewTopicBrowser(d Deps, host Host, requiresAuth bool, saved *savedstate.Bundle) *TopicBrowser {
	t := &TopicBrowser{}
	t.base = newBase(KindTopicBrowser, d, host,
		gate.Policy{RequiresAuthOnLogout: requiresAuth},
		bus.Handlers{bus.TagTopics: t.onTopics},
		t.onLogin)
	t.restoreQuery(saved)
	if saved != nil {
		if root, err := saved.Topics(); err == nil {
			t.root = root
		} else if !errors.Is(err, savedstate.ErrNoValue) {
			t.log.Warn().Err(err).Msg("discarding saved topics")
		}
	}
	if !t.recreated(saved) {
		return t
	}
	if t.root == nil {
		t.fetch()
	}
	return t
}

// Resume resumes the gate and requests the tree again if it is still
// missing.
func (t *TopicBrowser) Resume() {
	t.gate.Resume()
	if t.root == nil && t.resumed() {
		t.fetch()
	}
}

// Root returns the loaded tree, or nil.
func (t *TopicBrowser) Root() *topic.Node { return t.root }

// Refresh re-requests the topic tree.
func (t *TopicBrowser) Refresh() { t.fetch() }

// Search returns the topics matching query in pre-order and remembers the
// query. Nothing is returned before the tree is loaded.
func (t *TopicBrowser) Search(query string) []*topic.Node {
	t.query = query
	if t.root == nil {
		return nil
	}
	return topic.FlattenSearch(t.root, query)
}

// Save stores the tree and query.
func (t *TopicBrowser) Save(b *savedstate.Bundle) error {
	if t.root != nil {
		if err := b.PutTopics(t.root); err != nil {
			return err
		}
	}
	return t.saveQuery(b)
}

func (t *TopicBrowser) fetch() { t.startFetch(t.deps.Client.FetchTopics) }

func (t *TopicBrowser) onTopics(e bus.Event) {
	res, ok := e.(bus.APIResult[*topic.Node])
	if !ok {
		return
	}
	t.endFetch()
	if res.Err != nil {
		t.fail(res.Err)
		return
	}
	t.root = res.Payload
	t.log.Debug().Int("topics", t.root.Len()).Msg("topics loaded")
}

// onLogin refreshes the tree, since a logged-in user may see more topics.
func (t *TopicBrowser) onLogin(bus.Login) { t.fetch() }
