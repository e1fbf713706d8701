package session

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"guidekit/internal/bus"
	"guidekit/pkg/types"
)

var (
	publicSite  = types.Site{Name: "ifixit", Public: true}
	privateSite = types.Site{Name: "acme", Public: false}
)

var errLogin = errors.New("bad credentials")

func attached(t *testing.T) (*Store, *bus.Bus) {
	t.Helper()
	b := bus.New(zerolog.Nop())
	s := New(publicSite, zerolog.Nop())
	s.Attach(b)
	return s, b
}

func TestStore_InitialState(t *testing.T) {
	s, _ := attached(t)
	want := Snapshot{Site: publicSite}
	if diff := cmp.Diff(want, s.Current()); diff != "" {
		t.Fatalf("snapshot (-want +got):\n%s", diff)
	}
}

func TestStore_Transitions(t *testing.T) {
	user := types.User{ID: 7, Username: "jdoe", AuthToken: "tok"}
	cases := []struct {
		name   string
		events []bus.Event
		want   Snapshot
	}{
		{"login", []bus.Event{bus.LoginStarted{}, bus.Login{User: user}}, Snapshot{Site: publicSite, User: &user}},
		{"started", []bus.Event{bus.LoginStarted{}}, Snapshot{Site: publicSite, Authenticating: true}},
		{"cancel", []bus.Event{bus.LoginStarted{}, bus.Cancel{}}, Snapshot{Site: publicSite}},
		{"logout", []bus.Event{bus.Login{User: user}, bus.Logout{}}, Snapshot{Site: publicSite}},
		{"started while logged in", []bus.Event{bus.Login{User: user}, bus.LoginStarted{}}, Snapshot{Site: publicSite, User: &user}},
		{"site keeps user", []bus.Event{bus.Login{User: user}, bus.SiteChanged{Site: privateSite}}, Snapshot{Site: privateSite, User: &user}},
		{"login failed", []bus.Event{bus.LoginStarted{}, bus.Result(bus.TagLoginResult, types.User{}, errLogin)}, Snapshot{Site: publicSite}},
		{"login result ok is ignored", []bus.Event{bus.LoginStarted{}, bus.Result(bus.TagLoginResult, user, nil)}, Snapshot{Site: publicSite, Authenticating: true}},
		{"site keeps authenticating", []bus.Event{bus.LoginStarted{}, bus.SiteChanged{Site: privateSite}}, Snapshot{Site: privateSite, Authenticating: true}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, b := attached(t)
			for _, e := range c.events {
				b.Publish(e)
			}
			got := s.Current()
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Fatalf("snapshot (-want +got):\n%s", diff)
			}
			if got.User != nil && got.Authenticating {
				t.Fatalf("user present while authenticating")
			}
		})
	}
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	s, b := attached(t)
	b.Publish(bus.Login{User: types.User{ID: 1, Username: "a"}})
	snap := s.Current()
	snap.User.Username = "mutated"
	if s.Current().User.Username != "a" {
		t.Fatalf("snapshot aliases store state")
	}
}

func TestStore_Detach(t *testing.T) {
	s, b := attached(t)
	s.Detach(b)
	b.Publish(bus.Login{User: types.User{ID: 1}})
	if s.Current().LoggedIn() {
		t.Fatalf("detached store still mutated")
	}
}
