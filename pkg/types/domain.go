package types

import "strings"

// Site is a named content domain. Sites are immutable once constructed and
// are looked up by Name from the site registry.
type Site struct {
	// Stable identifier for the site.
	// example: ifixit
	Name string `json:"name" yaml:"name" toml:"name" example:"ifixit"`
	// Human-friendly title.
	// example: iFixit
	Title string `json:"title" yaml:"title" toml:"title" example:"iFixit"`
	// Host name serving the site API.
	// example: www.ifixit.com
	Domain string `json:"domain" yaml:"domain" toml:"domain" example:"www.ifixit.com"`
	// Whether guides are readable without logging in.
	// example: true
	Public bool `json:"public" yaml:"public" toml:"public" example:"true"`
	// Theme reference applied by the host when the site becomes current.
	// example: blue
	Theme string `json:"theme,omitempty" yaml:"theme,omitempty" toml:"theme,omitempty" example:"blue"`
	// Optional free-form description, included in site search.
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
}

// Matches reports whether the site matches an already lower-cased query.
func (s Site) Matches(lowerQuery string) bool {
	for _, f := range []string{s.Name, s.Title, s.Domain, s.Description} {
		if strings.Contains(strings.ToLower(f), lowerQuery) {
			return true
		}
	}
	return false
}

// User is the logged-in account.
type User struct {
	// Numeric user id on the site.
	// example: 42
	ID int `json:"userid" example:"42"`
	// Display name.
	// example: jdoe
	Username string `json:"username" example:"jdoe"`
	// Token sent with authenticated API calls. Never rendered in HTTP output.
	AuthToken string `json:"authToken,omitempty"`
}
