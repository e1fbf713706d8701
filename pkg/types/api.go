package types

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// SessionResponse is returned by GET /session.
type SessionResponse struct {
	// Current site.
	Site Site `json:"site"`
	// Logged-in user, omitted when logged out.
	User *UserView `json:"user,omitempty"`
	// True while a login is in flight.
	// example: false
	Authenticating bool `json:"authenticating" example:"false"`
}

// UserView is the public projection of a User.
type UserView struct {
	// example: 42
	ID int `json:"id" example:"42"`
	// example: jdoe
	Username string `json:"username" example:"jdoe"`
}

// LoginRequest is the body of POST /session/login.
type LoginRequest struct {
	// example: jdoe
	Username string `json:"username" example:"jdoe"`
	// example: hunter2
	Password string `json:"password" example:"hunter2"`
}

// SiteRequest is the body of POST /session/site.
type SiteRequest struct {
	// example: dozuki
	Name string `json:"name" example:"dozuki"`
}

// SitesResponse wraps the list returned by GET /sites.
type SitesResponse struct {
	Sites []Site `json:"sites"`
}

// TopicMatch is one row of a topic search result.
type TopicMatch struct {
	// example: iPhone 4
	Name string `json:"name" example:"iPhone 4"`
	// example: true
	Leaf bool `json:"leaf" example:"true"`
}

// TopicsResponse is returned by GET /topics.
type TopicsResponse struct {
	// example: phone
	Query   string       `json:"query" example:"phone"`
	Matches []TopicMatch `json:"matches"`
}

// OpenScreenRequest is the body of POST /screens.
type OpenScreenRequest struct {
	// Screen kind: sites or topics.
	// example: topics
	Kind string `json:"kind" example:"topics"`
	// Finish the screen on logout even on public sites.
	// example: true
	RequiresAuth bool `json:"requires_auth,omitempty" example:"true"`
}

// ScreenStatus summarizes a live screen for GET /screens.
type ScreenStatus struct {
	// example: 5b0c9d1e-8c1e-4a57-9a55-1f2b0c3d4e5f
	ID string `json:"id" example:"5b0c9d1e-8c1e-4a57-9a55-1f2b0c3d4e5f"`
	// example: topics
	Kind string `json:"kind" example:"topics"`
	// Lifecycle state: created, resumed, paused, destroyed.
	// example: resumed
	State string `json:"state" example:"resumed"`
	// example: false
	RequiresAuth bool `json:"requires_auth" example:"false"`
	// example: false
	NeverDestroy bool `json:"never_destroy" example:"false"`
	// Tags of overlays currently shown, oldest first.
	Overlays []string `json:"overlays,omitempty"`
}

// ScreensResponse is returned by GET /screens.
type ScreensResponse struct {
	Screens []ScreenStatus `json:"screens"`
}

// EventRecord is one entry of GET /events.
type EventRecord struct {
	// example: logout
	Tag string `json:"tag" example:"logout"`
	// Unix milliseconds at publish time.
	// example: 1700000000000
	AtUnixMilli int64 `json:"at_unix_ms" example:"1700000000000"`
	// Error carried by an API result, if any.
	Error string `json:"error,omitempty"`
}

// EventsResponse is returned by GET /events.
type EventsResponse struct {
	Events []EventRecord `json:"events"`
}
