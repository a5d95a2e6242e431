package credentials

// Identity is the minimal user-identifying projection held alongside the
// bearer token. Richer profile data is fetched separately and is never part
// of the stored record.
type Identity struct {
	Email string `json:"email"`
}

// Session is the authenticated identity held in memory and on disk.
// A Session is either fully present (token and identity both set) or
// entirely absent; partial sessions are never persisted or exposed.
type Session struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`
}

// Complete reports whether the session satisfies the all-or-nothing
// invariant.
func (s Session) Complete() bool {
	return s.Token != "" && s.Identity.Email != ""
}
