package scanner

// Credential is one (username, password) candidate.
type Credential struct {
	Username string
	Password string
}

func (c Credential) String() string {
	return c.Username + ":" + c.Password
}

// ExpandPairs builds the full ordered pair list for a job: usernames are the
// outer loop, passwords the inner loop. A non-empty fixed username replaces
// the username list.
func ExpandPairs(usernames, passwords []string, fixed string) []Credential {
	if fixed != "" {
		usernames = []string{fixed}
	}
	pairs := make([]Credential, 0, len(usernames)*len(passwords))
	for _, u := range usernames {
		for _, p := range passwords {
			pairs = append(pairs, Credential{Username: u, Password: p})
		}
	}
	return pairs
}
