package collector

// Credentials is one username/password pair for a platform, supplied
// out-of-band through config or environment.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Complete reports whether both halves of the pair are present. A
// partial pair disables the platform for the run, it is not an error.
func (c Credentials) Complete() bool {
	return c.Username != "" && c.Password != ""
}

// CredentialSource maps platform names to credential pairs.
type CredentialSource map[string]Credentials

// Lookup returns the pair for a platform, and false when the pair is
// missing or incomplete.
func (s CredentialSource) Lookup(platform string) (Credentials, bool) {
	creds, ok := s[platform]
	if !ok || !creds.Complete() {
		return Credentials{}, false
	}
	return creds, true
}
