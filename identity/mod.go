package identity

// Provider supplies the stable opaque identifier of the locally
// authenticated user. Absence means "not authenticated"; callers skip all
// MPC operations in that case.
type Provider interface {
	CurrentUserID() (string, bool)
}

// StaticProvider is a Provider fixed at construction, used by the daemon,
// the CLI and tests.
type StaticProvider struct {
	userID string
}

func NewStaticProvider(userID string) *StaticProvider {
	return &StaticProvider{userID: userID}
}

func (p *StaticProvider) CurrentUserID() (string, bool) {
	if p == nil || p.userID == "" {
		return "", false
	}
	return p.userID, true
}
