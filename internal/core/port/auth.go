package port

import "context"

// Principal is what the auth collaborator vouches for on /verify.
type Principal struct {
	ID          string
	Email       string
	Role        string
	Status      string
	Permissions []string
}

func (p *Principal) HasPermission(perm string) bool {
	for _, have := range p.Permissions {
		if have == perm {
			return true
		}
	}
	return false
}

//go:generate mockgen -source=auth.go -destination=mock/auth.go -package=mock
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

// PermissionStore keeps role-level permission overrides outside the
// process, keyed by role. It replaces any in-memory shared override map.
type PermissionStore interface {
	Overrides(ctx context.Context, role string) ([]string, error)
	SetOverrides(ctx context.Context, role string, permissions []string) error
}
