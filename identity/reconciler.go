// Package identity memetakan principal hasil autentikasi ke satu akun
// sekolah atau admin, dan merawat akun sekolah.
package identity

import (
	"context"
	"strings"
	"time"

	"github.com/ristinalapbulan-create/sipandusd/models"
	"github.com/ristinalapbulan-create/sipandusd/storage"
)

// Principal is what the authentication layer hands over: an opaque
// account id plus the login handle it authenticated.
type Principal struct {
	AccountID string
	Handle    string
	Name      string
}

// How a principal was resolved.
const (
	ViaRegistrationCode = "registration-code"
	ViaAccountID        = "account-id"
	ViaSynthesized      = "synthesized"
)

// Resolution carries the resolved role record and which keying scheme
// produced it.
type Resolution struct {
	Via  string
	User models.User
}

// Reconciler resolves principals against the identity records. Every
// store lookup is bounded by lookupTimeout so a slow store can never
// hang a login.
type Reconciler struct {
	store         storage.Store
	lookupTimeout time.Duration
}

func NewReconciler(store storage.Store, lookupTimeout time.Duration) *Reconciler {
	if lookupTimeout <= 0 {
		lookupTimeout = 5 * time.Second
	}
	return &Reconciler{store: store, lookupTimeout: lookupTimeout}
}

func localPart(handle string) string {
	if i := strings.Index(handle, "@"); i >= 0 {
		return handle[:i]
	}
	return handle
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (rc *Reconciler) lookup(ctx context.Context, id string) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, rc.lookupTimeout)
	defer cancel()
	return rc.store.GetUser(ctx, id)
}

// Resolve maps a principal to exactly one role record. It never fails:
// a timed-out or missing lookup falls through to the next step, and the
// last step synthesizes an identity from the principal itself.
func (rc *Reconciler) Resolve(ctx context.Context, p Principal) Resolution {
	local := localPart(p.Handle)

	// school accounts log in with their NPSN, which is also the
	// storage key of their identity record
	if isNumeric(local) {
		if u, err := rc.lookup(ctx, local); err == nil && u.Role == models.RoleSchool {
			u.ID = p.AccountID
			return Resolution{Via: ViaRegistrationCode, User: u}
		}
	}

	if u, err := rc.lookup(ctx, p.AccountID); err == nil {
		if local == "admin" {
			u.Role = models.RoleAdmin
		}
		return Resolution{Via: ViaAccountID, User: u}
	}

	role := models.RoleSchool
	if local == "admin" {
		role = models.RoleAdmin
	}
	name := p.Name
	if name == "" {
		name = local
	}
	u := models.User{
		ID:       p.AccountID,
		Username: p.Handle,
		Role:     role,
		Name:     name,
	}
	if role == models.RoleSchool && isNumeric(local) {
		u.NPSN = local
	}
	return Resolution{Via: ViaSynthesized, User: u}
}
