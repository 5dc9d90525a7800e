package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ristinalapbulan-create/sipandusd/apperr"
	"github.com/ristinalapbulan-create/sipandusd/models"
	"github.com/ristinalapbulan-create/sipandusd/storage"
)

// Accounts maintains school identity records. School accounts are
// keyed by NPSN and their username is npsn@<domain>.
type Accounts struct {
	store  storage.Store
	domain string
}

func NewAccounts(store storage.Store, handleDomain string) *Accounts {
	return &Accounts{store: store, domain: handleDomain}
}

func (a *Accounts) Username(npsn string) string {
	return npsn + "@" + a.domain
}

func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Upstream(err)
	}
	return string(h), nil
}

// EnsureSchoolAccount creates the identity record of a school or
// refreshes its mutable fields. An existing password hash is kept
// unless a new password is supplied.
func (a *Accounts) EnsureSchoolAccount(ctx context.Context, npsn, name, password string) error {
	npsn = strings.TrimSpace(npsn)
	if npsn == "" {
		return apperr.InvalidArgument("npsn is required")
	}

	u := models.User{
		ID:       npsn,
		Username: a.Username(npsn),
		Role:     models.RoleSchool,
		Name:     name,
		NPSN:     npsn,
	}
	if prev, err := a.store.GetUser(ctx, npsn); err == nil {
		u.PasswordHash = prev.PasswordHash
		u.PhotoURL = prev.PhotoURL
		u.CreatedAt = prev.CreatedAt
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	if password != "" {
		h, err := HashPassword(password)
		if err != nil {
			return err
		}
		u.PasswordHash = h
	}
	return a.store.UpsertUser(ctx, u)
}

// DeleteSchoolAccount removes the identity record keyed by NPSN.
func (a *Accounts) DeleteSchoolAccount(ctx context.Context, npsn string) error {
	return a.store.DeleteUser(ctx, npsn)
}

// ResetPassword sets a school's credential back to its NPSN.
func (a *Accounts) ResetPassword(ctx context.Context, npsn, name string) error {
	return a.EnsureSchoolAccount(ctx, npsn, name, npsn)
}

// ResetProgress is reported after every school in a bulk reset.
type ResetProgress struct {
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	Success int    `json:"success"`
	Fail    int    `json:"fail"`
	Message string `json:"message"`
}

// BulkResetPasswords walks every school sequentially and resets its
// credential to its NPSN, pausing delay between items so the store is
// not hammered. A failed item is reported and the loop moves on.
func (a *Accounts) BulkResetPasswords(ctx context.Context, delay time.Duration, progress func(ResetProgress)) ([]ResetProgress, error) {
	schools, err := a.store.ListSchools(ctx)
	if err != nil {
		return nil, err
	}

	log := make([]ResetProgress, 0, len(schools))
	success, fail := 0, 0
	for i, sc := range schools {
		p := ResetProgress{Index: i + 1, Total: len(schools)}
		if err := a.ResetPassword(ctx, sc.NPSN, sc.Name); err != nil {
			fail++
			p.Message = fmt.Sprintf("%s: %v", sc.NPSN, err)
		} else {
			success++
			p.Message = fmt.Sprintf("%s: password direset", sc.NPSN)
		}
		p.Success, p.Fail = success, fail
		log = append(log, p)
		if progress != nil {
			progress(p)
		}
		if delay > 0 && i < len(schools)-1 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return log, apperr.Timeout(ctx.Err())
			}
		}
	}
	return log, nil
}
