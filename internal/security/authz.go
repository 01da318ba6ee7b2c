package security

import "errors"

// ErrForbidden is returned when a caller tries to mutate a post they do
// not own.
var ErrForbidden = errors.New("forbidden: not the post author")

// Authorize decides whether the caller may mutate a resource. The rule
// is ownership equality: the resource's author must be the signed-in
// user. Unauthenticated callers are rejected by middleware before this
// runs, and missing resources are reported by the owner lookup, so both
// inputs are always concrete here.
func Authorize(ownerID int, ident *Identity) error {
	if ident == nil || ownerID != ident.ID {
		return ErrForbidden
	}
	return nil
}
