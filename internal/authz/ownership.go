// Package authz holds the single ownership rule that gates every mutation of a
// listing or comment.
package authz

import (
	"reflect"

	"marketplace/internal/errors"
)

// Resource is anything with exactly one identity allowed to mutate it.
type Resource interface {
	OwnerKey() uint
	ResourceName() string
}

// Identity is the authenticated requester.
type Identity struct {
	UserID uint
	Email  string
}

// CanMutate reports whether identity may update or delete resource.
func CanMutate(identity Identity, resource Resource) bool {
	if isNil(resource) || identity.UserID == 0 {
		return false
	}
	return identity.UserID == resource.OwnerKey()
}

// Authorize returns nil when identity may mutate resource. A nil resource yields
// notFound, a resource owned by someone else yields *errors.ForbiddenError.
func Authorize(identity Identity, resource Resource, notFound error) error {
	if isNil(resource) {
		return notFound
	}
	if !CanMutate(identity, resource) {
		return errors.NewForbidden(resource.ResourceName())
	}
	return nil
}

// isNil catches typed nil pointers stored in the interface, e.g. (*model.Listing)(nil).
func isNil(resource Resource) bool {
	if resource == nil {
		return true
	}
	v := reflect.ValueOf(resource)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
