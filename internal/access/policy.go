// Package access decides which tenant a caller may read from or write to.
// Every function here is pure: the caller is passed in explicitly and no
// storage is consulted.
package access

import (
	"fmt"
	"strings"

	catalog_errors "service-catalog/pkg/errors"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
)

// Actions recorded on authorization failures.
const (
	ActionAccess = "access"
	ActionRead   = "read"
	ActionFilter = "filter"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// ParseRole maps a role claim to a Role. The identity provider encodes
// customers as "1" and providers as "0"; plain names are accepted in any case.
func ParseRole(claim string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(claim)) {
	case "1", string(RoleCustomer):
		return RoleCustomer, nil
	case "0", string(RoleProvider):
		return RoleProvider, nil
	case "":
		return "", catalog_errors.Authentication("Invalid or missing role claim in token")
	default:
		return "", catalog_errors.Authentication(fmt.Sprintf("Unsupported role claim %q", claim))
	}
}

// Caller is the authenticated principal of a single request.
// TenantID is only meaningful for providers.
type Caller struct {
	Role     Role
	UserID   uuid.UUID
	TenantID *uuid.UUID
}

func (c Caller) IsCustomer() bool { return c.Role == RoleCustomer }
func (c Caller) IsProvider() bool { return c.Role == RoleProvider }

// Scope is the tenant a query is restricted to.
type Scope struct {
	TenantID uuid.UUID
	// Explicit is true when a customer named the tenant being browsed,
	// false when the tenant was taken from a provider's own token.
	Explicit bool
}

// ListScope resolves the tenant a listing runs against. Customers must name
// the tenant; providers are pinned to their own and may not name one.
func ListScope(caller Caller, resource string, requested *uuid.UUID) (Scope, error) {
	if caller.IsCustomer() {
		if requested == nil || *requested == uuid.Nil {
			return Scope{}, catalog_errors.Validation("tenantId", "TenantId is required for customers")
		}
		return Scope{TenantID: *requested, Explicit: true}, nil
	}
	if requested != nil {
		return Scope{}, catalog_errors.Authorization(resource, ActionFilter,
			"Providers cannot specify tenantId parameter. Tenant access is automatically enforced from your authentication token.")
	}
	tenantID, err := providerTenant(caller, resource)
	if err != nil {
		return Scope{}, err
	}
	return Scope{TenantID: tenantID}, nil
}

// WriteScope returns the tenant every mutation of the caller is bound to.
func WriteScope(caller Caller, resource, action string) (uuid.UUID, error) {
	if !caller.IsProvider() {
		return uuid.Nil, catalog_errors.Authorization(resource, action,
			"Access denied. Provider operations not allowed for Customers.")
	}
	return providerTenant(caller, resource)
}

// RequireProvider guards provider-only reads.
func RequireProvider(caller Caller, resource string) (uuid.UUID, error) {
	return WriteScope(caller, resource, ActionRead)
}

// CheckResource is called after a single resource was fetched. Customers may
// read anything; providers only their own tenant's rows. A mismatch is never
// reported as not found.
func CheckResource(caller Caller, resource, action string, resourceTenant uuid.UUID) error {
	if caller.IsCustomer() && (action == ActionAccess || action == ActionRead) {
		return nil
	}
	tenantID, err := providerTenant(caller, resource)
	if err != nil {
		return err
	}
	if tenantID == resourceTenant {
		return nil
	}
	return catalog_errors.Authorization(resource, action, mismatchMessage(resource, action))
}

func providerTenant(caller Caller, resource string) (uuid.UUID, error) {
	if caller.IsCustomer() {
		return uuid.Nil, catalog_errors.Authorization(resource, ActionAccess,
			"Access denied. Provider operations not allowed for Customers.")
	}
	if caller.TenantID == nil || *caller.TenantID == uuid.Nil {
		return uuid.Nil, catalog_errors.Authorization(resource, ActionAccess, "Provider must have a valid tenant ID")
	}
	return *caller.TenantID, nil
}

func mismatchMessage(resource, action string) string {
	switch action {
	case ActionUpdate, ActionDelete:
		return fmt.Sprintf("Access denied. Cannot %s %s from different tenant.", action, strings.ToLower(resource))
	default:
		return fmt.Sprintf("Access denied. %s belongs to a different tenant.", resource)
	}
}
