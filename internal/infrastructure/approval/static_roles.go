// Package approval resolves approver roles for purchase order and quotation approvals.
package approval

import (
	"context"
	"sort"
	"strings"

	"github.com/erp/procurement/internal/domain/workflow"
	"github.com/erp/procurement/internal/infrastructure/config"
)

// StaticRoleResolver resolves roles from the role bindings in configuration.
// Unknown users have no roles.
type StaticRoleResolver struct {
	roles map[string][]string
}

// NewStaticRoleResolver creates a resolver from user id → role bindings
func NewStaticRoleResolver(bindings map[string][]string) *StaticRoleResolver {
	roles := make(map[string][]string, len(bindings))
	for user, list := range bindings {
		user = strings.TrimSpace(user)
		if user == "" {
			continue
		}
		roles[user] = normalizeRoles(append(roles[user], list...))
	}
	return &StaticRoleResolver{roles: roles}
}

// NewStaticRoleResolverFromConfig creates a resolver from the approval section
func NewStaticRoleResolverFromConfig(cfg config.ApprovalConfig) *StaticRoleResolver {
	return NewStaticRoleResolver(cfg.Roles)
}

// RolesOf returns a copy of the user's roles
func (r *StaticRoleResolver) RolesOf(_ context.Context, userID string) ([]string, error) {
	roles := r.roles[strings.TrimSpace(userID)]
	out := make([]string, len(roles))
	copy(out, roles)
	return out, nil
}

func normalizeRoles(roles []string) []string {
	seen := make(map[string]bool, len(roles))
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		role = strings.TrimSpace(role)
		if role == "" || seen[role] {
			continue
		}
		seen[role] = true
		out = append(out, role)
	}
	sort.Strings(out)
	return out
}

var _ workflow.RoleResolver = (*StaticRoleResolver)(nil)
