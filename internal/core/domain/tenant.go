package domain

// TenantRole is the role a user holds within a tenant.
type TenantRole string

const (
	RoleAdmin      TenantRole = "ADMIN"
	RoleDispatcher TenantRole = "DISPATCHER"
	RoleReadOnly   TenantRole = "READONLY"
)

var roleRank = map[TenantRole]int{
	RoleReadOnly:   1,
	RoleDispatcher: 2,
	RoleAdmin:      3,
}

// Satisfies reports whether r grants at least the privileges of required.
func (r TenantRole) Satisfies(required TenantRole) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	return have >= roleRank[required]
}
