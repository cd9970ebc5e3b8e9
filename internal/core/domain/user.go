package domain

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User is an authenticated account that owns customers.
type User struct {
	ID       int      `json:"id"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	Password string   `json:"-"`
}

// Principal is the authenticated identity attached to a request by
// the auth middleware. Authorization decisions are pure functions of
// the principal and the customer's owner.
type Principal struct {
	ID    int
	Email string
	Roles []string
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	for _, role := range p.Roles {
		if role == RoleAdmin {
			return true
		}
	}
	return false
}

// CanManage reports whether the principal may update or delete the
// given customer: permitted for the owner and for admins.
func (p Principal) CanManage(c *Customer) bool {
	return c.IsOwnedBy(p.ID) || p.IsAdmin()
}
