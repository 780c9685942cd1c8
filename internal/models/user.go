package models

// Role is fixed when credentials are issued and never changes in a session
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// UserProfile is what the identity directory hands back on a successful login.
type UserProfile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    Role   `json:"role"`
	StoreID string `json:"storeId"`
}

func (u UserProfile) IsAdmin() bool {
	return u.Role == RoleAdmin
}
