package model

type Role string

const (
	RoleUser          Role = "user"
	RoleAdmin         Role = "admin"
	RoleAdminTraining Role = "admin-training"
	RoleAdminDome     Role = "admin-dome"
)

// User is the read-only profile written by the sign-in flow.
type User struct {
	UID         string `json:"uid" bson:"uid"`
	Email       string `json:"email" bson:"email"`
	DisplayName string `json:"display_name,omitempty" bson:"display_name,omitempty"`
	Role        Role   `json:"role,omitempty" bson:"role,omitempty"`
	IsAdmin     bool   `json:"is_admin,omitempty" bson:"is_admin,omitempty"`
}

// EffectiveRole resolves legacy records: is_admin without a role means admin,
// and a missing role means user.
func (u *User) EffectiveRole() Role {
	if u.Role != "" {
		return u.Role
	}
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}
