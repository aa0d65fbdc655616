package model

// AccessType controls who may read a project's data.
type AccessType string

const (
	AccessPublic  AccessType = "public"
	AccessPrivate AccessType = "private"
)

// IsValid checks whether the access type is a known value.
func (a AccessType) IsValid() bool {
	switch a {
	case AccessPublic, AccessPrivate:
		return true
	}
	return false
}

// Project is a tracked project. Categories, issues and lookups all belong
// to exactly one project.
type Project struct {
	ID         int64      `json:"id"`
	Code       string     `json:"code"`
	Name       string     `json:"name"`
	AccessType AccessType `json:"access_type"`
	Disabled   bool       `json:"disabled"`
}

// IsPrivate reports whether only members may read the project.
func (p *Project) IsPrivate() bool {
	return p.AccessType == AccessPrivate
}

// Role is a user's role within a project.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Membership links a user to a project with a role.
type Membership struct {
	ProjectID int64  `json:"project_id"`
	Username  string `json:"username"`
	Role      Role   `json:"role"`
}

// User is an account that can authenticate against the service.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash []byte `json:"-"`
	SuperUser    bool   `json:"super_user"`
}
