package role

import "strings"

// Role identifies a user's position in the institution.
type Role string

const (
	RoleStudent  Role = "Student"
	RoleStaff    Role = "Staff"
	RoleLecturer Role = "Lecturer"
	RoleHOD      Role = "HOD"
	RoleDean     Role = "Dean"
	RoleVC       Role = "VC"
	RoleAdmin    Role = "Admin"
)

// rank positions approver roles in the chain. Roles absent from the map
// (Student, Admin, anything unknown) hold no approver rank.
var rank = map[Role]int{
	RoleStaff:    1,
	RoleLecturer: 2,
	RoleHOD:      3,
	RoleDean:     4,
	RoleVC:       5,
}

var canonical = map[string]Role{
	"student":  RoleStudent,
	"staff":    RoleStaff,
	"lecturer": RoleLecturer,
	"hod":      RoleHOD,
	"dean":     RoleDean,
	"vc":       RoleVC,
	"admin":    RoleAdmin,
}

// Parse normalizes a role string case-insensitively. Unknown strings are
// returned as-is so they can be reported, with ok=false.
func Parse(s string) (Role, bool) {
	r, ok := canonical[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return Role(s), false
	}
	return r, true
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Equals compares two roles case-insensitively.
func (r Role) Equals(other Role) bool {
	return strings.EqualFold(string(r), string(other))
}

// IsAdmin reports whether the role carries the global override.
func (r Role) IsAdmin() bool {
	return r.Equals(RoleAdmin)
}

// Rank returns the role's position in the approval hierarchy, 0 when the
// role holds no approver rank.
func (r Role) Rank() int {
	if n, ok := rank[r]; ok {
		return n
	}
	// Tolerate non-canonical casing from stored records.
	if canon, ok := canonical[strings.ToLower(string(r))]; ok {
		return rank[canon]
	}
	return 0
}

// Outranks reports whether r sits strictly above other in the approval
// hierarchy. A role with no rank never outranks anything.
func (r Role) Outranks(other Role) bool {
	return r.Rank() > other.Rank()
}
