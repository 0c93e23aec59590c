package workflow

import "github.com/campusflow/approval-engine/internal/domain/role"

// Display names for the marker stages and terminal statuses. Pending stage
// names are carried verbatim into the request's persisted status string.
const (
	StageNameSubmitted = "Submitted"
	StageNameApproved  = "Approved"

	StatusRejected = "Rejected"
)

func pending(r role.Role) Stage {
	return Stage{Name: "Pending " + r.String() + " Approval", ApproverRole: r}
}

// Built-in default chains, used whenever no admin-configured definition
// exists for a key or the configured one cannot be loaded. The chains differ
// per request type: Excuse passes through a Staff review stage, Leave and
// Letter do not.
var defaultChains = map[string][]Stage{
	"Excuse": {
		{Name: StageNameSubmitted},
		{Name: "Pending Staff Review", ApproverRole: role.RoleStaff},
		pending(role.RoleLecturer),
		pending(role.RoleHOD),
		pending(role.RoleDean),
		{Name: StageNameApproved},
	},
	"Leave": {
		{Name: StageNameSubmitted},
		pending(role.RoleLecturer),
		pending(role.RoleHOD),
		pending(role.RoleDean),
		{Name: StageNameApproved},
	},
	"Letter": {
		{Name: StageNameSubmitted},
		pending(role.RoleHOD),
		pending(role.RoleDean),
		pending(role.RoleVC),
		{Name: StageNameApproved},
	},
}

// DefaultDefinition returns the built-in chain for a request type under the
// given workflow key. Dynamic forms with no configured definition fall back
// to the Letter chain.
func DefaultDefinition(requestType, key string) Definition {
	steps, ok := defaultChains[requestType]
	if !ok {
		steps = defaultChains["Letter"]
	}
	out := make([]Stage, len(steps))
	copy(out, steps)
	return Definition{Key: key, Steps: out}
}
