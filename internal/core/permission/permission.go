// Package permission defines the resources and actions of the access matrix.
package permission

import "strings"

type Resource string

const (
	ResourceUser    Resource = "user"
	ResourceRole    Resource = "role"
	ResourceAccess  Resource = "access"
	ResourceVehicle Resource = "vehicle"
	ResourceBooking Resource = "booking"
)

// KnownResources lists every resource tag used by route wiring.
var KnownResources = []Resource{
	ResourceUser,
	ResourceRole,
	ResourceAccess,
	ResourceVehicle,
	ResourceBooking,
}

func (r Resource) Known() bool {
	for _, known := range KnownResources {
		if r == known {
			return true
		}
	}
	return false
}

func (r Resource) String() string {
	return string(r)
}

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

func (a Action) String() string {
	return string(a)
}

// ParseAction accepts both "update" and the column form "can_update".
// Unrecognized input is returned as is so the guard can reject it.
func ParseAction(s string) Action {
	s = strings.ToLower(strings.TrimSpace(s))
	return Action(strings.TrimPrefix(s, "can_"))
}

// Flags is the four-bit capability set of an access rule.
type Flags struct {
	CanCreate bool `json:"can_create"`
	CanRead   bool `json:"can_read"`
	CanUpdate bool `json:"can_update"`
	CanDelete bool `json:"can_delete"`
}

// AllFlags grants every action.
func AllFlags() Flags {
	return Flags{CanCreate: true, CanRead: true, CanUpdate: true, CanDelete: true}
}

// Allows reports the flag for action. Invalid actions are never allowed.
func (f Flags) Allows(action Action) bool {
	switch action {
	case ActionCreate:
		return f.CanCreate
	case ActionRead:
		return f.CanRead
	case ActionUpdate:
		return f.CanUpdate
	case ActionDelete:
		return f.CanDelete
	}
	return false
}
