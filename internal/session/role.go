package session

import (
	"fmt"
	"strings"
)

// Role is the closed set of staff roles.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleCashier
	RoleSupervisor
	RoleManager
)

var roleNames = map[Role]string{
	RoleCashier:    "cashier",
	RoleSupervisor: "supervisor",
	RoleManager:    "manager",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

func ParseRole(s string) (Role, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for r, name := range roleNames {
		if name == needle {
			return r, nil
		}
	}
	return RoleUnknown, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Capability is an action gated by role.
type Capability uint8

const (
	CapPriceOverride Capability = iota + 1
	CapVoidTransaction
	CapManageReturns
)

var capabilities = map[Role][]Capability{
	RoleCashier:    {CapVoidTransaction, CapManageReturns},
	RoleSupervisor: {CapPriceOverride, CapVoidTransaction, CapManageReturns},
	RoleManager:    {CapPriceOverride, CapVoidTransaction, CapManageReturns},
}

func (r Role) Can(c Capability) bool {
	for _, granted := range capabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

func (r Role) CanOverridePrice() bool {
	return r.Can(CapPriceOverride)
}
