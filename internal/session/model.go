package session

import (
	"fmt"
	"strings"
)

// IdentificationMode is how a customer identifies at checkout entry.
type IdentificationMode string

const (
	ModeGuest   IdentificationMode = "guest"
	ModeLoyalty IdentificationMode = "loyalty"
	ModePhone   IdentificationMode = "phone"
)

func ParseIdentificationMode(s string) (IdentificationMode, error) {
	switch m := IdentificationMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeGuest, ModeLoyalty, ModePhone:
		return m, nil
	case "":
		return ModeGuest, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentificationMode, s)
	}
}

type Customer struct {
	IsLoggedIn   bool               `json:"is_logged_in"`
	Mode         IdentificationMode `json:"mode"`
	LoyaltyID    string             `json:"loyalty_id,omitempty"`
	PhoneNumber  string             `json:"phone_number,omitempty"`
	Name         string             `json:"name,omitempty"`
	RewardPoints int64              `json:"reward_points"`
}

func Guest() Customer {
	return Customer{Mode: ModeGuest}
}

// AddRewardPoints is a no-op for guests.
func (c *Customer) AddRewardPoints(points int64) {
	if !c.IsLoggedIn || points <= 0 {
		return
	}
	c.RewardPoints += points
}

type Operator struct {
	IsLoggedIn bool   `json:"is_logged_in"`
	EmployeeID string `json:"employee_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Role       Role   `json:"role"`
}
