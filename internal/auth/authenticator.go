package auth

import (
	"context"
	"strings"
	"time"

	"quickcheckout/internal/logger"
	"quickcheckout/internal/session"
	"quickcheckout/internal/task"

	"go.uber.org/zap"
)

const defaultStaffName = "Staff Member"

type Authenticator interface {
	Authenticate(ctx context.Context, employeeID, password string) (session.Operator, error)
}

func requireCredentials(employeeID, password string) (string, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" || password == "" {
		return "", ErrMissingCredentials
	}
	return employeeID, nil
}

// DemoAuthenticator accepts any non-empty credentials after a simulated
// network delay.
type DemoAuthenticator struct {
	Delay       time.Duration
	DefaultRole session.Role
}

func NewDemoAuthenticator(delay time.Duration, role session.Role) *DemoAuthenticator {
	if role == session.RoleUnknown {
		role = session.RoleCashier
	}
	return &DemoAuthenticator{Delay: delay, DefaultRole: role}
}

func (a *DemoAuthenticator) Authenticate(ctx context.Context, employeeID, password string) (session.Operator, error) {
	employeeID, err := requireCredentials(employeeID, password)
	if err != nil {
		return session.Operator{}, err
	}

	if err := task.Wait(ctx, a.Delay); err != nil {
		return session.Operator{}, err
	}

	logger.FromCtx(ctx).Info("staff login accepted",
		zap.String("layer", "auth"),
		zap.String("employee_id", employeeID),
		zap.Stringer("role", a.DefaultRole),
	)

	return session.Operator{
		IsLoggedIn: true,
		EmployeeID: employeeID,
		Name:       defaultStaffName,
		Role:       a.DefaultRole,
	}, nil
}

type StaffRecord struct {
	EmployeeID   string
	Name         string
	Role         session.Role
	PasswordHash string
}

// DirectoryAuthenticator checks credentials against bcrypt hashes.
type DirectoryAuthenticator struct {
	Delay   time.Duration
	records map[string]StaffRecord
}

func NewDirectoryAuthenticator(delay time.Duration, records ...StaffRecord) *DirectoryAuthenticator {
	a := &DirectoryAuthenticator{Delay: delay, records: make(map[string]StaffRecord, len(records))}
	for _, r := range records {
		a.records[strings.ToUpper(r.EmployeeID)] = r
	}
	return a
}

func (a *DirectoryAuthenticator) Authenticate(ctx context.Context, employeeID, password string) (session.Operator, error) {
	employeeID, err := requireCredentials(employeeID, password)
	if err != nil {
		return session.Operator{}, err
	}

	if err := task.Wait(ctx, a.Delay); err != nil {
		return session.Operator{}, err
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "auth"),
		zap.String("employee_id", employeeID),
	)

	rec, ok := a.records[strings.ToUpper(employeeID)]
	if !ok || !CheckPasswordHash(password, rec.PasswordHash) {
		log.Warn("staff login rejected")
		return session.Operator{}, ErrInvalidCredentials
	}

	log.Info("staff login accepted", zap.Stringer("role", rec.Role))
	return session.Operator{
		IsLoggedIn: true,
		EmployeeID: rec.EmployeeID,
		Name:       rec.Name,
		Role:       rec.Role,
	}, nil
}

// DemoDirectory hashes the built-in staff accounts. All three share the
// password "pos-demo".
func DemoDirectory() ([]StaffRecord, error) {
	accounts := []StaffRecord{
		{EmployeeID: "EMP001", Name: "Casey Cashier", Role: session.RoleCashier},
		{EmployeeID: "EMP100", Name: "Sam Supervisor", Role: session.RoleSupervisor},
		{EmployeeID: "EMP900", Name: "Morgan Manager", Role: session.RoleManager},
	}
	for i := range accounts {
		hash, err := HashPassword("pos-demo")
		if err != nil {
			return nil, err
		}
		accounts[i].PasswordHash = hash
	}
	return accounts, nil
}
