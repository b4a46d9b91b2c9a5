package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/chronopointe/pointage-go/internal/domain/employee"
	"github.com/chronopointe/pointage-go/internal/pkg/jwt"
	"github.com/chronopointe/pointage-go/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

// BadgeLoginRequest authenticates an employee for badge issuance. The
// returned token is what the kiosk later scans as a QR code.
type BadgeLoginRequest struct {
	EmployeeCode string `json:"employee_code"`
	PIN          string `json:"pin"`
}

func (r *BadgeLoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: "employee_code must look like EMP-0001",
		})
	}

	if !validator.IsValidPIN(r.PIN) {
		errs = append(errs, validator.ValidationError{
			Field:   "pin",
			Message: "pin must be 4 to 8 digits",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BadgeLoginResponse struct {
	BadgeToken string `json:"badge_token"`
	ExpiresAt  int64  `json:"expires_at"`
	Employee   struct {
		ID        string `json:"id"`
		Code      string `json:"code"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"employee"`
}

type Service interface {
	// BadgeLogin verifies the employee PIN and issues the signed badge
	// identity token
	BadgeLogin(ctx context.Context, req BadgeLoginRequest) (BadgeLoginResponse, error)

	// BadgeLogout revokes a badge token so it can no longer
	// authenticate or punch
	BadgeLogout(ctx context.Context, badgeToken string) error
}

type authService struct {
	employeeRepo employee.EmployeeRepository
	jwtSvc       jwt.Service
}

func NewAuthService(employeeRepo employee.EmployeeRepository, jwtSvc jwt.Service) Service {
	return &authService{
		employeeRepo: employeeRepo,
		jwtSvc:       jwtSvc,
	}
}

// BadgeLogin implements Service.
func (s *authService) BadgeLogin(ctx context.Context, req BadgeLoginRequest) (BadgeLoginResponse, error) {
	if err := req.Validate(); err != nil {
		return BadgeLoginResponse{}, err
	}

	emp, err := s.employeeRepo.GetByCode(ctx, req.EmployeeCode)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			// Same answer as a bad PIN so codes cannot be probed.
			return BadgeLoginResponse{}, employee.ErrInvalidCredentials
		}
		return BadgeLoginResponse{}, fmt.Errorf("load employee: %w", err)
	}

	if !emp.Active {
		return BadgeLoginResponse{}, employee.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PINHash), []byte(req.PIN)); err != nil {
		return BadgeLoginResponse{}, employee.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtSvc.GenerateBadgeToken(emp.ID, emp.Code, emp.FullName())
	if err != nil {
		return BadgeLoginResponse{}, fmt.Errorf("issue badge token: %w", err)
	}

	resp := BadgeLoginResponse{
		BadgeToken: token,
		ExpiresAt:  expiresAt,
	}
	resp.Employee.ID = emp.ID
	resp.Employee.Code = emp.Code
	resp.Employee.FirstName = emp.FirstName
	resp.Employee.LastName = emp.LastName

	return resp, nil
}

// BadgeLogout implements Service.
func (s *authService) BadgeLogout(ctx context.Context, badgeToken string) error {
	// Only a token we actually signed is worth remembering.
	if _, err := s.jwtSvc.DecodeBadgeToken(badgeToken); err != nil {
		return employee.ErrInvalidCredentials
	}

	s.jwtSvc.RevokeToken(badgeToken)
	return nil
}
