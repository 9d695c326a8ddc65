package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/terraincognita07/fertitrack/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	UserStatusAll      = "all"
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusAdmin    = "admin"
)

var (
	ErrAdminSelfAction          = errors.New("admins cannot change their own access")
	ErrAdminStatusFilterInvalid = errors.New("invalid status filter")
)

type AdminUserRepository interface {
	ListAll() ([]models.User, error)
	FindByID(userID uint) (models.User, error)
	UpdateByID(userID uint, updates map[string]any) error
}

// AdminService manages other accounts. Mutating calls take the acting admin's
// id; an admin cannot deactivate or demote their own account.
type AdminService struct {
	users        AdminUserRepository
	passwordCost int
}

func NewAdminService(users AdminUserRepository) *AdminService {
	return &AdminService{users: users, passwordCost: bcrypt.DefaultCost}
}

// ListUsers filters accounts by a case-insensitive match on email or full
// name and by status: all, active, inactive or admin.
func (service *AdminService) ListUsers(search string, status string) ([]models.User, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		status = UserStatusAll
	}
	if !isKnownUserStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrAdminStatusFilterInvalid, status)
	}

	users, err := service.users.ListAll()
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	filtered := make([]models.User, 0, len(users))
	for _, user := range users {
		if matchesUserSearch(user, needle) && matchesUserStatus(user, status) {
			filtered = append(filtered, user)
		}
	}
	return filtered, nil
}

func (service *AdminService) SetAdmin(actorID uint, targetID uint, isAdmin bool) (models.User, error) {
	if actorID == targetID && !isAdmin {
		return models.User{}, ErrAdminSelfAction
	}
	return service.update(targetID, map[string]any{"is_admin": isAdmin})
}

func (service *AdminService) Deactivate(actorID uint, targetID uint) (models.User, error) {
	if actorID == targetID {
		return models.User{}, ErrAdminSelfAction
	}
	return service.update(targetID, map[string]any{"is_active": false})
}

func (service *AdminService) Reactivate(targetID uint) (models.User, error) {
	return service.update(targetID, map[string]any{"is_active": true})
}

// ResetPassword returns a temporary password the target must replace on
// next login.
func (service *AdminService) ResetPassword(targetID uint) (models.User, string, error) {
	user, err := service.find(targetID)
	if err != nil {
		return models.User{}, "", err
	}
	temporaryPassword, err := IssueTemporaryPassword(service.users, user.ID, service.passwordCost)
	if err != nil {
		return models.User{}, "", err
	}
	user.MustChangePassword = true
	return user, temporaryPassword, nil
}

func (service *AdminService) update(targetID uint, updates map[string]any) (models.User, error) {
	if err := service.users.UpdateByID(targetID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrAuthUserNotFound
		}
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	return service.find(targetID)
}

func (service *AdminService) find(userID uint) (models.User, error) {
	user, err := service.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrAuthUserNotFound
		}
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func isKnownUserStatus(status string) bool {
	switch status {
	case UserStatusAll, UserStatusActive, UserStatusInactive, UserStatusAdmin:
		return true
	default:
		return false
	}
}

func matchesUserSearch(user models.User, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(user.Email), needle) ||
		strings.Contains(strings.ToLower(user.FullName()), needle)
}

func matchesUserStatus(user models.User, status string) bool {
	switch status {
	case UserStatusActive:
		return user.IsActive
	case UserStatusInactive:
		return !user.IsActive
	case UserStatusAdmin:
		return user.IsAdmin
	default:
		return true
	}
}
