package services

import "github.com/terraincognita07/fertitrack/internal/models"

func IsAdminUser(user *models.User) bool {
	return user != nil && user.IsActive && user.IsAdmin
}

func IsActiveUser(user *models.User) bool {
	return user != nil && user.IsActive
}
