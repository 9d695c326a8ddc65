package api

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/fertitrack/internal/db"
	"github.com/terraincognita07/fertitrack/internal/services"
	"gorm.io/gorm"
)

type Handler struct {
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	sessionTTL   time.Duration
	log          logrus.FieldLogger
	now          func() time.Time

	validate     *validator.Validate
	loginLimiter *attemptLimiter

	repositories    *db.Repositories
	authService     *services.AuthService
	cycleService    *services.CycleRecordService
	settingsService *services.SettingsService
	insightsService *services.InsightsService
	exportService   *services.ExportService
	adminService    *services.AdminService
	auditService    *services.AuditService
}

func NewHandler(database *gorm.DB, secretKey []byte, location *time.Location, cookieSecure bool, log logrus.FieldLogger) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if len(secretKey) == 0 {
		return nil, errors.New("secret key is required")
	}
	if location == nil {
		location = time.UTC
	}

	handler := &Handler{
		secretKey:    secretKey,
		location:     location,
		cookieSecure: cookieSecure,
		sessionTTL:   services.DefaultSessionTTL,
		log:          log,
		now:          time.Now,
		validate:     newRequestValidator(),
		loginLimiter: newAttemptLimiter(loginFailureLimit, loginFailureWindow),
	}
	return handler.withDependencies(database), nil
}

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.authService = services.NewAuthService(handler.repositories.Users, handler.log)
	handler.cycleService = services.NewCycleRecordService(handler.repositories.CycleRecords)
	handler.settingsService = services.NewSettingsService(handler.repositories.Users)
	handler.insightsService = services.NewInsightsService(handler.cycleService)
	handler.exportService = services.NewExportService(handler.cycleService)
	handler.adminService = services.NewAdminService(handler.repositories.Users)
	handler.auditService = services.NewAuditService(handler.repositories.UserEvents, handler.log)
	return handler
}

func (handler *Handler) audit(userID uint, action string, category string, details map[string]any) {
	handler.auditService.Record(userID, action, category, details, handler.now())
}

// today is the current calendar day in the configured location.
func (handler *Handler) today() time.Time {
	return services.DateAtLocation(handler.now(), handler.location)
}

func newRequestValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}
