package api

type registerInput struct {
	Email           string   `json:"email" validate:"required,max=254"`
	Password        string   `json:"password" validate:"required"`
	ConfirmPassword string   `json:"confirm_password" validate:"required"`
	FirstName       string   `json:"first_name" validate:"max=64"`
	LastName        string   `json:"last_name" validate:"max=64"`
	BirthDate       string   `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	WeightKg        *float64 `json:"weight_kg" validate:"omitempty,gt=0,lte=500"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type cycleRecordInput struct {
	StartDate string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string   `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Flow      string   `json:"flow" validate:"omitempty,oneof=light medium heavy"`
	Symptoms  []string `json:"symptoms" validate:"max=32,dive,max=64"`
	Notes     string   `json:"notes" validate:"max=2000"`
}

type preferencesInput struct {
	TypicalCycleLength  int `json:"typical_cycle_length" validate:"required"`
	TypicalPeriodLength int `json:"typical_period_length" validate:"required"`
}

type profileInput struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	BirthDate string   `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	WeightKg  *float64 `json:"weight_kg"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type adminStatusInput struct {
	IsAdmin *bool `json:"is_admin" validate:"required"`
}
