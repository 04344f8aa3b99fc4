package dto

// RegisterStudentRequest creates a student account and, when parent details are given,
// links it to an existing or new parent account.
type RegisterStudentRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	Name           string `json:"name" validate:"required"`
	RollNumber     string `json:"roll_number" validate:"required"`
	Phone          string `json:"phone"`
	Program        string `json:"program"`
	Year           *int   `json:"year" validate:"omitempty,min=1,max=10"`
	ParentEmail    string `json:"parent_email" validate:"omitempty,email"`
	ParentPassword string `json:"parent_password" validate:"omitempty,min=6"`
	ParentName     string `json:"parent_name"`
	ParentPhone    string `json:"parent_phone"`
	ParentRelation string `json:"parent_relation"`
}

// RegisterMentorRequest creates a mentor account.
type RegisterMentorRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	Name         string `json:"name" validate:"required"`
	Department   string `json:"department"`
	Availability string `json:"availability"`
}

// RegisterParentRequest creates a parent account.
type RegisterParentRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
}

// RegistrationResult reports the identifiers created by a registration.
type RegistrationResult struct {
	UserID        string `json:"user_id"`
	ProfileID     string `json:"profile_id"`
	ParentID      string `json:"parent_id,omitempty"`
	ParentCreated bool   `json:"parent_created,omitempty"`
}

// ProvisionAdminRequest creates an admin account or promotes an existing one.
type ProvisionAdminRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// EnsureParentRequest repairs a parent login: role, profile and optionally the password.
type EnsureParentRequest struct {
	Email    string `validate:"required,email"`
	Name     string
	Password string `validate:"omitempty,min=6"`
}

// ProvisionResult reports what a provisioning command changed.
type ProvisionResult struct {
	UserID         string `json:"user_id"`
	ProfileID      string `json:"profile_id,omitempty"`
	UserCreated    bool   `json:"user_created"`
	RoleChanged    bool   `json:"role_changed"`
	ProfileCreated bool   `json:"profile_created"`
}
