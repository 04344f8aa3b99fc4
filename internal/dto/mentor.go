package dto

// UpdateMentorProfileRequest edits the caller's mentor profile.
type UpdateMentorProfileRequest struct {
	Name         string  `json:"name" validate:"required"`
	Department   *string `json:"department"`
	Availability *string `json:"availability"`
}
