package transport

// Request DTOs for the leads API. Stage values are validated in the service
// against the domain enum, not via struct tags, so invalid stages surface as
// typed validation errors.

type CreateLeadRequest struct {
	Name         string       `json:"name" validate:"required,min=1,max=200"`
	Email        string       `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string       `json:"phone" validate:"required,min=5,max=20"`
	Company      string       `json:"company,omitempty" validate:"max=200"`
	Source       string       `json:"source,omitempty" validate:"max=100"`
	Status       string       `json:"status,omitempty" validate:"max=100"`
	Notes        string       `json:"notes,omitempty" validate:"max=5000"`
	FollowUpDate OptionalTime `json:"followUpDate,omitempty" validate:"-"`
	AssignedTo   OptionalUUID `json:"assignedTo,omitempty" validate:"-"`
}

type UpdateLeadRequest struct {
	Name         *string      `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email        *string      `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string      `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	Company      *string      `json:"company,omitempty" validate:"omitempty,max=200"`
	Source       *string      `json:"source,omitempty" validate:"omitempty,max=100"`
	Status       *string      `json:"status,omitempty" validate:"omitempty,max=100"`
	Notes        *string      `json:"notes,omitempty" validate:"omitempty,max=5000"`
	FollowUpDate OptionalTime `json:"followUpDate,omitempty" validate:"-"`
	AssignedTo   OptionalUUID `json:"assignedTo,omitempty" validate:"-"`
}

type UpdateStageRequest struct {
	Stage string `json:"stage" validate:"required"`
}

type SearchLeadsRequest struct {
	Name         string `form:"name" validate:"max=200"`
	Company      string `form:"company" validate:"max=200"`
	Status       string `form:"status" validate:"max=100"`
	Stage        string `form:"stage" validate:"max=50"`
	Source       string `form:"source" validate:"max=100"`
	AssignedTo   string `form:"assignedTo" validate:"omitempty,uuid"`
	FollowUpDate string `form:"followUpDate" validate:"omitempty,datetime=2006-01-02"`
}
