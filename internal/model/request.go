package model

import "time"

type SignUpRequest struct {
	Name     string     `json:"name"`
	LastName string     `json:"last_name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Birthday *time.Time `json:"birthday,omitempty"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RecoveryRequest struct {
	Email string `json:"email"`
}

type RecoverPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type UpdateUserRequest struct {
	Name     *string    `json:"name,omitempty"`
	LastName *string    `json:"last_name,omitempty"`
	Email    *string    `json:"email,omitempty"`
	Birthday *time.Time `json:"birthday,omitempty"`
}

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	State       string `json:"state"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	State       *string `json:"state,omitempty"`
}

type UpdateTaskStateRequest struct {
	State string `json:"state"`
}

type DeleteTasksRequest struct {
	TaskIDs []string `json:"task_ids"`
}

type UploadFromURLRequest struct {
	ImageURL string `json:"imageUrl"`
	PublicID string `json:"publicId,omitempty"`
}
