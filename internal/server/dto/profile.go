package dto

type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"max=255"`
	Email string `json:"email" binding:"max=255"`
	Image string `json:"image" binding:"omitempty,max=2048"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,max=72"`
}
