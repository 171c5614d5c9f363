package users

// profile update payload, nil fields are left untouched
type UpdateProfileRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=2,max=100"`
	Phone  *string `json:"phone" binding:"omitempty,min=6,max=20"`
	Avatar *string `json:"avatar" binding:"omitempty,url"`
}

type SaveItemRequest struct {
	ItemID string `json:"itemId" binding:"required,uuid"`
}
