package request

type CreateMemberRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
}

type AddBalanceRequest struct {
	Amount int64 `json:"amount" binding:"required,min=1"`
}
