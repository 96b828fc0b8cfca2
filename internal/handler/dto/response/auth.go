package response

type OTPRequestedResponse struct {
	Message string `json:"message"`
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}
