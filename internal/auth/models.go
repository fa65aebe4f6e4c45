package auth

// DevAuthRequest is the dev sign-in request. An empty user_id means dev-user.
type DevAuthRequest struct {
	UserID string `json:"user_id"`
}

// DevAuthResponse is the dev sign-in response.
type DevAuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	UserID      string `json:"user_id"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
