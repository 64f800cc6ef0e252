package response

type ErrorResponse struct {
	Error string `json:"error"`
}

type TokenResponse struct {
	Token     string `json:"access_token"`
	TokenType string `json:"token_type"`
	UID       uint   `json:"user_id"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
}

type SuccessResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// UploadURLResponse carries a presigned object-storage URL for job data.
type UploadURLResponse struct {
	URL       string `json:"url"`
	Object    string `json:"object"`
	ExpiresIn int    `json:"expires_in_seconds"`
}
