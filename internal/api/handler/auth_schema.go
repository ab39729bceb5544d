package handler

type registerRequest struct {
	Username        string `json:"username" validate:"required,min=3"`
	Name            string `json:"name" validate:"required,min=3"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required,min=8"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// messageResponse is the success envelope shared by every auth endpoint.
// Data carries the flow-specific payload (e.g. the access token on login).
type messageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type tokenData struct {
	Token string `json:"token"`
}
