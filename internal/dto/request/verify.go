package request

// SendCodeRequest asks for a one-time code to be delivered to the account
// matching identifier. Purpose defaults from the delivery method when
// omitted (email -> email_verification, sms -> phone_verification).
type SendCodeRequest struct {
	Identifier string `json:"identifier" validate:"required,min=3,max=100"`
	Method     string `json:"method" validate:"required,oneof=email sms"`
	Purpose    string `json:"purpose,omitempty" validate:"omitempty,oneof=email_verification phone_verification password_reset"`
}

type VerifyOTPRequest struct {
	Identifier string `json:"identifier" validate:"required,min=3,max=100"`
	Code       string `json:"code" validate:"required,len=6,numeric"`
	Purpose    string `json:"purpose,omitempty" validate:"omitempty,oneof=email_verification phone_verification password_reset"`
}

type VerifyResetTokenRequest struct {
	Token string `json:"token" validate:"required,uuid"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required,uuid"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}
