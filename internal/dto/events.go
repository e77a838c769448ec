package dto

// Event keys published by the account service and consumed by the mail
// worker. The kafka message key selects the mail kind, the value is the
// JSON-encoded event below.
const (
	EventVerifyEmail   = "user.verify_email"
	EventWelcome       = "user.welcome"
	EventLoginNotice   = "user.login_notice"
	EventResetPassword = "user.reset_password"
	EventResetSuccess  = "user.reset_success"
)

type VerifyEmailEvent struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Code      string `json:"code"`
	ExpiresAt string `json:"expires_at"`
}

type WelcomeEvent struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type LoginNoticeEvent struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type ResetPasswordEvent struct {
	Email string `json:"email"`
	Link  string `json:"link"`
}

type ResetSuccessEvent struct {
	Email string `json:"email"`
}
