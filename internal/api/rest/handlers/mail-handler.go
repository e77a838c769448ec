package handlers

import (
	"encoding/json"
	"log"

	"github.com/SundayYogurt/account_service/internal/dto"
	"github.com/SundayYogurt/account_service/internal/services"
)

// MailHandler turns account events into outbound mail. It runs in the
// mail worker, dispatching on the kafka message key.
type MailHandler struct {
	MailService *services.MailService
}

func NewMailHandler(ms *services.MailService) *MailHandler {
	return &MailHandler{MailService: ms}
}

func (h *MailHandler) HandleMessage(key, value string) error {
	switch key {
	case dto.EventVerifyEmail:
		var event dto.VerifyEmailEvent
		if err := json.Unmarshal([]byte(value), &event); err != nil {
			log.Printf("invalid %s payload: %s\n", key, value)
			return err
		}
		return h.MailService.SendVerificationMail(event.Email, event.Username, event.Code)

	case dto.EventWelcome:
		var event dto.WelcomeEvent
		if err := json.Unmarshal([]byte(value), &event); err != nil {
			log.Printf("invalid %s payload: %s\n", key, value)
			return err
		}
		return h.MailService.SendWelcomeMail(event.Email, event.Username)

	case dto.EventLoginNotice:
		var event dto.LoginNoticeEvent
		if err := json.Unmarshal([]byte(value), &event); err != nil {
			log.Printf("invalid %s payload: %s\n", key, value)
			return err
		}
		return h.MailService.SendLoginNotification(event.Email, event.Username)

	case dto.EventResetPassword:
		var event dto.ResetPasswordEvent
		if err := json.Unmarshal([]byte(value), &event); err != nil {
			log.Printf("invalid %s payload: %s\n", key, value)
			return err
		}
		return h.MailService.SendPasswordResetMail(event.Email, event.Link)

	case dto.EventResetSuccess:
		var event dto.ResetSuccessEvent
		if err := json.Unmarshal([]byte(value), &event); err != nil {
			log.Printf("invalid %s payload: %s\n", key, value)
			return err
		}
		return h.MailService.SendResetSuccessMail(event.Email)

	default:
		log.Printf("unknown event key %q - skipping\n", key)
		return nil
	}
}
