package mailer

import (
	"fmt"
	"time"
)

// OTPMessage builds the signup passcode email.
func OTPMessage(to, code string, ttl time.Duration) Message {
	minutes := int(ttl.Minutes())
	return Message{
		To:      to,
		Subject: "Your OTP Code for Signup",
		HTML:    fmt.Sprintf("<p>Your OTP is <strong>%s</strong>. It will expire in %d minutes.</p>", code, minutes),
		Text:    fmt.Sprintf("Your OTP is %s. It will expire in %d minutes.", code, minutes),
	}
}
