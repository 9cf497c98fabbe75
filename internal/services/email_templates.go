package services

import "fmt"

const (
	ValidationSubject = "Email Validation is Required"
	ResetSubject      = "Link To Reset Password"
)

// ValidationEmail builds the message carrying a plaintext verification code.
func ValidationEmail(from, to, link, code string) Message {
	body := fmt.Sprintf("You are receiving this because you (or someone else) have recently created your account.\n\n"+
		"Please click on the following link, or paste this into your browser to complete the registration process:\n\n"+
		"%s\n\n"+
		"Validation Code: %s\n\n"+
		"If you did not request this, please ignore this email and no action will be taken.\n", link, code)

	return Message{From: from, To: to, Subject: ValidationSubject, Body: body}
}

// ResetEmail builds the message carrying a plaintext password reset code.
func ResetEmail(from, to, link, code string) Message {
	body := fmt.Sprintf("You are receiving this because you (or someone else) have requested the reset of the password for your account.\n\n"+
		"Please click on the following link, or paste this into your browser to complete the process within one hour of receiving it:\n\n"+
		"%s\n\n"+
		"Reset Code: %s\n\n"+
		"If you did not request this, please ignore this email and your password will remain unchanged.\n", link, code)

	return Message{From: from, To: to, Subject: ResetSubject, Body: body}
}
