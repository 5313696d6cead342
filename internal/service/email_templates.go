package service

import "fmt"

func verificationEmailTemplate(firstName, verifyURL, appName string) (string, string) {
	subject := fmt.Sprintf("Verify your email for %s", appName)
	body := fmt.Sprintf(`Hi %s,

Thanks for creating an account. Please verify your email address by clicking this link:
%s

This link expires in 2 minutes and can only be used once.

If you didn't create this account, ignore this email.

Best,
The %s Team`, firstName, verifyURL, appName)

	return subject, body
}
