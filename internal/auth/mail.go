package auth

import "fmt"

const (
	resetSubject        = "StudyHard - Password Reset"
	resetConfirmSubject = "StudyHard Password Reset Confirmation"
)

func resetBody(fullName, link string) string {
	return fmt.Sprintf(`
		<div style="background-color: #f5f5f5; padding: 20px;">
			<h2 style="color: #333; text-align: center;">StudyHard - Password Reset</h2>
			<p style="color: #666; text-align: center;">Dear <b>%s</b>, You requested a password reset. Please click the button below to reset your password:</p>
			<div style="text-align: center;">
				<a href="%s" style="background-color: #007bff; color: #fff; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Reset Password</a>
				<p style="color: #666; text-align: center;">This link is valid for only 10 minutes.</p>
				<p style="color: #666; text-align: center;">If you did not request a password reset, please ignore this email.</p>
			</div>
		</div>`, fullName, link)
}

func resetConfirmBody(fullName string) string {
	return fmt.Sprintf(`
		<div style="background-color: #f5f5f5; padding: 20px;">
			<p>Hi <b>%s</b>, <br>Your password has been successfully changed. If you did not request this change, please contact us immediately at <b>support@studyhard.com</b>.</p>
			<p>Sincerely,</p>
			<p>StudyHard</p>
		</div>`, fullName)
}
