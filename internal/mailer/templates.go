package mailer

import (
	"fmt"
	"html"
)

func verificationText(handle, code string) string {
	return fmt.Sprintf(
		"Welcome, %s!\n\nYour registration code is: %s\n\nThe code is valid for 15 minutes. Never share it with anyone.\nIf you did not sign up on our site, just ignore this message.\n",
		handle, code)
}

func verificationHTML(handle, code string) string {
	escHandle := html.EscapeString(handle)
	escCode := html.EscapeString(code)
	return `<!doctype html>
<html>
  <body style="font-family:Arial,Helvetica,sans-serif; line-height:1.5; color:#333;">
    <div style="max-width:600px; margin:0 auto; padding:20px;">
      <h2 style="color:#6a11cb; text-align:center;">Confirm your registration</h2>
      <p>Welcome, <strong>` + escHandle + `</strong>! Enter this code to finish signing up:</p>
      <div style="background:#f8f9fa; padding:30px; border-radius:10px; margin:20px 0; text-align:center;">
        <span style="color:#6a11cb; font-size:3rem; letter-spacing:10px;">` + escCode + `</span>
      </div>
      <p><strong>The code is valid for 15 minutes.</strong> Never share it with anyone.</p>
      <p style="color:#999; font-size:0.9rem;">If you did not sign up on our site, just ignore this message.</p>
    </div>
  </body>
</html>`
}

func welcomeText(handle, baseURL string) string {
	return fmt.Sprintf(
		"Congratulations, %s!\n\nYour email is confirmed and your account is ready.\nSign in at %s and start playing.\n",
		handle, baseURL)
}

func welcomeHTML(handle, baseURL string) string {
	escHandle := html.EscapeString(handle)
	escURL := html.EscapeString(baseURL)
	return `<!doctype html>
<html>
  <body style="font-family:Arial,Helvetica,sans-serif; line-height:1.5; color:#333;">
    <div style="max-width:600px; margin:0 auto; padding:20px;">
      <h2 style="color:#28a745; text-align:center;">Registration complete</h2>
      <p>Congratulations, <strong>` + escHandle + `</strong>! Your email is confirmed and your account is ready.</p>
      <p><a href="` + escURL + `" style="color:#2575fc;">Sign in</a> and start playing.</p>
    </div>
  </body>
</html>`
}
