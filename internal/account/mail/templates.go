package mail

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

// LinkBuilder assembles the browser links embedded in account emails. The
// token and email ride as query parameters so the frontend can replay them
// against the API.
type LinkBuilder struct {
	ClientURL   string
	ConfirmPath string
	ResetPath   string
}

func (b LinkBuilder) ConfirmEmailURL(token, email string) string {
	return b.build(b.ConfirmPath, token, email)
}

func (b LinkBuilder) ResetPasswordURL(token, email string) string {
	return b.build(b.ResetPath, token, email)
}

func (b LinkBuilder) build(path, token, email string) string {
	q := url.Values{}
	q.Set("token", token)
	q.Set("email", email)
	return fmt.Sprintf("%s/%s?%s",
		strings.TrimRight(b.ClientURL, "/"),
		strings.TrimLeft(path, "/"),
		q.Encode(),
	)
}

var confirmEmailTmpl = template.Must(template.New("confirm_email").Parse(`<html>
<body style="font-family: sans-serif; color: #222;">
  <p>Hello {{.Name}},</p>
  <p>Thank you for registering with {{.AppName}}. Please confirm your email address by clicking the link below.</p>
  <p><a href="{{.Link}}">Confirm my email address</a></p>
  <p>If you did not create this account, you can safely ignore this email.</p>
  <p>Regards,<br>The {{.AppName}} team</p>
</body>
</html>`))

var resetPasswordTmpl = template.Must(template.New("reset_password").Parse(`<html>
<body style="font-family: sans-serif; color: #222;">
  <p>Hello {{.Name}},</p>
  <p>Your username is <strong>{{.Username}}</strong>.</p>
  <p>A password reset was requested for your {{.AppName}} account. Click the link below to choose a new password.</p>
  <p><a href="{{.Link}}">Reset my password</a></p>
  <p>If you did not request this, you can safely ignore this email and your password will remain unchanged.</p>
  <p>Regards,<br>The {{.AppName}} team</p>
</body>
</html>`))

type templateData struct {
	Name     string
	Username string
	AppName  string
	Link     string
}

// RenderConfirmEmail produces the HTML body for the email confirmation mail.
func RenderConfirmEmail(appName, name, link string) (string, error) {
	var sb strings.Builder
	err := confirmEmailTmpl.Execute(&sb, templateData{
		Name:    name,
		AppName: appName,
		Link:    link,
	})
	if err != nil {
		return "", fmt.Errorf("mail: render confirm email: %w", err)
	}
	return sb.String(), nil
}

// RenderResetPassword produces the HTML body for the password reset mail.
// The body restates the username since the same flow serves forgotten
// usernames.
func RenderResetPassword(appName, name, username, link string) (string, error) {
	var sb strings.Builder
	err := resetPasswordTmpl.Execute(&sb, templateData{
		Name:     name,
		Username: username,
		AppName:  appName,
		Link:     link,
	})
	if err != nil {
		return "", fmt.Errorf("mail: render reset password: %w", err)
	}
	return sb.String(), nil
}
