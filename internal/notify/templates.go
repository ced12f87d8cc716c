package notify

import "html/template"

var (
	welcomeTmpl = template.Must(template.New("welcome").Parse(
		`<h1>Welcome, {{.Name}}!</h1><p>Your JournalHub account is ready. Start writing your first entry today.</p>`))

	profileUpdatedTmpl = template.Must(template.New("profile_updated").Parse(
		`<p>Hi {{.Name}},</p><p>Your profile information was updated. If this wasn't you, reset your password immediately.</p>`))

	passwordChangedTmpl = template.Must(template.New("password_changed").Parse(
		`<p>Hi {{.Name}},</p><p>Your password was changed. If you did not make this change, contact support.</p>`))

	accountDeletedTmpl = template.Must(template.New("account_deleted").Parse(
		`<p>Hi {{.Name}},</p><p>Your account and all of your journal entries have been deleted. We're sorry to see you go.</p>`))

	passwordResetTmpl = template.Must(template.New("password_reset").Parse(
		`<p>Hi {{.Name}},</p><p>Click the link below to reset your password. It expires in one hour.</p><p><a href="{{.Link}}">{{.Link}}</a></p>`))
)
