package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

const displayTimeLayout = "Mon Jan 2, 3:04 PM"

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
}

type appointmentReminderEmailData struct {
	baseEmailData
	LeadName string
	When     string
	Location string
	StartsIn string
}

type followUpDigestEmailData struct {
	baseEmailData
	Items []DigestItem
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderAppointmentReminder(r AppointmentReminder) (subject, body string, err error) {
	when := r.ScheduledAt.Format(displayTimeLayout)
	body, err = renderEmailTemplate("appointment_reminder.html", appointmentReminderEmailData{
		baseEmailData: baseEmailData{
			Title:   r.Title,
			Heading: r.Title,
		},
		LeadName: r.LeadName,
		When:     when,
		Location: r.Location,
		StartsIn: formatLeadTime(r.MinutesBefore),
	})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf(subjectAppointmentReminderFmt, r.Title, when), body, nil
}

func renderFollowUpDigest(d FollowUpDigest) (subject, body string, err error) {
	body, err = renderEmailTemplate("followup_digest.html", followUpDigestEmailData{
		baseEmailData: baseEmailData{
			Title:      "Follow-up digest",
			Heading:    "Today's follow-ups",
			Subheading: d.GeneratedAt.Format(time.DateOnly),
		},
		Items: d.Items,
	})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf(subjectFollowUpDigestFmt, len(d.Items)), body, nil
}

func formatLeadTime(minutes int) string {
	switch {
	case minutes <= 0:
		return "now"
	case minutes%1440 == 0:
		if minutes == 1440 {
			return "in 1 day"
		}
		return fmt.Sprintf("in %d days", minutes/1440)
	case minutes%60 == 0:
		if minutes == 60 {
			return "in 1 hour"
		}
		return fmt.Sprintf("in %d hours", minutes/60)
	default:
		return fmt.Sprintf("in %d minutes", minutes)
	}
}
