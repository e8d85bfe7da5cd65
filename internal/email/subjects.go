package email

const (
	subjectAppointmentReminderFmt = "Reminder: %s on %s"
	subjectFollowUpDigestFmt      = "Follow-up digest: %d due"
)
