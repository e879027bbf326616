package mail

type ReminderEmailData struct {
	AgentName string
	LeadName  string
	LeadPhone string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	dialer   Dialer
}
