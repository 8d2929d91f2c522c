package mail

type OutreachEmailData struct {
	Name       string
	Paragraphs []string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string

	dialer Dialer
}
