package notification

// Channel is a transport that can deliver a message to a recipient
// list. Email, WhatsApp and FCM implement it for admin broadcasts.
type Channel interface {
	Send(recipients []string, subject, body string) error
}
