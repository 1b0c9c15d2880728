package session_stream

import (
	"github.com/arnela/gabinete-booking/internal/api/handlers/session_notifications"
	"github.com/arnela/gabinete-booking/internal/api/handlers/session_wizard"
	"github.com/arnela/gabinete-booking/internal/portal"
)

// Message сообщение, отправляемое в websocket
type Message struct {
	Type         string                                      `json:"type"`
	Wizard       *session_wizard.StateResponse               `json:"wizard,omitempty"`
	Change       string                                      `json:"change,omitempty"`
	Appointment  string                                      `json:"appointmentId,omitempty"`
	Notification *session_notifications.NotificationResponse `json:"notification,omitempty"`
}

// InboundMessage сообщение от клиента; поддерживается только ping
type InboundMessage struct {
	Type string `json:"type"`
}

func fromEvent(e portal.StreamEvent) Message {
	msg := Message{Type: string(e.Type)}

	switch {
	case e.Wizard != nil:
		state := session_wizard.FromState(*e.Wizard)
		msg.Wizard = &state
	case e.Store != nil:
		msg.Change = string(e.Store.Type)
		msg.Appointment = e.Store.AppointmentID
	case e.Notification != nil:
		n := session_notifications.FromNotification(e.Notification.Notification)
		msg.Change = string(e.Notification.Op)
		msg.Notification = &n
	}

	return msg
}
