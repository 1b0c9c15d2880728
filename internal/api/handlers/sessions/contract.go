package sessions

import (
	"github.com/arnela/gabinete-booking/internal/booking/wizard"
	"github.com/arnela/gabinete-booking/internal/portal"
)

type SessionRegistry interface {
	Create(userID string, variant wizard.Variant) (*portal.Session, error)
	Close(id, userID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
