package sessions

import (
	"time"

	"github.com/arnela/gabinete-booking/internal/booking/wizard"
	"github.com/arnela/gabinete-booking/internal/portal"
)

// CreateRequest тело POST /sessions; пустой variant означает portal
type CreateRequest struct {
	Variant string `json:"variant"`
}

type Response struct {
	ID        string    `json:"id"`
	Variant   string    `json:"variant"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r CreateRequest) variant() wizard.Variant {
	if r.Variant == "" {
		return wizard.VariantPortal
	}
	return wizard.Variant(r.Variant)
}

func fromSession(s *portal.Session) Response {
	return Response{
		ID:        s.ID,
		Variant:   string(s.Variant),
		CreatedAt: s.CreatedAt.UTC(),
	}
}
