package wizard

import (
	"strings"
	"time"

	"github.com/arnela/gabinete-booking/internal/domain"
)

// Draft черновик записи, который накапливается по шагам мастера
type Draft struct {
	ClientID        *string
	Client          *domain.ClientSummary
	ProviderID      *string
	Date            *time.Time
	DurationMinutes int
	Room            *string
	SelectedSlot    *time.Time
	Title           string
	Description     *string
}

func newDraft() Draft {
	return Draft{DurationMinutes: domain.DefaultDurationMinutes}
}

func (d Draft) clone() Draft {
	c := d
	if d.ClientID != nil {
		v := *d.ClientID
		c.ClientID = &v
	}
	if d.Client != nil {
		v := *d.Client
		c.Client = &v
	}
	if d.ProviderID != nil {
		v := *d.ProviderID
		c.ProviderID = &v
	}
	if d.Date != nil {
		v := *d.Date
		c.Date = &v
	}
	if d.Room != nil {
		v := *d.Room
		c.Room = &v
	}
	if d.SelectedSlot != nil {
		v := *d.SelectedSlot
		c.SelectedSlot = &v
	}
	if d.Description != nil {
		v := *d.Description
		c.Description = &v
	}
	return c
}

// request собирает запрос на создание; ClientID передается только в backoffice
func (d Draft) request(variant Variant) domain.CreateAppointmentRequest {
	c := d.clone()
	req := domain.CreateAppointmentRequest{
		Title:           strings.TrimSpace(c.Title),
		Description:     c.Description,
		DurationMinutes: c.DurationMinutes,
	}
	if c.ProviderID != nil {
		req.ProviderID = *c.ProviderID
	}
	if c.SelectedSlot != nil {
		req.StartTime = *c.SelectedSlot
	}
	if variant == VariantBackoffice {
		req.ClientID = c.ClientID
		req.Room = c.Room
	}
	return req
}
