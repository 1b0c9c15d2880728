package session_appointments

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/arnela/gabinete-booking/internal/booking/actions"
	"github.com/arnela/gabinete-booking/internal/domain"
	"github.com/arnela/gabinete-booking/internal/service/appointments/models"
)

type ActionsResponse struct {
	Cancel  bool `json:"cancel"`
	Confirm bool `json:"confirm"`
}

// DetailResponse запись с разрешенными действиями
type DetailResponse struct {
	Appointment *models.AppointmentResponse `json:"appointment"`
	Actions     ActionsResponse             `json:"actions"`
	DisplayOnly bool                        `json:"displayOnly"`
}

// ToFilter формирует фильтр списка из query параметров
// from/to принимаются в формате RFC 3339
func ToFilter(query url.Values) (domain.AppointmentsFilter, error) {
	var filter domain.AppointmentsFilter

	if v := strings.TrimSpace(query.Get("providerId")); v != "" {
		filter.ProviderID = &v
	}
	if v := strings.TrimSpace(query.Get("clientId")); v != "" {
		filter.ClientID = &v
	}
	if v := strings.TrimSpace(query.Get("status")); v != "" {
		status, err := domain.ParseStatus(v)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	if v := query.Get("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, fmt.Errorf("invalid from: %w", err)
		}
		filter.From = &from
	}
	if v := query.Get("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, fmt.Errorf("invalid to: %w", err)
		}
		filter.To = &to
	}
	if v := query.Get("activeOnly"); v != "" {
		activeOnly, err := strconv.ParseBool(v)
		if err != nil {
			return filter, fmt.Errorf("invalid activeOnly value: %w", err)
		}
		filter.ActiveOnly = activeOnly
	}

	return filter, nil
}

func fromDetail(d *actions.Detail) DetailResponse {
	return DetailResponse{
		Appointment: models.FromDomainAppointment(&d.Appointment),
		Actions: ActionsResponse{
			Cancel:  d.Actions.Cancel,
			Confirm: d.Actions.Confirm,
		},
		DisplayOnly: d.DisplayOnly,
	}
}

func fromList(list []domain.Appointment) []models.AppointmentResponse {
	ptrs := make([]*domain.Appointment, 0, len(list))
	for i := range list {
		ptrs = append(ptrs, &list[i])
	}
	return models.FromDomainAppointmentList(ptrs)
}
