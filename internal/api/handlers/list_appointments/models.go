package list_appointments

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/arnela/gabinete-booking/internal/service/appointments/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// from/to принимаются в формате RFC 3339
func ToServiceRequest(query url.Values) (*models.ListRequest, error) {
	req := &models.ListRequest{}

	if v := strings.TrimSpace(query.Get("providerId")); v != "" {
		req.ProviderID = &v
	}
	if v := strings.TrimSpace(query.Get("clientId")); v != "" {
		req.ClientID = &v
	}
	if v := strings.TrimSpace(query.Get("status")); v != "" {
		req.Status = &v
	}

	if v := query.Get("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("invalid from: %w", err)
		}
		req.From = &from
	}
	if v := query.Get("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("invalid to: %w", err)
		}
		req.To = &to
	}

	if v := query.Get("activeOnly"); v != "" {
		activeOnly, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid activeOnly value: %w", err)
		}
		req.ActiveOnly = activeOnly
	}

	return req, nil
}
