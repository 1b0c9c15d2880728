package get_available_slots

import (
	"strconv"
	"strings"
	"time"

	"github.com/arnela/gabinete-booking/internal/domain"
	getAvailableSlots "github.com/arnela/gabinete-booking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Slots []time.Time `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]time.Time, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = s.UTC()
	}
	return &AvailableSlotsResponse{Slots: slots}
}

// ToUseCaseRequest создает запрос use case из query параметров
// duration по умолчанию 60 минут
func ToUseCaseRequest(providerID, dateStr, durationStr string, loc *time.Location) (*getAvailableSlots.Request, error) {
	date, err := domain.ParseDate(dateStr, loc)
	if err != nil {
		return nil, err
	}

	duration := domain.DefaultDurationMinutes
	if s := strings.TrimSpace(durationStr); s != "" {
		duration, err = strconv.Atoi(s)
		if err != nil {
			return nil, err
		}
	}

	return &getAvailableSlots.Request{
		ProviderID:      providerID,
		Date:            date,
		DurationMinutes: duration,
	}, nil
}
