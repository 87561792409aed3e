package booking

import (
	"context"
	"fmt"

	"medibook/models"
)

// ProviderIncome counts the provider's appointments on date (YYYY-MM-DD, or
// every appointment when empty) and multiplies by the flat fee. Status and
// payment state are not considered. Appointments without a scheduled date
// are always counted.
func (s *DefaultBookingService) ProviderIncome(ctx context.Context, providerID, date string) (*models.Income, error) {
	appts, err := s.Appointments.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("list provider appointments: %w", err)
	}

	count := 0
	for _, a := range appts {
		if date != "" && a.ScheduledDate != "" && datePart(a.ScheduledDate) != date {
			continue
		}
		count++
	}

	label := date
	if label == "" {
		label = "all"
	}
	return &models.Income{
		Date:         label,
		Appointments: count,
		Income:       int64(count) * s.Fee,
	}, nil
}

func datePart(iso string) string {
	if len(iso) > 10 {
		return iso[:10]
	}
	return iso
}
