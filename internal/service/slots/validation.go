package slots

import (
	"fmt"
	"sort"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/pkg/types"
)

// validateBatch валидирует параметры пакетного создания слотов
// Возвращает распарсенные времена и дедуплицированный отсортированный список дней
func validateBatch(startTime, endTime string, days []int) (types.TimeString, types.TimeString, []int, error) {
	start, err := types.NewTimeStringFromString(startTime)
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: invalid startTime format, expected HH:MM", ErrInvalidInput)
	}

	end, err := types.NewTimeStringFromString(endTime)
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: invalid endTime format, expected HH:MM", ErrInvalidInput)
	}

	if !start.IsBefore(end) {
		return "", "", nil, fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	if len(days) == 0 {
		return "", "", nil, fmt.Errorf("%w: at least one day is required", ErrInvalidInput)
	}

	seen := make(map[int]struct{}, len(days))
	uniqueDays := make([]int, 0, len(days))

	for _, day := range days {
		if day < domain.MinDayOfWeek || day > domain.MaxDayOfWeek {
			return "", "", nil, fmt.Errorf("%w: day must be between %d and %d",
				ErrInvalidInput, domain.MinDayOfWeek, domain.MaxDayOfWeek)
		}
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		uniqueDays = append(uniqueDays, day)
	}

	sort.Ints(uniqueDays)

	return start, end, uniqueDays, nil
}
