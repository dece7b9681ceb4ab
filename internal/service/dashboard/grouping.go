package dashboard

import (
	"fmt"
	"time"

	"github.com/m04kA/RST-ReservationService/internal/domain"
)

// BuildSummary собирает дневную сводку из плоских строк бронирований
// Чистая функция: строки одной группы столов схлопываются в одну строку
// отображения (номера столов перечисляются, гости считаются один раз),
// bookingsCount - количество строк после схлопывания
func BuildSummary(restaurantID int64, date time.Time, totalTables int, details []*domain.ReservationDetail) *domain.DashboardSummary {
	summary := &domain.DashboardSummary{
		RestaurantID: restaurantID,
		Date:         domain.DateOnly(date),
		TotalTables:  totalTables,
		Reservations: make([]domain.ReservationRow, 0, len(details)),
	}

	// Индекс строки сводки по ключу группы, порядок - по первому вхождению
	rowIndex := make(map[string]int)

	for _, detail := range details {
		key := groupKey(detail)

		if idx, ok := rowIndex[key]; ok {
			// Очередной стол уже известной группы: номер добавляется,
			// гости и счётчик бронирований не пересчитываются
			summary.Reservations[idx].TableNumbers = append(summary.Reservations[idx].TableNumbers, detail.TableNumber)
			continue
		}

		row := domain.ReservationRow{
			ReservationID:   detail.ID,
			GroupID:         detail.GroupID,
			TableNumbers:    []string{detail.TableNumber},
			SlotID:          detail.SlotID,
			SlotStartTime:   detail.SlotStartTime,
			SlotEndTime:     detail.SlotEndTime,
			CustomerName:    detail.CustomerName,
			CustomerPhone:   detail.CustomerPhone,
			AdultCount:      detail.AdultCount,
			KidsCount:       detail.KidsCount,
			FoodPreference:  detail.FoodPreference,
			SpecialRequest:  detail.SpecialRequest,
			CustomStartTime: detail.CustomStartTime,
			CreatedAt:       detail.CreatedAt,
		}

		rowIndex[key] = len(summary.Reservations)
		summary.Reservations = append(summary.Reservations, row)

		summary.BookingsCount++
		summary.GuestsCount += detail.Guests()
	}

	return summary
}

// groupKey возвращает ключ схлопывания: группа для объединённых столов,
// ID строки для одиночных бронирований
func groupKey(detail *domain.ReservationDetail) string {
	if detail.IsGrouped() {
		return "g:" + *detail.GroupID
	}
	return fmt.Sprintf("r:%d", detail.ID)
}
