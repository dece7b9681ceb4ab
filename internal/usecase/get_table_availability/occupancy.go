package get_table_availability

import "github.com/m04kA/RST-ReservationService/internal/domain"

// buildOccupiedSet строит множество занятых столов из живых бронирований
// Каждая строка группы занимает собственный стол, поэтому группа из трёх
// столов даёт три записи
func buildOccupiedSet(reservations []*domain.Reservation) map[int64]*domain.Reservation {
	occupied := make(map[int64]*domain.Reservation, len(reservations))

	for _, res := range reservations {
		if !res.IsActive() {
			continue
		}
		occupied[res.TableID] = res
	}

	return occupied
}

// buildTableStates собирает карту занятости столов
func buildTableStates(tables []*domain.Table, occupied map[int64]*domain.Reservation) []domain.TableState {
	states := make([]domain.TableState, len(tables))

	for i, table := range tables {
		state := domain.TableState{Table: *table}
		if res, ok := occupied[table.ID]; ok {
			state.IsOccupied = true
			state.Reservation = res
		}
		states[i] = state
	}

	return states
}
