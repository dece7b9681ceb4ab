package slot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/RST-ReservationService/pkg/psqlbuilder"
)

var slotColumns = []string{
	"id",
	"restaurant_id",
	"start_time",
	"end_time",
	"day_of_week",
	"specific_date",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами и переопределениями доступности
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый слот
func (r *Repository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var specificDate interface{}
	if slot.SpecificDate != nil {
		specificDate = domain.DateOnly(*slot.SpecificDate)
	}

	query, args, err := psqlbuilder.Insert("slots").
		Columns(
			"restaurant_id",
			"start_time",
			"end_time",
			"day_of_week",
			"specific_date",
			"is_active",
		).
		Values(
			slot.RestaurantID,
			slot.StartTime,
			slot.EndTime,
			slot.DayOfWeek,
			specificDate,
			slot.IsActive,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return slot, nil
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlotRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// ListAll получает все активные слоты ресторана, упорядоченные по дню недели и времени начала
func (r *Repository) ListAll(ctx context.Context, restaurantID int64) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"restaurant_id": restaurantID, "is_active": true}).
		OrderBy("day_of_week ASC NULLS LAST, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// ListForDate получает активные слоты ресторана, видимые на указанную дату:
// повторяющиеся с совпадающим днём недели либо разовые на эту дату
func (r *Repository) ListForDate(ctx context.Context, restaurantID int64, date time.Time) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"restaurant_id": restaurantID, "is_active": true}).
		Where(squirrel.Or{
			squirrel.Eq{"day_of_week": int(date.Weekday())},
			squirrel.Eq{"specific_date": domain.DateOnly(date)},
		}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListForDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// Delete удаляет слот (физическое удаление)
// Бронирования, ссылающиеся на слот, не проверяются - слот является шаблоном,
// бронирования хранят собственные дату и время
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// Deactivate выключает слот (is_active = false)
// Выключенный слот пропадает из выдачи по дате и из доступности,
// существующие бронирования не трогаются
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// GetOverride получает переопределение доступности слота на дату
func (r *Repository) GetOverride(ctx context.Context, slotID int64, date time.Time) (*domain.SlotOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"slot_id",
		"override_date",
		"is_slot_disabled",
		"is_indoor_disabled",
		"is_outdoor_disabled",
		"created_at",
		"updated_at",
	).
		From("slot_overrides").
		Where(squirrel.Eq{"slot_id": slotID, "override_date": domain.DateOnly(date)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOverride - build select query: %v", ErrBuildQuery, err)
	}

	var override domain.SlotOverride
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&override.ID,
		&override.SlotID,
		&override.Date,
		&override.IsSlotDisabled,
		&override.IsIndoorDisabled,
		&override.IsOutdoorDisabled,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverride - scan override: %v", ErrScanRow, err)
	}

	override.CreatedAt = createdAt.Time
	override.UpdatedAt = updatedAt.Time

	return &override, nil
}

// UpsertOverride создает или обновляет переопределение доступности по ключу (slot_id, date)
func (r *Repository) UpsertOverride(ctx context.Context, override *domain.SlotOverride) (*domain.SlotOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_overrides").
		Columns(
			"slot_id",
			"override_date",
			"is_slot_disabled",
			"is_indoor_disabled",
			"is_outdoor_disabled",
		).
		Values(
			override.SlotID,
			domain.DateOnly(override.Date),
			override.IsSlotDisabled,
			override.IsIndoorDisabled,
			override.IsOutdoorDisabled,
		).
		Suffix(`ON CONFLICT (slot_id, override_date) DO UPDATE SET
			is_slot_disabled = EXCLUDED.is_slot_disabled,
			is_indoor_disabled = EXCLUDED.is_indoor_disabled,
			is_outdoor_disabled = EXCLUDED.is_outdoor_disabled,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&override.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - execute upsert: %v", ErrExecQuery, err)
	}

	override.CreatedAt = createdAt.Time
	override.UpdatedAt = updatedAt.Time

	return override, nil
}

// scanSlotRow сканирует одну строку слота
func scanSlotRow(row *sql.Row) (*domain.Slot, error) {
	var slot domain.Slot
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.RestaurantID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.DayOfWeek,
		&slot.SpecificDate,
		&slot.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)

	for rows.Next() {
		var slot domain.Slot
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&slot.ID,
			&slot.RestaurantID,
			&slot.StartTime,
			&slot.EndTime,
			&slot.DayOfWeek,
			&slot.SpecificDate,
			&slot.IsActive,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}

		slot.CreatedAt = createdAt.Time
		slot.UpdatedAt = updatedAt.Time

		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
