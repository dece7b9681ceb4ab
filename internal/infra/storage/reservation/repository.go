package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/RST-ReservationService/pkg/psqlbuilder"
)

// Коды ошибок Postgres, которыми ограничение uq_reservations_live_table
// сообщает о двойном бронировании стола. Exclusion-ограничение отвечает
// кодом 23P01, уникальный индекс - 23505
const (
	uniqueViolationCode    = "23505"
	exclusionViolationCode = "23P01"
)

// liveTableConstraint имя deferrable-ограничения на живые бронирования
const liveTableConstraint = "uq_reservations_live_table"

var reservationColumns = []string{
	"id",
	"restaurant_id",
	"table_id",
	"slot_id",
	"reservation_date",
	"customer_name",
	"customer_phone",
	"adult_count",
	"kids_count",
	"food_preference",
	"special_request",
	"status",
	"group_id",
	"custom_start_time",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// InfoUpdate частичное обновление контактных данных и состава компании гостей
// nil-поля не изменяются
type InfoUpdate struct {
	CustomerName   *string
	CustomerPhone  *string
	AdultCount     *int
	KidsCount      *int
	FoodPreference *string
	SpecialRequest *string
}

// IsEmpty возвращает true, если все поля nil
func (u *InfoUpdate) IsEmpty() bool {
	return u.CustomerName == nil && u.CustomerPhone == nil &&
		u.AdultCount == nil && u.KidsCount == nil &&
		u.FoodPreference == nil && u.SpecialRequest == nil
}

// Repository репозиторий для работы с бронированиями столов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает одно бронирование
// Если в контексте передана активная транзакция, использует её.
// Нарушение ограничения занятости (стол уже занят на этот слот/дату)
// возвращается как ErrTableAlreadyBooked
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"restaurant_id",
			"table_id",
			"slot_id",
			"reservation_date",
			"customer_name",
			"customer_phone",
			"adult_count",
			"kids_count",
			"food_preference",
			"special_request",
			"status",
			"group_id",
			"custom_start_time",
		).
		Values(
			res.RestaurantID,
			res.TableID,
			res.SlotID,
			domain.DateOnly(res.ReservationDate),
			res.CustomerName,
			res.CustomerPhone,
			res.AdultCount,
			res.KidsCount,
			res.FoodPreference,
			res.SpecialRequest,
			res.Status,
			res.GroupID,
			res.CustomStartTime,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrTableAlreadyBooked
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// CreateBatch создает несколько бронирований (строки одной группы столов)
// Вызывать только внутри транзакции - иначе атомарность группы не гарантирована
func (r *Repository) CreateBatch(ctx context.Context, reservations []*domain.Reservation) error {
	for _, res := range reservations {
		if _, err := r.Create(ctx, res); err != nil {
			return err
		}
	}
	return nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := r.scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %v", ErrScanRow, err)
	}

	return res, nil
}

// GetByGroupID получает все строки группы объединённых столов
func (r *Repository) GetByGroupID(ctx context.Context, groupID string) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"group_id": groupID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByGroupID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByGroupID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// GetWithFilter получает бронирования ресторана с гибкой фильтрацией
// Внутри транзакции при фильтре по конкретным дате и слоту добавляется
// FOR UPDATE - это путь проверки конфликтов перед записью
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"restaurant_id": filter.RestaurantID})

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"reservation_date": domain.DateOnly(*filter.Date)})
	}
	if filter.SlotID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"slot_id": *filter.SlotID})
	}
	if filter.TableID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"table_id": *filter.TableID})
	}
	if filter.GroupID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"group_id": *filter.GroupID})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": domain.StatusBooked})
	}

	selectBuilder = selectBuilder.OrderBy("reservation_date ASC, slot_id ASC, table_id ASC")

	if dbmetrics.IsInTransaction(ctx) && filter.Date != nil && filter.SlotID != nil {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// ListDetailsForDay получает живые бронирования ресторана на дату вместе с
// данными стола и слота. Слот может быть удалён - его поля берутся через LEFT JOIN
func (r *Repository) ListDetailsForDay(ctx context.Context, restaurantID int64, date time.Time) ([]*domain.ReservationDetail, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := make([]string, 0, len(reservationColumns)+4)
	for _, c := range reservationColumns {
		columns = append(columns, "r."+c)
	}
	columns = append(columns,
		"t.table_number",
		"t.capacity",
		"s.start_time",
		"s.end_time",
	)

	query, args, err := psqlbuilder.Select(columns...).
		From("reservations r").
		Join("restaurant_tables t ON t.id = r.table_id").
		LeftJoin("slots s ON s.id = r.slot_id").
		Where(squirrel.Eq{
			"r.restaurant_id":    restaurantID,
			"r.reservation_date": domain.DateOnly(date),
			"r.status":           domain.StatusBooked,
		}).
		OrderBy("s.start_time ASC NULLS LAST, r.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListDetailsForDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDetailsForDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	details := make([]*domain.ReservationDetail, 0)
	for rows.Next() {
		var detail domain.ReservationDetail
		var createdAt, updatedAt sql.NullTime
		var slotStart, slotEnd sql.NullString

		err := rows.Scan(
			&detail.ID,
			&detail.RestaurantID,
			&detail.TableID,
			&detail.SlotID,
			&detail.ReservationDate,
			&detail.CustomerName,
			&detail.CustomerPhone,
			&detail.AdultCount,
			&detail.KidsCount,
			&detail.FoodPreference,
			&detail.SpecialRequest,
			&detail.Status,
			&detail.GroupID,
			&detail.CustomStartTime,
			&detail.CancellationReason,
			&detail.CancelledAt,
			&createdAt,
			&updatedAt,
			&detail.TableNumber,
			&detail.TableCapacity,
			&slotStart,
			&slotEnd,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListDetailsForDay - scan row: %v", ErrScanRow, err)
		}

		detail.CreatedAt = createdAt.Time
		detail.UpdatedAt = updatedAt.Time

		if slotStart.Valid {
			if err := detail.SlotStartTime.Scan(slotStart.String); err != nil {
				return nil, fmt.Errorf("%w: ListDetailsForDay - scan slot start: %v", ErrScanRow, err)
			}
		}
		if slotEnd.Valid {
			if err := detail.SlotEndTime.Scan(slotEnd.String); err != nil {
				return nil, fmt.Errorf("%w: ListDetailsForDay - scan slot end: %v", ErrScanRow, err)
			}
		}

		details = append(details, &detail)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListDetailsForDay - rows error: %v", ErrScanRow, err)
	}

	return details, nil
}

// UpdateInfo обновляет контактные данные и состав компании для указанных строк
// Используется для всех строк группы сразу - поля группы идентичны
func (r *Repository) UpdateInfo(ctx context.Context, ids []int64, upd InfoUpdate) error {
	if len(ids) == 0 || upd.IsEmpty() {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("reservations").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids})

	if upd.CustomerName != nil {
		updateBuilder = updateBuilder.Set("customer_name", *upd.CustomerName)
	}
	if upd.CustomerPhone != nil {
		updateBuilder = updateBuilder.Set("customer_phone", *upd.CustomerPhone)
	}
	if upd.AdultCount != nil {
		updateBuilder = updateBuilder.Set("adult_count", *upd.AdultCount)
	}
	if upd.KidsCount != nil {
		updateBuilder = updateBuilder.Set("kids_count", *upd.KidsCount)
	}
	if upd.FoodPreference != nil {
		updateBuilder = updateBuilder.Set("food_preference", *upd.FoodPreference)
	}
	if upd.SpecialRequest != nil {
		updateBuilder = updateBuilder.Set("special_request", *upd.SpecialRequest)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateInfo - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateInfo - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateInfo - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// SetGroupID присваивает идентификатор группы указанным строкам
// Нужен при докупке столов к бронированию, у которого группы ещё не было
func (r *Repository) SetGroupID(ctx context.Context, ids []int64, groupID string) error {
	if len(ids) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("group_id", groupID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetGroupID - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetGroupID - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// UpdateAssignment переносит одну строку бронирования на другой стол/дату/слот
// Вызывать только внутри транзакции переноса - конфликт по целевому столу
// возвращается как ErrTableAlreadyBooked
func (r *Repository) UpdateAssignment(ctx context.Context, id int64, tableID int64, date time.Time, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("table_id", tableID).
		Set("reservation_date", domain.DateOnly(date)).
		Set("slot_id", slotID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateAssignment - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTableAlreadyBooked
		}
		return fmt.Errorf("%w: UpdateAssignment - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateAssignment - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// DeferLiveTableCheck откладывает проверку ограничения на занятость столов
// до конца транзакции. Нужен при переносе группы, когда строки обновляются
// по одной и промежуточные состояния могут пересекаться по столам.
// Вызывать только внутри транзакции
func (r *Repository) DeferLiveTableCheck(ctx context.Context) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx, "SET CONSTRAINTS "+liveTableConstraint+" DEFERRED"); err != nil {
		return fmt.Errorf("%w: DeferLiveTableCheck - set constraints deferred: %v", ErrExecQuery, err)
	}

	return nil
}

// EnforceLiveTableCheck возвращает ограничению немедленный режим и тут же
// проверяет накопленные за время отложенной проверки нарушения.
// Конфликт по столу возвращается как ErrTableAlreadyBooked
func (r *Repository) EnforceLiveTableCheck(ctx context.Context) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx, "SET CONSTRAINTS "+liveTableConstraint+" IMMEDIATE"); err != nil {
		if isUniqueViolation(err) {
			return ErrTableAlreadyBooked
		}
		return fmt.Errorf("%w: EnforceLiveTableCheck - set constraints immediate: %v", ErrExecQuery, err)
	}

	return nil
}

// CancelByIDs отменяет указанные строки бронирования с опциональной причиной
// Обновляются только живые строки - повторная отмена уже отменённых строк
// ничего не меняет
func (r *Repository) CancelByIDs(ctx context.Context, ids []int64, reason *string) error {
	if len(ids) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reservations").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids, "status": domain.StatusBooked}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CancelByIDs - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CancelByIDs - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// scanReservation сканирует одну строку результата
func (r *Repository) scanReservation(row *sql.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.RestaurantID,
		&res.TableID,
		&res.SlotID,
		&res.ReservationDate,
		&res.CustomerName,
		&res.CustomerPhone,
		&res.AdultCount,
		&res.KidsCount,
		&res.FoodPreference,
		&res.SpecialRequest,
		&res.Status,
		&res.GroupID,
		&res.CustomStartTime,
		&res.CancellationReason,
		&res.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

// scanReservations сканирует результаты запроса в слайс бронирований
func (r *Repository) scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		var res domain.Reservation
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&res.ID,
			&res.RestaurantID,
			&res.TableID,
			&res.SlotID,
			&res.ReservationDate,
			&res.CustomerName,
			&res.CustomerPhone,
			&res.AdultCount,
			&res.KidsCount,
			&res.FoodPreference,
			&res.SpecialRequest,
			&res.Status,
			&res.GroupID,
			&res.CustomStartTime,
			&res.CancellationReason,
			&res.CancelledAt,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}

		res.CreatedAt = createdAt.Time
		res.UpdatedAt = updatedAt.Time

		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}

// isUniqueViolation проверяет, что ошибка - нарушение уникальности или
// exclusion-ограничения Postgres
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == uniqueViolationCode || pqErr.Code == exclusionViolationCode
}
