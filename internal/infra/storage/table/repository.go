package table

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	"github.com/m04kA/RST-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/RST-ReservationService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

var tableColumns = []string{
	"id",
	"restaurant_id",
	"table_number",
	"capacity",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со столами ресторана
// CRUD столов принадлежит внешнему контуру, движок бронирования читает их как есть
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория столов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает стол по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Table, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(tableColumns...).
		From("restaurant_tables").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var table domain.Table
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&table.ID,
		&table.RestaurantID,
		&table.TableNumber,
		&table.Capacity,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan table: %v", ErrScanRow, err)
	}

	table.CreatedAt = createdAt.Time
	table.UpdatedAt = updatedAt.Time

	return &table, nil
}

// GetByIDs получает столы по списку ID
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Table, error) {
	if len(ids) == 0 {
		return []*domain.Table{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(tableColumns...).
		From("restaurant_tables").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("table_number ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanTables(rows)
}

// ListByRestaurant получает все столы ресторана
func (r *Repository) ListByRestaurant(ctx context.Context, restaurantID int64) ([]*domain.Table, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(tableColumns...).
		From("restaurant_tables").
		Where(squirrel.Eq{"restaurant_id": restaurantID}).
		OrderBy("table_number ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByRestaurant - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByRestaurant - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanTables(rows)
}

// CountByRestaurant возвращает количество столов ресторана
func (r *Repository) CountByRestaurant(ctx context.Context, restaurantID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("restaurant_tables").
		Where(squirrel.Eq{"restaurant_id": restaurantID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountByRestaurant - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByRestaurant - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// scanTables сканирует результаты запроса в слайс столов
func scanTables(rows *sql.Rows) ([]*domain.Table, error) {
	tables := make([]*domain.Table, 0)

	for rows.Next() {
		var table domain.Table
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&table.ID,
			&table.RestaurantID,
			&table.TableNumber,
			&table.Capacity,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanTables - scan row: %v", ErrScanRow, err)
		}

		table.CreatedAt = createdAt.Time
		table.UpdatedAt = updatedAt.Time

		tables = append(tables, &table)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanTables - rows error: %v", ErrScanRow, err)
	}

	return tables, nil
}
