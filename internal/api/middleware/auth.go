package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

// HeaderRestaurantID заголовок аутентификации персонала ресторана
// Проставляется API-шлюзом после проверки токена
const HeaderRestaurantID = "X-Restaurant-ID"

// HeaderStaffRole заголовок роли сотрудника
const HeaderStaffRole = "X-Staff-Role"

// RoleOperator роль, которой разрешено управлять ограничениями слотов
const RoleOperator = "operator"

type contextKey string

const restaurantIDKey contextKey = "restaurantID"

// Auth проверяет наличие X-Restaurant-ID и кладёт его в контекст запроса
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderRestaurantID)
		if raw == "" {
			respondError(w, http.StatusUnauthorized, "отсутствует заголовок X-Restaurant-ID")
			return
		}

		restaurantID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || restaurantID <= 0 {
			respondError(w, http.StatusUnauthorized, "некорректный заголовок X-Restaurant-ID")
			return
		}

		ctx := context.WithValue(r.Context(), restaurantIDKey, restaurantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireOperator пропускает только запросы с ролью operator
// Навешивается поверх Auth
func RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(HeaderStaffRole) != RoleOperator {
			respondError(w, http.StatusForbidden, "операция доступна только оператору")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetRestaurantID извлекает ID ресторана из контекста запроса
func GetRestaurantID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(restaurantIDKey).(int64)
	return id, ok
}

func respondError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
