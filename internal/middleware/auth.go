package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/timetracking-api/internal/domain"
	"github.com/timetracking-api/internal/repository"
	"github.com/timetracking-api/pkg/token"
)

type contextKey string

const personContextKey contextKey = "person"

// Auth middleware проверяет Bearer токен и один раз на запрос загружает
// сотрудника с его группами ролей. Актор кладётся в контекст запроса.
func Auth(tokens *token.Manager, persons repository.PersonRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, `{"error":"authorization required"}`, http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Validate(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
				return
			}

			person, err := persons.GetByID(r.Context(), claims.PersonID)
			if err != nil {
				if err != domain.ErrPersonNotFound {
					logger.Error("failed to load person for token", slog.Any("error", err))
				}
				http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
				return
			}

			if !person.Active {
				http.Error(w, `{"error":"account is deactivated"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), personContextKey, person)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PersonFromContext возвращает аутентифицированного актора запроса
func PersonFromContext(ctx context.Context) (*domain.Person, bool) {
	person, ok := ctx.Value(personContextKey).(*domain.Person)
	return person, ok
}
