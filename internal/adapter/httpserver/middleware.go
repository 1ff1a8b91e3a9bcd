package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/PurdueHackers/HelloWorldPortal2017/internal/adapter/metrics"
	"github.com/PurdueHackers/HelloWorldPortal2017/internal/domain"
	"github.com/PurdueHackers/HelloWorldPortal2017/internal/platform/correlation"
	apperrors "github.com/PurdueHackers/HelloWorldPortal2017/internal/platform/errors"
)

const principalKey = "principal"

func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := correlation.WithID(c.Request().Context(), correlation.NewID())
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

func ErrorHandlingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			// Echo HTTPErrors (404 route, method not allowed) keep their status.
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				return err
			}

			structuredErr := apperrors.AsStructuredError(err)
			metrics.HTTPErrors.WithLabelValues(string(structuredErr.Type)).Inc()
			logError(c, structuredErr)

			if err := c.JSON(structuredErr.HTTPStatus(), structuredErr.ToResponse()); err != nil {
				return fmt.Errorf("failed to write error response: %w", err)
			}
			return nil
		}
	}
}

func logError(c echo.Context, err *apperrors.Error) {
	attrs := []any{
		"error_type", err.Type,
		"message", err.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"status", err.HTTPStatus(),
	}

	for k, v := range err.Context {
		attrs = append(attrs, k, v)
	}

	if principal, ok := c.Get(principalKey).(domain.Principal); ok {
		attrs = append(attrs, "user_id", principal.ID)
	}

	switch err.Type {
	case apperrors.TypeValidation, apperrors.TypeNotFound, apperrors.TypeUnauthorized:
		slog.Info("Request rejected", attrs...)
	case apperrors.TypeConflict, apperrors.TypeForbidden:
		slog.Warn("Request rejected", attrs...)
	default:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		slog.Error("Request failed", attrs...)
	}
}

// requireAuth resolves the bearer token into a Principal and stores it in
// the request context. Every service call downstream receives the principal
// explicitly; there is no ambient current-user lookup.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		rawToken, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || rawToken == "" {
			return apperrors.UnauthorizedError("missing bearer token")
		}

		userID, err := s.parseToken(rawToken)
		if err != nil {
			return apperrors.UnauthorizedError("invalid token").WithField("reason", err.Error())
		}

		user, roles, err := s.users.GetByID(c.Request().Context(), userID)
		if errors.Is(err, domain.ErrUserNotFound) {
			return apperrors.UnauthorizedError("unknown user")
		}
		if err != nil {
			return apperrors.InternalError("failed to resolve principal", err)
		}

		c.Set(principalKey, domain.Principal{ID: user.ID, Roles: roles})
		return next(c)
	}
}

func (s *Server) parseToken(rawToken string) (uuid.UUID, error) {
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("unexpected claims type")
	}
	rawID, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing user_id claim")
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("malformed user_id claim: %w", err)
	}
	return userID, nil
}

// requireAdmin rejects principals without the admin role. The service layer
// repeats this check so a miswired route can never leak application data.
func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal, ok := c.Get(principalKey).(domain.Principal)
		if !ok {
			return apperrors.UnauthorizedError("missing principal")
		}
		if !principal.IsAdmin() {
			return apperrors.ForbiddenError("admin role required")
		}
		return next(c)
	}
}

func getPrincipal(c echo.Context) (domain.Principal, error) {
	principal, ok := c.Get(principalKey).(domain.Principal)
	if !ok {
		return domain.Principal{}, apperrors.InternalError("no principal in context", nil)
	}
	return principal, nil
}
