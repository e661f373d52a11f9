package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/raylene/casework/internal/api/middleware"
	"github.com/raylene/casework/internal/core/domain"
	"github.com/raylene/casework/internal/core/ports"
)

// principal returns the caller resolved by the LoadPrincipal middleware. A
// missing principal means the route was registered without authentication.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided.")
	}
	return p, nil
}

// actor is the principal plus the request metadata kept in the audit trail.
func actor(c echo.Context) (domain.Actor, error) {
	p, err := principal(c)
	if err != nil {
		return domain.Actor{}, err
	}
	return domain.Actor{
		Principal: p,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}, nil
}

// bind decodes the request into req and validates its tags.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

// pagination reads ?page= and ?limit= (?page_size= is accepted as an alias).
// The service clamps the values.
func pagination(c echo.Context) ports.Pagination {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limitRaw := c.QueryParam("limit")
	if limitRaw == "" {
		limitRaw = c.QueryParam("page_size")
	}
	limit, _ := strconv.Atoi(limitRaw)
	return ports.Pagination{Page: page, Limit: limit}
}

// pageResponse is the envelope of every paginated list.
type pageResponse[T any] struct {
	Count      int64 `json:"count"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
	Results    []T   `json:"results"`
}

func toPage[S, T any](r ports.PageResult[S], mapFn func(S) T) pageResponse[T] {
	out := make([]T, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, mapFn(it))
	}
	return pageResponse[T]{Count: r.Total, Page: r.Page, Limit: r.Limit, TotalPages: r.TotalPages, Results: out}
}

func asIs[T any](v T) T { return v }

type messageResponse struct {
	Message string `json:"message"`
}
