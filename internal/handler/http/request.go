package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-engine/internal/domain/shared"
	"github.com/cmlabs-hris/hris-engine/internal/domain/user"
	"github.com/cmlabs-hris/hris-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/i18n"
	"github.com/cmlabs-hris/hris-engine/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

// actorFrom returns the caller placed on the context by middleware.AuthRequired.
func actorFrom(w http.ResponseWriter, r *http.Request) (user.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, i18n.T(r.Context(), "Unauthorized"))
		return user.Actor{}, false
	}
	return actor, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.DebugContext(r.Context(), "request decode error", "path", r.URL.Path, "error", err)
		response.BadRequest(w, i18n.T(r.Context(), "BadRequest"), nil)
		return false
	}
	return true
}

func paginationFrom(r *http.Request) shared.Pagination {
	p := shared.Pagination{}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && page > 0 {
		p.Page = page
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		p.Limit = limit
	}
	return p.Normalize()
}

func pageMeta(p shared.Pagination, total int64) *response.Meta {
	return &response.Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		TotalItems: total,
		TotalPages: p.TotalPages(total),
	}
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validator.Field(key, "must be a whole number")
	}
	return n, nil
}

// dateRange reads from/to as YYYY-MM-DD in loc. Both ends are inclusive
// days, so the returned To is midnight after the last day.
func dateRange(r *http.Request, loc *time.Location) (from, to time.Time, err error) {
	q := r.URL.Query()
	if raw := q.Get("from"); raw != "" {
		from, err = time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			return time.Time{}, time.Time{}, validator.Field("from", "must match format "+dateLayout)
		}
	}
	if raw := q.Get("to"); raw != "" {
		to, err = time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			return time.Time{}, time.Time{}, validator.Field("to", "must match format "+dateLayout)
		}
		to = to.AddDate(0, 0, 1)
	}
	return from, to, nil
}

// scopeEmployee resolves which employee a read targets. Callers without
// viewAll are pinned to their own profile.
func scopeEmployee(actor user.Actor, requested string, viewAll user.Permission) (string, error) {
	if actor.Can(viewAll) {
		return requested, nil
	}
	if actor.EmployeeID == "" {
		return "", user.ErrEmployeeIDRequired
	}
	if requested != "" && requested != actor.EmployeeID {
		return "", user.ErrInsufficientPermissions
	}
	return actor.EmployeeID, nil
}

// canView reports whether actor may read a record owned by employeeID.
func canView(actor user.Actor, employeeID string, viewAll user.Permission) bool {
	return actor.Can(viewAll) || (actor.EmployeeID != "" && actor.EmployeeID == employeeID)
}
