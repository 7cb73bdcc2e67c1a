package composables

import (
	"net/http"
	"strconv"

	"github.com/planora/planora/pkg/configuration"
)

type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// UsePaginated reads page/pageSize from the query string, clamping
// pageSize into [1, MaxPageSize] and page to >= 1.
func UsePaginated(r *http.Request) Pagination {
	conf := configuration.Use()
	return paginate(r, conf.PageSize, conf.MaxPageSize)
}

func paginate(r *http.Request, defaultSize, maxSize int) Pagination {
	q := r.URL.Query()

	page := 1
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 1 {
		page = v
	}

	limit := defaultSize
	if v, err := strconv.Atoi(q.Get("pageSize")); err == nil {
		limit = v
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxSize {
		limit = maxSize
	}

	return Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
