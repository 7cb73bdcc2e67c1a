package composables

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	cases := []struct {
		name   string
		url    string
		page   int
		limit  int
		offset int
	}{
		{"defaults", "/api/login-audits", 1, 25, 0},
		{"explicit", "/api/login-audits?page=3&pageSize=50", 3, 50, 100},
		{"clamped high", "/api/login-audits?pageSize=1000", 1, 200, 0},
		{"clamped low", "/api/login-audits?pageSize=0", 1, 1, 0},
		{"negative page", "/api/login-audits?page=-2", 1, 25, 0},
		{"garbage", "/api/login-audits?page=x&pageSize=y", 1, 25, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tc.url, nil)
			p := paginate(r, 25, 200)
			require.Equal(t, tc.page, p.Page)
			require.Equal(t, tc.limit, p.Limit)
			require.Equal(t, tc.offset, p.Offset)
		})
	}
}
