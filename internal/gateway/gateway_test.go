package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/devboard/devboard/internal/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestGithubTokenHeader_OverwritesClientValue(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("X-Github-Token", "smuggled")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	h := GithubTokenHeader("edge-token")(func(c echo.Context) error {
		seen = c.Request().Header.Get("X-Github-Token")
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	require.Equal(t, "edge-token", seen)
}

func TestValidate(t *testing.T) {
	codec, err := auth.NewCodec(testSecret)
	require.NoError(t, err)

	good, err := codec.Encode("a@b.c", 1, "a", time.Hour)
	require.NoError(t, err)

	expiredCodec, err := auth.NewCodecAt(testSecret, func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	})
	require.NoError(t, err)
	expired, err := expiredCodec.Encode("a@b.c", 1, "a", time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"valid token", "Bearer " + good, `{"valid":true}`},
		{"expired token", "Bearer " + expired, `{"valid":false}`},
		{"garbage", "Bearer junk", `{"valid":false}`},
		{"no header", "", `{"valid":false}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/auth/validate", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, Validate(codec)(c))
			require.Equal(t, http.StatusOK, rec.Code, "validate always answers 200")
			require.JSONEq(t, tc.want, rec.Body.String())
		})
	}
}
