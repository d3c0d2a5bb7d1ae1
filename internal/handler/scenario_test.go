package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/devboard/devboard/internal/middleware"
	"github.com/devboard/devboard/internal/model"
)

// Two users register through the real issuer, then the second tries to
// delete the first one's post with their own token. The token travels as an
// Authorization header through the real identity filter, so this covers the
// whole path from issuance to the ownership decision.
func TestScenario_RegisterThenForbiddenDelete(t *testing.T) {
	authH, _, codec := newAuthHandler(t)
	postH, posts, _ := newPostFixture()
	e := echo.New()

	register := func(email, username string) string {
		c, rec := postJSON(e, "/api/auth/register",
			`{"email":"`+email+`","username":"`+username+`","password":"hunter2hunter2"}`)
		require.NoError(t, authH.Register(c))
		require.Equal(t, http.StatusCreated, rec.Code)
		var resp authResp
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Token)
		return *resp.Token
	}
	aliceTok := register("alice@example.com", "alice")
	bobTok := register("bob@example.com", "bob")

	aliceClaims, err := codec.Decode(aliceTok)
	require.NoError(t, err)
	posts.posts[1] = model.Post{ID: 1, ThemeID: 1, AuthorID: aliceClaims.UserID, Title: "t", Content: "c"}

	deleteAs := func(token string) int {
		req := httptest.NewRequest(http.MethodDelete, "/api/posts/1", strings.NewReader(""))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("1")
		require.NoError(t, middleware.Identity(codec)(postH.Delete)(c))
		return rec.Code
	}

	require.Equal(t, http.StatusForbidden, deleteAs(bobTok))
	_, ok := posts.posts[1]
	require.True(t, ok)

	require.Equal(t, http.StatusNoContent, deleteAs(aliceTok))
	require.Empty(t, posts.posts)
}
