package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lshigami/acebrainiac/internal/core"
	"github.com/lshigami/acebrainiac/internal/form"
	"github.com/lshigami/acebrainiac/internal/model"
	"github.com/lshigami/acebrainiac/internal/repository"
	"github.com/lshigami/acebrainiac/internal/testutil"
)

func TestAuthService_LoginStoresToken(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Router.POST("/v1/auth/login", func(c *gin.Context) {
		var in map[string]string
		_ = c.ShouldBindJSON(&in)
		if in["password"] != "s3cret" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"token": "jwt-token", "user": gin.H{"id": "u-1", "email": in["email"], "role": "admin"}}})
	})
	b.Router.GET("/v1/auth/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": "u-1", "name": "Staff", "role": "admin"}})
	})
	client := newClient(t, b, "")
	svc := NewAuthService(client)
	ctx := context.Background()

	_, err := svc.Login(ctx, "staff@example.com", "wrong")
	assert.Equal(t, "Invalid credentials", core.Notice(err, ""))
	assert.False(t, client.Session().Authenticated())

	user, err := svc.Login(ctx, "staff@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Role)
	assert.Equal(t, "jwt-token", client.Session().Token())

	me, err := svc.Whoami(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Staff", me.Name)
	assert.Equal(t, "Bearer jwt-token", b.Calls(http.MethodGet, "/v1/auth/me")[0].Header.Get("Authorization"))
}

func TestAuthService_LoginValidation(t *testing.T) {
	b := testutil.NewBackend(t)
	svc := NewAuthService(newClient(t, b, ""))

	_, err := svc.Login(context.Background(), "not-an-email", "x")
	assert.True(t, core.IsValidation(err))
	_, err = svc.Login(context.Background(), "a@b.co", "")
	assert.Equal(t, "password is required", core.Notice(err, ""))
	assert.Zero(t, b.CallCount())
}

func TestAuthService_LogoutClearsSessionEvenOnFailure(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Router.POST("/v1/auth/logout", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	client := newClient(t, b, "tok")
	svc := NewAuthService(client)

	require.NoError(t, svc.Logout(context.Background()))
	assert.False(t, client.Session().Authenticated())

	_, err := svc.Whoami(context.Background())
	assert.Equal(t, "Not logged in", core.Notice(err, ""))
}

func TestUnauthorizedExpiresSession(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Router.GET("/v1/admin/schools/:id", func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Token expired"})
	})
	client := newClient(t, b, "tok")
	expired := 0
	client.Session().OnExpire(func() { expired++ })
	svc := NewResourceService[model.School]("school", repository.NewResourceRepository[model.School](client, "/admin/schools"), form.School)

	_, err := svc.Get(context.Background(), "s-1")
	assert.Equal(t, "Token expired", core.Notice(err, ""))
	assert.False(t, client.Session().Authenticated())
	assert.Equal(t, 1, expired)
	assert.Len(t, b.Calls(http.MethodGet, "/v1/admin/schools/s-1"), 1)
}
