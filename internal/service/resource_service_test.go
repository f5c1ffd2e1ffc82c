package service

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
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

func newStudentService(t *testing.T, b *testutil.Backend) ResourceService[model.Student] {
	client := newClient(t, b, "tok")
	return NewResourceService[model.Student]("student", repository.NewResourceRepository[model.Student](client, "/admin/students"), form.Student)
}

func TestResourceService_CreateValidatesBeforeNetwork(t *testing.T) {
	b := testutil.NewBackend(t)
	svc := newStudentService(t, b)

	_, err := svc.Create(context.Background(), map[string]string{"name": "Ada"})
	require.Error(t, err)
	assert.True(t, core.IsValidation(err))
	assert.Equal(t, "Email is required", core.Notice(err, ""))
	assert.Zero(t, b.CallCount())
}

func TestResourceService_Create(t *testing.T) {
	b := testutil.NewBackend(t)
	var got map[string]interface{}
	b.Router.POST("/v1/admin/students", func(c *gin.Context) {
		_ = c.ShouldBindJSON(&got)
		c.JSON(http.StatusCreated, gin.H{"data": gin.H{"id": "st-1", "name": got["name"], "email": got["email"], "class": got["class"]}})
	})
	svc := newStudentService(t, b)

	st, err := svc.Create(context.Background(), map[string]string{
		"name": "Ada", "email": "ada@example.com", "class": "5A", "dateOfBirth": "2014-12-10",
	})
	require.NoError(t, err)
	assert.Equal(t, "st-1", st.ID)
	assert.Equal(t, "2014-12-10", got["dateOfBirth"])
}

func TestResourceService_CreateWithAvatarIsMultipart(t *testing.T) {
	b := testutil.NewBackend(t)
	var name, avatar string
	b.Router.POST("/v1/admin/students", func(c *gin.Context) {
		name = c.PostForm("name")
		if fh, err := c.FormFile("avatar"); err == nil {
			avatar = fh.Filename
		}
		c.JSON(http.StatusCreated, gin.H{"data": gin.H{"id": "st-2"}})
	})
	png := filepath.Join(t.TempDir(), "ada.png")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o600))
	svc := newStudentService(t, b)

	_, err := svc.Create(context.Background(), map[string]string{
		"name": "Ada", "email": "ada@example.com", "class": "5A", "avatar": png,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", name)
	assert.Equal(t, "ada.png", avatar)
}

func TestResourceService_Notices(t *testing.T) {
	b := testutil.NewBackend(t)
	b.Router.PUT("/v1/admin/students/:id", func(c *gin.Context) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": []gin.H{{"field": "email", "msg": "already taken"}}})
	})
	b.Router.DELETE("/v1/admin/students/:id", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})
	b.Router.GET("/v1/admin/students/:id", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Student not found"})
	})
	svc := newStudentService(t, b)
	ctx := context.Background()

	_, err := svc.Update(ctx, "st-1", map[string]string{"email": "bob@example.com"})
	assert.Equal(t, "email: already taken", core.Notice(err, ""))

	err = svc.Delete(ctx, "st-1")
	assert.Equal(t, "Failed to delete student", core.Notice(err, ""))

	_, err = svc.Get(ctx, "st-9")
	assert.Equal(t, "Student not found", core.Notice(err, ""))

	_, err = svc.Get(ctx, "")
	assert.True(t, core.IsValidation(err))
}

func TestResourceService_UpdateIsPartial(t *testing.T) {
	b := testutil.NewBackend(t)
	var got map[string]interface{}
	b.Router.PUT("/v1/admin/students/:id", func(c *gin.Context) {
		_ = c.ShouldBindJSON(&got)
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": c.Param("id"), "status": got["status"]}})
	})
	svc := newStudentService(t, b)

	st, err := svc.Update(context.Background(), "st-1", map[string]string{"status": "Inactive"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"status": "inactive"}, got)
	assert.Equal(t, "inactive", st.Status)
}
