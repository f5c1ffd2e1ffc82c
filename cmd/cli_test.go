package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lshigami/acebrainiac/internal/controller"
	"github.com/lshigami/acebrainiac/internal/controller/admin"
	"github.com/lshigami/acebrainiac/internal/core"
	"github.com/lshigami/acebrainiac/internal/listing"
	"github.com/lshigami/acebrainiac/internal/repository"
	"github.com/lshigami/acebrainiac/internal/service"
	"github.com/lshigami/acebrainiac/internal/session"
	"github.com/lshigami/acebrainiac/internal/testutil"
	"github.com/lshigami/acebrainiac/internal/transport"
)

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    string
}

func setup(t *testing.T) (*commandLine, *testutil.Backend, *bytes.Buffer) {
	t.Helper()
	b := testutil.NewBackend(t)
	sess, err := session.New(&session.MemoryStore{})
	require.NoError(t, err)
	require.NoError(t, sess.SetToken("tok"))

	cfg := b.Config()
	client := transport.NewClient(cfg, sess)
	lists := controller.NewAllLists(client, cfg)
	t.Cleanup(lists.Close)
	testRepo := repository.NewTestRepository(client)

	cli := newCommandLine(
		sess,
		service.NewAuthService(client),
		service.NewDashboardService(client),
		service.NewTestService(testRepo),
		testRepo,
		service.NewTicketService(client),
		lists,
		NewResources(client),
		admin.NewTempStager(t.TempDir()),
	)
	out := &bytes.Buffer{}
	cli.out = out
	return cli, b, out
}

func runTests(t *testing.T, cli *commandLine, out *bytes.Buffer, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(context.Background(), append([]string{"aceadmin"}, tt.args...))
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.Contains(t, core.Notice(err, err.Error()), tt.wantErrStr)
			default:
				require.NoError(t, err)
			}
			if tt.wantOut != "" {
				assert.Contains(t, out.String(), tt.wantOut)
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli, b, out := setup(t)

	runTests(t, cli, out, []cliTest{
		{name: "no command", args: nil, wantErr: errHelp, wantOut: "Usage:"},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "list without entity", args: []string{"list"}, wantErr: errHelp},
		{name: "test without subcommand", args: []string{"test"}, wantErr: errHelp},
		{name: "test push without file", args: []string{"test", "push"}, wantErr: errHelp},
		{name: "test rm-question without ids", args: []string{"test", "rm-question", "-id", "x"}, wantErr: errHelp},
		{name: "ticket without reply", args: []string{"ticket"}, wantErr: errHelp},
		{name: "login without email", args: []string{"login"}, wantErr: errHelp},
		{name: "unknown list", args: []string{"list", "parents"}, wantErrStr: `unknown list "parents"`},
		{name: "unknown entity", args: []string{"get", "parents", "1"}, wantErrStr: `unknown entity "parents"`},
		{name: "get without id", args: []string{"get", "students"}, wantErrStr: "get needs a record id"},
		{name: "bad key value", args: []string{"create", "students", "name"}, wantErrStr: `expected key=value, got "name"`},
		{name: "tests are pushed", args: []string{"create", "tests", "title=x"}, wantErrStr: "test push"},
	})
	assert.Zero(t, b.CallCount())
}

func Test_commandLine_login(t *testing.T) {
	cli, b, out := setup(t)
	require.NoError(t, cli.session.Logout())
	b.Router.POST("/v1/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"token": "fresh", "user": gin.H{"name": "Staff", "email": "staff@example.com"}}})
	})

	orig := readPasswordFunc
	defer func() { readPasswordFunc = orig }()
	readPasswordFunc = func(int) ([]byte, error) { return []byte("s3cret"), nil }

	runTests(t, cli, out, []cliTest{
		{name: "prompts and stores token", args: []string{"login", "-email", "staff@example.com"}, wantOut: "Logged in as Staff <staff@example.com>."},
	})
	assert.Equal(t, "fresh", cli.session.Token())

	readPasswordFunc = func(int) ([]byte, error) { return nil, nil }
	runTests(t, cli, out, []cliTest{
		{name: "empty password", args: []string{"login", "-email", "staff@example.com"}, wantErr: errHelp},
	})
	assert.Len(t, b.Calls(http.MethodPost, "/v1/auth/login"), 1)
}

func Test_commandLine_list(t *testing.T) {
	cli, b, out := setup(t)
	b.Router.GET("/v1/admin/students", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"data":  []gin.H{{"id": "s-" + c.Query("page"), "name": "Ada", "status": c.Query("status")}},
			"count": 20,
		}})
	})

	runTests(t, cli, out, []cliTest{
		{name: "filtered second page", args: []string{"list", "students", "-status", "active", "-page", "2"}, wantOut: "Page 2 of 4 (20 students)"},
		{name: "page past the end", args: []string{"list", "students", "-page", "5"}, wantErr: listing.ErrPageOutOfRange},
		{name: "filter the entity lacks", args: []string{"list", "students", "-subject", "maths"}, wantErrStr: "flag provided but not defined"},
	})

	calls := b.Calls(http.MethodGet, "/v1/admin/students")
	require.NotEmpty(t, calls)
	var sawPage2 bool
	for _, c := range calls {
		if c.Query["page"][0] == "2" {
			sawPage2 = true
			assert.Equal(t, "active", c.Query["status"][0])
		}
	}
	assert.True(t, sawPage2)
}

func Test_commandLine_listError(t *testing.T) {
	cli, b, out := setup(t)
	b.Router.GET("/v1/admin/schools", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{})
	})

	runTests(t, cli, out, []cliTest{
		{name: "fallback message", args: []string{"list", "schools"}, wantErrStr: "Failed to fetch schools"},
	})
}

func Test_commandLine_crud(t *testing.T) {
	cli, b, out := setup(t)
	b.Router.GET("/v1/admin/schools/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": c.Param("id"), "name": "Hillside"}})
	})
	b.Router.POST("/v1/admin/classes", func(c *gin.Context) {
		var in map[string]interface{}
		_ = c.ShouldBindJSON(&in)
		in["id"] = "c-1"
		c.JSON(http.StatusCreated, gin.H{"data": in})
	})
	b.Router.DELETE("/v1/admin/memberships/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	runTests(t, cli, out, []cliTest{
		{name: "get", args: []string{"get", "schools", "sc-1"}, wantOut: `"name": "Hillside"`},
		{name: "create", args: []string{"create", "classes", "name=5A", "grade=5"}, wantOut: `"id": "c-1"`},
		{name: "create invalid", args: []string{"create", "classes", "name=5A", "grade=13"}, wantErrStr: "Grade"},
		{name: "delete", args: []string{"delete", "memberships", "m-1"}, wantOut: "Deleted memberships m-1."},
	})
	assert.Len(t, b.Calls(http.MethodPost, "/v1/admin/classes"), 1)
}

func Test_commandLine_ticketReply(t *testing.T) {
	cli, b, out := setup(t)
	b.Router.POST("/v1/admin/support-tickets/:id/replies", func(c *gin.Context) {
		var in map[string]string
		_ = c.ShouldBindJSON(&in)
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": c.Param("id"), "status": in["status"]}})
	})

	runTests(t, cli, out, []cliTest{
		{name: "reply and resolve", args: []string{"ticket", "reply", "-id", "t-9", "-message", "Fixed", "-status", "resolved"}, wantOut: "Replied to ticket t-9 (resolved)."},
		{name: "empty message", args: []string{"ticket", "reply", "-id", "t-9"}, wantErrStr: "required"},
	})
	assert.Len(t, b.Calls(http.MethodPost, "/v1/admin/support-tickets/t-9/replies"), 1)
}

func Test_commandLine_testPush(t *testing.T) {
	cli, b, out := setup(t)
	const testID = "3f2504e0-4f89-41d3-9a0c-0305e82c3301"
	b.Router.POST("/v1/admin/tests", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"data": gin.H{"id": testID}})
	})
	b.Router.PUT("/v1/admin/tests/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": testID}})
	})
	b.Router.POST("/v1/admin/tests/:id/questions", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{{"id": "aaaaaaaa-1111-4111-8111-000000000001", "text": "2 + 2?"}}})
	})

	file := filepath.Join(t.TempDir(), "draft.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
title: Sums
subject: Maths
class: 2
questions:
  - text: 2 + 2?
    options:
      - text: "4"
        correct: true
      - text: "5"
`), 0o600))

	runTests(t, cli, out, []cliTest{
		{name: "new test", args: []string{"test", "push", "-file", file}, wantOut: "Saved test " + testID + "."},
		{name: "missing draft", args: []string{"test", "push", "-file", filepath.Join(t.TempDir(), "none.yaml")}, wantErrStr: "none.yaml"},
	})
	assert.Len(t, b.Calls(http.MethodPost, "/v1/admin/tests"), 1)
	assert.Len(t, b.Calls(http.MethodPost, "/v1/admin/tests/"+testID+"/questions"), 1)
}

func Test_commandLine_removeQuestion(t *testing.T) {
	cli, b, out := setup(t)
	const (
		testID = "3f2504e0-4f89-41d3-9a0c-0305e82c3301"
		qID    = "aaaaaaaa-1111-4111-8111-000000000001"
	)
	b.Router.GET("/v1/admin/tests/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"id": testID, "title": "Sums", "subject": "Maths", "class": "2", "status": "DRAFT",
			"questions": []gin.H{{"id": qID, "text": "2 + 2?", "options": []gin.H{{"text": "4", "is_correct": true}, {"text": "5"}}}},
		}})
	})
	b.Router.DELETE("/v1/admin/tests/:id/questions/:qid", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	runTests(t, cli, out, []cliTest{
		{name: "saved question", args: []string{"test", "rm-question", "-id", testID, "-question", qID}, wantOut: "Deleted question " + qID + "."},
		{name: "unknown question", args: []string{"test", "rm-question", "-id", testID, "-question", "nope"}, wantErr: admin.ErrNoSuchQuestion},
	})
	assert.Len(t, b.Calls(http.MethodDelete, "/v1/admin/tests/"+testID+"/questions/"+qID), 1)
}

func Test_commandLine_dashboard(t *testing.T) {
	cli, b, out := setup(t)
	b.Router.GET("/v1/admin/dashboard/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"students": 120, "openTickets": 3}})
	})
	b.Router.GET("/v1/admin/dashboard/revenue", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{{"month": "2026-09", "amount": 1250.5}}})
	})
	b.Router.GET("/v1/admin/dashboard/recent-tickets", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []gin.H{}})
	})

	runTests(t, cli, out, []cliTest{
		{name: "overview", args: []string{"dashboard"}, wantOut: "2026-09  1250.50"},
	})
	assert.Contains(t, out.String(), "Students")
}
