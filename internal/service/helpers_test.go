package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lshigami/acebrainiac/internal/session"
	"github.com/lshigami/acebrainiac/internal/testutil"
	"github.com/lshigami/acebrainiac/internal/transport"
)

func newClient(t *testing.T, b *testutil.Backend, token string) *transport.Client {
	t.Helper()
	sess, err := session.New(&session.MemoryStore{})
	require.NoError(t, err)
	if token != "" {
		require.NoError(t, sess.SetToken(token))
	}
	return transport.NewClient(b.Config(), sess)
}
