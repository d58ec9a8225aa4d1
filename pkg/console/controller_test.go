package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitectl/sitectl/pkg/session"
	"github.com/sitectl/sitectl/pkg/site"
)

func newSession(t *testing.T, token string) *session.Session {
	t.Helper()
	sess := session.New(session.NewMemoryStore(token))
	require.NoError(t, sess.Load())
	return sess
}

func TestNew_AuthFromTokenPresence(t *testing.T) {
	assert.False(t, New(newSession(t, "")).Authenticated())

	// any stored token counts, even one the server would reject
	assert.True(t, New(newSession(t, "not-a-real-jwt")).Authenticated())
}

func TestTransitions(t *testing.T) {
	c := New(newSession(t, ""))
	assert.Equal(t, ViewList, c.View())

	c.LoginSucceeded()
	assert.True(t, c.Authenticated())
	assert.Equal(t, ViewList, c.View())

	s := site.Site{ID: "1", Domain: "example.com"}
	c.Edit(s)
	snap := c.Snapshot()
	assert.Equal(t, ViewEdit, snap.View)
	require.NotNil(t, snap.Selected)
	assert.Equal(t, "1", snap.Selected.ID)

	c.Back()
	snap = c.Snapshot()
	assert.Equal(t, ViewList, snap.View)
	assert.Nil(t, snap.Selected)
	assert.Zero(t, snap.RefreshTrigger, "back does not reload")

	c.Edit(s)
	c.Add()
	snap = c.Snapshot()
	assert.Equal(t, ViewAdd, snap.View)
	assert.Nil(t, snap.Selected, "add clears the selection")
}

func TestSaved_IncrementsTrigger(t *testing.T) {
	c := New(newSession(t, "tok"))

	c.Add()
	c.Saved()
	c.Edit(site.Site{ID: "2"})
	c.Saved()

	snap := c.Snapshot()
	assert.Equal(t, ViewList, snap.View)
	assert.Nil(t, snap.Selected)
	assert.Equal(t, 2, snap.RefreshTrigger)
}

func TestLogout_ClearsSession(t *testing.T) {
	store := session.NewMemoryStore("tok")
	sess := session.New(store)
	require.NoError(t, sess.Load())
	c := New(sess)
	c.Edit(site.Site{ID: "1"})

	require.NoError(t, c.Logout())

	assert.False(t, c.Authenticated())
	assert.Equal(t, ViewList, c.View())
	assert.Nil(t, c.Snapshot().Selected)
	assert.Empty(t, sess.Token())
	stored, err := store.Read()
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestReconcile_OnlyOnNavigation(t *testing.T) {
	sess := newSession(t, "tok")
	c := New(sess)
	c.Edit(site.Site{ID: "1"})

	// a 401 elsewhere clears the token; the controller does not notice yet
	require.NoError(t, sess.Clear())
	assert.True(t, c.Authenticated())

	assert.False(t, c.Reconcile())
	assert.False(t, c.Authenticated())
	assert.Equal(t, ViewList, c.View())

	require.NoError(t, sess.SetToken("fresh"))
	assert.True(t, c.Reconcile())
}

func TestViewString(t *testing.T) {
	assert.Equal(t, "list", ViewList.String())
	assert.Equal(t, "edit", ViewEdit.String())
	assert.Equal(t, "add", ViewAdd.String())
}
