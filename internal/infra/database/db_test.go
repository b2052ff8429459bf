package database

import (
	"context"
	"errors"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestSupabaseDSNInjectsKey(t *testing.T) {
	dsn, err := SupabaseDSN("postgres://postgres@db.abc.supabase.co:5432/postgres", "s3cr/et")
	require.NoError(t, err)

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	pw, ok := u.User.Password()
	assert.True(t, ok)
	assert.Equal(t, "s3cr/et", pw)
	assert.Equal(t, "postgres", u.User.Username())
	assert.Equal(t, "require", u.Query().Get("sslmode"))
}

func TestSupabaseDSNKeepsExplicitPassword(t *testing.T) {
	dsn, err := SupabaseDSN("postgresql://app:pw@localhost:5432/db?sslmode=disable", "ignored")
	require.NoError(t, err)

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	pw, _ := u.User.Password()
	assert.Equal(t, "pw", pw)
	assert.Equal(t, "app", u.User.Username())
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
}

func TestSupabaseDSNWithoutUser(t *testing.T) {
	dsn, err := SupabaseDSN("postgres://localhost/db", "key")
	require.NoError(t, err)
	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.User.Username())
}

func TestSupabaseDSNRejectsHTTP(t *testing.T) {
	_, err := SupabaseDSN("https://abc.supabase.co", "key")
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	dup := classify("insert", &pq.Error{Code: codeUniqueViolation, Message: "duplicate key value"})
	assert.ErrorIs(t, dup, ErrDuplicateKey)

	fk := classify("insert", &pq.Error{Code: codeForeignKeyViolation, Message: "violates foreign key"})
	assert.ErrorIs(t, fk, ErrInvalidInput)
	assert.Contains(t, fk.Error(), "violates foreign key")

	other := errors.New("connection reset")
	wrapped := classify("select", other)
	assert.ErrorIs(t, wrapped, other)
	assert.NotErrorIs(t, wrapped, ErrDuplicateKey)
}

func TestWaitReadyRetriesThenSucceeds(t *testing.T) {
	calls := 0
	err := waitReady(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("down")
		}
		return nil
	}, 3, time.Millisecond, quietLog())
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWaitReadyGivesUp(t *testing.T) {
	calls := 0
	err := waitReady(context.Background(), func(context.Context) error {
		calls++
		return errors.New("down")
	}, 3, time.Millisecond, quietLog())
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "after 3 attempts")
}
