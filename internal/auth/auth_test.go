package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestIssuerRoundTrip(t *testing.T) {
	iss := NewIssuer("s3cret", time.Hour)
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	iss.now = func() time.Time { return now }

	tok, exp, err := iss.Issue(AdminSubject)
	require.NoError(t, err)
	require.Equal(t, now.Add(time.Hour), exp)

	sub, err := iss.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, AdminSubject, sub)
}

func TestIssuerRejects(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	iss := NewIssuer("s3cret", time.Minute)
	iss.now = func() time.Time { return now }
	tok, _, err := iss.Issue(AdminSubject)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		late := NewIssuer("s3cret", time.Minute)
		late.now = func() time.Time { return now.Add(2 * time.Minute) }
		_, err := late.Verify(tok)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewIssuer("different", time.Minute)
		other.now = iss.now
		_, err := other.Verify(tok)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := iss.Verify("not.a.token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestKeyChecker(t *testing.T) {
	k, err := NewKeyChecker("cafeteria123")
	require.NoError(t, err)
	require.True(t, k.Check("cafeteria123"))
	require.False(t, k.Check("cafeteria124"))
	require.False(t, k.Check(""))

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	fromHash, err := NewKeyChecker(string(hash))
	require.NoError(t, err)
	require.True(t, fromHash.Check("hunter2"))

	_, err = NewKeyChecker("")
	require.Error(t, err)
}
