package masterpass

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harinadareddy11/account-vault/internal/common"
	"github.com/harinadareddy11/account-vault/internal/logging"
)

type memMeta struct {
	m map[string][]byte
}

func newMemMeta() *memMeta { return &memMeta{m: map[string][]byte{}} }

func (s *memMeta) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.m[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}
func (s *memMeta) Set(_ context.Context, key string, value []byte) error {
	s.m[key] = value
	return nil
}
func (s *memMeta) Delete(_ context.Context, key string) error {
	delete(s.m, key)
	return nil
}
func (s *memMeta) List(_ context.Context) (map[string][]byte, error) { return s.m, nil }
func (s *memMeta) Clear(_ context.Context) error {
	s.m = map[string][]byte{}
	return nil
}

type fakeAuth struct {
	calls []string
	err   error
}

func (f *fakeAuth) UpdatePassword(_ context.Context, newPassword string) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, newPassword)
	return nil
}

type fakeRekeyer struct {
	calls [][2]string
	err   error
}

func (f *fakeRekeyer) RekeyAll(_ context.Context, _, oldPw, newPw string) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, [2]string{oldPw, newPw})
	return nil
}

type memEscrow struct {
	m map[string]string
}

func newMemEscrow() *memEscrow { return &memEscrow{m: map[string]string{}} }

func (e *memEscrow) Store(userID, password string) error {
	e.m[userID] = password
	return nil
}
func (e *memEscrow) Retrieve(userID string) (string, error) { return e.m[userID], nil }
func (e *memEscrow) Delete(userID string) error {
	delete(e.m, userID)
	return nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestInitializeAndVerify(t *testing.T) {
	meta := newMemMeta()
	s := New(meta, nil, &fakeRekeyer{}, nil, testLogger())
	ctx := context.Background()

	// nothing set yet: verify must not silently initialize
	err := s.Verify(ctx, "u1", "correcthorse")
	assert.True(t, errors.Is(err, common.ErrMasterPasswordNotSet))

	err = s.Initialize(ctx, "u1", "short")
	assert.True(t, errors.Is(err, common.ErrWeakPassword))

	require.NoError(t, s.Initialize(ctx, "u1", "correcthorse"))

	ok, err := s.IsInitialized(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Verify(ctx, "u1", "correcthorse"))
	assert.True(t, errors.Is(s.Verify(ctx, "u1", "wrong"), common.ErrPasswordMismatch))

	// second Initialize with a different password is a no-op
	require.NoError(t, s.Initialize(ctx, "u1", "something-else"))
	require.NoError(t, s.Verify(ctx, "u1", "correcthorse"))
}

func TestChange_HappyPathOrder(t *testing.T) {
	meta := newMemMeta()
	auth := &fakeAuth{}
	rekeyer := &fakeRekeyer{}
	s := New(meta, auth, rekeyer, nil, testLogger())
	ctx := context.Background()

	require.NoError(t, s.Initialize(ctx, "u1", "correcthorse"))
	require.NoError(t, s.Change(ctx, "u1", "correcthorse", "batterystaple"))

	assert.Equal(t, []string{"batterystaple"}, auth.calls)
	assert.Equal(t, [][2]string{{"correcthorse", "batterystaple"}}, rekeyer.calls)

	require.NoError(t, s.Verify(ctx, "u1", "batterystaple"))
	assert.True(t, errors.Is(s.Verify(ctx, "u1", "correcthorse"), common.ErrPasswordMismatch))
}

func TestChange_Validation(t *testing.T) {
	s := New(newMemMeta(), nil, &fakeRekeyer{}, nil, testLogger())
	ctx := context.Background()

	require.NoError(t, s.Initialize(ctx, "u1", "correcthorse"))

	assert.True(t, errors.Is(s.Change(ctx, "u1", "wrong", "batterystaple"), common.ErrPasswordMismatch))
	assert.True(t, errors.Is(s.Change(ctx, "u1", "correcthorse", "tiny"), common.ErrWeakPassword))
	assert.True(t, errors.Is(s.Change(ctx, "u1", "correcthorse", "correcthorse"), common.ErrPasswordUnchanged))
}

func TestChange_AuthFailureAbortsEverything(t *testing.T) {
	meta := newMemMeta()
	auth := &fakeAuth{err: common.ErrAuth}
	rekeyer := &fakeRekeyer{}
	s := New(meta, auth, rekeyer, nil, testLogger())
	ctx := context.Background()

	require.NoError(t, s.Initialize(ctx, "u1", "correcthorse"))

	err := s.Change(ctx, "u1", "correcthorse", "batterystaple")
	assert.True(t, errors.Is(err, common.ErrAuth))
	assert.Empty(t, rekeyer.calls)
	require.NoError(t, s.Verify(ctx, "u1", "correcthorse"))
}

func TestChange_RekeyFailureKeepsOldHash(t *testing.T) {
	meta := newMemMeta()
	rekeyer := &fakeRekeyer{err: common.ErrDecryptionFailed}
	s := New(meta, nil, rekeyer, nil, testLogger())
	ctx := context.Background()

	require.NoError(t, s.Initialize(ctx, "u1", "correcthorse"))

	err := s.Change(ctx, "u1", "correcthorse", "batterystaple")
	assert.True(t, errors.Is(err, common.ErrDecryptionFailed))

	// local state still points at the old password
	require.NoError(t, s.Verify(ctx, "u1", "correcthorse"))
	assert.True(t, errors.Is(s.Verify(ctx, "u1", "batterystaple"), common.ErrPasswordMismatch))
}

func TestEscrow_UnlockAndStaleness(t *testing.T) {
	meta := newMemMeta()
	escrow := newMemEscrow()
	s := New(meta, nil, &fakeRekeyer{}, escrow, testLogger())
	ctx := context.Background()

	require.NoError(t, s.Initialize(ctx, "u1", "correcthorse"))

	// nothing escrowed yet
	_, err := s.UnlockFromEscrow(ctx, "u1")
	assert.True(t, errors.Is(err, common.ErrNotFound))

	// wrong password cannot be escrowed
	err = s.EnableEscrow(ctx, "u1", "wrong")
	assert.True(t, errors.Is(err, common.ErrPasswordMismatch))

	require.NoError(t, s.EnableEscrow(ctx, "u1", "correcthorse"))
	got, err := s.UnlockFromEscrow(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "correcthorse", got)

	// change the password; the escrowed copy is dropped during Change
	require.NoError(t, s.Change(ctx, "u1", "correcthorse", "batterystaple"))
	_, err = s.UnlockFromEscrow(ctx, "u1")
	assert.True(t, errors.Is(err, common.ErrNotFound))

	// simulate a stale entry surviving a hash change
	escrow.m["u1"] = "correcthorse"
	_, err = s.UnlockFromEscrow(ctx, "u1")
	assert.True(t, errors.Is(err, common.ErrPasswordMismatch))
	assert.Empty(t, escrow.m["u1"])
}

func TestPasswordStrength(t *testing.T) {
	score, feedback := PasswordStrength("Tr0ub4dor&3x")
	assert.Equal(t, 5, score)
	assert.Empty(t, feedback)

	score, feedback = PasswordStrength("abc")
	assert.Equal(t, 1, score)
	assert.Len(t, feedback, 4)
}
