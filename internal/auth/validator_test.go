package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/2beens/neuralspace/internal/apierr"
	"github.com/2beens/neuralspace/internal/auth"
)

func requireUnauthenticated(t *testing.T, err error, expectedMessage string) {
	t.Helper()
	require.Error(t, err)
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierr.KindUnauthenticated, apiErr.Kind)
	assert.Equal(t, expectedMessage, apiErr.Message)
}

func TestValidator_Validate(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	validSession := &auth.Session{ID: 1, AdminID: 7, Token: "valid-token", ExpiresAt: now.Add(time.Hour)}
	expiredSession := &auth.Session{ID: 2, AdminID: 7, Token: "expired-token", ExpiresAt: now.Add(-time.Minute)}

	testCases := map[string]struct {
		token           string
		setupMocks      func(sessions *MockSessionStore, admins *MockAdminStore)
		expectedMessage string
	}{
		"no token": {
			token:           "",
			setupMocks:      func(*MockSessionStore, *MockAdminStore) {},
			expectedMessage: auth.MsgNotAuthenticated,
		},
		"token not found": {
			token: "unknown-token",
			setupMocks: func(sessions *MockSessionStore, _ *MockAdminStore) {
				sessions.EXPECT().FindByToken(gomock.Any(), "unknown-token").Return(nil, auth.ErrSessionNotFound)
			},
			expectedMessage: auth.MsgInvalidSession,
		},
		"expired session is deleted": {
			token: "expired-token",
			setupMocks: func(sessions *MockSessionStore, _ *MockAdminStore) {
				sessions.EXPECT().FindByToken(gomock.Any(), "expired-token").Return(expiredSession, nil)
				sessions.EXPECT().Delete(gomock.Any(), "expired-token").Return(nil).Times(1)
			},
			expectedMessage: auth.MsgSessionExpired,
		},
		"expired session delete failure still expired": {
			token: "expired-token",
			setupMocks: func(sessions *MockSessionStore, _ *MockAdminStore) {
				sessions.EXPECT().FindByToken(gomock.Any(), "expired-token").Return(expiredSession, nil)
				sessions.EXPECT().Delete(gomock.Any(), "expired-token").Return(errors.New("db down"))
			},
			expectedMessage: auth.MsgSessionExpired,
		},
		"admin gone": {
			token: "valid-token",
			setupMocks: func(sessions *MockSessionStore, admins *MockAdminStore) {
				sessions.EXPECT().FindByToken(gomock.Any(), "valid-token").Return(validSession, nil)
				admins.EXPECT().FindByID(gomock.Any(), 7).Return(nil, auth.ErrAdminNotFound)
			},
			expectedMessage: auth.MsgUserNotFound,
		},
		"session lookup failure": {
			token: "valid-token",
			setupMocks: func(sessions *MockSessionStore, _ *MockAdminStore) {
				sessions.EXPECT().FindByToken(gomock.Any(), "valid-token").Return(nil, errors.New("connection reset"))
			},
			expectedMessage: auth.MsgAuthFailed,
		},
		"admin lookup failure": {
			token: "valid-token",
			setupMocks: func(sessions *MockSessionStore, admins *MockAdminStore) {
				sessions.EXPECT().FindByToken(gomock.Any(), "valid-token").Return(validSession, nil)
				admins.EXPECT().FindByID(gomock.Any(), 7).Return(nil, errors.New("timeout"))
			},
			expectedMessage: auth.MsgAuthFailed,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			sessions := NewMockSessionStore(ctrl)
			admins := NewMockAdminStore(ctrl)
			tc.setupMocks(sessions, admins)

			v := auth.NewValidator(sessions, admins)
			v.Now = func() time.Time { return now }

			found, err := v.Validate(context.Background(), tc.token)
			assert.Nil(t, found)
			requireUnauthenticated(t, err, tc.expectedMessage)
		})
	}
}

func TestValidator_Validate_Authenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := NewMockSessionStore(ctrl)
	admins := NewMockAdminStore(ctrl)

	now := time.Now().UTC()
	sessions.EXPECT().
		FindByToken(gomock.Any(), "valid-token").
		Return(&auth.Session{AdminID: 7, Token: "valid-token", ExpiresAt: now.Add(time.Hour)}, nil)
	admins.EXPECT().
		FindByID(gomock.Any(), 7).
		Return(&auth.Admin{ID: 7, Username: "satyam"}, nil)

	v := auth.NewValidator(sessions, admins)
	v.Now = func() time.Time { return now }

	admin, err := v.Validate(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.Equal(t, "satyam", admin.Username)
}

func TestValidator_ExpiryBoundary(t *testing.T) {
	store := auth.NewTestStore()
	admin := &auth.Admin{Username: "satyam", PasswordHash: "x"}
	require.NoError(t, store.CreateAdmin(context.Background(), admin))

	expiresAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.AddSession(&auth.Session{AdminID: admin.ID, Token: "boundary", ExpiresAt: expiresAt})

	v := auth.NewValidator(store, store)

	// stable across repeated checks
	for i := 0; i < 3; i++ {
		v.Now = func() time.Time { return expiresAt }
		found, err := v.Validate(context.Background(), "boundary")
		require.NoError(t, err)
		assert.Equal(t, admin.ID, found.ID)
	}

	v.Now = func() time.Time { return expiresAt.Add(time.Nanosecond) }
	_, err := v.Validate(context.Background(), "boundary")
	requireUnauthenticated(t, err, auth.MsgSessionExpired)
	assert.Zero(t, store.SessionsCount())

	// lazily removed, so now unknown
	_, err = v.Validate(context.Background(), "boundary")
	requireUnauthenticated(t, err, auth.MsgInvalidSession)
}

func TestValidator_AdminDeletedCascadesSessions(t *testing.T) {
	store := auth.NewTestStore()
	admin := &auth.Admin{Username: "satyam", PasswordHash: "x"}
	require.NoError(t, store.CreateAdmin(context.Background(), admin))
	store.AddSession(&auth.Session{AdminID: admin.ID, Token: "t1", ExpiresAt: time.Now().Add(time.Hour)})

	store.DeleteAdmin(admin.ID)

	_, err := auth.NewValidator(store, store).Validate(context.Background(), "t1")
	requireUnauthenticated(t, err, auth.MsgInvalidSession)
}
