package console

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	mockbackend "github.com/amirhossein-jamali/atm-console/mocks/port/backend"
	mockcore "github.com/amirhossein-jamali/atm-console/mocks/port/core"
)

func storedConfig() []entity.ConfigEntry {
	return []entity.ConfigEntry{
		{Key: entity.ConfigBastionHost, Value: "bastion.example.net"},
		{Key: entity.ConfigBastionPort, Value: "22"},
		{Key: entity.ConfigSSHUsername, Value: "operator"},
		{Key: entity.ConfigSSHPassphrase, Value: "s3cret"},
		{Key: "LEGACY_KEY", Value: "ignored"},
	}
}

func valueOf(entries []entity.ConfigEntry, key string) string {
	for _, e := range entries {
		if e.Key == key {
			return e.Value
		}
	}
	return "<missing>"
}

func TestSettingsEditor_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("Entries follow the managed keys and mask the passphrase", func(t *testing.T) {
		be := mockbackend.NewMockBackend(t)
		be.On("GetConfig", ctx).Return(storedConfig(), nil).Once()
		editor := NewSettingsEditor(be, newTestStore(t), mockcore.NewQuietLogger(t))

		entries, err := editor.Load(ctx)
		require.NoError(t, err)
		require.Len(t, entries, len(entity.ConfigKeys))

		for i, key := range entity.ConfigKeys {
			assert.Equal(t, key, entries[i].Key)
		}
		assert.Equal(t, "bastion.example.net", valueOf(entries, entity.ConfigBastionHost))
		assert.Equal(t, entity.MaskedValue, valueOf(entries, entity.ConfigSSHPassphrase))
		assert.Equal(t, "", valueOf(entries, entity.ConfigTargetHost))
		assert.Equal(t, "<missing>", valueOf(entries, "LEGACY_KEY"))
	})

	t.Run("Backend failure", func(t *testing.T) {
		be := mockbackend.NewMockBackend(t)
		be.On("GetConfig", ctx).Return(nil, errors.New("no such table: config")).Once()
		store := newTestStore(t)
		editor := NewSettingsEditor(be, store, mockcore.NewQuietLogger(t))

		_, err := editor.Load(ctx)
		assert.True(t, errs.IsBackendError(err))
		assert.Len(t, store.Notices(), 1)
	})
}

func TestSettingsEditor_Set(t *testing.T) {
	editor := NewSettingsEditor(mockbackend.NewMockBackend(t), newTestStore(t), mockcore.NewQuietLogger(t))

	require.NoError(t, editor.Set(entity.ConfigTargetHost, "10.0.0.5"))
	assert.Equal(t, "10.0.0.5", valueOf(editor.Entries(), entity.ConfigTargetHost))

	err := editor.Set("DATABASE_URL", "postgres://")
	assert.ErrorIs(t, err, errs.ErrUnknownConfigKey)
}

func TestSettingsEditor_PickFile(t *testing.T) {
	ctx := context.Background()

	t.Run("Picked path is normalized into SSH_KEY", func(t *testing.T) {
		be := mockbackend.NewMockBackend(t)
		be.On("PickFile", ctx).Return(`C:\Users\ops\.ssh\id_ed25519`, true, nil).Once()
		editor := NewSettingsEditor(be, newTestStore(t), mockcore.NewQuietLogger(t))

		path, ok, err := editor.PickFile(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "C:/Users/ops/.ssh/id_ed25519", path)
		assert.Equal(t, path, valueOf(editor.Entries(), entity.ConfigSSHKey))
	})

	t.Run("Cancelled pick changes nothing", func(t *testing.T) {
		be := mockbackend.NewMockBackend(t)
		be.On("PickFile", ctx).Return("", false, nil).Once()
		editor := NewSettingsEditor(be, newTestStore(t), mockcore.NewQuietLogger(t))
		require.NoError(t, editor.Set(entity.ConfigSSHKey, "/keys/old"))

		_, ok, err := editor.PickFile(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "/keys/old", valueOf(editor.Entries(), entity.ConfigSSHKey))
	})
}

func TestSettingsEditor_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("Full set is sent with the real passphrase", func(t *testing.T) {
		be := mockbackend.NewMockBackend(t)
		be.On("GetConfig", ctx).Return(storedConfig(), nil).Once()
		store := newTestStore(t)
		editor := NewSettingsEditor(be, store, mockcore.NewQuietLogger(t))

		_, err := editor.Load(ctx)
		require.NoError(t, err)
		require.NoError(t, editor.Set(entity.ConfigSSHPassphrase, entity.MaskedValue))
		require.NoError(t, editor.Set(entity.ConfigSSHLocalPort, "9010"))

		be.On("SetConfig", ctx, mock.MatchedBy(func(entries []entity.ConfigEntry) bool {
			return len(entries) == len(entity.ConfigKeys) &&
				valueOf(entries, entity.ConfigSSHPassphrase) == "s3cret" &&
				valueOf(entries, entity.ConfigSSHLocalPort) == "9010"
		})).Return(nil).Once()

		require.NoError(t, editor.Submit(ctx))
		assert.Equal(t, []string{SettingsSavedNotice}, noticeTexts(store))
		assert.False(t, store.Busy())
	})

	t.Run("Never loaded editor keeps stored values it did not edit", func(t *testing.T) {
		be := mockbackend.NewMockBackend(t)
		be.On("GetConfig", ctx).Return(storedConfig(), nil).Once()
		editor := NewSettingsEditor(be, newTestStore(t), mockcore.NewQuietLogger(t))

		require.NoError(t, editor.Set(entity.ConfigSSHPassphrase, entity.MaskedValue))
		require.NoError(t, editor.Set(entity.ConfigBastionHost, "10.0.0.5"))

		be.On("SetConfig", ctx, mock.MatchedBy(func(entries []entity.ConfigEntry) bool {
			return len(entries) == len(entity.ConfigKeys) &&
				valueOf(entries, entity.ConfigSSHPassphrase) == "s3cret" &&
				valueOf(entries, entity.ConfigSSHUsername) == "operator" &&
				valueOf(entries, entity.ConfigBastionPort) == "22" &&
				valueOf(entries, entity.ConfigBastionHost) == "10.0.0.5"
		})).Return(nil).Once()

		require.NoError(t, editor.Submit(ctx))
		assert.Equal(t, "operator", valueOf(editor.Entries(), entity.ConfigSSHUsername))
	})

	t.Run("Stored values that cannot be read block the save", func(t *testing.T) {
		be := mockbackend.NewMockBackend(t)
		be.On("GetConfig", ctx).Return(nil, errors.New("database is locked")).Once()
		store := newTestStore(t)
		editor := NewSettingsEditor(be, store, mockcore.NewQuietLogger(t))

		err := editor.Submit(ctx)
		assert.True(t, errs.IsBackendError(err))
		be.AssertNotCalled(t, "SetConfig", mock.Anything, mock.Anything)
		assert.False(t, store.Busy())
	})

	t.Run("Failure is reported", func(t *testing.T) {
		be := mockbackend.NewMockBackend(t)
		be.On("GetConfig", ctx).Return(storedConfig(), nil).Once()
		be.On("SetConfig", ctx, mock.Anything).Return(errors.New("constraint failed")).Once()
		store := newTestStore(t)
		editor := NewSettingsEditor(be, store, mockcore.NewQuietLogger(t))

		err := editor.Submit(ctx)
		assert.True(t, errs.IsBackendError(err))
		assert.Equal(t, []string{"save settings failed: constraint failed"}, noticeTexts(store))
	})

	t.Run("Busy session rejects the submit", func(t *testing.T) {
		be := mockbackend.NewMockBackend(t)
		store := newTestStore(t)
		editor := NewSettingsEditor(be, store, mockcore.NewQuietLogger(t))

		release, err := store.TryBusy("reverse")
		require.NoError(t, err)
		defer release()

		assert.ErrorIs(t, editor.Submit(ctx), errs.ErrBusy)
		be.AssertNotCalled(t, "SetConfig", mock.Anything, mock.Anything)
	})
}
