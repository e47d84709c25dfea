package console

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/backend"
	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/atm-console/internal/domain/usecase/session"
)

// SettingsSavedNotice is posted after the configuration was stored
const SettingsSavedNotice = "Settings have been saved."

// SettingsEditor edits the managed configuration as one set
type SettingsEditor struct {
	backend backend.Backend
	store   *session.Store
	logger  coreport.Logger

	mu     sync.RWMutex
	values map[string]string
	edited map[string]bool
	loaded bool
}

// NewSettingsEditor creates an editor with every managed key empty
func NewSettingsEditor(backend backend.Backend, store *session.Store, logger coreport.Logger) usecase.SettingsUseCase {
	values := make(map[string]string, len(entity.ConfigKeys))
	for _, key := range entity.ConfigKeys {
		values[key] = ""
	}
	return &SettingsEditor{
		backend: backend,
		store:   store,
		logger:  logger,
		values:  values,
		edited:  make(map[string]bool),
	}
}

// Load replaces the edited values with the stored configuration
func (e *SettingsEditor) Load(ctx context.Context) ([]entity.ConfigEntry, error) {
	stored, err := e.fetch(ctx, "load settings")
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	for key, value := range stored {
		e.values[key] = value
	}
	e.edited = make(map[string]bool)
	e.loaded = true
	e.mu.Unlock()

	return e.Entries(), nil
}

// fetch reads the stored values of the managed keys
func (e *SettingsEditor) fetch(ctx context.Context, op string) (map[string]string, error) {
	entries, err := e.backend.GetConfig(ctx)
	if err != nil {
		err = errs.NewBackendError(op, err)
		e.logger.Error("Failed to load settings", map[string]any{
			"error": err.Error(),
		})
		e.store.Notify(session.NoticeError, err.Error())
		return nil, err
	}

	stored := make(map[string]string, len(entries))
	for _, entry := range entries {
		if !entity.IsConfigKey(entry.Key) {
			e.logger.Warn("Ignoring unmanaged configuration key", map[string]any{
				"key": entry.Key,
			})
			continue
		}
		stored[entry.Key] = entry.Value
	}
	return stored, nil
}

// Entries returns the edited values in display order with secrets masked
func (e *SettingsEditor) Entries() []entity.ConfigEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()

	entries := make([]entity.ConfigEntry, 0, len(entity.ConfigKeys))
	for _, key := range entity.ConfigKeys {
		entries = append(entries, entity.ConfigEntry{Key: key, Value: e.values[key]}.Masked())
	}
	return entries
}

// Set changes one edited value. Writing the mask back over a secret keeps the secret.
func (e *SettingsEditor) Set(key, value string) error {
	if !entity.IsConfigKey(key) {
		return fmt.Errorf("%w: %s", errs.ErrUnknownConfigKey, key)
	}
	if entity.IsSecretConfigKey(key) && value == entity.MaskedValue {
		return nil
	}

	e.mu.Lock()
	e.values[key] = value
	e.edited[key] = true
	e.mu.Unlock()
	return nil
}

// PickFile fills SSH_KEY through the file picker. Windows separators are normalized.
func (e *SettingsEditor) PickFile(ctx context.Context) (string, bool, error) {
	path, ok, err := e.backend.PickFile(ctx)
	if err != nil {
		err = errs.NewBackendError("pick file", err)
		e.store.Notify(session.NoticeError, err.Error())
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}

	path = strings.ReplaceAll(path, `\`, "/")
	if err := e.Set(entity.ConfigSSHKey, path); err != nil {
		return "", false, err
	}
	return path, true, nil
}

// Submit stores the full set of edited values. Nothing is stored when it fails.
// If the stored configuration was never loaded, keys that were not edited keep
// their stored values.
func (e *SettingsEditor) Submit(ctx context.Context) error {
	release, err := e.store.TryBusy("save settings")
	if err != nil {
		return err
	}
	defer release()

	if err := e.mergeStored(ctx); err != nil {
		return err
	}

	e.mu.RLock()
	entries := make([]entity.ConfigEntry, 0, len(entity.ConfigKeys))
	for _, key := range entity.ConfigKeys {
		entries = append(entries, entity.ConfigEntry{Key: key, Value: e.values[key]})
	}
	e.mu.RUnlock()

	if err := e.backend.SetConfig(ctx, entries); err != nil {
		err = errs.NewBackendError("save settings", err)
		e.logger.Error("Failed to save settings", map[string]any{
			"error": err.Error(),
		})
		e.store.Notify(session.NoticeError, err.Error())
		return err
	}

	e.logger.Info("Settings saved", map[string]any{
		"keys": len(entries),
	})
	e.store.Notify(session.NoticeInfo, SettingsSavedNotice)
	return nil
}

// mergeStored fills every key not edited since construction from storage
func (e *SettingsEditor) mergeStored(ctx context.Context) error {
	e.mu.RLock()
	loaded := e.loaded
	e.mu.RUnlock()
	if loaded {
		return nil
	}

	stored, err := e.fetch(ctx, "save settings")
	if err != nil {
		return err
	}

	e.mu.Lock()
	for key, value := range stored {
		if !e.edited[key] {
			e.values[key] = value
		}
	}
	e.loaded = true
	e.mu.Unlock()
	return nil
}
