package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Preferences are the user-chosen settings the interactive menu persists
// between sessions. API keys stay in the environment, never on disk.
type Preferences struct {
	LLMProvider    string `json:"llm_provider"`
	LLMModel       string `json:"llm_model"`
	ReportLanguage string `json:"report_language"`
}

func defaultPreferences() Preferences {
	return Preferences{
		LLMProvider:    ProviderGemini,
		LLMModel:       "gemini-2.5-flash-lite",
		ReportLanguage: "es",
	}
}

func (p Preferences) validate() error {
	switch p.LLMProvider {
	case ProviderGemini, ProviderOpenAI, ProviderDeepSeek:
		return nil
	default:
		return fmt.Errorf("unknown llm provider %q", p.LLMProvider)
	}
}

// Manager owns the preferences file and keeps an in-memory copy in sync
// with edits made outside the process.
type Manager struct {
	path         string
	mu           sync.RWMutex
	prefs        Preferences
	watcher      *fsnotify.Watcher
	debounce     time.Duration
	onChange     func(Preferences)
	suppressSelf atomic.Bool
}

type managerOptions struct {
	path     string
	initial  *Preferences
	debounce time.Duration
}

type ManagerOption func(*managerOptions)

func WithPreferencesDir(dir string) ManagerOption {
	return func(o *managerOptions) {
		if dir != "" {
			o.path = filepath.Join(dir, "preferences.json")
		}
	}
}

func WithPreferencesPath(path string) ManagerOption {
	return func(o *managerOptions) {
		if path != "" {
			o.path = path
		}
	}
}

func WithInitialPreferences(p *Preferences) ManagerOption {
	return func(o *managerOptions) {
		o.initial = p
	}
}

func WithDebounce(d time.Duration) ManagerOption {
	return func(o *managerOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

func NewManager(opts ...ManagerOption) (*Manager, error) {
	options := managerOptions{
		debounce: 300 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(&options)
	}

	path := options.path
	if path == "" {
		var err error
		path, err = defaultPreferencesPath()
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create preferences dir: %w", err)
	}

	prefs, err := loadOrCreatePreferences(path, options)
	if err != nil {
		return nil, err
	}

	return &Manager{
		path:     path,
		prefs:    prefs,
		debounce: options.debounce,
	}, nil
}

func (m *Manager) Get() Preferences {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prefs
}

func (m *Manager) Path() string {
	return m.path
}

// Apply copies the stored preferences into cfg. The caller should re-apply
// environment overrides afterwards so env keeps precedence.
func (m *Manager) Apply(cfg *Config) {
	prefs := m.Get()
	if prefs.LLMProvider != "" {
		cfg.LLMProvider = prefs.LLMProvider
	}
	if prefs.LLMModel != "" {
		cfg.LLMModel = prefs.LLMModel
	}
	if prefs.ReportLanguage != "" {
		cfg.ReportLanguage = prefs.ReportLanguage
	}
}

func (m *Manager) Update(newPrefs Preferences) error {
	if err := newPrefs.validate(); err != nil {
		return err
	}

	m.mu.RLock()
	current := m.prefs
	m.mu.RUnlock()
	if reflect.DeepEqual(current, newPrefs) {
		return nil
	}

	m.suppressSelf.Store(true)
	defer time.AfterFunc(m.debounce, func() { m.suppressSelf.Store(false) })

	if err := writePreferencesFile(m.path, newPrefs); err != nil {
		m.suppressSelf.Store(false)
		return err
	}

	m.applyPreferences(newPrefs)
	return nil
}

// Watch reloads the preferences when the file changes on disk, so a menu
// session picks up edits made in another terminal.
func (m *Manager) Watch(ctx context.Context, onChange func(Preferences)) error {
	m.mu.Lock()
	m.onChange = onChange
	if m.watcher != nil {
		m.mu.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.watcher = watcher
	debounce := m.debounce
	path := m.path
	m.mu.Unlock()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch preferences dir: %w", err)
	}

	go m.watchLoop(ctx, watcher, path, debounce)
	return nil
}

func (m *Manager) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string, debounce time.Duration) {
	defer watcher.Close()

	var timerMu sync.Mutex
	var timer *time.Timer
	trigger := func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, m.reloadFromDisk)
		timerMu.Unlock()
	}

	for {
		select {
		case evt, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !m.isPreferencesEvent(evt, path) {
				continue
			}
			if m.suppressSelf.Load() {
				continue
			}
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				log.Printf("preferences watcher error: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) isPreferencesEvent(evt fsnotify.Event, path string) bool {
	if filepath.Clean(evt.Name) != filepath.Clean(path) {
		return false
	}
	return evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (m *Manager) reloadFromDisk() {
	var prefs Preferences
	if err := loadPreferencesFile(m.path, &prefs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			prefs = defaultPreferences()
			if err := writePreferencesFile(m.path, prefs); err != nil {
				log.Printf("preferences recreate failed: %v", err)
				return
			}
		} else {
			log.Printf("preferences reload failed: %v", err)
			return
		}
	}
	if err := prefs.validate(); err != nil {
		log.Printf("preferences validation failed: %v", err)
		return
	}

	m.mu.RLock()
	current := m.prefs
	m.mu.RUnlock()
	if reflect.DeepEqual(current, prefs) {
		return
	}
	m.applyPreferences(prefs)
}

func (m *Manager) applyPreferences(prefs Preferences) {
	m.mu.Lock()
	m.prefs = prefs
	cb := m.onChange
	m.mu.Unlock()

	if cb != nil {
		cb(prefs)
	}
}

func loadOrCreatePreferences(path string, options managerOptions) (Preferences, error) {
	var prefs Preferences
	if _, err := os.Stat(path); err == nil {
		if err := loadPreferencesFile(path, &prefs); err != nil {
			return Preferences{}, fmt.Errorf("load preferences: %w", err)
		}
		if err := prefs.validate(); err != nil {
			return Preferences{}, err
		}
		return prefs, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return Preferences{}, fmt.Errorf("stat preferences: %w", err)
	}

	switch {
	case options.initial != nil:
		prefs = *options.initial
	default:
		prefs = defaultPreferences()
	}

	if err := prefs.validate(); err != nil {
		return Preferences{}, err
	}

	if err := writePreferencesFile(path, prefs); err != nil {
		return Preferences{}, fmt.Errorf("write initial preferences: %w", err)
	}

	return prefs, nil
}

func defaultPreferencesPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, "dolarwatch", "preferences.json"), nil
}

func loadPreferencesFile(path string, prefs *Preferences) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, prefs); err != nil {
		return fmt.Errorf("parse preferences json: %w", err)
	}
	return nil
}

func writePreferencesFile(path string, prefs Preferences) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "prefs-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp preferences: %w", err)
	}
	encoder := json.NewEncoder(tmpFile)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(&prefs); err != nil {
		tmpFile.Close()
		_ = os.Remove(tmpFile.Name())
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		_ = os.Remove(tmpFile.Name())
		return fmt.Errorf("flush preferences: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpFile.Name())
		return fmt.Errorf("close temp preferences: %w", err)
	}
	return os.Rename(tmpFile.Name(), path)
}
