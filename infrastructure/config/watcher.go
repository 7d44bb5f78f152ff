package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	domainconfig "lexmatter/domain/config"
)

// Watcher reloads runtime-tunable business limits from a JSON file when it
// changes, so operators can loosen a document cap or flip a validation rule
// without a redeploy. Static settings stay environment-driven in Config.
type Watcher struct {
	path      string
	fsWatcher *fsnotify.Watcher
	current   *DynamicConfig
	mu        sync.RWMutex
	onChange  []func(*DynamicConfig)
	logger    *zap.Logger
	stopCh    chan struct{}
}

// DynamicConfig is the runtime-changeable slice of configuration
type DynamicConfig struct {
	Limits   Limits         `json:"limits"`
	Rules    Rules          `json:"rules"`
	Metadata ConfigMetadata `json:"metadata"`
}

// Limits holds tunable size and count caps
type Limits struct {
	MaxDocumentsPerMatter   int   `json:"maxDocumentsPerMatter"`
	MaxFileSizeBytes        int64 `json:"maxFileSizeBytes"`
	MaxRevisionsPerDocument int   `json:"maxRevisionsPerDocument"`
	TransferLockSeconds     int   `json:"transferLockSeconds"`
}

// Rules holds tunable validation behavior
type Rules struct {
	RequireUniqueFileNames     bool `json:"requireUniqueFileNames"`
	RequireUniqueMatterNumbers bool `json:"requireUniqueMatterNumbers"`
	EnableAuditTrail           bool `json:"enableAuditTrail"`
	EnableOutboxPublish        bool `json:"enableOutboxPublish"`
}

// ConfigMetadata holds metadata about the configuration
type ConfigMetadata struct {
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy"`
}

// NewWatcher creates a watcher for the given config file
func NewWatcher(configPath string, logger *zap.Logger) (*Watcher, error) {
	current, err := loadDynamicConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial config: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := fsWatcher.Add(configPath); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch config file: %w", err)
	}

	// Watch the directory too; editors and deploys often replace the file
	// via rename.
	if err := fsWatcher.Add(filepath.Dir(configPath)); err != nil {
		logger.Warn("Failed to watch config directory", zap.Error(err))
	}

	return &Watcher{
		path:      configPath,
		fsWatcher: fsWatcher,
		current:   current,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}, nil
}

// Start begins watching for configuration changes
func (w *Watcher) Start() {
	go w.watchLoop()
	w.logger.Info("Configuration watcher started", zap.String("path", w.path))
}

// Stop stops watching for configuration changes
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.fsWatcher.Close()
	w.logger.Info("Configuration watcher stopped")
}

func (w *Watcher) watchLoop() {
	var debounce *time.Timer
	const debounceDelay = 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDelay, w.reload)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	w.logger.Info("Configuration file changed, reloading", zap.String("path", w.path))

	next, err := loadDynamicConfig(w.path)
	if err != nil {
		w.logger.Error("Failed to reload configuration", zap.Error(err))
		return
	}
	if err := validateDynamicConfig(next); err != nil {
		w.logger.Error("Invalid configuration, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = next
	handlers := w.onChange
	w.mu.Unlock()

	for _, handler := range handlers {
		go handler(next)
	}

	w.logger.Info("Configuration reloaded",
		zap.String("version", next.Metadata.Version),
	)
}

// OnChange registers a callback for configuration changes
func (w *Watcher) OnChange(handler func(*DynamicConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, handler)
}

// Current returns the current configuration
func (w *Watcher) Current() *DynamicConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Apply copies the dynamic settings onto a domain configuration
func (dc *DynamicConfig) Apply(target *domainconfig.DomainConfig) {
	if dc.Limits.MaxDocumentsPerMatter > 0 {
		target.MaxDocumentsPerMatter = dc.Limits.MaxDocumentsPerMatter
	}
	if dc.Limits.MaxFileSizeBytes > 0 {
		target.MaxFileSizeBytes = dc.Limits.MaxFileSizeBytes
	}
	if dc.Limits.MaxRevisionsPerDocument > 0 {
		target.MaxRevisionsPerDocument = dc.Limits.MaxRevisionsPerDocument
	}
	if dc.Limits.TransferLockSeconds > 0 {
		target.TransferLockDuration = time.Duration(dc.Limits.TransferLockSeconds) * time.Second
	}
	target.RequireUniqueFileNames = dc.Rules.RequireUniqueFileNames
	target.RequireUniqueMatterNumbers = dc.Rules.RequireUniqueMatterNumbers
	target.EnableAuditTrail = dc.Rules.EnableAuditTrail
	target.EnableOutboxPublish = dc.Rules.EnableOutboxPublish
}

func validateDynamicConfig(dc *DynamicConfig) error {
	if dc.Limits.MaxDocumentsPerMatter < 0 {
		return fmt.Errorf("maxDocumentsPerMatter cannot be negative")
	}
	if dc.Limits.MaxFileSizeBytes < 0 {
		return fmt.Errorf("maxFileSizeBytes cannot be negative")
	}
	if dc.Limits.MaxRevisionsPerDocument < 0 {
		return fmt.Errorf("maxRevisionsPerDocument cannot be negative")
	}
	if dc.Limits.TransferLockSeconds < 0 {
		return fmt.Errorf("transferLockSeconds cannot be negative")
	}
	return nil
}

func loadDynamicConfig(path string) (*DynamicConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var dc DynamicConfig
	if err := json.Unmarshal(data, &dc); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if dc.Metadata.Version == "" {
		dc.Metadata.Version = "1.0.0"
	}
	dc.Metadata.UpdatedAt = time.Now()

	return &dc, nil
}
