package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"macshift/internal/domain/errors"
)

// RulesWatcher는 규칙 파일의 변경을 감지해 콜백을 호출합니다.
// 편집기의 연속 쓰기를 흡수하기 위해 이벤트를 디바운스합니다
type RulesWatcher struct {
	mu sync.Mutex

	rulesPath     string
	debounceDelay time.Duration
	logger        *logrus.Logger

	debounce *time.Timer
	wg       sync.WaitGroup
}

// NewRulesWatcher는 새로운 RulesWatcher를 생성합니다
func NewRulesWatcher(rulesPath string, debounceDelay time.Duration, logger *logrus.Logger) *RulesWatcher {
	if debounceDelay <= 0 {
		debounceDelay = 100 * time.Millisecond
	}
	return &RulesWatcher{
		rulesPath:     rulesPath,
		debounceDelay: debounceDelay,
		logger:        logger,
	}
}

// Watch는 컨텍스트가 취소될 때까지 규칙 파일을 감시합니다.
// 파일이 쓰이거나 생성될 때마다 onChange가 호출됩니다
func (w *RulesWatcher) Watch(ctx context.Context, onChange func()) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.NewSystemError("failed to create file watcher", err)
	}
	defer fsWatcher.Close()

	// 파일 자체가 아닌 디렉터리를 감시해야 생성/교체도 잡힌다
	dir := filepath.Dir(w.rulesPath)
	if err := fsWatcher.Add(dir); err != nil {
		return errors.NewSystemError("failed to watch rules directory", err)
	}

	w.logger.WithField("path", w.rulesPath).Info("Watching rules file for changes")

	filename := filepath.Base(w.rulesPath)
	for {
		select {
		case <-ctx.Done():
			w.stopDebounce()
			w.wg.Wait()
			return ctx.Err()

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.debounceChange(onChange)

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Error("Rules watcher error")
		}
	}
}

func (w *RulesWatcher) debounceChange(onChange func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil && w.debounce.Stop() {
		w.wg.Done()
	}

	w.wg.Add(1)
	w.debounce = time.AfterFunc(w.debounceDelay, func() {
		defer w.wg.Done()
		onChange()
	})
}

func (w *RulesWatcher) stopDebounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil && w.debounce.Stop() {
		w.wg.Done()
	}
}
