package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/LegacyCodeHQ/cssvars/stylegraph"
)

const debounceInterval = 300 * time.Millisecond

// publisher turns session state into bindings updates.
type publisher struct {
	session *stylegraph.Session
	root    string
	broker  *broker
	log     *zap.Logger
	nextID  int64
	now     func() time.Time
}

func newPublisher(session *stylegraph.Session, root string, b *broker, log *zap.Logger) *publisher {
	return &publisher{
		session: session,
		root:    root,
		broker:  b,
		log:     log,
		now:     time.Now,
	}
}

// apply handles a batch of changed files in path order and publishes one
// update covering all of them.
func (p *publisher) apply(changed []string) bindingsUpdate {
	sort.Strings(changed)

	affected := make(map[string]bool)
	var errs error
	for _, path := range changed {
		res, err := p.session.HandleChange(path)
		for _, c := range res.Affected {
			affected[c] = true
		}
		if err != nil {
			errs = multierr.Append(errs, err)
		}
		p.log.Info("File changed",
			zap.String("file", relativePath(p.root, res.Changed)),
			zap.Int("affected", len(res.Affected)))
	}

	update := p.update(errs)
	if len(changed) == 1 {
		update.Changed = relativePath(p.root, stylegraph.NormalizePath(changed[0]))
	}
	for c := range affected {
		update.Affected = append(update.Affected, relativePath(p.root, c))
	}
	sort.Strings(update.Affected)
	p.publish(update)
	return update
}

// update snapshots every transformed component.
func (p *publisher) update(errs error) bindingsUpdate {
	p.nextID++
	u := bindingsUpdate{
		ID:         p.nextID,
		Timestamp:  p.now().UTC(),
		Affected:   []string{},
		Components: []componentState{},
		Errors:     []string{},
	}
	for _, c := range p.session.Components() {
		if b, ok := p.session.Bindings(c); ok {
			u.Components = append(u.Components, newComponentState(p.root, b))
		}
	}
	for _, err := range multierr.Errors(errs) {
		u.Errors = append(u.Errors, err.Error())
		p.log.Warn("Transform failed", zap.Error(err))
	}
	return u
}

func (p *publisher) publish(u bindingsUpdate) {
	if err := p.broker.publish(u); err != nil {
		p.log.Error("Failed to publish bindings update", zap.Error(err))
	}
}

// watchAndRebuild feeds debounced file changes to the publisher. Changes are
// handled on this goroutine only; the debounce timer just signals a flush.
func watchAndRebuild(ctx context.Context, root string, p *publisher) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root); err != nil {
		return fmt.Errorf("failed to watch directories: %w", err)
	}

	var (
		debounceTimer *time.Timer
		pending       = make(map[string]bool)
		flush         = make(chan struct{}, 1)
	)

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				addIfDirectory(watcher, event.Name)
			}
			if !isRelevantChange(event) {
				continue
			}
			pending[event.Name] = true

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceInterval, func() {
				select {
				case flush <- struct{}{}:
				default:
				}
			})

		case <-flush:
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			clear(pending)
			if len(changed) > 0 {
				p.apply(changed)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.log.Warn("Watcher error", zap.Error(err))
		}
	}
}

func isRelevantChange(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return stylegraph.IsStylesheetPath(event.Name) || stylegraph.IsComponentPath(event.Name)
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return addWatchDirsWithAdder(root, watcher.Add)
}

// addWatchDirsWithAdder registers every directory under root that is not
// skipped. Directories that vanish while walking are ignored.
func addWatchDirsWithAdder(root string, add func(string) error) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && stylegraph.IsSkippedDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := add(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	})
}

func addIfDirectory(watcher *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		_ = addWatchDirs(watcher, path)
	}
}
