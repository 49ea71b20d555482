package badgerdb

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

var ErrEmptyDir = errors.New("badger directory is required")

// Open opens (creating if missing) the badger database in dir. Badger's own
// log lines go to log at debug level and above.
func Open(dir string, log *slog.Logger) (*badger.DB, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, ErrEmptyDir
	}

	opts := badger.DefaultOptions(dir).WithLogger(slogAdapter{log: log})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", dir, err)
	}
	return db, nil
}

type slogAdapter struct {
	log *slog.Logger
}

func (a slogAdapter) Errorf(format string, args ...any) {
	a.log.Error(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (a slogAdapter) Warningf(format string, args ...any) {
	a.log.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (a slogAdapter) Infof(format string, args ...any) {
	a.log.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (a slogAdapter) Debugf(format string, args ...any) {
	a.log.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}
