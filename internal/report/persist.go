package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

// Tabular is implemented by results that serialize as a list of records
// (the transaction table). Date-typed fields are already formatted by the
// implementation.
type Tabular interface {
	Records() []map[string]string
}

// Notifier is told about saved report artifacts. Implementations must not
// block the caller for long; failures are theirs to log.
type Notifier interface {
	ReportSaved(ctx context.Context, operation, file string)
}

// Saver writes report results to JSON artifacts. Saving is a side effect
// layered around report operations: it never changes their result and a
// failed write is logged, not returned.
type Saver struct {
	dir      string
	log      *slog.Logger
	now      func() time.Time
	notifier Notifier
}

// NewSaver returns a Saver writing under dir. notifier may be nil.
func NewSaver(dir string, logger *slog.Logger, notifier Notifier) *Saver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Saver{dir: dir, log: logger, now: time.Now, notifier: notifier}
}

// WithClock returns a copy of the saver using now for artifact timestamps.
func (s *Saver) WithClock(now func() time.Time) *Saver {
	return &Saver{dir: s.dir, log: s.log, now: now, notifier: s.notifier}
}

// Persist runs fn and saves its result under an operation-derived name:
// report_<operation>_<YYYYMMDD_HHMMSS>.json. The result is returned as-is
// whether or not the save succeeded.
func Persist[R any](ctx context.Context, s *Saver, operation string, fn func() R) R {
	return PersistAs(ctx, s, operation, "", fn)
}

// PersistAs is Persist with an explicit artifact name. A missing .json
// suffix is appended; an empty name falls back to the derived one.
func PersistAs[R any](ctx context.Context, s *Saver, operation, name string, fn func() R) R {
	result := fn()
	if s == nil {
		return result
	}
	file, err := s.save(operation, name, result)
	if err != nil {
		s.log.Error("failed to save report artifact", "operation", operation, "error", err)
		return result
	}
	s.log.Info("report artifact saved", "operation", operation, "file", file)
	if s.notifier != nil {
		s.notifier.ReportSaved(ctx, operation, file)
	}
	return result
}

func (s *Saver) save(operation, name string, result any) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	if name == "" {
		name = fmt.Sprintf("report_%s_%s.json", operation, s.now().Format("20060102_150405"))
	} else if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	path := filepath.Join(s.dir, name)

	body, err := serialize(result)
	if err != nil {
		return "", fmt.Errorf("serialize result: %w", err)
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}

// serialize picks the artifact shape by result kind: tabular results
// become record lists, maps/slices/structs become JSON, anything else is
// written as text.
func serialize(result any) ([]byte, error) {
	if t, ok := result.(Tabular); ok {
		return json.MarshalIndent(t.Records(), "", "  ")
	}
	v := reflect.ValueOf(result)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return []byte("null"), nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return []byte("[]"), nil
		}
		return json.MarshalIndent(result, "", "  ")
	case reflect.Map, reflect.Array, reflect.Struct:
		return json.MarshalIndent(result, "", "  ")
	case reflect.Invalid:
		return []byte("null"), nil
	default:
		return []byte(fmt.Sprint(result)), nil
	}
}
