package logger_adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"property-map/internal/core/port"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postedRecord struct {
	tag  string
	data map[string]interface{}
}

type fakePoster struct {
	mu      sync.Mutex
	records []postedRecord
	closed  bool
}

func (p *fakePoster) Post(tag string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, postedRecord{tag: tag, data: message.(map[string]interface{})})
	return nil
}

func (p *fakePoster) Close() error {
	p.closed = true
	return nil
}

func TestFluentLoggerAdapterTagsAndFields(t *testing.T) {
	poster := &fakePoster{}
	logger := newFluentLoggerAdapter(poster, slog.LevelDebug).WithFields(port.Fields{"service_name": "property-map"})

	logger.Info("Properties loaded", port.Fields{"count": 3})
	logger.Error("Failed to load properties", errors.New("connection refused"), nil)
	logger.Debug("Pending location replaced", nil)
	logger.Warn("Reload failed", nil)

	require.Len(t, poster.records, 4)
	assert.Equal(t, []string{"info", "error", "debug", "warn"}, []string{
		poster.records[0].tag, poster.records[1].tag, poster.records[2].tag, poster.records[3].tag,
	})

	info := poster.records[0].data
	assert.Equal(t, "Properties loaded", info["message"])
	assert.Equal(t, "info", info["level"])
	assert.Equal(t, "property-map", info["service_name"])
	assert.Equal(t, 3, info["count"])
	assert.NotEmpty(t, info["timestamp"])

	assert.Equal(t, "connection refused", poster.records[1].data["error"])
}

func TestFluentLoggerAdapterMinLevel(t *testing.T) {
	poster := &fakePoster{}
	logger := newFluentLoggerAdapter(poster, slog.LevelWarn)

	logger.Debug("d", nil)
	logger.Info("i", nil)
	logger.Warn("w", nil)

	require.Len(t, poster.records, 1)
	assert.Equal(t, "warn", poster.records[0].tag)
}

func TestFluentLoggerAdapterWithFieldsDoesNotLeak(t *testing.T) {
	poster := &fakePoster{}
	base := newFluentLoggerAdapter(poster, nil)
	base.WithFields(port.Fields{"component": "PropertyStore"}).Info("child", nil)
	base.Info("parent", nil)

	require.Len(t, poster.records, 2)
	assert.Contains(t, poster.records[0].data, "component")
	assert.NotContains(t, poster.records[1].data, "component")

	require.NoError(t, base.Close())
	assert.True(t, poster.closed)
}

func TestNewFluentLoggerAdapterRejectsNil(t *testing.T) {
	_, err := NewFluentLoggerAdapter(nil, slog.LevelInfo)
	assert.Error(t, err)

	_, err = NewFluentClient(FluentConfig{Host: "localhost", Port: 24224})
	assert.Error(t, err, "tag prefix is required")
}

func TestSlogAdapterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelInfo, IsJSON: true})

	logger.WithFields(port.Fields{"component": "PropertyApiClient"}).
		Error("Received error response", errors.New("status 500"), port.Fields{"status_code": 500})
	logger.Debug("hidden", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "Received error response", record["msg"])
	assert.Equal(t, "PropertyApiClient", record["component"])
	assert.Equal(t, "status 500", record["error"])
	assert.Equal(t, 500.0, record["status_code"])
}

func TestSlogAdapterTextSortsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelDebug})

	logger.Debug("Sending request", port.Fields{"url": "/properties", "http_method": "GET"})

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Less(t, strings.Index(out, "http_method="), strings.Index(out, "url="))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

type countingLogger struct {
	calls  *[]string
	fields port.Fields
}

func (c countingLogger) Info(msg string, _ port.Fields)           { *c.calls = append(*c.calls, "info:"+msg) }
func (c countingLogger) Warn(msg string, _ port.Fields)           { *c.calls = append(*c.calls, "warn:"+msg) }
func (c countingLogger) Error(msg string, _ error, _ port.Fields) { *c.calls = append(*c.calls, "error:"+msg) }
func (c countingLogger) Debug(msg string, _ port.Fields)          { *c.calls = append(*c.calls, "debug:"+msg) }
func (c countingLogger) WithFields(f port.Fields) port.LoggerPort {
	return countingLogger{calls: c.calls, fields: f}
}

func TestMultiloggerAdapter(t *testing.T) {
	var first, second []string
	logger, err := NewMultiloggerAdapter(countingLogger{calls: &first}, nil, countingLogger{calls: &second})
	require.NoError(t, err)

	logger.WithFields(port.Fields{"a": 1}).Warn("w", nil)
	logger.Error("e", nil, nil)

	assert.Equal(t, []string{"warn:w", "error:e"}, first)
	assert.Equal(t, first, second)
}

func TestMultiloggerAdapterEdgeCases(t *testing.T) {
	_, err := NewMultiloggerAdapter(nil, nil)
	assert.Error(t, err)

	var calls []string
	single := countingLogger{calls: &calls}
	logger, err := NewMultiloggerAdapter(single)
	require.NoError(t, err)
	_, isMulti := logger.(*MultiLoggerAdapter)
	assert.False(t, isMulti)
}
