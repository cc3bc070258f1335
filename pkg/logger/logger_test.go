package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewZapLogger_Levels(t *testing.T) {
	l := NewZapLogger(&ZapLoggerConfig{Encoding: "json", Level: "warn"})
	assert.NotNil(t, l)
	assert.Equal(t, "debug", parseLevel("debug").String())
	assert.Equal(t, "info", parseLevel("bogus").String())
}

func TestWith_CarriesFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := Wrap(zap.New(core)).With(zap.String("request_id", "r-1"))

	l.Info("hello")
	l.Debug("dropped")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "hello", entries[0].Message)
		assert.Equal(t, "r-1", entries[0].ContextMap()["request_id"])
	}
}

func TestContextRoundTrip(t *testing.T) {
	fallback := NewNop()
	assert.Equal(t, fallback, FromContext(context.Background(), fallback))

	scoped := NewNop().With(zap.String("k", "v"))
	ctx := WithContext(context.Background(), scoped)
	assert.Equal(t, scoped, FromContext(ctx, fallback))
}
