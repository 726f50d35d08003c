package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	require.Equal(t, logrus.PanicLevel, Level(0))
	require.Equal(t, logrus.ErrorLevel, Level(1))
	require.Equal(t, logrus.InfoLevel, Level(3))
	require.Equal(t, logrus.TraceLevel, Level(9))
}

func TestApplyJSON(t *testing.T) {
	require := require.New(t)
	var buf bytes.Buffer
	l := logrus.New()
	require.NoError(apply(l, Config{Verbosity: 3, Format: "json"}, &buf))

	l.WithField("module", "lightclient").Debug("hidden")
	require.Zero(buf.Len())

	l.WithField("module", "lightclient").Info("accepted")
	var rec map[string]interface{}
	require.NoError(json.Unmarshal(buf.Bytes(), &rec))
	require.Equal("lightclient", rec["module"])
	require.Equal("accepted", rec["msg"])
}

func TestApplyErrors(t *testing.T) {
	require.Error(t, apply(logrus.New(), Config{Format: "xml"}, &bytes.Buffer{}))
	require.Error(t, apply(logrus.New(), Config{Format: "text", SentryDSN: "not a dsn"}, &bytes.Buffer{}))
}

func TestModule(t *testing.T) {
	e := Module("store")
	require.Equal(t, "store", e.Data["module"])
}
