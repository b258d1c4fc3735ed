package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/2beens/neuralspace/pkg"
)

// RotationParams maps onto lumberjack. Zero MaxBackups or MaxAgeDays keep
// rotated files forever.
type RotationParams struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type LoggerSetupParams struct {
	ServiceName   string
	Environment   string
	LogLevel      string
	LogFormatJSON bool
	// LogFileName empty means stdout only.
	LogFileName string
	LogToStdout bool
	Rotation    RotationParams

	SentryEnabled bool
	SentryDSN     string
}

// Setup configures the package-level logrus logger. Every entry is tagged
// with the service and environment.
func Setup(params LoggerSetupParams) error {
	level, err := logrus.ParseLevel(params.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logrus.SetLevel(level)
	logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))

	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	logrus.AddHook(newStaticFieldsHook(logrus.Fields{
		"service": params.ServiceName,
		"env":     params.Environment,
	}))

	if params.SentryEnabled {
		if err := sentry.Init(sentry.ClientOptions{
			Environment:      params.Environment,
			Dsn:              params.SentryDSN,
			TracesSampleRate: 1.0,
			ServerName:       params.ServiceName,
		}); err != nil {
			return fmt.Errorf("sentry init: %w", err)
		}
		logrus.AddHook(NewSentryHook([]logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		}))
		logrus.Infoln("sentry hook installed")
	}

	logrus.SetOutput(output(params))
	return nil
}

func output(params LoggerSetupParams) io.Writer {
	if params.LogFileName == "" {
		return os.Stdout
	}

	fileName := params.LogFileName
	if !strings.HasSuffix(fileName, ".log") {
		fileName += ".log"
	}
	rotated := &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    params.Rotation.MaxSizeMB,
		MaxBackups: params.Rotation.MaxBackups,
		MaxAge:     params.Rotation.MaxAgeDays,
		Compress:   params.Rotation.Compress,
	}

	if params.LogToStdout {
		return pkg.NewCombinedWriter(os.Stdout, rotated)
	}
	return rotated
}

type staticFieldsHook struct {
	fields logrus.Fields
}

func newStaticFieldsHook(fields logrus.Fields) *staticFieldsHook {
	for k, v := range fields {
		if v == "" {
			delete(fields, k)
		}
	}
	return &staticFieldsHook{fields: fields}
}

func (h *staticFieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *staticFieldsHook) Fire(entry *logrus.Entry) error {
	for k, v := range h.fields {
		if _, taken := entry.Data[k]; !taken {
			entry.Data[k] = v
		}
	}
	return nil
}
