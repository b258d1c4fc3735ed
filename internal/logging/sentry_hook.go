package logging

import (
	"errors"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

const sentryFlushTimeout = 2 * time.Second

var levelsMap = map[logrus.Level]sentry.Level{
	logrus.TraceLevel: sentry.LevelDebug,
	logrus.DebugLevel: sentry.LevelDebug,
	logrus.InfoLevel:  sentry.LevelInfo,
	logrus.WarnLevel:  sentry.LevelWarning,
	logrus.ErrorLevel: sentry.LevelError,
	logrus.FatalLevel: sentry.LevelFatal,
	logrus.PanicLevel: sentry.LevelFatal,
}

// SentryHook forwards log entries of the given levels to Sentry.
type SentryHook struct {
	hub    *sentry.Hub
	levels []logrus.Level
}

var _ logrus.Hook = (*SentryHook)(nil)

func NewSentryHook(levels []logrus.Level) *SentryHook {
	return &SentryHook{
		hub:    sentry.CurrentHub(),
		levels: levels,
	}
}

func (h *SentryHook) Levels() []logrus.Level {
	return h.levels
}

func (h *SentryHook) Fire(entry *logrus.Entry) error {
	event := sentry.NewEvent()
	event.Level = levelsMap[entry.Level]
	event.Message = entry.Message
	event.Timestamp = entry.Time

	for k, v := range entry.Data {
		if k == logrus.ErrorKey {
			if err, ok := v.(error); ok {
				event.Exception = append(event.Exception, sentry.Exception{
					Type:  "error",
					Value: err.Error(),
				})
				continue
			}
		}
		event.Extra[k] = v
	}

	if h.hub.CaptureEvent(event) == nil {
		return errors.New("sentry event not sent")
	}

	// the process is about to exit
	if entry.Level <= logrus.FatalLevel {
		h.hub.Flush(sentryFlushTimeout)
	}
	return nil
}
