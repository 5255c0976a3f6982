package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
// До вызова Init пишет только предупреждения и ошибки, поэтому библиотечный
// код можно использовать и без явной инициализации.
var Log = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	l.SetOutput(os.Stderr)
	return l
}

// Init настраивает глобальный логгер из окружения.
// Вызывается один раз при старте приложения в main.go (и в TestMain).
func Init() {
	// 1. Уровень логирования из LOG_LEVEL, по умолчанию "info".
	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	// 2. Форматтер: "json" - для сбора логов, "text" - для разработки.
	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	if logFormat == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	// 3. Логи идут в stderr: stdout занят картой подземелья.
	Log.SetOutput(os.Stderr)
}

// Silence отключает вывод (флаг -quiet).
func Silence() {
	Log.SetOutput(io.Discard)
}

// ForComponent возвращает запись с полем component.
func ForComponent(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
