package logger

import (
	"fmt"

	"go.uber.org/zap"
)

var log *zap.Logger

var serviceName = "default"

// Init собирает production-логгер; вызывается один раз при старте бинаря.
func Init(service string) error {
	l, err := zap.NewProduction(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	serviceName = service
	log = l
	return nil
}

func SetServiceName(newName string) string {
	oldName := serviceName
	serviceName = newName

	return oldName
}

func base() *zap.Logger {
	if log == nil {
		// до Init — пусть пишет хоть куда-то, паниковать в библиотечном коде нельзя
		log, _ = zap.NewProduction(zap.AddCallerSkip(1))
	}
	return log.With(zap.String("service", serviceName))
}

func Info(format string, args ...interface{}) {
	base().Info(fmt.Sprintf(format, args...))
}

func Warn(format string, args ...interface{}) {
	base().Warn(fmt.Sprintf(format, args...))
}

func Error(format string, args ...interface{}) {
	base().Error(fmt.Sprintf(format, args...))
}

func Fatal(format string, args ...interface{}) {
	base().Fatal(fmt.Sprintf(format, args...))
}
