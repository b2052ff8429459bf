package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"sisnompeg_admin/internal/infra/config"
)

func TestInitFormatterByEnvironment(t *testing.T) {
	Init(&config.AppConfig{LogLevel: "debug", Environment: "production"})
	assert.IsType(t, &logrus.JSONFormatter{}, Log.Formatter)
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())

	Init(&config.AppConfig{LogLevel: "nonsense", Environment: "development"})
	assert.IsType(t, &logrus.TextFormatter{}, Log.Formatter)
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}

func TestComponentField(t *testing.T) {
	assert.Equal(t, "kgb", Component("kgb").Data["component"])
}
