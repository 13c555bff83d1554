package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// no-op until Init runs, so packages can log safely under test
var log = zap.NewNop()

// Init builds the process-wide JSON logger. Safe to call once from main
// before anything else logs.
func Init() {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		zapcore.InfoLevel,
	)

	log = zap.New(core)
	log.Info("logger initialized")
}

func fieldsOf(m map[string]any) []zap.Field {
	if len(m) == 0 {
		return nil
	}
	fields := make([]zap.Field, 0, len(m))
	for k, v := range m {
		fields = append(fields, zap.Any(k, v))
	}
	return fields
}

func Info(msg string, fields map[string]any) {
	log.Info(msg, fieldsOf(fields)...)
}

func Warn(msg string, fields map[string]any) {
	log.Warn(msg, fieldsOf(fields)...)
}

func Error(msg string, fields map[string]any) {
	log.Error(msg, fieldsOf(fields)...)
}

func Fatal(msg string, fields map[string]any) {
	log.Fatal(msg, fieldsOf(fields)...)
}
