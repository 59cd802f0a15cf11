/*
Package logger 提供项目统一日志能力。

全局 zap logger 由 Init 构建一次，其余包通过包级函数或 FromContext 取用；
未初始化时所有函数退化为 no-op，测试与工具代码无需关心初始化顺序。
*/
package logger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Abid-sh84/E-commerce-Fashion-Store-sub002/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	log       *zap.Logger
	atomLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

type requestIDKey struct{}

// Init builds the process-wide logger from configuration.
func Init(cfg *config.LogConfig, env string) error {
	atomLevel.SetLevel(parseLevel(cfg.Level))

	writer, err := buildWriter(cfg)
	if err != nil {
		return err
	}

	core := zapcore.NewCore(buildEncoder(cfg.Format, env), writer, atomLevel)
	log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return nil
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// buildEncoder: 显式 format 优先，其次按环境选择（开发环境用 console）。
func buildEncoder(format, env string) zapcore.Encoder {
	ec := encoderConfig()
	switch format {
	case "console":
		return zapcore.NewConsoleEncoder(ec)
	case "json":
		return zapcore.NewJSONEncoder(ec)
	}
	if env == "dev" || env == "development" || atomLevel.Level() == zapcore.DebugLevel {
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

func buildWriter(cfg *config.LogConfig) (zapcore.WriteSyncer, error) {
	if cfg.Output != "file" {
		return zapcore.AddSync(os.Stdout), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    orDefault(cfg.MaxSizeMB, 10),
		MaxBackups: orDefault(cfg.MaxBackups, 5),
		MaxAge:     orDefault(cfg.MaxAgeDays, 7),
		Compress:   cfg.Compress,
	}
	return zapcore.AddSync(rotator), nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func parseLevel(level string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// Get returns the underlying logger (nil before Init).
func Get() *zap.Logger { return log }

// L never returns nil.
func L() *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// UpdateLevel 运行时调整日志级别
func UpdateLevel(level string) {
	atomLevel.SetLevel(parseLevel(level))
}

// Sync flushes buffered entries; terminal-specific sync errors are ignored.
func Sync() error {
	if log == nil {
		return nil
	}
	err := log.Sync()
	if err == nil {
		return nil
	}
	msg := err.Error()
	for _, benign := range []string{"inappropriate ioctl for device", "invalid argument", "bad file descriptor"} {
		if strings.Contains(msg, benign) {
			return nil
		}
	}
	return err
}

func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Named returns a component logger, e.g. logger.Named("outbox").
func Named(name string) *zap.Logger {
	return L().Named(name)
}

func WithRequestID(requestID string) *zap.Logger {
	if requestID == "" {
		return L()
	}
	return L().With(zap.String("request_id", requestID))
}

// ContextWithRequestID stores the request id for loggers further down the call chain.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns "" when no id was attached.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// FromContext returns a logger tagged with the request id carried by ctx.
func FromContext(ctx context.Context) *zap.Logger {
	return WithRequestID(RequestIDFromContext(ctx))
}

func WithContext(fields map[string]any) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}

	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case error:
			zapFields = append(zapFields, zap.NamedError(k, val))
		default:
			zapFields = append(zapFields, zap.Any(k, val))
		}
	}
	return log.With(zapFields...)
}

func Debug(msg string, fields ...zap.Field) {
	if log != nil {
		log.Debug(msg, fields...)
	}
}

func Info(msg string, fields ...zap.Field) {
	if log != nil {
		log.Info(msg, fields...)
	}
}

func Warn(msg string, fields ...zap.Field) {
	if log != nil {
		log.Warn(msg, fields...)
	}
}

func Error(msg string, fields ...zap.Field) {
	if log != nil {
		log.Error(msg, fields...)
	}
}

func Fatal(msg string, fields ...zap.Field) {
	if log != nil {
		log.Fatal(msg, fields...)
	}
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
