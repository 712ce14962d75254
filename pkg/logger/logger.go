package logger

import (
	"edu_core_backend/internal/config"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log 进程级 logger，仅供 main/app 这类启动代码使用；业务组件通过构造函数注入。
var Log = zap.NewNop()

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "time",
	LevelKey:       "level",
	NameKey:        "logger",
	CallerKey:      "caller",
	MessageKey:     "msg",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalLevelEncoder,
	EncodeTime:     zapcore.ISO8601TimeEncoder,
	EncodeDuration: zapcore.MillisDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

// levelFor debug 模式输出调试日志，release 只保留 info 以上
func levelFor(mode string) zapcore.Level {
	switch mode {
	case "debug":
		return zap.DebugLevel
	case "test":
		return zap.WarnLevel
	default:
		return zap.InfoLevel
	}
}

// InitLogger 控制台始终输出；配置了 log.file 时再以 JSON 写入滚动文件
func InitLogger(cfg *config.Config) *zap.Logger {
	level := levelFor(cfg.Server.Mode)

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stdout), level),
	}
	if cfg.Log.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), fileWriter, level))
	}

	Log = zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	).With(zap.String("app", "edu-core"), zap.String("mode", cfg.Server.Mode))
	return Log
}
