package logger

import (
	"fmt"
	"io"
	stdlog "log"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	log *logrus.Logger
	// 标准库 log 的输出管道，重新初始化时关闭旧的
	stdWriter *io.PipeWriter
)

// Fields and Entry are aliases so callers don't need to import logrus.
type (
	Fields = logrus.Fields
	Entry  = logrus.Entry
)

func Init(level, format string) error {
	return InitWithOutput(level, format, os.Stdout)
}

// InitWithOutput 与 Init 相同，但允许指定输出（测试中使用）
func InitWithOutput(level, format string, out io.Writer) error {
	l := logrus.New()

	// 设置日志级别
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	// 设置日志格式
	switch format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	default:
		return fmt.Errorf("unsupported log format %q", format)
	}

	l.SetOutput(out)
	log = l
	redirectStdLog(l)

	return nil
}

// redirectStdLog 将第三方库通过标准库 log 打印的内容转为 warn 级别日志
func redirectStdLog(l *logrus.Logger) {
	if stdWriter != nil {
		stdWriter.Close()
	}
	stdWriter = l.WriterLevel(logrus.WarnLevel)
	stdlog.SetFlags(0)
	stdlog.SetOutput(stdWriter)
}

// WithFields returns an entry carrying structured context. Before Init it
// writes to a discarded logger so callers never need a nil check.
func WithFields(fields Fields) *Entry {
	if log == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		return silent.WithFields(fields)
	}
	return log.WithFields(fields)
}

func Debug(args ...interface{}) {
	if log != nil {
		log.Debug(args...)
	}
}

func Debugf(format string, args ...interface{}) {
	if log != nil {
		log.Debugf(format, args...)
	}
}

func Info(args ...interface{}) {
	if log != nil {
		log.Info(args...)
	}
}

func Infof(format string, args ...interface{}) {
	if log != nil {
		log.Infof(format, args...)
	}
}

func Warn(args ...interface{}) {
	if log != nil {
		log.Warn(args...)
	}
}

func Warnf(format string, args ...interface{}) {
	if log != nil {
		log.Warnf(format, args...)
	}
}

func Error(args ...interface{}) {
	if log != nil {
		log.Error(args...)
	}
}

func Errorf(format string, args ...interface{}) {
	if log != nil {
		log.Errorf(format, args...)
	} else {
		fmt.Printf("ERROR: "+format+"\n", args...)
	}
}

func Fatal(args ...interface{}) {
	if log != nil {
		log.Fatal(args...)
	} else {
		fmt.Print("FATAL: ")
		fmt.Println(args...)
		os.Exit(1)
	}
}

func Fatalf(format string, args ...interface{}) {
	if log != nil {
		log.Fatalf(format, args...)
	} else {
		fmt.Printf("FATAL: "+format+"\n", args...)
		os.Exit(1)
	}
}
