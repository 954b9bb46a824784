package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

var (
	defaultLogger *Logger
)

// Logger 日志结构体
type Logger struct {
	debugLogger *log.Logger
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
}

// LogLevel 日志级别类型
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// GetLogLevelFromString 将字符串转换为日志级别
func GetLogLevelFromString(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO // 默认级别
	}
}

/**
 * Initialize logging system
 * @param {string} path - Log file path, "console" or empty writes to stdout
 * @param {string} level - Minimum level (debug/info/warn/error)
 * @param {bool} console - Mirror file output to stdout (server mode)
 * @description
 * - Creates the log directory when logging to a file
 * - Falls back to stdout if the file can't be opened
 */
func InitLogger(path string, level string, console bool) {
	var output io.Writer

	// 根据配置设置输出位置
	if path == "console" || path == "" {
		output = os.Stdout
	} else {
		output = setupLogFileOutput(path)
		// 如果是服务器模式，同时输出到控制台
		if console && output != os.Stdout {
			output = io.MultiWriter(os.Stdout, output)
		}
	}
	InitLoggerWithWriter(output, level)
}

// InitLoggerWithWriter 使用指定输出初始化日志系统
func InitLoggerWithWriter(output io.Writer, level string) {
	// 获取日志级别
	logLevel := GetLogLevelFromString(level)

	// 创建不同级别的日志器
	flags := log.LstdFlags | log.Lshortfile

	l := &Logger{
		debugLogger: log.New(io.Discard, "DEBUG: ", flags),
		infoLogger:  log.New(io.Discard, "INFO: ", flags),
		warnLogger:  log.New(io.Discard, "WARN: ", flags),
		errorLogger: log.New(io.Discard, "ERROR: ", flags),
	}

	// 根据级别设置输出
	if logLevel <= DEBUG {
		l.debugLogger.SetOutput(output)
	}
	if logLevel <= INFO {
		l.infoLogger.SetOutput(output)
	}
	if logLevel <= WARN {
		l.warnLogger.SetOutput(output)
	}
	if logLevel <= ERROR {
		l.errorLogger.SetOutput(output)
	}
	defaultLogger = l
}

// setupLogFileOutput 设置日志文件输出
func setupLogFileOutput(logPath string) io.Writer {
	// 确保日志目录存在
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "创建日志目录失败: %v\n", err)
		return os.Stdout
	}

	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		// 在日志系统初始化失败时，暂时使用标准错误输出
		fmt.Fprintf(os.Stderr, "打开日志文件失败: %v\n", err)
		return os.Stdout
	}

	return file
}

// Debugf 输出格式化调试日志
func Debugf(format string, v ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.debugLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

// Info 输出信息日志
func Info(v ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.infoLogger.Output(2, fmt.Sprintln(v...))
	}
}

// Infof 输出格式化信息日志
func Infof(format string, v ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.infoLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

// Warn 输出警告日志
func Warn(v ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.warnLogger.Output(2, fmt.Sprintln(v...))
	}
}

// Warnf 输出格式化警告日志
func Warnf(format string, v ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.warnLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

// Errorf 输出格式化错误日志
func Errorf(format string, v ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.errorLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

// Fatal 输出致命错误日志并退出程序
func Fatal(v ...interface{}) {
	if defaultLogger != nil {
		defaultLogger.errorLogger.Output(2, fmt.Sprintln(v...))
	} else {
		// 在日志系统未初始化时，使用标准错误输出
		fmt.Fprintln(os.Stderr, append([]interface{}{"FATAL:"}, v...)...)
	}
	os.Exit(1)
}
