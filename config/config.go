// Package config exposes process-wide configuration read from the
// environment at startup.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("TASKMAN_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("TASKMAN_DEBUG") == "true"
}

func GetListen() string {
	return os.Getenv("TASKMAN_LISTEN")
}

func GetPort() int {
	port := os.Getenv("TASKMAN_PORT")
	if port == "" {
		return 3000
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return 3000
	}
	return p
}

// GetSessionSecret returns the token signing secret. Main reads it once at
// startup and injects it into the auth service; an empty value is a startup
// error, not a runtime fallback.
func GetSessionSecret() string {
	return os.Getenv("TASKMAN_SESSION_SECRET")
}

func GetCertFile() string {
	return os.Getenv("TASKMAN_CERT_FILE")
}

func GetKeyFile() string {
	return os.Getenv("TASKMAN_KEY_FILE")
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("TASKMAN_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/taskman"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("TASKMAN_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

func GetSendgridAPIKey() string {
	return os.Getenv("SENDGRID_API_KEY")
}

func GetEmailFrom() string {
	from := os.Getenv("TASKMAN_EMAIL_FROM")
	if from == "" {
		from = "no-reply@taskman.local"
	}
	return from
}
