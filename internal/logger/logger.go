package logger

import (
	"os"
	"strings"

	"cardapiopro-backend/internal/config"

	"github.com/labstack/gommon/log"
)

const textHeader = "${time_rfc3339} ${level} ${short_file}:${line}"

// New builds the process logger. echo uses the same gommon logger type, so
// the result is also installed as the server's logger.
func New(cfg config.Log) *log.Logger {
	l := log.New("cardapiopro")
	l.SetOutput(os.Stdout)
	l.SetLevel(ParseLevel(cfg.Level))
	if strings.EqualFold(cfg.Format, "text") {
		l.SetHeader(textHeader)
	}
	return l
}

func ParseLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
