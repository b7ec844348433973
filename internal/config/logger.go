package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger はコンソール出力のロガーを作り、グローバルと既定のコンテキストロガーに設定する
func (c *Config) SetupLogger(out io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.GetString(KeyLogLevel))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parsing %s: %w", KeyLogLevel, err)
	}

	output := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	return logger, nil
}
