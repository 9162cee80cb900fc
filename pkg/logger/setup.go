package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/raywall/dynadapter/pkg/config"
	"github.com/rs/zerolog"
)

// Configure inicializa o logger global baseando-se na configuração do YAML.
// A saída padrão é stderr, deixando stdout livre para a saída da CLI.
func Configure(cfg config.LoggingConf) zerolog.Logger {
	return New(cfg, os.Stderr)
}

// New cria o logger escrevendo em out. O nível também é aplicado globalmente.
func New(cfg config.LoggingConf, out io.Writer) zerolog.Logger {
	// Define o nível de log (default: info)
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if !cfg.Enabled {
		return zerolog.Nop()
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
	}

	return zerolog.New(out).
		With().
		Timestamp().
		Str("service", "dynadapter").
		Logger()
}
