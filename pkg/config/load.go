package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Captura placeholders ${env.NOME} dentro do YAML.
var envPattern = regexp.MustCompile(`\$\{env\.([^}]+)\}`)

// Load monta a configuração em camadas: defaults das tags envDefault, o
// arquivo YAML (opcional, path vazio ignora), variáveis de ambiente e por
// fim a validação.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	return FromBytes(data)
}

// FromBytes aplica as mesmas camadas de Load sobre um YAML já carregado,
// vindo de qualquer fonte. Um conteúdo vazio usa só defaults e ambiente.
func FromBytes(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := ApplyDefaults(cfg); err != nil {
		return nil, err
	}

	if len(data) > 0 {
		if err := Parse(data, cfg); err != nil {
			return nil, err
		}
	}

	if err := LoadEnv(cfg); err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodifica o YAML sobre cfg, resolvendo antes os placeholders
// ${env.NOME}. Chaves ausentes no arquivo preservam o valor atual.
func Parse(data []byte, cfg *Config) error {
	expanded := envPattern.ReplaceAllFunc(data, func(m []byte) []byte {
		name := envPattern.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})

	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return fmt.Errorf("config: parse yaml: %w", err)
	}
	return nil
}
