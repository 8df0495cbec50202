package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

func LoadEnvFile(path string) (map[string]string, error) {
	m, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler .env: %w", err)
	}
	return m, nil
}

func UpsertEnvVar(path, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("chave do .env vazia")
	}
	env := map[string]string{}
	if _, err := os.Stat(path); err == nil {
		existing, err := godotenv.Read(path)
		if err != nil {
			return fmt.Errorf("falha ao ler .env: %w", err)
		}
		env = existing
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("falha ao ler .env: %w", err)
	}
	env[key] = strings.TrimSpace(value)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("falha ao criar diretório do .env: %w", err)
	}
	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("falha ao gravar .env: %w", err)
	}
	return nil
}

// ResolveAPIKey looks the key up in the .env file first and falls back to the
// process environment.
func ResolveAPIKey(paths *Paths, keyName string) (string, error) {
	keyName = strings.TrimSpace(keyName)
	if keyName == "" {
		keyName = "OPENAI_API_KEY"
	}
	if paths != nil && paths.EnvPath != "" {
		if env, err := LoadEnvFile(paths.EnvPath); err == nil {
			if v := strings.TrimSpace(env[keyName]); v != "" {
				return v, nil
			}
		}
	}
	if v := strings.TrimSpace(os.Getenv(keyName)); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("API key não configurada (%s)\nexecute: word-styler set key <api_key>", keyName)
}
