package domain

import "io"

// ConfigReader интерфейс для чтения конфигурации
type ConfigReader interface {
	ReadConfig(path string) (*Config, error)
}

// ResultWriter интерфейс для вывода результата
type ResultWriter interface {
	WriteResult(w io.Writer, result *Result) error
}
