// Package pipelinefile сохраняет и загружает pipeline в файлы JSON и YAML.
//
// Имена полей совпадают с форматом web UI (camelCase), поэтому файлы,
// сохранённые из UI, загружаются без преобразований.
package pipelinefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/shaiso/Cardflow/internal/domain"
)

// Format — формат файла pipeline.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Ошибки файлов pipeline.
var (
	// ErrUnknownFormat — расширение файла не соответствует ни одному формату.
	ErrUnknownFormat = errors.New("unknown pipeline file format")

	// ErrInvalidPipeline — файл не разбирается или pipeline не проходит проверку.
	ErrInvalidPipeline = errors.New("invalid pipeline file")
)

var (
	validate   = validator.New()
	whitespace = regexp.MustCompile(`\s+`)
)

// FormatFromPath определяет формат по расширению: .json, .yaml, .yml.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// FileName возвращает имя файла для сохранения: пробельные
// последовательности в имени заменяются на "_", добавляется ".json".
func FileName(p *domain.Pipeline) string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = "pipeline"
	}
	return whitespace.ReplaceAllString(name, "_") + ".json"
}

// Load читает pipeline из r и готовит его через Prepare.
func Load(r io.Reader, format Format) (*domain.Pipeline, error) {
	var p domain.Pipeline

	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPipeline, err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPipeline, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	if err := Prepare(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Prepare проверяет pipeline, пришедший извне (файл, HTTP, очередь),
// и приводит его к рабочему виду: nil-коллекции заменяются пустыми,
// флаги Connected портов пересчитываются.
func Prepare(p *domain.Pipeline) error {
	if p == nil {
		return fmt.Errorf("%w: empty pipeline", ErrInvalidPipeline)
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPipeline, err)
	}

	if p.Cards == nil {
		p.Cards = make([]domain.Card, 0)
	}
	if p.Connections == nil {
		p.Connections = make([]domain.Connection, 0)
	}
	p.RefreshConnected()

	return nil
}

// Save записывает pipeline в w.
func Save(w io.Writer, p *domain.Pipeline, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// LoadFile читает pipeline из файла; формат определяется по расширению.
func LoadFile(path string) (*domain.Pipeline, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pipeline file: %w", err)
	}
	defer f.Close()

	p, err := Load(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// SaveFile записывает pipeline в файл; формат определяется по расширению.
//
// Запись идёт во временный файл рядом с целевым, затем он переименовывается,
// так что при ошибке прежнее содержимое сохраняется.
func SaveFile(path string, p *domain.Pipeline) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".pipeline-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Save(tmp, p, format); err != nil {
		tmp.Close()
		return fmt.Errorf("encode pipeline: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace pipeline file: %w", err)
	}
	return nil
}
