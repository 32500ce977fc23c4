package programstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"vision-inspect/internal/domain/entity"
	"vision-inspect/internal/domain/port"
)

// FileStore загружает программы инспекции из YAML-файлов каталога.
type FileStore struct {
	dir string
}

// NewFileStore создаёт хранилище программ для каталога dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Load читает, разбирает и проверяет программу по имени.
// Имя без расширения дополняется суффиксом .yaml.
func (s *FileStore) Load(name string) (*entity.Program, error) {
	file := name
	if filepath.Ext(file) == "" {
		file += ".yaml"
	}
	path := filepath.Join(s.dir, file)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read program %q: %v", entity.ErrConfiguration, path, err)
	}

	program := &entity.Program{
		TriggerType:    entity.TriggerInternal,
		BrightnessMode: entity.BrightnessNormal,
	}
	if err := yaml.Unmarshal(data, program); err != nil {
		return nil, fmt.Errorf("%w: cannot parse program %q: %v", entity.ErrConfiguration, path, err)
	}

	if program.Name == "" {
		program.Name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	// Относительный путь к эталону берётся от каталога программ.
	if program.MasterImagePath != "" && !filepath.IsAbs(program.MasterImagePath) {
		program.MasterImagePath = filepath.Join(s.dir, program.MasterImagePath)
	}

	if err := program.Validate(); err != nil {
		return nil, err
	}
	return program, nil
}

var _ port.ProgramStore = (*FileStore)(nil)
