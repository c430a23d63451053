package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidPath = errors.New("invalid token file path")
	ErrCreateDir   = errors.New("failed to create directory")
	ErrReadFile    = errors.New("failed to read token file")
	ErrDecodeFile  = errors.New("failed to decode token file")
	ErrWriteFile   = errors.New("failed to write token file")
)

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

// NewFileStore - хранилище в JSON документе на диске. Файл создается при
// первой записи. nil log -> без логов.
func NewFileStore(path string, log *zerolog.Logger) (*Store, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}

	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}

	return &Store{backend: &fileBackend{path: absPath, log: log}}, nil
}

type fileBackend struct {
	path string
	log  *zerolog.Logger
}

func (f *fileBackend) get(key string) (string, bool, error) {
	data, err := f.load()
	if err != nil {
		return "", false, err
	}
	val, ok := data[key]
	return val, ok, nil
}

// set и remove поверх испорченного документа начинают с пустого.
func (f *fileBackend) set(key, value string) error {
	data, err := f.load()
	if errors.Is(err, ErrDecodeFile) {
		f.log.Warn().Err(err).Str("path", f.path).Msg("Token file is corrupt, overwriting")
		data = map[string]string{}
	} else if err != nil {
		return err
	}
	data[key] = value
	return f.write(data)
}

func (f *fileBackend) remove(keys ...string) error {
	data, err := f.load()
	if errors.Is(err, ErrDecodeFile) {
		f.log.Warn().Err(err).Str("path", f.path).Msg("Token file is corrupt, removing")
		data = map[string]string{}
	} else if err != nil {
		return err
	}

	for _, key := range keys {
		delete(data, key)
	}

	if len(data) == 0 {
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%w: %v", ErrWriteFile, err)
		}
		return nil
	}
	return f.write(data)
}

// load - отсутствующий или пустой файл значит пустое хранилище.
func (f *fileBackend) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrReadFile, err)
	}

	data := map[string]string{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFile, err)
	}
	return data, nil
}

// write пишет во временный файл и переименовывает, чтобы не оставить
// наполовину записанный документ.
func (f *fileBackend) write(data map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("%w: %v", ErrCreateDir, err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFile, err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFile, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrWriteFile, err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrWriteFile, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFile, err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFile, err)
	}
	return nil
}
