package persistence

import (
	"gopkg.in/yaml.v3"

	"macshift/internal/domain/entities"
	"macshift/internal/domain/errors"
	"macshift/internal/domain/interfaces"
)

// historyFile은 이력 파일의 스키마입니다
type historyFile struct {
	Changes []entities.ChangeRecord `yaml:"changes"`
}

// YAMLHistoryStore는 변경 이력을 단일 YAML 파일에 보관하는
// 추가 전용 HistoryRepository 구현체입니다
type YAMLHistoryStore struct {
	path string
	fs   interfaces.FileSystem
}

// NewYAMLHistoryStore는 새로운 YAMLHistoryStore를 생성합니다
func NewYAMLHistoryStore(path string, fs interfaces.FileSystem) *YAMLHistoryStore {
	return &YAMLHistoryStore{path: path, fs: fs}
}

// Append는 변경 결과를 이력에 추가합니다
func (s *YAMLHistoryStore) Append(record entities.ChangeRecord) error {
	file, err := s.load()
	if err != nil {
		return err
	}

	file.Changes = append(file.Changes, record)

	content, err := yaml.Marshal(file)
	if err != nil {
		return errors.NewSystemError("failed to serialize change history", err)
	}
	if err := s.fs.WriteFile(s.path, content, 0644); err != nil {
		return errors.NewSystemError("failed to write change history", err)
	}
	return nil
}

// List는 기록된 순서대로 이력을 반환합니다
func (s *YAMLHistoryStore) List() ([]entities.ChangeRecord, error) {
	file, err := s.load()
	if err != nil {
		return nil, err
	}
	return file.Changes, nil
}

func (s *YAMLHistoryStore) load() (historyFile, error) {
	var file historyFile
	if !s.fs.Exists(s.path) {
		return file, nil
	}

	content, err := s.fs.ReadFile(s.path)
	if err != nil {
		return file, errors.NewSystemError("failed to read change history", err)
	}
	if err := yaml.Unmarshal(content, &file); err != nil {
		return file, errors.NewSystemError("failed to parse change history", err)
	}
	return file, nil
}
