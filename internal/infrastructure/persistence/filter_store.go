package persistence

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"macshift/internal/domain/entities"
	"macshift/internal/domain/errors"
	"macshift/internal/domain/interfaces"
)

// filterFile은 필터 파일의 스키마입니다
type filterFile struct {
	Allowlist []string `yaml:"allowlist"`
	Denylist  []string `yaml:"denylist"`
}

// YAMLFilterStore는 벤더 프리픽스 허용/차단 목록을 단일 YAML 파일에
// 보관하는 FilterRepository 구현체입니다
type YAMLFilterStore struct {
	path string
	fs   interfaces.FileSystem
}

// NewYAMLFilterStore는 새로운 YAMLFilterStore를 생성합니다
func NewYAMLFilterStore(path string, fs interfaces.FileSystem) *YAMLFilterStore {
	return &YAMLFilterStore{path: path, fs: fs}
}

// Allow는 프리픽스를 허용 목록에 추가합니다
func (s *YAMLFilterStore) Allow(prefix string) error {
	return s.add(prefix, func(f *filterFile, normalized string) {
		f.Allowlist = appendUnique(f.Allowlist, normalized)
	})
}

// Deny는 프리픽스를 차단 목록에 추가합니다
func (s *YAMLFilterStore) Deny(prefix string) error {
	return s.add(prefix, func(f *filterFile, normalized string) {
		f.Denylist = appendUnique(f.Denylist, normalized)
	})
}

// IsAllowed는 MAC의 벤더 프리픽스가 필터를 통과하는지 판정합니다.
// 허용 목록이 비어있지 않으면 허용 목록 포함 여부만 따지고,
// 그렇지 않으면 차단 목록에 없는 경우에만 허용합니다
func (s *YAMLFilterStore) IsAllowed(mac entities.MacAddress) (bool, error) {
	file, err := s.load()
	if err != nil {
		return false, err
	}

	prefix := mac.VendorPrefixString()

	if len(file.Allowlist) > 0 {
		return contains(file.Allowlist, prefix), nil
	}
	if len(file.Denylist) > 0 {
		return !contains(file.Denylist, prefix), nil
	}
	return true, nil
}

// List는 현재 허용/차단 목록을 반환합니다
func (s *YAMLFilterStore) List() ([]string, []string, error) {
	file, err := s.load()
	if err != nil {
		return nil, nil, err
	}
	return file.Allowlist, file.Denylist, nil
}

func (s *YAMLFilterStore) add(prefix string, mutate func(*filterFile, string)) error {
	parsed, err := entities.ParseVendorPrefix(prefix)
	if err != nil {
		return err
	}
	normalized := fmt.Sprintf("%02X:%02X:%02X", parsed[0], parsed[1], parsed[2])

	file, err := s.load()
	if err != nil {
		return err
	}

	mutate(&file, normalized)
	return s.save(file)
}

func (s *YAMLFilterStore) load() (filterFile, error) {
	var file filterFile
	if !s.fs.Exists(s.path) {
		return file, nil
	}

	content, err := s.fs.ReadFile(s.path)
	if err != nil {
		return file, errors.NewSystemError("failed to read filter store", err)
	}
	if err := yaml.Unmarshal(content, &file); err != nil {
		return file, errors.NewSystemError("failed to parse filter store", err)
	}
	return file, nil
}

func (s *YAMLFilterStore) save(file filterFile) error {
	content, err := yaml.Marshal(file)
	if err != nil {
		return errors.NewSystemError("failed to serialize filter store", err)
	}
	if err := s.fs.WriteFile(s.path, content, 0644); err != nil {
		return errors.NewSystemError("failed to write filter store", err)
	}
	return nil
}

func appendUnique(list []string, value string) []string {
	if contains(list, value) {
		return list
	}
	return append(list, value)
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}
