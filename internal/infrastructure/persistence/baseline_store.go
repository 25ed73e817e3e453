package persistence

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"macshift/internal/domain/entities"
	"macshift/internal/domain/errors"
	"macshift/internal/domain/interfaces"
)

// baselineFile은 인터페이스별 베이스라인 파일의 스키마입니다
type baselineFile struct {
	OriginalMac  string    `yaml:"original_mac"`
	Interface    string    `yaml:"interface"`
	LastModified time.Time `yaml:"last_modified"`
}

// YAMLBaselineStore는 인터페이스별 원본 MAC을 인터페이스당 하나의
// YAML 파일로 보관하는 BaselineRepository 구현체입니다
type YAMLBaselineStore struct {
	dir   string
	fs    interfaces.FileSystem
	clock interfaces.Clock
}

// NewYAMLBaselineStore는 새로운 YAMLBaselineStore를 생성합니다
func NewYAMLBaselineStore(dir string, fs interfaces.FileSystem, clock interfaces.Clock) *YAMLBaselineStore {
	return &YAMLBaselineStore{dir: dir, fs: fs, clock: clock}
}

// Save는 인터페이스의 원본 MAC을 저장합니다
func (s *YAMLBaselineStore) Save(ifaceName string, mac entities.MacAddress) error {
	content, err := yaml.Marshal(baselineFile{
		OriginalMac:  mac.String(),
		Interface:    ifaceName,
		LastModified: s.clock.Now(),
	})
	if err != nil {
		return errors.NewSystemError("failed to serialize baseline", err)
	}

	if err := s.fs.WriteFile(s.filePath(ifaceName), content, 0644); err != nil {
		return errors.NewSystemError("failed to write baseline", err)
	}
	return nil
}

// Get은 저장된 원본 MAC을 반환합니다. 저장된 값이 없으면 ok=false입니다
func (s *YAMLBaselineStore) Get(ifaceName string) (entities.MacAddress, bool, error) {
	path := s.filePath(ifaceName)
	if !s.fs.Exists(path) {
		return entities.MacAddress{}, false, nil
	}

	content, err := s.fs.ReadFile(path)
	if err != nil {
		return entities.MacAddress{}, false, errors.NewSystemError("failed to read baseline", err)
	}

	var file baselineFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return entities.MacAddress{}, false, errors.NewSystemError("failed to parse baseline", err)
	}

	mac, err := entities.ParseMac(file.OriginalMac)
	if err != nil {
		return entities.MacAddress{}, false, err
	}
	return mac, true, nil
}

// Interfaces는 베이스라인 파일이 존재하는 인터페이스 이름 목록을
// 사전순으로 반환합니다
func (s *YAMLBaselineStore) Interfaces() ([]string, error) {
	if !s.fs.Exists(s.dir) {
		return nil, nil
	}

	files, err := s.fs.ListFiles(s.dir)
	if err != nil {
		return nil, errors.NewSystemError("failed to list baseline directory", err)
	}

	var names []string
	for _, file := range files {
		if strings.HasSuffix(file, ".yaml") {
			names = append(names, strings.TrimSuffix(file, ".yaml"))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *YAMLBaselineStore) filePath(ifaceName string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.yaml", ifaceName))
}
