package persistence

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"macshift/internal/domain/errors"
	"macshift/internal/domain/interfaces"
)

// 데이터베이스 파일이 없을 때 사용하는 기본 제조사 목록
var defaultVendors = map[string]interfaces.VendorInfo{
	"00:17:F2": {Prefix: "00:17:F2", Name: "Apple, Inc.", Country: "US"},
	"00:1A:11": {Prefix: "00:1A:11", Name: "Google, Inc.", Country: "US"},
}

// YAMLVendorStore는 OUI 데이터베이스를 단일 YAML 파일에 보관하는
// VendorRepository 구현체입니다
type YAMLVendorStore struct {
	path string
	fs   interfaces.FileSystem
}

// NewYAMLVendorStore는 새로운 YAMLVendorStore를 생성합니다
func NewYAMLVendorStore(path string, fs interfaces.FileSystem) *YAMLVendorStore {
	return &YAMLVendorStore{path: path, fs: fs}
}

// Get은 프리픽스로 제조사를 조회합니다.
// "AA:BB:CC", "aa-bb-cc", "aabbcc" 표기를 모두 받습니다
func (s *YAMLVendorStore) Get(prefix string) (*interfaces.VendorInfo, error) {
	vendors, err := s.load()
	if err != nil {
		return nil, err
	}

	normalized, err := normalizePrefix(prefix)
	if err != nil {
		return nil, err
	}

	vendor, ok := vendors[normalized]
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no vendor found for prefix %s", normalized))
	}
	return &vendor, nil
}

// All은 등록된 모든 제조사를 반환합니다 (프리픽스 오름차순)
func (s *YAMLVendorStore) All() ([]interfaces.VendorInfo, error) {
	vendors, err := s.load()
	if err != nil {
		return nil, err
	}

	result := make([]interfaces.VendorInfo, 0, len(vendors))
	for _, vendor := range vendors {
		result = append(result, vendor)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Prefix < result[j].Prefix
	})
	return result, nil
}

// ByCountry는 국가 코드로 제조사 목록을 조회합니다 (프리픽스 오름차순)
func (s *YAMLVendorStore) ByCountry(country string) ([]interfaces.VendorInfo, error) {
	vendors, err := s.load()
	if err != nil {
		return nil, err
	}

	var result []interfaces.VendorInfo
	for _, vendor := range vendors {
		if strings.EqualFold(vendor.Country, country) {
			result = append(result, vendor)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Prefix < result[j].Prefix
	})
	return result, nil
}

// ReplaceAll은 데이터베이스 전체를 교체합니다
func (s *YAMLVendorStore) ReplaceAll(vendors map[string]interfaces.VendorInfo) error {
	content, err := yaml.Marshal(vendors)
	if err != nil {
		return errors.NewSystemError("failed to serialize vendor database", err)
	}
	if err := s.fs.WriteFile(s.path, content, 0644); err != nil {
		return errors.NewSystemError("failed to write vendor database", err)
	}
	return nil
}

// Count는 등록된 제조사 수를 반환합니다
func (s *YAMLVendorStore) Count() (int, error) {
	vendors, err := s.load()
	if err != nil {
		return 0, err
	}
	return len(vendors), nil
}

func (s *YAMLVendorStore) load() (map[string]interfaces.VendorInfo, error) {
	if !s.fs.Exists(s.path) {
		return defaultVendors, nil
	}

	content, err := s.fs.ReadFile(s.path)
	if err != nil {
		return nil, errors.NewSystemError("failed to read vendor database", err)
	}

	vendors := make(map[string]interfaces.VendorInfo)
	if err := yaml.Unmarshal(content, &vendors); err != nil {
		return nil, errors.NewSystemError("failed to parse vendor database", err)
	}
	return vendors, nil
}

// normalizePrefix는 프리픽스 표기를 "AA:BB:CC" 형태로 정규화합니다
func normalizePrefix(prefix string) (string, error) {
	clean := strings.NewReplacer(":", "", "-", "", ".", "").Replace(prefix)
	if len(clean) < 6 {
		return "", errors.NewInvalidFormatError(
			fmt.Sprintf("vendor prefix %q is too short: expected 3 bytes", prefix), nil)
	}
	clean = strings.ToUpper(clean[:6])
	return clean[0:2] + ":" + clean[2:4] + ":" + clean[4:6], nil
}
