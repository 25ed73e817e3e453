package persistence

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"macshift/internal/domain/entities"
	"macshift/internal/domain/errors"
	"macshift/internal/domain/interfaces"
)

// ruleFile은 규칙 파일의 전체 스키마입니다
type ruleFile struct {
	Rules []entities.AppRule `yaml:"rules"`
}

// YAMLRuleStore는 규칙을 단일 YAML 파일에 보관하는 RuleRepository 구현체입니다.
// 모든 변경은 전체 파일 읽기-덮어쓰기로 수행되며, 파일 내 순서가 곧
// 규칙의 삽입 순서입니다. 같은 키의 규칙 교체는 제자리에서 이루어져
// 삽입 순서를 보존합니다.
type YAMLRuleStore struct {
	path string
	fs   interfaces.FileSystem
}

// NewYAMLRuleStore는 새로운 YAMLRuleStore를 생성합니다
func NewYAMLRuleStore(path string, fs interfaces.FileSystem) *YAMLRuleStore {
	return &YAMLRuleStore{path: path, fs: fs}
}

// Add는 규칙을 검증 후 추가합니다. 같은 (app_name, interface) 키의
// 기존 규칙은 제자리에서 교체됩니다
func (s *YAMLRuleStore) Add(rule entities.AppRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	rules, err := s.load()
	if err != nil {
		return err
	}

	replaced := false
	for i := range rules {
		if rules[i].Key() == rule.Key() {
			rules[i] = rule
			replaced = true
			break
		}
	}
	if !replaced {
		rules = append(rules, rule)
	}

	return s.save(rules)
}

// Remove는 규칙을 삭제합니다. 없으면 NotFound 에러를 반환합니다
func (s *YAMLRuleStore) Remove(appName, ifaceName string) error {
	rules, err := s.load()
	if err != nil {
		return err
	}

	key := appName + ":" + ifaceName
	for i := range rules {
		if rules[i].Key() == key {
			rules = append(rules[:i], rules[i+1:]...)
			return s.save(rules)
		}
	}

	return errors.NewNotFoundError(fmt.Sprintf("no rule for app %s on interface %s", appName, ifaceName))
}

// Get은 규칙을 조회합니다
func (s *YAMLRuleStore) Get(appName, ifaceName string) (*entities.AppRule, error) {
	rules, err := s.load()
	if err != nil {
		return nil, err
	}

	key := appName + ":" + ifaceName
	for i := range rules {
		if rules[i].Key() == key {
			rule := rules[i]
			return &rule, nil
		}
	}

	return nil, errors.NewNotFoundError(fmt.Sprintf("no rule for app %s on interface %s", appName, ifaceName))
}

// List는 모든 규칙을 삽입 순서대로 반환합니다
func (s *YAMLRuleStore) List() ([]entities.AppRule, error) {
	return s.load()
}

// SetEnabled는 규칙의 활성화 여부를 변경합니다
func (s *YAMLRuleStore) SetEnabled(appName, ifaceName string, enabled bool) error {
	return s.update(appName, ifaceName, func(rule *entities.AppRule) {
		rule.Enabled = enabled
	})
}

// TouchApplied는 규칙의 마지막 적용 시각을 갱신합니다
func (s *YAMLRuleStore) TouchApplied(appName, ifaceName string, at time.Time) error {
	return s.update(appName, ifaceName, func(rule *entities.AppRule) {
		rule.LastApplied = &at
	})
}

func (s *YAMLRuleStore) update(appName, ifaceName string, mutate func(*entities.AppRule)) error {
	rules, err := s.load()
	if err != nil {
		return err
	}

	key := appName + ":" + ifaceName
	for i := range rules {
		if rules[i].Key() == key {
			mutate(&rules[i])
			return s.save(rules)
		}
	}

	return errors.NewNotFoundError(fmt.Sprintf("no rule for app %s on interface %s", appName, ifaceName))
}

func (s *YAMLRuleStore) load() ([]entities.AppRule, error) {
	if !s.fs.Exists(s.path) {
		return nil, nil
	}

	content, err := s.fs.ReadFile(s.path)
	if err != nil {
		return nil, errors.NewSystemError("failed to read rule store", err)
	}

	var file ruleFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, errors.NewSystemError("failed to parse rule store", err)
	}
	return file.Rules, nil
}

func (s *YAMLRuleStore) save(rules []entities.AppRule) error {
	content, err := yaml.Marshal(ruleFile{Rules: rules})
	if err != nil {
		return errors.NewSystemError("failed to serialize rule store", err)
	}

	if err := s.fs.WriteFile(s.path, content, 0644); err != nil {
		return errors.NewSystemError("failed to write rule store", err)
	}
	return nil
}
