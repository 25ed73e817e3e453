package ouidb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"macshift/internal/domain/entities"
	"macshift/internal/domain/errors"
	"macshift/internal/domain/interfaces"
	"macshift/pkg/utils"
)

// DefaultSourceURL은 IEEE가 공개하는 OUI 등록 목록의 주소입니다
const DefaultSourceURL = "http://standards-oui.ieee.org/oui/oui.txt"

// Service는 IEEE OUI 등록 목록을 내려받아 로컬 벤더 저장소를 갱신하고,
// 벤더 조회와 국가 기반 MAC 제안을 제공합니다
type Service struct {
	vendors   interfaces.VendorRepository
	client    *http.Client
	sourceURL string
	logger    *logrus.Logger
}

// NewService는 새로운 OUI 서비스를 생성합니다
func NewService(vendors interfaces.VendorRepository, logger *logrus.Logger) *Service {
	return &Service{
		vendors:   vendors,
		client:    &http.Client{Timeout: 60 * time.Second},
		sourceURL: DefaultSourceURL,
		logger:    logger,
	}
}

// Update는 IEEE 등록 목록을 내려받아 벤더 저장소를 교체합니다
func (s *Service) Update(ctx context.Context) (int, error) {
	var content string

	err := utils.RetryWithBackoff(ctx, utils.DefaultRetryConfig, func() error {
		downloaded, err := s.download(ctx)
		if err != nil {
			s.logger.WithError(err).Warn("OUI download attempt failed")
			return err
		}
		content = downloaded
		return nil
	})
	if err != nil {
		return 0, errors.NewSystemError("failed to download OUI registry", err)
	}

	parsed := ParseRegistry(content)
	if len(parsed) == 0 {
		return 0, errors.NewValidationError("OUI registry contained no vendor entries", nil)
	}

	if err := s.vendors.ReplaceAll(parsed); err != nil {
		return 0, err
	}

	s.logger.WithField("vendor_count", len(parsed)).Info("OUI database updated")
	return len(parsed), nil
}

// Lookup은 MAC 주소 또는 벤더 프리픽스로 벤더 정보를 조회합니다
func (s *Service) Lookup(prefixOrMac string) (*interfaces.VendorInfo, error) {
	return s.vendors.Get(prefixOrMac)
}

// SuggestForCountry는 해당 국가에 등록된 첫 번째 벤더의 프리픽스로
// 무작위 MAC 주소를 생성합니다
func (s *Service) SuggestForCountry(country string) (entities.MacAddress, *interfaces.VendorInfo, error) {
	vendors, err := s.vendors.ByCountry(country)
	if err != nil {
		return entities.MacAddress{}, nil, err
	}
	if len(vendors) == 0 {
		return entities.MacAddress{}, nil, errors.NewNotFoundError(
			fmt.Sprintf("no vendors registered for country %s", strings.ToUpper(country)))
	}

	vendor := vendors[0]
	prefix, err := entities.ParseVendorPrefix(vendor.Prefix)
	if err != nil {
		return entities.MacAddress{}, nil, err
	}

	mac, err := entities.GenerateRandomMac(&prefix)
	if err != nil {
		return entities.MacAddress{}, nil, err
	}
	return mac, &vendor, nil
}

// ListCountries는 저장소에 등록된 국가 코드를 정렬하여 반환합니다
func (s *Service) ListCountries() ([]string, error) {
	all, err := s.vendors.All()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var countries []string
	for _, vendor := range all {
		if _, ok := seen[vendor.Country]; ok {
			continue
		}
		seen[vendor.Country] = struct{}{}
		countries = append(countries, vendor.Country)
	}
	sort.Strings(countries)
	return countries, nil
}

func (s *Service) download(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.sourceURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ParseRegistry는 IEEE oui.txt 본문을 파싱합니다.
// "(hex)" 표기가 있는 행에서 프리픽스와 회사명을 읽고, 이어지는 주소
// 블록의 마지막 행에서 국가 코드를 읽습니다
func ParseRegistry(content string) map[string]interfaces.VendorInfo {
	vendors := make(map[string]interfaces.VendorInfo)
	lines := strings.Split(content, "\n")

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if !strings.Contains(line, "(hex)") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 || fields[1] != "(hex)" {
			continue
		}

		prefix := strings.ReplaceAll(fields[0], "-", ":")
		name := strings.Join(fields[2:], " ")

		// 주소 블록의 마지막 행이 국가 코드
		country := ""
		for j := i + 1; j < len(lines); j++ {
			trimmed := strings.TrimSpace(lines[j])
			if trimmed == "" {
				i = j
				break
			}
			country = trimmed
		}
		if country == "" {
			country = "US"
		} else if tokens := strings.Fields(country); len(tokens) > 0 {
			country = tokens[len(tokens)-1]
		}

		vendors[prefix] = interfaces.VendorInfo{
			Prefix:  prefix,
			Name:    name,
			Country: strings.ToUpper(country),
		}
	}

	return vendors
}
