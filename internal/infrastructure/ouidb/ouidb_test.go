package ouidb

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macshift/internal/infrastructure/adapters"
	"macshift/internal/infrastructure/persistence"
)

const sampleRegistry = `OUI/MA-L                                                    Organization
company_id                                                  Organization
                                                            Address

00-17-F2   (hex)		Apple, Inc.
0017F2     (base 16)		Apple, Inc.
				1 Infinite Loop
				Cupertino  CA  95014
				US

00-1A-11   (hex)		Google, Inc.
001A11     (base 16)		Google, Inc.
				1600 Amphitheatre Parkway
				Mountain View  CA  94043
				US

00-16-32   (hex)		SAMSUNG ELECTRO-MECHANICS
001632     (base 16)		SAMSUNG ELECTRO-MECHANICS
				314, Maetan3-Dong, Yeongtong-Gu
				Suwon  Gyunggi-Do  443-743
				KR
`

func TestParseRegistry(t *testing.T) {
	vendors := ParseRegistry(sampleRegistry)

	require.Len(t, vendors, 3)

	apple, ok := vendors["00:17:F2"]
	require.True(t, ok)
	assert.Equal(t, "00:17:F2", apple.Prefix)
	assert.Equal(t, "Apple, Inc.", apple.Name)
	assert.Equal(t, "US", apple.Country)

	samsung, ok := vendors["00:16:32"]
	require.True(t, ok)
	assert.Equal(t, "SAMSUNG ELECTRO-MECHANICS", samsung.Name)
	assert.Equal(t, "KR", samsung.Country)
}

func TestParseRegistry_EmptyInput(t *testing.T) {
	assert.Empty(t, ParseRegistry(""))
	assert.Empty(t, ParseRegistry("no vendor lines here\n"))
}

func newTestService(t *testing.T) (*Service, *persistence.YAMLVendorStore) {
	t.Helper()
	store := persistence.NewYAMLVendorStore(
		filepath.Join(t.TempDir(), "vendors.yaml"), adapters.NewRealFileSystem())
	return NewService(store, logrus.New()), store
}

func TestService_SuggestForCountry(t *testing.T) {
	service, store := newTestService(t)
	require.NoError(t, store.ReplaceAll(ParseRegistry(sampleRegistry)))

	mac, vendor, err := service.SuggestForCountry("kr")
	require.NoError(t, err)
	require.NotNil(t, vendor)
	assert.Equal(t, "00:16:32", vendor.Prefix)
	assert.Equal(t, "00:16:32", mac.VendorPrefixString())

	_, _, err = service.SuggestForCountry("FR")
	assert.Error(t, err)
}

func TestService_SuggestForCountry_PicksFirstByPrefix(t *testing.T) {
	service, store := newTestService(t)
	require.NoError(t, store.ReplaceAll(ParseRegistry(sampleRegistry)))

	// 미국 벤더가 둘: 프리픽스 오름차순으로 첫 번째를 사용
	_, vendor, err := service.SuggestForCountry("US")
	require.NoError(t, err)
	assert.Equal(t, "00:17:F2", vendor.Prefix)
}

func TestService_ListCountries(t *testing.T) {
	service, store := newTestService(t)
	require.NoError(t, store.ReplaceAll(ParseRegistry(sampleRegistry)))

	countries, err := service.ListCountries()
	require.NoError(t, err)
	assert.Equal(t, []string{"KR", "US"}, countries)
}
