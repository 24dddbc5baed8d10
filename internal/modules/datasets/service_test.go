package datasets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/subsidywatch/internal/modules/grouping"
)

const records2022 = `[
	{"beneficiaryName": "CPAS de Bruxelles", "registrationId": "0212345678", "grantedAmount": "1.000,50", "year": 2022},
	{"beneficiaryName": "CPAS  Bruxelles", "registrationId": " 0212345678 ", "grantedAmount": 250},
	{"beneficiaryName": 42, "registrationId": "", "grantedAmount": "n/a"}
]`

func writeFile(t *testing.T, dir, name string, content []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), content, 0644))
}

// setupDataDir writes one JSON and one msgpack file plus files that must be ignored
func setupDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, dir, "subsidies-2022.json", []byte(records2022))

	payload, err := msgpack.Marshal([]map[string]any{
		{"beneficiaryName": "Ville de Namur", "registrationId": "0207", "grantedAmount": 1200.0},
	})
	require.NoError(t, err)
	writeFile(t, dir, "subsidies-2023.msgpack", payload)

	writeFile(t, dir, "README.txt", []byte("not data"))
	writeFile(t, dir, ".draft-2024.json", []byte("{broken"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.json"), 0755))

	return dir
}

func TestDirSource_List(t *testing.T) {
	dir := setupDataDir(t)
	source := NewDirSource(dir)

	names, err := source.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"subsidies-2022.json", "subsidies-2023.msgpack"}, names)
	assert.Equal(t, "dir:"+dir, source.Describe())
}

func TestDirSource_MissingDirectory(t *testing.T) {
	source := NewDirSource(filepath.Join(t.TempDir(), "missing"))

	_, err := source.List(context.Background())
	assert.Error(t, err)
}

func TestDirSource_OpenRejectsPaths(t *testing.T) {
	source := NewDirSource(setupDataDir(t))

	_, err := source.Open(context.Background(), "../subsidies-2022.json")
	assert.Error(t, err)

	rc, err := source.Open(context.Background(), "subsidies-2022.json")
	require.NoError(t, err)
	assert.NoError(t, rc.Close())
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatJSON, formatOf("a.json"))
	assert.Equal(t, FormatJSON, formatOf("A.JSON"))
	assert.Equal(t, FormatMsgpack, formatOf("a.msgpack"))
	assert.Equal(t, FormatMsgpack, formatOf("a.mpk"))
	assert.Equal(t, "", formatOf("a.csv"))
	assert.Equal(t, "", formatOf("json"))
}

func TestLoader_Load(t *testing.T) {
	loader := NewLoader(NewDirSource(setupDataDir(t)), zerolog.Nop())

	result, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Records, 4)
	assert.Equal(t, []FileInfo{
		{Name: "subsidies-2022.json", Format: FormatJSON, Year: 2022, Records: 3},
		{Name: "subsidies-2023.msgpack", Format: FormatMsgpack, Year: 2023, Records: 1},
	}, result.Files)

	assert.Equal(t, "CPAS de Bruxelles", result.Records[0].BeneficiaryName)
	assert.Equal(t, "1000.50", result.Records[0].GrantedAmount.StringFixed(2))
	assert.Equal(t, "", result.Records[2].BeneficiaryName)
	assert.Equal(t, 2022, result.Records[2].Year)

	namur := result.Records[3]
	assert.Equal(t, "Ville de Namur", namur.BeneficiaryName)
	assert.Equal(t, 2023, namur.Year)
	assert.Equal(t, "subsidies-2023.msgpack", namur.Source)
	assert.Equal(t, "1200.00", namur.GrantedAmount.StringFixed(2))
}

func TestLoader_PreservesFileOrder(t *testing.T) {
	dir := t.TempDir()
	for i := 9; i >= 0; i-- {
		content := fmt.Sprintf(`[{"beneficiaryName": "Beneficiary %d", "grantedAmount": %d}]`, i, i)
		writeFile(t, dir, fmt.Sprintf("part-%02d.json", i), []byte(content))
	}

	for _, concurrency := range []int{1, 3, 16} {
		t.Run(fmt.Sprintf("concurrency %d", concurrency), func(t *testing.T) {
			loader := NewLoader(NewDirSource(dir), zerolog.Nop())
			loader.SetConcurrency(concurrency)

			result, err := loader.Load(context.Background())
			require.NoError(t, err)
			require.Len(t, result.Records, 10)

			for i, r := range result.Records {
				assert.Equal(t, fmt.Sprintf("Beneficiary %d", i), r.BeneficiaryName)
			}
		})
	}
}

func TestLoader_MalformedFileFailsLoad(t *testing.T) {
	dir := setupDataDir(t)
	writeFile(t, dir, "subsidies-2024.json", []byte(`[{"beneficiaryName": `))

	_, err := NewLoader(NewDirSource(dir), zerolog.Nop()).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subsidies-2024.json")
}

func TestLoader_EmptyDirectory(t *testing.T) {
	result, err := NewLoader(NewDirSource(t.TempDir()), zerolog.Nop()).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Empty(t, result.Files)
}

func TestService_CurrentBeforeReload(t *testing.T) {
	service := NewService(NewLoader(NewDirSource(t.TempDir()), zerolog.Nop()), zerolog.Nop())

	_, err := service.Current()
	assert.True(t, errors.Is(err, ErrNoSnapshot))
}

func TestService_Reload(t *testing.T) {
	dir := setupDataDir(t)
	service := NewService(NewLoader(NewDirSource(dir), zerolog.Nop()), zerolog.Nop())

	snapshot, err := service.Reload(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, snapshot.ID)
	assert.Equal(t, "dir:"+dir, snapshot.Source)

	current, err := service.Current()
	require.NoError(t, err)
	assert.Same(t, snapshot, current)

	cpas, ok := snapshot.ByName.Get("cpas bruxelles")
	require.True(t, ok)
	assert.Equal(t, 2, cpas.Count)
	assert.Equal(t, "1250.50", cpas.TotalAmount.StringFixed(2))
	assert.Equal(t, "CPAS de Bruxelles", cpas.DisplayName)
	assert.Equal(t, 2, cpas.VariantCount())

	reg, ok := snapshot.ByRegistration.Get("0212345678")
	require.True(t, ok)
	assert.Equal(t, 2, reg.Count)

	assert.Same(t, snapshot.ByName, snapshot.Groups(grouping.StrategyName))
	assert.Same(t, snapshot.ByRegistration, snapshot.Groups(grouping.StrategyRegistration))

	info := snapshot.Info()
	assert.Equal(t, 4, info.RecordCount)
	assert.Equal(t, 2, info.NameGroups)
	assert.Equal(t, 2, info.RegistrationGroups)
	assert.Equal(t, 1, info.UnnamedRecords)
	assert.Equal(t, 1, info.UnregisteredRecords)
	assert.Len(t, info.Files, 2)
}

func TestService_FailedReloadKeepsSnapshot(t *testing.T) {
	dir := setupDataDir(t)
	service := NewService(NewLoader(NewDirSource(dir), zerolog.Nop()), zerolog.Nop())

	first, err := service.Reload(context.Background())
	require.NoError(t, err)

	writeFile(t, dir, "subsidies-2024.json", []byte(`not json`))

	_, err = service.Reload(context.Background())
	require.Error(t, err)

	current, err := service.Current()
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)
}

func TestService_ReloadRecomputesFromScratch(t *testing.T) {
	dir := setupDataDir(t)
	service := NewService(NewLoader(NewDirSource(dir), zerolog.Nop()), zerolog.Nop())

	first, err := service.Reload(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "subsidies-2023.msgpack")))

	second, err := service.Reload(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, second.Records, 3)

	_, ok := second.ByName.Get("ville namur")
	assert.False(t, ok)
	_, ok = first.ByName.Get("ville namur")
	assert.True(t, ok)
}

func TestReloadJob(t *testing.T) {
	service := NewService(NewLoader(NewDirSource(setupDataDir(t)), zerolog.Nop()), zerolog.Nop())
	job := NewReloadJob(service)

	assert.Equal(t, "dataset_reload", job.Name())
	require.NoError(t, job.Run())

	snapshot, err := service.Current()
	require.NoError(t, err)
	assert.Len(t, snapshot.Records, 4)
}

func TestReloadJob_PropagatesError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	job := NewReloadJob(NewService(NewLoader(NewDirSource(missing), zerolog.Nop()), zerolog.Nop()))

	assert.Error(t, job.Run())
}
