package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/natacion/clubmanager/internal/models"
)

type champFixture struct {
	champ    models.Championship
	backTest models.Test
}

// buildChampionship creates two sessions: a freestyle test with 3 swimmers in
// heats of 2 and a backstroke test with a single swimmer.
func buildChampionship(t *testing.T, gdb *gorm.DB) champFixture {
	t.Helper()
	ch := newChampionship(t, gdb, nil)
	alevin := models.Category{Name: "Alevín", YearsMin: 11, YearsMax: 12}
	require.NoError(t, gdb.Create(&alevin).Error)
	free := models.Style{Name: "Lliure"}
	back := models.Style{Name: "Esquena"}
	require.NoError(t, gdb.Create(&free).Error)
	require.NoError(t, gdb.Create(&back).Error)

	s1 := models.Session{ChampionshipID: &ch.ID, Date: at(today, 9)}
	s2 := models.Session{ChampionshipID: &ch.ID, Date: at(today, 17)}
	require.NoError(t, CreateSession(gdb, &s1))
	require.NoError(t, CreateSession(gdb, &s2))

	ft := models.Test{Description: "50 lliure", SeriesSize: 2, SessionID: &s1.ID, CategoryID: &alevin.ID, StyleID: &free.ID}
	bt := models.Test{Description: "50 esquena", SeriesSize: 8, SessionID: &s2.ID, CategoryID: &alevin.ID, StyleID: &back.ID}
	require.NoError(t, gdb.Create(&ft).Error)
	require.NoError(t, gdb.Create(&bt).Error)

	anna := paidSwimmer(t, gdb, "Anna", nil, 1)
	biel := paidSwimmer(t, gdb, "Biel", nil, 1)
	carla := paidSwimmer(t, gdb, "Carla", nil, 1)
	registerAll(t, gdb, ft.ID, []models.Swimmer{anna, biel, carla})
	registerAll(t, gdb, bt.ID, []models.Swimmer{biel})

	_, err := GenerateSeries(gdb, ft.ID)
	require.NoError(t, err)
	_, err = GenerateSeries(gdb, bt.ID)
	require.NoError(t, err)
	return champFixture{champ: ch, backTest: bt}
}

func TestComputeClassification(t *testing.T) {
	gdb := openTestDB(t)
	fx := buildChampionship(t, gdb)

	got, err := ComputeClassification(gdb, fx.champ.ID)
	require.NoError(t, err)

	want := Classification{
		"Alevín": {
			"Lliure": {
				{Swimmer: "Anna"}, {Swimmer: "Biel"}, {Swimmer: "Carla"},
			},
			"Esquena": {
				{Swimmer: "Biel"},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("classification mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeClassification_TestWithoutCategoryOrStyle(t *testing.T) {
	gdb := openTestDB(t)
	ch := newChampionship(t, gdb, nil)
	s := models.Session{ChampionshipID: &ch.ID, Date: at(today, 9)}
	require.NoError(t, CreateSession(gdb, &s))
	ts := newTest(t, gdb, &s.ID, 8)

	got, err := ComputeClassification(gdb, ch.ID)
	require.NoError(t, err)
	want := Classification{"": {"": {}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	registerAll(t, gdb, ts.ID, []models.Swimmer{paidSwimmer(t, gdb, "Dídac", nil, 3)})
	_, err = GenerateSeries(gdb, ts.ID)
	require.NoError(t, err)
	got, err = ComputeClassification(gdb, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, []ClassificationEntry{{Swimmer: "Dídac"}}, got[""][""])
}

func TestComputeClassification_NoSessions(t *testing.T) {
	gdb := openTestDB(t)
	ch := newChampionship(t, gdb, nil)

	got, err := ComputeClassification(gdb, ch.ID)
	require.NoError(t, err)
	assert.Empty(t, got)

	minutes, err := ComputeTotalDuration(gdb, ch.ID)
	require.NoError(t, err)
	assert.Zero(t, minutes)
}

func TestComputeTotalDuration(t *testing.T) {
	gdb := openTestDB(t)
	fx := buildChampionship(t, gdb)

	// 2 heats of freestyle + 1 of backstroke.
	minutes, err := ComputeTotalDuration(gdb, fx.champ.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, minutes)
}

func TestCachedClassification_InvalidatedByResults(t *testing.T) {
	gdb := openTestDB(t)
	fx := buildChampionship(t, gdb)

	first, err := CachedClassification(gdb, fx.champ.ID)
	require.NoError(t, err)
	assert.Zero(t, first["Alevín"]["Esquena"][0].Time)

	var res models.Result
	require.NoError(t, gdb.Where("test_id = ?", fx.backTest.ID).First(&res).Error)
	_, err = RecordResult(gdb, res.ID, 41.2, 1)
	require.NoError(t, err)

	second, err := CachedClassification(gdb, fx.champ.ID)
	require.NoError(t, err)
	assert.Equal(t, ClassificationEntry{Swimmer: "Biel", Time: 41.2, Position: 1}, second["Alevín"]["Esquena"][0])
}

func TestCachedClassification_InvalidatedByRename(t *testing.T) {
	gdb := openTestDB(t)
	fx := buildChampionship(t, gdb)

	first, err := CachedClassification(gdb, fx.champ.ID)
	require.NoError(t, err)
	require.Contains(t, first, "Alevín")

	require.NoError(t, gdb.Model(&models.Category{}).Where("name = ?", "Alevín").Update("name", "Benjamí").Error)
	require.NoError(t, gdb.Model(&models.Swimmer{}).Where("name = ?", "Biel").Update("name", "Biel Serra").Error)

	second, err := CachedClassification(gdb, fx.champ.ID)
	require.NoError(t, err)
	assert.NotContains(t, second, "Alevín")
	require.Len(t, second["Benjamí"]["Esquena"], 1)
	assert.Equal(t, "Biel Serra", second["Benjamí"]["Esquena"][0].Swimmer)
}

func TestCachedClassification_WriteDuringComputeIsNotCached(t *testing.T) {
	gdb := openTestDB(t)
	fx := buildChampionship(t, gdb)
	require.NoError(t, gdb.Callback().Query().After("gorm:query").
		Register("test:concurrent_write", func(*gorm.DB) { InvalidateClassification() }))

	_, err := CachedClassification(gdb, fx.champ.ID)
	require.NoError(t, err)
	assert.Zero(t, classificationCache.ItemCount())
}
