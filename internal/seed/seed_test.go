package seed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/natacion/clubmanager/internal/db"
	"github.com/natacion/clubmanager/internal/models"
)

var today = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(filepath.Join(t.TempDir(), "seed.db")+"?_foreign_keys=on", logger.Silent)
	require.NoError(t, err)
	return gdb
}

func nullLogger() logrus.FieldLogger {
	log, _ := test.NewNullLogger()
	return log
}

func categoryByID(cats []models.Category, id uint) models.Category {
	for _, c := range cats {
		if c.ID == id {
			return c
		}
	}
	return models.Category{}
}

func TestClubs(t *testing.T) {
	gdb := openTestDB(t)
	entries, err := LoadClubEntries("testdata/clubs.json")
	require.NoError(t, err)
	require.Len(t, entries, 4)

	created, err := Clubs(gdb, entries, "testdata", 3, nullLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, created, "blank names are skipped and the limit cuts the rest")

	var clubs []models.Club
	require.NoError(t, gdb.Order("id asc").Find(&clubs).Error)
	require.Len(t, clubs, 2)
	assert.Equal(t, "CN Sabadell", clubs[0].Name)
	assert.Equal(t, "Sabadell", clubs[0].Town)
	assert.True(t, strings.HasSuffix(string(clubs[0].Logo), "logo-one"))
	assert.Equal(t, "CN Terrassa", clubs[1].Name)
	assert.True(t, strings.HasSuffix(string(clubs[1].Logo), "jpeg-three"), "logo follows the listing position")

	created, err = Clubs(gdb, entries, "testdata", 0, nullLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, created, "existing clubs are left alone")

	var med models.Club
	require.NoError(t, gdb.Where("name = ?", "CE Mediterrani").First(&med).Error)
	assert.Nil(t, med.Logo)
}

func TestLoadClubEntriesErrors(t *testing.T) {
	_, err := LoadClubEntries("testdata/missing.json")
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"club":1}`), 0o644))
	_, err = LoadClubEntries(bad)
	assert.Error(t, err)
}

func TestCategoriesIdempotent(t *testing.T) {
	gdb := openTestDB(t)
	first, err := Categories(gdb)
	require.NoError(t, err)
	require.Len(t, first, 5)
	assert.Equal(t, "Benjamín", first[0].Name)
	assert.Equal(t, 99, first[4].YearsMax)

	second, err := Categories(gdb)
	require.NoError(t, err)
	assert.Equal(t, first[2].ID, second[2].ID)

	var n int64
	require.NoError(t, gdb.Model(&models.Category{}).Count(&n).Error)
	assert.EqualValues(t, 5, n)
}

func TestReadNames(t *testing.T) {
	names, err := LoadNames("testdata/mujeres.csv", "nombre", "frec")
	require.NoError(t, err)
	assert.Equal(t, []any{"Maria", "Lucia"}, names.values, "zero weights are dropped")
	assert.Equal(t, []float32{100, 50}, names.weights)

	surnames, err := LoadNames("testdata/apellidos.csv", "apellido", "frec_pri")
	require.NoError(t, err)
	assert.Equal(t, "De La Fuente", surnames.values[1])

	_, err = ReadNames(strings.NewReader("name,count\nA,1\n"), "nombre", "frec")
	assert.Error(t, err)
	_, err = ReadNames(strings.NewReader("nombre,frec\nA,x\n"), "nombre", "frec")
	assert.Error(t, err)
}

func TestSwimmerGenerator(t *testing.T) {
	gdb := openTestDB(t)
	cats, err := Categories(gdb)
	require.NoError(t, err)

	g := NewSwimmerGenerator(7)
	g.Female, err = LoadNames("testdata/mujeres.csv", "nombre", "frec")
	require.NoError(t, err)
	g.Surnames, err = LoadNames("testdata/apellidos.csv", "apellido", "frec_pri")
	require.NoError(t, err)
	require.NoError(t, g.LoadFaces("testdata/faces"))
	require.Len(t, g.Faces, 1)
	require.NoError(t, g.LoadFaces("testdata/no-such-dir"))

	for i := 0; i < 50; i++ {
		sw := g.Swimmer(today.Year(), cats)
		assert.GreaterOrEqual(t, sw.Age, MinAge)
		assert.LessOrEqual(t, sw.Age, MaxAge)
		assert.Equal(t, today.Year()-sw.Age, sw.YearOfBirth)
		require.NotNil(t, sw.CategoryID, sw.Name)
		assert.True(t, categoryByID(cats, *sw.CategoryID).Contains(sw.Age))
		assert.True(t, sw.IsSwimmer)
		assert.NotEmpty(t, sw.Photo)
		assert.GreaterOrEqual(t, len(strings.Fields(sw.Name)), 3)
	}

	require.NoError(t, g.CreateSwimmers(gdb, 12, today, nullLogger()))
	var n int64
	require.NoError(t, gdb.Model(&models.Swimmer{}).Where("category_id IS NOT NULL").Count(&n).Error)
	assert.EqualValues(t, 12, n)
}

func TestAssignClubs(t *testing.T) {
	gdb := openTestDB(t)
	faker := gofakeit.New(1)

	_, err := AssignClubs(gdb, 0, faker)
	assert.Error(t, err, "no clubs")

	clubs := []models.Club{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	require.NoError(t, gdb.Create(&clubs).Error)
	for _, name := range []string{"x", "y", "z", "w"} {
		require.NoError(t, gdb.Create(&models.Swimmer{Name: name}).Error)
	}
	require.NoError(t, gdb.Create(&models.Swimmer{Name: "member", ClubID: &clubs[2].ID}).Error)

	n, err := AssignClubs(gdb, 2, faker)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	var swimmers []models.Swimmer
	require.NoError(t, gdb.Order("id asc").Find(&swimmers).Error)
	for _, sw := range swimmers[:4] {
		require.NotNil(t, sw.ClubID)
		assert.Contains(t, []uint{clubs[0].ID, clubs[1].ID}, *sw.ClubID)
	}
	assert.Equal(t, clubs[2].ID, *swimmers[4].ClubID)

	n, err = AssignClubs(gdb, 2, faker)
	require.NoError(t, err)
	assert.Zero(t, n)
}
