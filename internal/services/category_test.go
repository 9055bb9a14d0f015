package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natacion/clubmanager/internal/models"
)

func TestComputeAge(t *testing.T) {
	assert.Equal(t, 0, ComputeAge(0, 2024))
	assert.Equal(t, 0, ComputeAge(0, 1999))
	assert.Equal(t, 34, ComputeAge(1990, 2024))
}

func TestResolveCategory(t *testing.T) {
	cats := []models.Category{
		{ID: 1, Name: "Infantil", YearsMin: 13, YearsMax: 14},
		{ID: 2, Name: "Junior", YearsMin: 14, YearsMax: 18},
		{ID: 3, Name: "Senior", YearsMin: 19, YearsMax: 99},
	}

	c := ResolveCategory(14, cats)
	require.NotNil(t, c)
	assert.Equal(t, "Infantil", c.Name, "first match wins on overlap")

	c = ResolveCategory(18, cats)
	require.NotNil(t, c)
	assert.Equal(t, "Junior", c.Name)

	assert.Nil(t, ResolveCategory(5, cats))
	assert.Nil(t, ResolveCategory(30, nil))
}

func TestValidateCategory(t *testing.T) {
	assert.NoError(t, ValidateCategory(models.Category{Name: "Alevín", YearsMin: 11, YearsMax: 12}))
	assert.NoError(t, ValidateCategory(models.Category{Name: "Single", YearsMin: 12, YearsMax: 12}))
	assert.True(t, IsValidation(ValidateCategory(models.Category{Name: "Bad", YearsMin: 12, YearsMax: 11})))
	assert.True(t, IsValidation(ValidateCategory(models.Category{YearsMin: 1, YearsMax: 2})))
}

func TestSetBirthYear(t *testing.T) {
	gdb := openTestDB(t)
	require.NoError(t, CreateCategory(gdb, &models.Category{Name: "Alevín", YearsMin: 11, YearsMax: 12}))
	require.NoError(t, CreateCategory(gdb, &models.Category{Name: "Infantil", YearsMin: 13, YearsMax: 14}))
	sw := unpaidSwimmer(t, gdb, "Nil Soler", nil)

	got, err := SetBirthYear(gdb, sw.ID, 2013, today)
	require.NoError(t, err)
	assert.Equal(t, 13, got.Age)
	require.NotNil(t, got.CategoryID)

	var cat models.Category
	require.NoError(t, gdb.First(&cat, *got.CategoryID).Error)
	assert.Equal(t, "Infantil", cat.Name)

	got, err = SetBirthYear(gdb, sw.ID, 0, today)
	require.NoError(t, err)
	assert.Zero(t, got.Age)
	assert.Nil(t, got.CategoryID)

	var stored models.Swimmer
	require.NoError(t, gdb.First(&stored, sw.ID).Error)
	assert.Nil(t, stored.CategoryID)
	assert.Zero(t, stored.YearOfBirth)
}
