package utils_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tavara-care/internal/models"
	"tavara-care/internal/utils"
)

func TestCSVParser_ValidFile(t *testing.T) {
	csvContent := `user_id,full_name,email,specialties,years_of_experience,hourly_rate,available_shifts
cg-001,Amara Okafor,amara@example.com,Dementia Care;Alzheimer's Care,6,24,weekday_mornings;weekends
cg-002,Jon Reyes,,Companionship,2,18.50,overnight`

	parser := utils.NewCSVParser()
	caregivers, errs := parser.ParseCaregivers(strings.NewReader(csvContent))

	require.Empty(t, errs, "Expected no parse errors")
	require.Len(t, caregivers, 2)

	first := caregivers[0]
	assert.Equal(t, "cg-001", first.UserID)
	assert.Equal(t, "Amara Okafor", first.FullName)
	assert.Equal(t, "amara@example.com", first.Email)
	assert.Equal(t, []string{"Dementia Care", "Alzheimer's Care"}, first.Specialties)
	assert.Equal(t, 6.0, first.YearsOfExperience)
	assert.Equal(t, 24.0, first.HourlyRate)
	assert.Equal(t, []string{"weekday_mornings", "weekends"}, first.AvailableShifts)
	assert.True(t, first.ProfileComplete, "profile_complete defaults to true")

	assert.Equal(t, 18.5, caregivers[1].HourlyRate)
	assert.Empty(t, caregivers[1].Email)
}

func TestCSVParser_ColumnAliases(t *testing.T) {
	csvContent := `Caregiver_ID,Name,Skills,Experience,Rate,Availability,Ready
cg-001,Amara Okafor,Dementia Care|Wound Care,6,24,weekends,false`

	caregivers, errs := utils.NewCSVParser().ParseCaregivers(strings.NewReader(csvContent))

	require.Empty(t, errs)
	require.Len(t, caregivers, 1)
	assert.Equal(t, "cg-001", caregivers[0].UserID)
	assert.Equal(t, "Amara Okafor", caregivers[0].FullName)
	assert.Equal(t, []string{"Dementia Care", "Wound Care"}, caregivers[0].Specialties)
	assert.False(t, caregivers[0].ProfileComplete)
}

func TestCSVParser_CurrencyAndThousands(t *testing.T) {
	csvContent := `user_id,specialties,years_of_experience,hourly_rate,available_shifts
cg-001,Dementia Care,3,"$1,025.50",weekends
cg-002,Dementia Care,,$22,weekends`

	caregivers, errs := utils.NewCSVParser().ParseCaregivers(strings.NewReader(csvContent))

	require.Empty(t, errs)
	require.Len(t, caregivers, 2)
	assert.Equal(t, 1025.5, caregivers[0].HourlyRate)
	assert.Equal(t, 22.0, caregivers[1].HourlyRate)
	assert.Equal(t, 0.0, caregivers[1].YearsOfExperience, "blank numerics are zero")
}

func TestCSVParser_MissingRequiredColumns(t *testing.T) {
	csvContent := `user_id,specialties,years_of_experience
cg-001,Dementia Care,6`

	caregivers, errs := utils.NewCSVParser().ParseCaregivers(strings.NewReader(csvContent))

	assert.Empty(t, caregivers)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], utils.ErrMissingColumns)
	assert.Contains(t, errs[0].Error(), "hourly_rate")
	assert.Contains(t, errs[0].Error(), "available_shifts")
}

func TestCSVParser_EmptyFile(t *testing.T) {
	caregivers, errs := utils.NewCSVParser().ParseCaregivers(strings.NewReader(""))

	assert.Empty(t, caregivers)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], utils.ErrEmptyCSV)
}

func TestCSVParser_HeaderOnly(t *testing.T) {
	csvContent := `user_id,specialties,years_of_experience,hourly_rate,available_shifts`

	caregivers, errs := utils.NewCSVParser().ParseCaregivers(strings.NewReader(csvContent))

	assert.Empty(t, caregivers)
	require.NotEmpty(t, errs)
	assert.ErrorIs(t, errs[0], utils.ErrNoDataRows)
}

func TestCSVParser_InvalidRowsAreSkipped(t *testing.T) {
	csvContent := `user_id,specialties,years_of_experience,hourly_rate,available_shifts,profile_complete
cg-001,Dementia Care,six,24,weekends,true
cg-002,Dementia Care,4,abc,weekends,true
,Dementia Care,4,20,weekends,true
cg-004,Dementia Care,-2,20,weekends,true
cg-005,Dementia Care,4,20,weekends,maybe
cg-006,Dementia Care,4,20,weekends,true`

	caregivers, errs := utils.NewCSVParser().ParseCaregivers(strings.NewReader(csvContent))

	require.Len(t, caregivers, 1)
	assert.Equal(t, "cg-006", caregivers[0].UserID)

	require.Len(t, errs, 5)
	assert.Contains(t, errs[0].Error(), "line 2")
	assert.Contains(t, errs[0].Error(), "years_of_experience")
	assert.Contains(t, errs[1].Error(), "hourly_rate")
	assert.ErrorIs(t, errs[2], models.ErrEmptyCaregiverID)
	assert.ErrorIs(t, errs[3], models.ErrNegativeExperience)
	assert.Contains(t, errs[4].Error(), "line 6")
	assert.Contains(t, errs[4].Error(), "profile_complete")
}

func TestCSVParser_AllRowsInvalid(t *testing.T) {
	csvContent := `user_id,specialties,years_of_experience,hourly_rate,available_shifts
cg-001,Dementia Care,4,-20,weekends`

	caregivers, errs := utils.NewCSVParser().ParseCaregivers(strings.NewReader(csvContent))

	assert.Empty(t, caregivers)
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], utils.ErrNoDataRows)
	assert.ErrorIs(t, errs[1], models.ErrNegativeHourlyRate)
}
