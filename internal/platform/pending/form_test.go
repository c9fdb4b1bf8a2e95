package pending

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/finboard/internal/platform/validation"
)

func TestForm_ValidateCoercesNumbers(t *testing.T) {
	in, err := Form{
		Name:            "Internet",
		Amount:          "39.90",
		DueDate:         "2024-07-01",
		Priority:        "high",
		CategoryID:      "3",
		SubcategoryID:   "31",
		AccountID:       "2",
		ReminderEnabled: "false",
	}.Validate()
	require.NoError(t, err)

	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "Internet",
		"amount": 39.9,
		"due_date": "2024-07-01",
		"priority": "high",
		"category_id": 3,
		"subcategory_id": 31,
		"account_id": 2,
		"reminder_enabled": false
	}`, string(raw))
}

func TestForm_ValidateNullDueDate(t *testing.T) {
	in, err := Form{Name: "Rent", Amount: "50.00"}.Validate()
	require.NoError(t, err)

	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"due_date":null`)
}

func TestForm_ValidateErrors(t *testing.T) {
	_, err := Form{Amount: "10.555", Priority: "urgent", SubcategoryID: "4"}.Validate()
	errs, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "must have at most 2 decimal places", errs.Get("amount"))
	assert.True(t, errs.Has("name"))
	assert.True(t, errs.Has("priority"))
	assert.True(t, errs.Has("category_id"))
}

func TestParseFilter(t *testing.T) {
	assert.Equal(t, Filter{Status: "overdue", Priority: "high"}, ParseFilter(url.Values{"status": {"Overdue"}, "priority": {"high"}}))
	assert.Equal(t, Filter{}, ParseFilter(url.Values{"status": {"late"}, "priority": {"urgent"}}))
	assert.Equal(t, url.Values{"priority": {"low"}}, Filter{Priority: "low"}.Query())
}
