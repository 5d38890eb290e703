package models

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStatus_Toggled(t *testing.T) {
	assert.Equal(t, StatusFinished, StatusIncomplete.Toggled())
	assert.Equal(t, StatusIncomplete, StatusFinished.Toggled())
	assert.Equal(t, StatusIncomplete, StatusIncomplete.Toggled().Toggled())
}

func TestParseTaskStatus(t *testing.T) {
	s, err := ParseTaskStatus("finished")
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, s)

	_, err = ParseTaskStatus("done")
	assert.Error(t, err)
}

func TestTask_Validation(t *testing.T) {
	validate := validator.New()

	ok := Task{Username: "ann@example.com", Text: "buy milk", Completion: StatusIncomplete}
	assert.NoError(t, validate.Struct(ok))

	noText := ok
	noText.Text = ""
	assert.Error(t, validate.Struct(noText))

	noOwner := ok
	noOwner.Username = ""
	assert.Error(t, validate.Struct(noOwner))

	badStatus := ok
	badStatus.Completion = "archived"
	assert.Error(t, validate.Struct(badStatus))
}

func TestUser_DisplayName(t *testing.T) {
	u := User{Username: "ann@example.com", FirstName: "Ann", LastName: "Lee"}
	assert.Equal(t, "Ann Lee", u.DisplayName())

	u.FirstName, u.LastName = "", ""
	assert.Equal(t, "ann@example.com", u.DisplayName())

	assert.Error(t, validator.New().Struct(User{Username: "not-an-email"}))
}
