package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, body string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var m map[string]any
	require.NoError(t, dec.Decode(&m))
	return m
}

func TestNewMethodRequest(t *testing.T) {
	t.Run("valid envelope", func(t *testing.T) {
		r, err := NewMethodRequest(decodeBody(t, `{
			"account": "horns&hoofs", "login": "h&f", "method": "online_score",
			"token": "abc", "arguments": {"phone": "79175002040"}
		}`))
		require.NoError(t, err)
		assert.Equal(t, "horns&hoofs", r.Account)
		assert.Equal(t, "h&f", r.Login)
		assert.Equal(t, MethodOnlineScore, r.Method)
		assert.False(t, r.IsAdmin())
		assert.Contains(t, r.Arguments, "phone")
	})

	t.Run("account is optional", func(t *testing.T) {
		r, err := NewMethodRequest(decodeBody(t, `{
			"login": "h&f", "method": "online_score", "token": "abc", "arguments": {}
		}`))
		require.NoError(t, err)
		assert.Empty(t, r.Account)
	})

	t.Run("missing login", func(t *testing.T) {
		_, err := NewMethodRequest(decodeBody(t, `{
			"method": "online_score", "token": "abc", "arguments": {}
		}`))
		assert.ErrorContains(t, err, "login is required")
	})

	t.Run("empty login allowed", func(t *testing.T) {
		r, err := NewMethodRequest(decodeBody(t, `{
			"login": "", "method": "online_score", "token": "abc", "arguments": {}
		}`))
		require.NoError(t, err)
		assert.Empty(t, r.Login)
	})

	t.Run("missing method", func(t *testing.T) {
		_, err := NewMethodRequest(decodeBody(t, `{
			"login": "h&f", "token": "abc", "arguments": {}
		}`))
		assert.ErrorContains(t, err, "method is required")
	})

	t.Run("empty method rejected", func(t *testing.T) {
		_, err := NewMethodRequest(decodeBody(t, `{
			"login": "h&f", "method": "", "token": "abc", "arguments": {}
		}`))
		assert.ErrorContains(t, err, "method cannot be empty")
	})

	t.Run("null arguments allowed", func(t *testing.T) {
		r, err := NewMethodRequest(decodeBody(t, `{
			"login": "h&f", "method": "online_score", "token": "abc", "arguments": null
		}`))
		require.NoError(t, err)
		assert.NotNil(t, r.Arguments)
		assert.Empty(t, r.Arguments)
	})

	t.Run("non-object arguments rejected", func(t *testing.T) {
		_, err := NewMethodRequest(decodeBody(t, `{
			"login": "h&f", "method": "online_score", "token": "abc", "arguments": [1]
		}`))
		assert.ErrorContains(t, err, "arguments must be an object")
	})

	t.Run("admin login detected", func(t *testing.T) {
		r, err := NewMethodRequest(decodeBody(t, `{
			"login": "admin", "method": "online_score", "token": "abc", "arguments": {}
		}`))
		require.NoError(t, err)
		assert.True(t, r.IsAdmin())
	})
}

func TestNewOnlineScoreRequest_PairInvariant(t *testing.T) {
	cases := []struct {
		name  string
		args  string
		valid bool
	}{
		{"phone and email", `{"phone": "79175002040", "email": "a@b.c"}`, true},
		{"first and last name", `{"first_name": "Ann", "last_name": "Lee"}`, true},
		{"gender and birthday", `{"gender": 1, "birthday": "01.01.2000"}`, true},
		{"gender zero and birthday", `{"gender": 0, "birthday": "01.01.2000"}`, true},
		{"all fields", `{"phone": "79175002040", "email": "a@b.c", "first_name": "Ann",
			"last_name": "Lee", "gender": 2, "birthday": "01.01.2000"}`, true},
		{"first name alone", `{"first_name": "Ann"}`, false},
		{"phone alone", `{"phone": "79175002040"}`, false},
		{"empty args", `{}`, false},
		{"phone with empty email", `{"phone": "79175002040", "email": ""}`, false},
		{"mismatched halves", `{"phone": "79175002040", "last_name": "Lee"}`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOnlineScoreRequest(decodeBody(t, tc.args))
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, "not enough arguments")
			}
		})
	}
}

func TestNewOnlineScoreRequest_FirstErrorWins(t *testing.T) {
	// email and phone are both invalid; email is declared first, so its
	// error is the one reported.
	_, err := NewOnlineScoreRequest(decodeBody(t, `{
		"email": "no-at-sign", "phone": "123"
	}`))
	assert.ErrorContains(t, err, "email")
}

func TestNewOnlineScoreRequest_InvalidFieldAborts(t *testing.T) {
	// A single invalid field fails the whole request even when a valid pair
	// is supplied.
	_, err := NewOnlineScoreRequest(decodeBody(t, `{
		"phone": "79175002040", "email": "a@b.c", "gender": 9
	}`))
	assert.ErrorContains(t, err, "gender")
}

func TestOnlineScoreRequest_SuppliedFields(t *testing.T) {
	r, err := NewOnlineScoreRequest(decodeBody(t, `{
		"phone": "79175002040", "email": "a@b.c", "gender": 0
	}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"email", "phone", "gender"}, r.SuppliedFields())
	assert.True(t, r.Has("gender"), "gender 0 counts as supplied")
	assert.False(t, r.Has("birthday"))
}

func TestNewClientsInterestsRequest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r, err := NewClientsInterestsRequest(decodeBody(t, `{
			"client_ids": [1, 2, 3], "date": "19.07.2017"
		}`))
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2, 3}, r.ClientIDs)
		assert.Equal(t, 3, r.NClients())
		assert.False(t, r.Date.IsZero())
	})

	t.Run("date optional", func(t *testing.T) {
		r, err := NewClientsInterestsRequest(decodeBody(t, `{"client_ids": [1]}`))
		require.NoError(t, err)
		assert.True(t, r.Date.IsZero())
	})

	t.Run("missing client_ids", func(t *testing.T) {
		_, err := NewClientsInterestsRequest(decodeBody(t, `{"date": "19.07.2017"}`))
		assert.ErrorContains(t, err, "client_ids is required")
	})

	t.Run("empty client_ids", func(t *testing.T) {
		_, err := NewClientsInterestsRequest(decodeBody(t, `{"client_ids": []}`))
		assert.Error(t, err)
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := NewClientsInterestsRequest(decodeBody(t, `{
			"client_ids": [1], "date": "2017-07-19"
		}`))
		assert.ErrorContains(t, err, "date")
	})
}
