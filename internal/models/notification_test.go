package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFlagNormalization(t *testing.T) {
	cases := []struct {
		name string
		body string
		read bool
	}{
		{"isRead true", `{"id":1,"isRead":true}`, true},
		{"read numeric 1", `{"id":1,"read":1}`, true},
		{"read string 1", `{"id":1,"read":"1"}`, true},
		{"read string true", `{"id":1,"read":"true"}`, true},
		{"isRead false", `{"id":1,"isRead":false}`, false},
		{"read numeric 0", `{"id":1,"read":0}`, false},
		{"read string 0", `{"id":1,"read":"0"}`, false},
		{"no flag at all", `{"id":1}`, false},
		{"read boolean true is not a known encoding", `{"id":1,"read":true}`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var n Notification
			require.NoError(t, json.Unmarshal([]byte(tc.body), &n))
			assert.Equal(t, tc.read, n.IsRead)
		})
	}
}

func TestUnmarshalKeepsOtherFields(t *testing.T) {
	body := `{"id":7,"userId":"u1","message":"Order shipped","type":"ORDER","read":"1","additionalData":{"orderId":"o-1"}}`

	var n Notification
	require.NoError(t, json.Unmarshal([]byte(body), &n))

	assert.Equal(t, int64(7), n.ID)
	assert.Equal(t, "u1", n.UserID)
	assert.Equal(t, "Order shipped", n.Message)
	assert.Equal(t, NotificationOrder, n.Type)
	assert.True(t, n.IsRead)
	assert.JSONEq(t, `{"orderId":"o-1"}`, string(n.AdditionalData))
}
