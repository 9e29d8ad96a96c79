package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    Config
		wantErr bool
	}{
		{
			name: "full",
			raw:  "ws://root:secret@db.internal:8001/guildhall/main",
			want: Config{Scheme: "ws", Host: "db.internal", Port: "8001", User: "root", Password: "secret", Namespace: "guildhall", Database: "main"},
		},
		{
			name: "default port without credentials",
			raw:  "wss://db.example.com/ns/db",
			want: Config{Scheme: "wss", Host: "db.example.com", Port: "8000", Namespace: "ns", Database: "db"},
		},
		{name: "empty", raw: "", wantErr: true},
		{name: "unsupported scheme", raw: "postgres://u:p@localhost/ns/db", wantErr: true},
		{name: "missing database", raw: "ws://localhost:8000/ns", wantErr: true},
		{name: "missing host", raw: "ws:///ns/db", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_Endpoint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ws://localhost:8000", Config{Host: "localhost", Port: "8000"}.Endpoint())
	assert.Equal(t, "wss://db:443", Config{Scheme: "wss", Host: "db", Port: "443"}.Endpoint())
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		msg  string
		want error
	}{
		{"Database index `user_email` already contains 'a@example.com', with record `user:1`", ErrDuplicate},
		{"Failed to commit transaction due to a read or write conflict. This transaction can be retried", ErrConflict},
		{"Parse error: unexpected token", ErrQuery},
	}

	for _, tt := range tests {
		err := classifyError(tt.msg)
		assert.True(t, errors.Is(err, tt.want), "%q classified as %v", tt.msg, err)
		assert.Contains(t, err.Error(), tt.msg)
	}
}

func TestPrimaryFailure(t *testing.T) {
	t.Parallel()

	failures := []string{
		"The query was not executed due to a failed transaction",
		"Database index `bookmark_user_quest` already contains [user:1, quest:2]",
		"The query was not executed due to a failed transaction",
	}
	assert.Equal(t, failures[1], primaryFailure(failures))

	onlySkipped := []string{"The query was not executed due to a failed transaction"}
	assert.Equal(t, onlySkipped[0], primaryFailure(onlySkipped))
}

func TestFirstAndLastRecord(t *testing.T) {
	t.Parallel()

	results := []interface{}{
		map[string]interface{}{"status": "OK", "result": []interface{}{}},
		map[string]interface{}{"status": "OK", "result": map[string]interface{}{"bookmarks": uint64(1)}},
	}

	_, err := FirstRecord(results)
	assert.ErrorIs(t, err, ErrNotFound)

	last, err := LastRecord(results)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"bookmarks": uint64(1)}, last)

	_, err = LastRecord(nil)
	assert.ErrorIs(t, err, ErrNotFound)

	none := []interface{}{map[string]interface{}{"status": "OK", "result": nil}}
	_, err = FirstRecord(none)
	assert.ErrorIs(t, err, ErrNotFound)
}
