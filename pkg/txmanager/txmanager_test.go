package txmanager

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsSerializationFailure(t *testing.T) {
	serializationErr := &pq.Error{Code: "40001", Message: "could not serialize access due to concurrent update"}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "pq serialization failure",
			err:  serializationErr,
			want: true,
		},
		{
			name: "wrapped pq serialization failure",
			err:  fmt.Errorf("txmanager: execute in transaction: %w", serializationErr),
			want: true,
		},
		{
			name: "flattened serialization message",
			err:  errors.New("storage: failed to update: pq: could not serialize access due to read/write dependencies among transactions"),
			want: true,
		},
		{
			name: "pq unique violation",
			err:  &pq.Error{Code: "23505"},
			want: false,
		},
		{
			name: "unrelated error",
			err:  errors.New("connection refused"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSerializationFailure(tt.err))
		})
	}
}
