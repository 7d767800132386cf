package aws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://sqs.eu-north-1.amazonaws.com/123456789012/orders", "orders"},
		{"https://sqs.eu-north-1.amazonaws.com/123456789012/orders.fifo", "orders.fifo"},
		{"no-slashes", "no-slashes"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, queueNameFromURL(tt.url))
	}
}
