package aws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSNSAttributes(t *testing.T) {
	assert.Nil(t, snsAttributes(nil))

	got := snsAttributes(map[string]string{
		"event_type":  "order.completed",
		"terminal_id": "till-1",
		"customer_id": "",
	})

	assert.Len(t, got, 2)
	assert.Equal(t, "String", *got["event_type"].DataType)
	assert.Equal(t, "order.completed", *got["event_type"].StringValue)
	assert.Equal(t, "till-1", *got["terminal_id"].StringValue)
	assert.NotContains(t, got, "customer_id")
}
