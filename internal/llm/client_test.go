package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFence(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, StripFence("```json\n{\"a\": 1}\n```"))
	assert.Equal(t, "SELECT * FROM doctors", StripFence("```sql\nSELECT * FROM doctors\n```"))
	assert.Equal(t, `{"a": 1}`, StripFence("```\n{\"a\": 1}\n```"))
	assert.Equal(t, `{"a": 1}`, StripFence(`{"a": 1}`))
	assert.Equal(t, `{"a": 1}`, StripFence("  {\"a\": 1}  "))
	assert.Equal(t, "", StripFence("```"))
}
