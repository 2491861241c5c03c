package pb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/rl1809/bookstore/internal/core/domain"
)

func TestItemStructRoundTrip(t *testing.T) {
	item := domain.Item{ID: 3, Title: "Xen and the Art of Surviving Undergraduate School", Topic: domain.TopicUndergraduateSchool, Price: 30, Quantity: 12}

	s, err := ItemToStruct(item)
	require.NoError(t, err)

	got, err := ItemFromStruct(s)
	require.NoError(t, err)
	assert.Equal(t, item, got)
}

func TestInt64Field_Rejects(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{"frac": 1.5, "text": "7", "big": float64(1 << 60)})
	require.NoError(t, err)

	for _, name := range []string{"frac", "text", "big", "missing"} {
		_, err := Int64Field(s, name)
		assert.Error(t, err, name)
	}
}
