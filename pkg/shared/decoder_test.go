package shared

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type filterQuery struct {
	PersonID uuid.UUID `query:"personId"`
	From     time.Time `query:"from"`
	Success  *bool     `query:"success"`
	Q        string    `query:"q"`
}

func TestDecoder_QueryTags(t *testing.T) {
	id := uuid.New()
	vals := url.Values{
		"personId": {id.String()},
		"from":     {"2024-01-15"},
		"success":  {"true"},
		"q":        {"smith"},
	}

	var q filterQuery
	require.NoError(t, Decoder.Decode(&q, vals))
	require.Equal(t, id, q.PersonID)
	require.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), q.From)
	require.NotNil(t, q.Success)
	require.True(t, *q.Success)
	require.Equal(t, "smith", q.Q)
}

func TestDecoder_AbsentKeysLeaveZeroValues(t *testing.T) {
	var q filterQuery
	require.NoError(t, Decoder.Decode(&q, url.Values{}))
	require.Equal(t, uuid.Nil, q.PersonID)
	require.True(t, q.From.IsZero())
	require.Nil(t, q.Success)
}

func TestDecodeErrorField(t *testing.T) {
	var q filterQuery
	err := Decoder.Decode(&q, url.Values{"personId": {"not-a-uuid"}})
	require.Error(t, err)
	require.Equal(t, "personId", DecodeErrorField(err))

	require.Empty(t, DecodeErrorField(nil))
}
