package get_practitioner_appointments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToServiceRequest(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)

	req, err := ToServiceRequest(10, 10, "2026-03-09", "", "", "confirmed", "true", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, loc), *req.From)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, loc), *req.To)
	assert.Equal(t, "confirmed", *req.Status)
	assert.True(t, req.ActiveOnly)

	req, err = ToServiceRequest(10, 10, "", "2026-03-01", "2026-03-07", "", "", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, loc), *req.From)
	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, loc), *req.To, "граница to включительно")
	assert.Nil(t, req.Status)

	req, err = ToServiceRequest(10, 10, "", "", "", "", "", loc)
	require.NoError(t, err)
	assert.Nil(t, req.From)
	assert.Nil(t, req.To)

	_, err = ToServiceRequest(10, 10, "2026-03-09", "2026-03-01", "", "", "", loc)
	assert.Error(t, err)
	_, err = ToServiceRequest(10, 10, "", "03/01/2026", "", "", "", loc)
	assert.Error(t, err)
	_, err = ToServiceRequest(10, 10, "", "", "", "", "maybe", loc)
	assert.Error(t, err)
}
