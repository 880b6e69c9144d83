package pass_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-calendar/internal/models"
	"ms-calendar/internal/rsvp/pass"
)

func sampleResponse() models.UserEventResponse {
	return models.UserEventResponse{
		ID:             "resp1",
		UserID:         "analyst-1",
		EventID:        "evt-banking-summit",
		ResponseStatus: models.ResponseAccepted,
		Notes:          "attending in person",
		ResponseDate:   time.Date(2025, 12, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestGeneratePass(t *testing.T) {
	gen := pass.NewGenerator("test-secret-key")

	png, err := gen.Generate(sampleResponse())
	require.NoError(t, err)
	assert.NotEmpty(t, png)

	// PNG magic bytes
	require.True(t, len(png) > 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestEncryptDecodeRoundTrip(t *testing.T) {
	gen := pass.NewGenerator("test-secret-key")
	resp := sampleResponse()

	// Exercise the payload path directly rather than scanning the PNG.
	encrypted, err := gen.EncryptPayload(resp)
	require.NoError(t, err)

	decoded, err := gen.Decode(encrypted)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, decoded.ID)
	assert.Equal(t, resp.UserID, decoded.UserID)
	assert.Equal(t, resp.EventID, decoded.EventID)
	assert.Equal(t, resp.ResponseStatus, decoded.ResponseStatus)
}

func TestDecodeWithWrongSecretFails(t *testing.T) {
	gen := pass.NewGenerator("right-secret")
	other := pass.NewGenerator("wrong-secret")

	encrypted, err := gen.EncryptPayload(sampleResponse())
	require.NoError(t, err)

	_, err = other.Decode(encrypted)
	assert.Error(t, err)
}

func TestDecodeGarbageFails(t *testing.T) {
	gen := pass.NewGenerator("test-secret-key")

	_, err := gen.Decode("not base64 at all!!!")
	assert.Error(t, err)

	_, err = gen.Decode("c2hvcnQ=")
	assert.Error(t, err)
}
