package rabbitmq

import (
	"errors"
	"testing"

	"pkgadmin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleDelivery(t *testing.T) {
	var got models.PackageEvent
	handler := func(e models.PackageEvent) error {
		got = e
		return nil
	}

	body := []byte(`{"type":"package.deleted","package_id":9,"title":"Basic"}`)
	require.NoError(t, handleDelivery(body, handler))
	assert.Equal(t, models.EventPackageDeleted, got.Type)
	assert.Equal(t, int64(9), got.PackageID)
	assert.Equal(t, "Basic", got.Title)
	assert.Nil(t, got.Package)
}

func TestHandleDelivery_BadBody(t *testing.T) {
	called := false
	err := handleDelivery([]byte(`not json`), func(models.PackageEvent) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestHandleDelivery_HandlerError(t *testing.T) {
	boom := errors.New("boom")
	err := handleDelivery([]byte(`{"type":"package.created","package_id":1}`), func(models.PackageEvent) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestLogPackageEvent(t *testing.T) {
	assert.NoError(t, LogPackageEvent(models.PackageEvent{Type: models.EventPackageUpdated, PackageID: 3}))
}

func TestPublishWithoutChannel(t *testing.T) {
	c := &Client{}
	assert.Error(t, c.PublishPackageEvent(models.PackageEvent{Type: models.EventPackageCreated}))
	assert.Error(t, c.ConsumePackageEvents(LogPackageEvent))
	assert.NoError(t, c.Close())
}
