package service

import (
	"testing"
	"time"

	"go-shop-ms/internal/apperr"
	"go-shop-ms/internal/model"
	"go-shop-ms/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDeliveryFixture(seed ...model.Delivery) (*deliveryService, *memory.DeliveryRepository, *recordingPublisher) {
	repo := memory.NewDeliveryRepository(seed...)
	events := &recordingPublisher{}
	svc := NewDeliveryService(repo, memory.NewOrderRepository(model.Order{ID: "CMD001"}), events, zap.NewNop()).(*deliveryService)
	return svc, repo, events
}

func TestCreateDelivery(t *testing.T) {
	t.Parallel()
	svc, repo, events := newDeliveryFixture()
	svc.intn = func(int) int { return 7 }

	d, err := svc.CreateDelivery(&CreateDeliveryRequest{OrderID: "CMD001", Carrier: "DHL"})
	require.NoError(t, err)
	assert.Equal(t, "LIV007", d.ID)
	assert.Equal(t, model.DeliveryShipped, d.Status)
	assert.False(t, d.ShipDate.IsZero())
	assert.Nil(t, d.DeliveryDate)

	stored, err := repo.FindByID("LIV007")
	require.NoError(t, err)
	assert.Equal(t, "DHL", stored.Carrier)
	assert.Equal(t, []string{"delivery_created"}, events.actions())
}

// Creation succeeds whether or not the referenced order exists.
func TestCreateDeliveryForUnknownOrder(t *testing.T) {
	t.Parallel()
	svc, _, _ := newDeliveryFixture()

	d, err := svc.CreateDelivery(&CreateDeliveryRequest{OrderID: "CMD999", Carrier: "UPS"})
	require.NoError(t, err)
	assert.Equal(t, "CMD999", d.OrderID)
}

func TestCreateDeliveryIDFormat(t *testing.T) {
	t.Parallel()
	svc, _, _ := newDeliveryFixture()
	svc.intn = func(int) int { return 512 }

	d, err := svc.CreateDelivery(&CreateDeliveryRequest{OrderID: "CMD001", Carrier: "DHL"})
	require.NoError(t, err)
	assert.Equal(t, "LIV00512", d.ID)
}

func TestCreateDeliveryCollision(t *testing.T) {
	t.Parallel()
	svc, _, _ := newDeliveryFixture(model.Delivery{ID: "LIV003"})
	svc.intn = func(int) int { return 3 }

	_, err := svc.CreateDelivery(&CreateDeliveryRequest{OrderID: "CMD001", Carrier: "DHL"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCreateDeliveryMissingFields(t *testing.T) {
	t.Parallel()
	svc, _, _ := newDeliveryFixture()

	_, err := svc.CreateDelivery(&CreateDeliveryRequest{Carrier: "DHL"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = svc.CreateDelivery(&CreateDeliveryRequest{OrderID: "CMD001"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdateStatusDeliveredStampsDate(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newDeliveryFixture(model.Delivery{ID: "LIV001", Status: model.DeliveryShipped})
	at := time.Date(2024, 5, 2, 14, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	status, err := svc.UpdateStatus("LIV001", &UpdateStatusRequest{Status: model.DeliveryDelivered})
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryDelivered, status)

	d, _ := repo.FindByID("LIV001")
	require.NotNil(t, d.DeliveryDate)
	assert.Equal(t, at, *d.DeliveryDate)
}

func TestUpdateStatusOtherLeavesDate(t *testing.T) {
	t.Parallel()
	stamped := time.Date(2024, 5, 2, 14, 0, 0, 0, time.UTC)
	svc, repo, _ := newDeliveryFixture(
		model.Delivery{ID: "LIV001", Status: model.DeliveryShipped},
		model.Delivery{ID: "LIV002", Status: model.DeliveryDelivered, DeliveryDate: &stamped},
	)

	_, err := svc.UpdateStatus("LIV001", &UpdateStatusRequest{Status: model.DeliveryInTransit})
	require.NoError(t, err)
	d, _ := repo.FindByID("LIV001")
	assert.Nil(t, d.DeliveryDate)

	// delivered -> shipped is allowed and keeps the stamp.
	_, err = svc.UpdateStatus("LIV002", &UpdateStatusRequest{Status: model.DeliveryShipped})
	require.NoError(t, err)
	d, _ = repo.FindByID("LIV002")
	assert.Equal(t, model.DeliveryShipped, d.Status)
	require.NotNil(t, d.DeliveryDate)
	assert.Equal(t, stamped, *d.DeliveryDate)
}

func TestUpdateStatusValidation(t *testing.T) {
	t.Parallel()
	svc, _, _ := newDeliveryFixture(model.Delivery{ID: "LIV001"})

	_, err := svc.UpdateStatus("LIV001", &UpdateStatusRequest{})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.UpdateStatus("LIV001", &UpdateStatusRequest{Status: "lost"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.UpdateStatus("LIV404", &UpdateStatusRequest{Status: model.DeliveryCancelled})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGetDelivery(t *testing.T) {
	t.Parallel()
	svc, _, _ := newDeliveryFixture(model.Delivery{ID: "LIV001", Carrier: "DHL"})

	d, err := svc.GetDelivery("LIV001")
	require.NoError(t, err)
	assert.Equal(t, "DHL", d.Carrier)

	_, err = svc.GetDelivery("LIV404")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	all, err := svc.ListDeliveries()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
