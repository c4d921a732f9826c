package booking

import (
	"context"
	"errors"
	"testing"

	bookingRepo "cutesalon/database/repository/booking"
	"cutesalon/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func pendingBooking() *models.Booking {
	return &models.Booking{
		ID:     "bk-1",
		Name:   "Amy",
		Email:  "amy@example.com",
		Status: models.StatusPending,
	}
}

func paidBooking() *models.Booking {
	b := pendingBooking()
	b.Status = models.StatusPaid
	b.SessionRef = "cs_test_123"
	return b
}

func TestCancelBooking_PendingNoRefund(t *testing.T) {
	repo := new(MockBookingRepository)
	gw := new(MockPaymentGateway)
	disp := new(MockDispatcher)

	repo.On("GetByID", "bk-1").Return(pendingBooking(), nil)
	repo.On("UpdateStatusFrom", "bk-1", models.StatusPending, models.StatusCanceled).Return(true, nil)
	disp.On("BookingWithdrawn", mock.Anything, false).Return()

	svc := newTestService(repo, gw, disp)
	result, err := svc.CancelBooking(context.Background(), "bk-1")

	assert.NoError(t, err)
	assert.False(t, result.Refunded)
	gw.AssertNotCalled(t, "RefundSession", mock.Anything, mock.Anything)
}

func TestCancelBooking_PendingWithSessionStillNoRefund(t *testing.T) {
	repo := new(MockBookingRepository)
	gw := new(MockPaymentGateway)
	disp := new(MockDispatcher)

	b := pendingBooking()
	b.SessionRef = "cs_abandoned"
	repo.On("GetByID", "bk-1").Return(b, nil)
	repo.On("UpdateStatusFrom", "bk-1", models.StatusPending, models.StatusCanceled).Return(true, nil)
	disp.On("BookingWithdrawn", mock.Anything, false).Return()

	svc := newTestService(repo, gw, disp)
	result, err := svc.CancelBooking(context.Background(), "bk-1")

	assert.NoError(t, err)
	assert.False(t, result.Refunded)
	// Nothing was captured on a PENDING booking, session or not.
	gw.AssertNotCalled(t, "RefundSession", mock.Anything, mock.Anything)
}

func TestCancelBooking_PaidRefundsThenCommits(t *testing.T) {
	repo := new(MockBookingRepository)
	gw := new(MockPaymentGateway)
	disp := new(MockDispatcher)

	repo.On("GetByID", "bk-1").Return(paidBooking(), nil)
	gw.On("RefundSession", mock.Anything, "cs_test_123").Return(nil)
	repo.On("UpdateStatusFrom", "bk-1", models.StatusPaid, models.StatusRefunded).Return(true, nil)
	disp.On("BookingWithdrawn", mock.Anything, true).Return()

	svc := newTestService(repo, gw, disp)
	result, err := svc.CancelBooking(context.Background(), "bk-1")

	assert.NoError(t, err)
	assert.True(t, result.Refunded)
	gw.AssertNumberOfCalls(t, "RefundSession", 1)
	repo.AssertCalled(t, "UpdateStatusFrom", "bk-1", models.StatusPaid, models.StatusRefunded)
}

func TestCancelBooking_RefundFailureLeavesStatusUntouched(t *testing.T) {
	repo := new(MockBookingRepository)
	gw := new(MockPaymentGateway)
	disp := new(MockDispatcher)

	repo.On("GetByID", "bk-1").Return(paidBooking(), nil)
	gw.On("RefundSession", mock.Anything, "cs_test_123").Return(errors.New("gateway down"))

	svc := newTestService(repo, gw, disp)
	_, err := svc.CancelBooking(context.Background(), "bk-1")

	assert.Error(t, err)
	assert.Equal(t, CodePayment, CodeOf(err))
	repo.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything)
	disp.AssertNotCalled(t, "BookingWithdrawn", mock.Anything, mock.Anything)
}

func TestCancelBooking_AlreadyTerminal(t *testing.T) {
	repo := new(MockBookingRepository)
	gw := new(MockPaymentGateway)

	b := pendingBooking()
	b.Status = models.StatusRefunded
	repo.On("GetByID", "bk-1").Return(b, nil)

	svc := newTestService(repo, gw, new(MockDispatcher))
	_, err := svc.CancelBooking(context.Background(), "bk-1")

	assert.Error(t, err)
	assert.Equal(t, CodePayment, CodeOf(err))
	// A second cancel never re-enters the refund path.
	gw.AssertNotCalled(t, "RefundSession", mock.Anything, mock.Anything)
}

func TestCancelBooking_NotFound(t *testing.T) {
	repo := new(MockBookingRepository)
	repo.On("GetByID", "nope").Return(nil, bookingRepo.ErrNotFound)

	svc := newTestService(repo, new(MockPaymentGateway), new(MockDispatcher))
	_, err := svc.CancelBooking(context.Background(), "nope")

	assert.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestStartCheckout_AttachesSessionRef(t *testing.T) {
	repo := new(MockBookingRepository)
	gw := new(MockPaymentGateway)

	repo.On("GetByID", "bk-1").Return(pendingBooking(), nil)
	gw.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return("cs_new", "https://pay.example/cs_new", nil)
	repo.On("SetSessionRef", "bk-1", "cs_new").Return(nil)

	svc := newTestService(repo, gw, new(MockDispatcher))
	url, err := svc.StartCheckout(context.Background(), "bk-1")

	assert.NoError(t, err)
	assert.Equal(t, "https://pay.example/cs_new", url)
	repo.AssertCalled(t, "SetSessionRef", "bk-1", "cs_new")
}

func TestStartCheckout_PaidBookingKeepsSessionRef(t *testing.T) {
	repo := new(MockBookingRepository)
	gw := new(MockPaymentGateway)

	repo.On("GetByID", "bk-1").Return(paidBooking(), nil)

	svc := newTestService(repo, gw, new(MockDispatcher))
	_, err := svc.StartCheckout(context.Background(), "bk-1")

	assert.Error(t, err)
	assert.Equal(t, CodePayment, CodeOf(err))
	// The paid session reference is what a later refund runs against; a new
	// unpaid session must never replace it.
	gw.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "SetSessionRef", mock.Anything, mock.Anything)
}

func TestStartCheckout_TerminalBookingRejected(t *testing.T) {
	repo := new(MockBookingRepository)
	gw := new(MockPaymentGateway)

	b := pendingBooking()
	b.Status = models.StatusCanceled
	repo.On("GetByID", "bk-1").Return(b, nil)

	svc := newTestService(repo, gw, new(MockDispatcher))
	_, err := svc.StartCheckout(context.Background(), "bk-1")

	assert.Error(t, err)
	assert.Equal(t, CodePayment, CodeOf(err))
	gw.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestConfirmPayment_AppliesTransitionOnce(t *testing.T) {
	repo := new(MockBookingRepository)
	gw := new(MockPaymentGateway)
	disp := new(MockDispatcher)

	b := pendingBooking()
	b.SessionRef = "cs_test_123"
	repo.On("GetBySessionRef", "cs_test_123").Return(b, nil)
	gw.On("SessionPaid", mock.Anything, "cs_test_123").Return(true, nil)
	repo.On("UpdateStatusFrom", "bk-1", models.StatusPending, models.StatusPaid).Return(true, nil)
	disp.On("BookingPaid", mock.Anything).Return()

	svc := newTestService(repo, gw, disp)
	err := svc.ConfirmPayment(context.Background(), "cs_test_123")

	assert.NoError(t, err)
	disp.AssertNumberOfCalls(t, "BookingPaid", 1)
}

func TestConfirmPayment_UnpaidSessionRejected(t *testing.T) {
	repo := new(MockBookingRepository)
	gw := new(MockPaymentGateway)
	disp := new(MockDispatcher)

	b := pendingBooking()
	b.SessionRef = "cs_test_123"
	repo.On("GetBySessionRef", "cs_test_123").Return(b, nil)
	gw.On("SessionPaid", mock.Anything, "cs_test_123").Return(false, nil)

	svc := newTestService(repo, gw, disp)
	err := svc.ConfirmPayment(context.Background(), "cs_test_123")

	assert.Error(t, err)
	assert.Equal(t, CodePayment, CodeOf(err))
	repo.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmPayment_SecondConfirmationIsNoOp(t *testing.T) {
	repo := new(MockBookingRepository)
	gw := new(MockPaymentGateway)
	disp := new(MockDispatcher)

	// Still PENDING in the snapshot the second caller read, but the guarded
	// update reports the transition already applied.
	b := pendingBooking()
	b.SessionRef = "cs_test_123"
	repo.On("GetBySessionRef", "cs_test_123").Return(b, nil)
	gw.On("SessionPaid", mock.Anything, "cs_test_123").Return(true, nil)
	repo.On("UpdateStatusFrom", "bk-1", models.StatusPending, models.StatusPaid).Return(false, nil)

	svc := newTestService(repo, gw, disp)
	err := svc.ConfirmPayment(context.Background(), "cs_test_123")

	assert.NoError(t, err)
	disp.AssertNotCalled(t, "BookingPaid", mock.Anything)
}

func TestApplyPaymentCompleted_UnknownSessionAcknowledged(t *testing.T) {
	repo := new(MockBookingRepository)
	repo.On("GetBySessionRef", "cs_gone").Return(nil, bookingRepo.ErrNotFound)

	svc := newTestService(repo, new(MockPaymentGateway), new(MockDispatcher))
	err := svc.ApplyPaymentCompleted("cs_gone")

	// Reaped stale hold: swallow so the gateway stops redelivering.
	assert.NoError(t, err)
}

func TestApplyPaymentCompleted_TransitionsWithoutGatewayCheck(t *testing.T) {
	repo := new(MockBookingRepository)
	gw := new(MockPaymentGateway)
	disp := new(MockDispatcher)

	b := pendingBooking()
	b.SessionRef = "cs_test_123"
	repo.On("GetBySessionRef", "cs_test_123").Return(b, nil)
	repo.On("UpdateStatusFrom", "bk-1", models.StatusPending, models.StatusPaid).Return(true, nil)
	disp.On("BookingPaid", mock.Anything).Return()

	svc := newTestService(repo, gw, disp)
	err := svc.ApplyPaymentCompleted("cs_test_123")

	assert.NoError(t, err)
	gw.AssertNotCalled(t, "SessionPaid", mock.Anything, mock.Anything)
	disp.AssertNumberOfCalls(t, "BookingPaid", 1)
}
