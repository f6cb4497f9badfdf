package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MinhAn2007/fashion-admin-dashboard-sub000/internal/models"
)

func intp(n int) *int { return &n }

func orderIn(status Status, isGet *int, returnReason string) models.Order {
	return models.Order{ID: 42, Status: string(status), IsGet: isGet, ReturnReason: returnReason}
}

func TestActions_FullTable(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  []Action
	}{
		{
			name:  "pending confirmation",
			state: State{Status: StatusPending},
			want:  []Action{ActionConfirm, ActionCancel},
		},
		{
			name:  "pending with return request still offers the pending actions",
			state: State{Status: StatusPending, ReturnReason: "wrong size"},
			want:  []Action{ActionConfirm, ActionCancel},
		},
		{
			name:  "processing",
			state: State{Status: StatusProcessing},
			want:  []Action{ActionInTransit, ActionCancel},
		},
		{
			name:  "in transit",
			state: State{Status: StatusInTransit},
			want:  []Action{ActionDeliver},
		},
		{
			name:  "delivered, receipt unknown",
			state: State{Status: StatusDelivered, Receipt: ReceiptUnknown},
			want:  []Action{ActionMarkReceived, ActionMarkNotReceived},
		},
		{
			name:  "delivered, receipt confirmed",
			state: State{Status: StatusDelivered, Receipt: ReceiptConfirmed},
			want:  []Action{ActionComplete, ActionReturn},
		},
		{
			name:  "delivered, receipt denied",
			state: State{Status: StatusDelivered, Receipt: ReceiptDenied},
			want:  []Action{ActionRedeliver, ActionReturn},
		},
		{
			name:  "delivered with return reason behaves as plain delivered",
			state: State{Status: StatusDelivered, Receipt: ReceiptConfirmed, ReturnReason: "scratched"},
			want:  []Action{ActionComplete, ActionReturn},
		},
		{
			name:  "completed",
			state: State{Status: StatusCompleted},
			want:  []Action{ActionReturn},
		},
		{
			name:  "returned, open",
			state: State{Status: StatusReturned},
			want:  []Action{ActionConfirm},
		},
		{
			name:  "returned, closed",
			state: State{Status: StatusReturned, ReturnReason: "damaged"},
			want:  nil,
		},
		{
			name:  "cancelled is terminal",
			state: State{Status: StatusCancelled},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Actions(tt.state))
		})
	}
}

func TestActions_NothingOutsideTheTable(t *testing.T) {
	statuses := []Status{
		StatusPending, StatusProcessing, StatusInTransit, StatusDelivered,
		StatusCompleted, StatusCancelled, StatusReturned,
	}
	receipts := []Receipt{ReceiptUnknown, ReceiptConfirmed, ReceiptDenied}
	all := []Action{
		ActionConfirm, ActionCancel, ActionInTransit, ActionDeliver,
		ActionMarkReceived, ActionMarkNotReceived, ActionComplete,
		ActionReturn, ActionRedeliver,
	}

	for _, status := range statuses {
		for _, receipt := range receipts {
			s := State{Status: status, Receipt: receipt}
			offered := Actions(s)
			for _, a := range all {
				if Allowed(s, a) {
					assert.Contains(t, offered, a)
					continue
				}
				// Anything not offered must be rejected by Apply.
				_, err := Apply(s, a)
				assert.ErrorIs(t, err, ErrNotAllowed, "status=%s receipt=%d action=%s", status, receipt, a)
			}
		}
	}
}

func TestApply_StatusEffects(t *testing.T) {
	tests := []struct {
		state  State
		action Action
		target Status
	}{
		{State{Status: StatusPending}, ActionConfirm, StatusProcessing},
		{State{Status: StatusPending}, ActionCancel, StatusCancelled},
		{State{Status: StatusProcessing}, ActionInTransit, StatusInTransit},
		{State{Status: StatusProcessing}, ActionCancel, StatusCancelled},
		{State{Status: StatusInTransit}, ActionDeliver, StatusDelivered},
		{State{Status: StatusDelivered, Receipt: ReceiptConfirmed}, ActionComplete, StatusCompleted},
		{State{Status: StatusDelivered, Receipt: ReceiptConfirmed}, ActionReturn, StatusReturned},
		{State{Status: StatusDelivered, Receipt: ReceiptDenied}, ActionReturn, StatusReturned},
		{State{Status: StatusCompleted}, ActionReturn, StatusReturned},
		{State{Status: StatusReturned}, ActionConfirm, StatusPending},
	}

	for _, tt := range tests {
		effect, err := Apply(tt.state, tt.action)
		require.NoError(t, err, "%s in %s", tt.action, tt.state.Status)
		assert.Equal(t, EffectStatus, effect.Kind)
		assert.Equal(t, tt.target, effect.Target)
	}
}

func TestApply_ReceiptEffects(t *testing.T) {
	delivered := State{Status: StatusDelivered}

	effect, err := Apply(delivered, ActionMarkReceived)
	require.NoError(t, err)
	assert.Equal(t, EffectReceipt, effect.Kind)
	require.NotNil(t, effect.IsGet)
	assert.Equal(t, 1, *effect.IsGet)

	effect, err = Apply(delivered, ActionMarkNotReceived)
	require.NoError(t, err)
	assert.Equal(t, EffectReceipt, effect.Kind)
	require.NotNil(t, effect.IsGet)
	assert.Equal(t, 0, *effect.IsGet)

	effect, err = Apply(State{Status: StatusDelivered, Receipt: ReceiptDenied}, ActionRedeliver)
	require.NoError(t, err)
	assert.Equal(t, EffectReceipt, effect.Kind)
	assert.Nil(t, effect.IsGet, "redelivery resets the flag to undetermined")
}

// The delivered flow end to end: an undetermined delivery offers only
// the two receipt marks; confirming receipt switches the set to
// complete/return.
func TestDeliveredReceiptFlow(t *testing.T) {
	s := StateOf(orderIn(StatusDelivered, nil, ""))
	assert.Equal(t, []Action{ActionMarkReceived, ActionMarkNotReceived}, Actions(s))

	effect, err := Apply(s, ActionMarkReceived)
	require.NoError(t, err)
	require.Equal(t, EffectReceipt, effect.Kind)

	// The store applies the effect; the viewer re-fetches.
	s = StateOf(orderIn(StatusDelivered, effect.IsGet, ""))
	assert.Equal(t, ReceiptConfirmed, s.Receipt)
	assert.Equal(t, []Action{ActionComplete, ActionReturn}, Actions(s))
}

func TestApply_UnknownStatus(t *testing.T) {
	_, err := Apply(State{Status: "Teleported"}, ActionConfirm)
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestStateOf_NormalizesReceipt(t *testing.T) {
	// isGet outside Delivered carries no meaning and must not influence
	// the state.
	s := StateOf(orderIn(StatusProcessing, intp(1), ""))
	assert.Equal(t, ReceiptUnknown, s.Receipt)

	assert.Equal(t, ReceiptConfirmed, StateOf(orderIn(StatusDelivered, intp(1), "")).Receipt)
	assert.Equal(t, ReceiptDenied, StateOf(orderIn(StatusDelivered, intp(0), "")).Receipt)
	assert.Equal(t, ReceiptUnknown, StateOf(orderIn(StatusDelivered, nil, "")).Receipt)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Return Request", Label(State{Status: StatusPending, ReturnReason: "late"}))
	assert.Equal(t, "Pending Confirmation", Label(State{Status: StatusPending}))
	assert.Equal(t, "Delivered", Label(State{Status: StatusDelivered, ReturnReason: "late"}))
	assert.Equal(t, "Returned", Label(State{Status: StatusReturned, ReturnReason: "late"}))
}
