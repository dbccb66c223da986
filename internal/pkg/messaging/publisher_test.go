package messaging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	event, err := NewEvent(EventLeaveApproved, "test", "corr-1", map[string]string{"leave_request_id": "abc"})
	require.NoError(t, err)

	assert.Len(t, event.ID, 26)
	assert.Equal(t, EventLeaveApproved, event.Type)
	assert.Equal(t, "corr-1", event.CorrelationID)

	var data map[string]string
	require.NoError(t, event.UnmarshalData(&data))
	assert.Equal(t, "abc", data["leave_request_id"])
}

func TestNewEvent_IDsAreOrdered(t *testing.T) {
	a, err := NewEvent(EventPayrollPaid, "test", "", nil)
	require.NoError(t, err)
	b, err := NewEvent(EventPayrollPaid, "test", "", nil)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.LessOrEqual(t, a.ID[:10], b.ID[:10], "timestamp prefix must not go backwards")
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(2)
	ctx := WithCorrelationID(context.Background(), "req-1")

	require.NoError(t, r.Publish(ctx, EventAttendanceClockIn, nil))
	require.NoError(t, r.Publish(ctx, EventAttendanceClockOut, nil))
	require.NoError(t, r.Publish(ctx, EventAttendanceBreakAdded, nil))

	assert.Equal(t, []string{EventAttendanceClockIn, EventAttendanceClockOut}, r.Types())
	assert.Empty(t, r.Types())
}

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), EventPayrollPaid, struct{}{}))
	assert.NoError(t, p.Close())
}
