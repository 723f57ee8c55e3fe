package sri_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/contable/internal/accesskey"
	"github.com/MrJamesThe3rd/contable/internal/sri"
)

type fixedRand struct {
	float float64
	ints  []int
}

func (r *fixedRand) Float64() float64 { return r.float }

func (r *fixedRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}

	v := r.ints[0]
	r.ints = r.ints[1:]

	return v % n
}

var clock = func() time.Time { return time.Date(2024, 3, 15, 12, 30, 45, 123, time.UTC) }

func request() sri.Request {
	return sri.Request{Key: accesskey.Params{
		IssueDate:     time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		RUC:           "1792146739001",
		Environment:   accesskey.EnvironmentTesting,
		Establishment: "001",
		PointOfSale:   "001",
		Sequential:    "123",
	}}
}

func TestSimulator_Authorized(t *testing.T) {
	sim := sri.NewSimulator(
		sri.WithDelay(0),
		sri.WithClock(clock),
		sri.WithRand(&fixedRand{float: 0.5, ints: []int{12345678, 42}}),
	)

	res, err := sim.Authorize(context.Background(), request())
	require.NoError(t, err)

	assert.True(t, res.Authorized)
	assert.Equal(t, "000000000042", res.AuthorizationNumber)
	assert.Equal(t, time.Date(2024, 3, 15, 12, 30, 45, 0, time.UTC), res.AuthorizationDate)
	assert.Equal(t, sri.MessageAuthorized, res.Message)

	want, err := accesskey.BuildAlternating(request().Key, "12345678")
	require.NoError(t, err)
	assert.Equal(t, want, res.AccessKey)
	assert.True(t, accesskey.VerifyAlternating(res.AccessKey))
}

func TestSimulator_KeepsExistingKey(t *testing.T) {
	sim := sri.NewSimulator(sri.WithDelay(0), sri.WithRand(&fixedRand{float: 0}))

	req := request()
	req.AccessKey = "1503202401179214673900110010010000001231234567817"

	res, err := sim.Authorize(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req.AccessKey, res.AccessKey)
}

func TestSimulator_Rejected(t *testing.T) {
	sim := sri.NewSimulator(sri.WithDelay(0), sri.WithRand(&fixedRand{float: 0.95}))

	res, err := sim.Authorize(context.Background(), request())
	require.NoError(t, err)

	assert.False(t, res.Authorized)
	assert.Empty(t, res.AccessKey)
	assert.Empty(t, res.AuthorizationNumber)
	assert.Equal(t, sri.MessageRejected, res.Message)
}

func TestSimulator_SuccessRateBounds(t *testing.T) {
	always := sri.NewSimulator(sri.WithDelay(0), sri.WithSuccessRate(1), sri.WithRand(&fixedRand{float: 0.999}))
	res, err := always.Authorize(context.Background(), request())
	require.NoError(t, err)
	assert.True(t, res.Authorized)

	never := sri.NewSimulator(sri.WithDelay(0), sri.WithSuccessRate(0), sri.WithRand(&fixedRand{float: 0}))
	res, err = never.Authorize(context.Background(), request())
	require.NoError(t, err)
	assert.False(t, res.Authorized)
}

func TestSimulator_Cancelled(t *testing.T) {
	sim := sri.NewSimulator(sri.WithDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := sim.Authorize(ctx, request())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestSimulator_Deadline(t *testing.T) {
	sim := sri.NewSimulator(sri.WithDelay(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := sim.Authorize(ctx, request())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
