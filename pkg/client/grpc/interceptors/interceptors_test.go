package interceptors

import (
	"context"
	"testing"
	"time"

	"github.com/abgdnv/petstore/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const testMethod = "/petstore.v1.PetStore/GetPet"

// failingInvoker fails with the given codes in order, then succeeds.
func failingInvoker(calls *int, failures ...codes.Code) grpc.UnaryInvoker {
	return func(ctx context.Context, _ string, _, _ any, _ *grpc.ClientConn, _ ...grpc.CallOption) error {
		*calls++
		if *calls <= len(failures) {
			return status.Error(failures[*calls-1], "failed")
		}
		return nil
	}
}

func TestUnaryClientTimeoutInterceptor(t *testing.T) {
	// given
	interceptor := UnaryClientTimeoutInterceptor(50 * time.Millisecond)
	var deadline time.Time
	var hasDeadline bool
	invoker := func(ctx context.Context, _ string, _, _ any, _ *grpc.ClientConn, _ ...grpc.CallOption) error {
		deadline, hasDeadline = ctx.Deadline()
		<-ctx.Done()
		return status.FromContextError(ctx.Err()).Err()
	}

	// when
	start := time.Now()
	err := interceptor(context.Background(), testMethod, nil, nil, nil, invoker)

	// then
	require.True(t, hasDeadline)
	assert.WithinDuration(t, start.Add(50*time.Millisecond), deadline, 25*time.Millisecond)
	assert.Equal(t, codes.DeadlineExceeded, status.Code(err))
}

func TestNewRetryInterceptor(t *testing.T) {
	retryCfg := config.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond}

	testCases := []struct {
		name          string
		failures      []codes.Code
		expectedCode  codes.Code
		expectedCalls int
	}{
		{
			name:          "success on first attempt",
			expectedCode:  codes.OK,
			expectedCalls: 1,
		},
		{
			name:          "recovers from transient failures",
			failures:      []codes.Code{codes.Unavailable, codes.Aborted},
			expectedCode:  codes.OK,
			expectedCalls: 3,
		},
		{
			name:          "gives up after max attempts",
			failures:      []codes.Code{codes.Unavailable, codes.Unavailable, codes.Unavailable, codes.Unavailable},
			expectedCode:  codes.Unavailable,
			expectedCalls: 3,
		},
		{
			name:          "does not retry not found",
			failures:      []codes.Code{codes.NotFound},
			expectedCode:  codes.NotFound,
			expectedCalls: 1,
		},
		{
			name:          "does not retry invalid argument",
			failures:      []codes.Code{codes.InvalidArgument},
			expectedCode:  codes.InvalidArgument,
			expectedCalls: 1,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			calls := 0
			interceptor := NewRetryInterceptor(retryCfg)

			// when
			err := interceptor(context.Background(), testMethod, nil, nil, nil, failingInvoker(&calls, tc.failures...))

			// then
			assert.Equal(t, tc.expectedCode, status.Code(err))
			assert.Equal(t, tc.expectedCalls, calls)
		})
	}
}
