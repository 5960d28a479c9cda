package locker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_ExhaustsExactly(t *testing.T) {
	var sleeps []time.Duration
	calls := 0
	r := Retry{Attempts: 100, Delay: 10 * time.Millisecond, Sleep: func(d time.Duration) {
		sleeps = append(sleeps, d)
	}}

	n, err := r.Do(func() error {
		calls++
		return errRefused
	})

	assert.ErrorIs(t, err, errRefused)
	assert.Equal(t, 100, n)
	assert.Equal(t, 100, calls)
	assert.Len(t, sleeps, 99)
	for _, d := range sleeps {
		assert.Equal(t, 10*time.Millisecond, d)
	}
}

func TestRetry_StopsOnSuccess(t *testing.T) {
	calls := 0
	r := Retry{Attempts: 100, Delay: time.Millisecond, Sleep: noSleep}

	n, err := r.Do(func() error {
		calls++
		if calls < 7 {
			return errRefused
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, 7, calls)
}

func TestRetry_AtLeastOneAttempt(t *testing.T) {
	calls := 0
	n, err := Retry{}.Do(func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, calls)
}

func TestAcquire_Success(t *testing.T) {
	d := &fakeDisplay{keyboardRefusals: 2}
	s, err := NewSession(d, &passwordVerifier{}, WithRetry(Retry{Attempts: 5, Sleep: noSleep}))
	require.NoError(t, err)

	require.NoError(t, s.Acquire())
	assert.Equal(t, FullyGrabbed, s.State())
	assert.Equal(t, 3, d.keyboardCalls)
	assert.Equal(t, 1, d.pointerCalls)
	assert.Zero(t, d.ungrabCalls)
}

func TestAcquireKeyboard_DefaultPolicyBound(t *testing.T) {
	d := &fakeDisplay{keyboardRefusals: -1}
	policy := DefaultKeyboardRetry
	policy.Sleep = noSleep
	s, err := NewSession(d, &passwordVerifier{}, WithRetry(policy))
	require.NoError(t, err)

	err = s.Acquire()
	assert.ErrorIs(t, err, ErrKeyboardUnavailable)
	assert.Equal(t, KeyboardGrabAttempts, d.keyboardCalls)
	assert.Zero(t, d.pointerCalls)
	assert.Equal(t, Ungrabbed, s.State())
}

func TestAcquirePointer_FailureReleasesKeyboardFirst(t *testing.T) {
	d := &fakeDisplay{pointerErr: errors.New("frozen")}
	s, err := NewSession(d, &passwordVerifier{}, WithRetry(Retry{Attempts: 1, Sleep: noSleep}))
	require.NoError(t, err)

	err = s.Acquire()
	assert.ErrorIs(t, err, ErrPointerUnavailable)
	assert.Equal(t, 1, d.pointerCalls, "pointer grab must not be retried")
	assert.Equal(t, []string{"grab-keyboard", "grab-pointer", "ungrab-keyboard"}, d.calls)
	assert.Equal(t, Ungrabbed, s.State())
}

func TestAcquirePointer_RequiresKeyboard(t *testing.T) {
	d := &fakeDisplay{}
	s, err := NewSession(d, &passwordVerifier{})
	require.NoError(t, err)

	assert.Error(t, s.AcquirePointer())
	assert.Zero(t, d.pointerCalls)
}

func TestGrabState_String(t *testing.T) {
	assert.Equal(t, "ungrabbed", Ungrabbed.String())
	assert.Equal(t, "keyboard", KeyboardGrabbed.String())
	assert.Equal(t, "keyboard+pointer", FullyGrabbed.String())
	assert.Equal(t, "GrabState(7)", GrabState(7).String())
}

func TestNewSession_NilArguments(t *testing.T) {
	_, err := NewSession(nil, &passwordVerifier{})
	assert.Error(t, err)
	_, err = NewSession(&fakeDisplay{}, nil)
	assert.Error(t, err)
}
