package service_registry

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/benmeehan/push-agent/internal/mocks"
	"github.com/benmeehan/push-agent/internal/models"
	"github.com/benmeehan/push-agent/internal/services"
	"github.com/benmeehan/push-agent/internal/utils"
)

func newConfig(enabled *bool) *utils.Config {
	config := &utils.Config{}
	config.Push.URL = "https://example.com/api/push"
	config.Push.Token = "your-token"
	config.Services.Heartbeat.Enabled = enabled
	config.Normalize()
	return config
}

func TestServiceRegistry_StartAndStopOrder(t *testing.T) {
	sr := NewServiceRegistry(nil, zerolog.Nop())

	var order []string
	first := new(mocks.MockService)
	first.On("Start").Run(func(mock.Arguments) { order = append(order, "start first") }).Return(nil)
	first.On("Stop").Run(func(mock.Arguments) { order = append(order, "stop first") }).Return(nil)
	second := new(mocks.MockService)
	second.On("Start").Run(func(mock.Arguments) { order = append(order, "start second") }).Return(nil)
	second.On("Stop").Run(func(mock.Arguments) { order = append(order, "stop second") }).Return(nil)

	sr.RegisterService("first", first)
	sr.RegisterService("second", second)
	sr.RegisterService("first", second) // duplicate name is ignored
	assert.Equal(t, 2, sr.Len())

	require.NoError(t, sr.StartServices())
	require.NoError(t, sr.StopServices())

	assert.Equal(t, []string{"start first", "start second", "stop second", "stop first"}, order)
}

func TestServiceRegistry_StartFailureStopsStartedServices(t *testing.T) {
	sr := NewServiceRegistry(nil, zerolog.Nop())

	first := new(mocks.MockService)
	first.On("Start").Return(nil)
	first.On("Stop").Return(nil)
	broken := new(mocks.MockService)
	broken.On("Start").Return(errors.New("boom"))

	sr.RegisterService("first", first)
	sr.RegisterService("broken", broken)

	err := sr.StartServices()
	assert.ErrorContains(t, err, "failed to start broken: boom")
	first.AssertCalled(t, "Stop")
	broken.AssertNotCalled(t, "Stop")
}

func TestServiceRegistry_StopServicesJoinsErrors(t *testing.T) {
	sr := NewServiceRegistry(nil, zerolog.Nop())

	a := new(mocks.MockService)
	a.On("Stop").Return(errors.New("a failed"))
	b := new(mocks.MockService)
	b.On("Stop").Return(errors.New("b failed"))
	sr.RegisterService("a", a)
	sr.RegisterService("b", b)

	err := sr.StopServices()
	assert.ErrorContains(t, err, "failed to stop a: a failed")
	assert.ErrorContains(t, err, "failed to stop b: b failed")
}

func TestServiceRegistry_RegisterServices(t *testing.T) {
	pusher := new(mocks.MockPusher)
	pusher.On("Push", mock.Anything, models.PushPayload{Status: "up", Msg: "OK"}).
		Return(models.PushResult{StatusCode: 200})

	sr := NewServiceRegistry(pusher, zerolog.Nop())
	require.NoError(t, sr.RegisterServices(newConfig(nil)))
	require.Equal(t, 1, sr.Len())

	heartbeat, ok := sr.services["heartbeat"].(*services.HeartbeatService)
	require.True(t, ok)
	assert.Equal(t, models.PushPayload{Status: "up", Msg: "OK"}, heartbeat.Payload)
	assert.Equal(t, "status=up&msg=OK&ping=", heartbeat.Payload.Encode())
	assert.Equal(t, time.Minute, heartbeat.Interval)

	require.NoError(t, sr.StartServices())
	require.NoError(t, sr.StopServices())
}

func TestServiceRegistry_RegisterServices_Disabled(t *testing.T) {
	disabled := false
	sr := NewServiceRegistry(new(mocks.MockPusher), zerolog.Nop())

	require.NoError(t, sr.RegisterServices(newConfig(&disabled)))
	assert.Zero(t, sr.Len())
}

func TestServiceRegistry_RegisterServices_NoPusher(t *testing.T) {
	sr := NewServiceRegistry(nil, zerolog.Nop())

	err := sr.RegisterServices(newConfig(nil))
	assert.EqualError(t, err, "no pusher configured")
}
