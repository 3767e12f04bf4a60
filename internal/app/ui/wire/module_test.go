package wire

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"logscope/internal/app/bus"
	"logscope/internal/app/control"
	"logscope/internal/app/engine"
	"logscope/internal/app/entry"
	"logscope/internal/app/errors"
	"logscope/internal/app/filter"
	"logscope/internal/app/registry"
	"logscope/internal/app/stats"
	"logscope/internal/app/store"
	"logscope/internal/config"
	"logscope/internal/config/logger"
)

func newParams(t *testing.T) (UIParams, *engine.MockEngine) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockEngine := engine.NewMockEngine(ctrl)
	cfg := config.DefaultConfig()

	return UIParams{
		Config: cfg,
		Engine: mockEngine,
		Logger: logger.NewLoggerWithOutput(cfg, io.Discard),
	}, mockEngine
}

func realController(t *testing.T) (*registry.Subscription, control.Controller) {
	t.Helper()

	log := logger.NewLoggerWithOutput(config.DefaultConfig(), io.Discard)
	reg := registry.New(store.New(16), 16, log)

	t.Cleanup(func() { _ = reg.Close(context.Background()) })

	sub, err := reg.Subscribe(nil, func(entry.Entry) {})
	require.NoError(t, err)

	c, err := control.New(control.Target{Registry: reg, Subscription: sub})
	require.NoError(t, err)

	return sub, c
}

func Test_NewUI(t *testing.T) {
	params, _ := newParams(t)
	assert.NotNil(t, NewUI(params))
}

func Test_UI_Errors(t *testing.T) {
	spec := filter.MatchAll(nil)

	tests := []struct {
		name          string
		before        func(m *engine.MockEngine)
		expectedError error
	}{
		{
			name: "Invalid filter",
			before: func(m *engine.MockEngine) {
				m.EXPECT().NewSpec(gomock.Any()).Return(nil, errors.ErrInvalidRegexPattern)
			},
			expectedError: errors.ErrInvalidRegexPattern,
		},
		{
			name: "Subscribe fails",
			before: func(m *engine.MockEngine) {
				m.EXPECT().NewSpec(gomock.Any()).Return(spec, nil)
				m.EXPECT().Subscribe(spec, gomock.Any()).Return(nil, errors.ErrRegistryClosed)
			},
			expectedError: errors.ErrRegistryClosed,
		},
		{
			name: "Control fails and releases the subscription",
			before: func(m *engine.MockEngine) {
				m.EXPECT().NewSpec(gomock.Any()).Return(spec, nil)
				m.EXPECT().Subscribe(spec, gomock.Any()).Return(nil, nil)
				m.EXPECT().Control(gomock.Any()).Return(nil, errors.ErrSubscriptionNotFound)
				m.EXPECT().Unsubscribe(gomock.Any()).Return(nil)
			},
			expectedError: errors.ErrSubscriptionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, mockEngine := newParams(t)
			tt.before(mockEngine)

			p, err := NewUI(params)(context.Background(), filter.Options{})
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tt.expectedError)
		})
	}
}

func Test_UI_CreateProgram(t *testing.T) {
	params, mockEngine := newParams(t)
	sub, c := realController(t)
	spec := c.Spec()

	events := make(chan bus.Message)
	released := make(chan struct{})

	mockEngine.EXPECT().NewSpec(filter.Options{Levels: []string{"ERROR"}}).Return(spec, nil)
	mockEngine.EXPECT().Subscribe(spec, gomock.Any()).Return(sub, nil)
	mockEngine.EXPECT().Control(sub).Return(c, nil)
	mockEngine.EXPECT().Events(gomock.Any()).Return((<-chan bus.Message)(events))
	mockEngine.EXPECT().Sources().Return([]string{"core"})
	mockEngine.EXPECT().Stats().Return(stats.Snapshot{})
	mockEngine.EXPECT().Unsubscribe(sub).DoAndReturn(func(*registry.Subscription) error {
		close(released)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())

	p, err := NewUI(params)(ctx, filter.Options{Levels: []string{"ERROR"}})
	require.NoError(t, err)
	assert.NotNil(t, p)

	cancel()

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("subscription not released after cancel")
	}
}
