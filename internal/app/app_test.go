package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"syscall"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
)

func silent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAppRunContext_StartsAllRunners_GoMock(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	tcp := NewMockRunner(ctrl)
	http := NewMockRunner(ctrl)

	started := make(chan string, 2)
	for name, r := range map[string]*MockRunner{"tcp": tcp, "http": http} {
		name := name
		r.EXPECT().Name().Return(name).AnyTimes()
		r.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
			started <- name
			<-ctx.Done()
			return nil
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(silent(), tcp, http).RunContext(ctx) }()

	<-started
	<-started
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("RunContext() unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("RunContext() did not return after cancel")
	}
}

func TestAppRunContext_OneFailureStopsTheRest_GoMock(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	wantErr := errors.New("listen: address in use")

	bad := NewMockRunner(ctrl)
	bad.EXPECT().Name().Return("http").AnyTimes()
	bad.EXPECT().Run(gomock.Any()).Return(wantErr)

	good := NewMockRunner(ctrl)
	good.EXPECT().Name().Return("tcp").AnyTimes()
	good.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	err := New(silent(), bad, good).RunContext(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("RunContext() error = %v; want %v", err, wantErr)
	}
}

func TestAppRun_CancelsOnSignal_GracefulExit_GoMock(t *testing.T) {
	ctrl := gomock.NewController(t)

	mr := NewMockRunner(ctrl)
	mr.EXPECT().Name().Return("tcp").AnyTimes()
	mr.EXPECT().
		Run(gomock.Any()).
		DoAndReturn(func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		})

	a := New(silent(), mr)

	done := make(chan error, 1)
	go func() { done <- a.Run() }()

	time.Sleep(50 * time.Millisecond)

	if err := syscall.Kill(os.Getpid(), syscall.SIGINT); err != nil {
		t.Fatalf("sending SIGINT failed: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() returned error on graceful cancel: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after SIGINT")
	}
}
