package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nitinadonis1/Weather---app/internal/units"
	"github.com/Nitinadonis1/Weather---app/internal/weather"
)

func waitResult(t *testing.T, task *Task) TaskResult {
	t.Helper()
	select {
	case res := <-task.ResultCh:
		return res
	case <-time.After(2 * time.Second):
		t.Fatalf("task %s did not finish", task.ID)
		return TaskResult{}
	}
}

func TestDashboardWorker_Creation(t *testing.T) {
	d := createTestDashboard(t, &fakeService{}, testConfig())
	worker := NewDashboardWorker(d, 1)

	require.NotNil(t, worker)
	assert.Equal(t, 1, worker.workerID)
	assert.Same(t, d, worker.dashboard)
	assert.NotNil(t, worker.logger)
}

func TestDashboard_SubmitWarmsCache(t *testing.T) {
	svc := &fakeService{}
	d := createTestDashboard(t, svc, testConfig())

	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(func() { _ = d.Stop(context.Background()) })

	task, err := d.Submit(context.Background(), Query{City: "Paris", Units: units.Imperial})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)

	res := waitResult(t, task)
	require.NoError(t, res.Error)
	assert.Equal(t, "Paris", res.Current.City)
	assert.Equal(t, "Paris", res.Forecast.City)

	_, err = d.CurrentWeather(context.Background(), Query{City: "paris", Units: units.Imperial})
	require.NoError(t, err)
	_, err = d.Forecast(context.Background(), Query{City: "paris", Units: units.Imperial})
	require.NoError(t, err)

	assert.Equal(t, int32(1), svc.currentCalls.Load())
	assert.Equal(t, int32(1), svc.forecastCalls.Load())
}

func TestDashboard_TaskFailureIsReported(t *testing.T) {
	d := createTestDashboard(t, &fakeService{err: weather.ErrUpstreamUnavailable}, testConfig())

	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(func() { _ = d.Stop(context.Background()) })

	task, err := d.Submit(context.Background(), Query{City: "Paris"})
	require.NoError(t, err)

	res := waitResult(t, task)
	assert.ErrorIs(t, res.Error, weather.ErrUpstreamUnavailable)
	assert.Equal(t, 0, d.GetCacheStats().CurrentCount)
}

func TestDashboard_PrefetchQueuesEveryQuery(t *testing.T) {
	svc := &fakeService{}
	d := createTestDashboard(t, svc, testConfig())

	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(func() { _ = d.Stop(context.Background()) })

	tasks := d.Prefetch(context.Background(),
		Query{City: "London"},
		Query{City: ""},
		Query{City: "Tokyo"},
	)
	require.Len(t, tasks, 2)

	for _, task := range tasks {
		require.NoError(t, waitResult(t, task).Error)
	}
	stats := d.GetCacheStats()
	assert.Equal(t, 2, stats.CurrentCount)
	assert.Equal(t, 2, stats.ForecastCount)
}

func TestDashboard_Lifecycle(t *testing.T) {
	d := createTestDashboard(t, &fakeService{}, testConfig())

	_, err := d.Submit(context.Background(), Query{City: "Paris"})
	assert.ErrorIs(t, err, ErrWorkersNotReady)

	require.NoError(t, d.Start(context.Background()))
	assert.ErrorIs(t, d.Start(context.Background()), ErrWorkersStarted)

	require.NoError(t, d.Stop(context.Background()))
	require.NoError(t, d.Stop(context.Background()))

	_, err = d.Submit(context.Background(), Query{City: "Paris"})
	assert.ErrorIs(t, err, ErrWorkersStopped)
	assert.ErrorIs(t, d.Start(context.Background()), ErrWorkersStopped)
}

func TestDashboard_StopFinishesQueuedTasks(t *testing.T) {
	svc := newBlockingService()
	d := createTestDashboard(t, svc, testConfig())

	require.NoError(t, d.Start(context.Background()))

	first, err := d.Submit(context.Background(), Query{City: "Paris"})
	require.NoError(t, err)
	<-svc.started

	queued := d.Prefetch(context.Background(), Query{City: "London"}, Query{City: "Tokyo"})
	require.Len(t, queued, 2)

	stopped := make(chan error, 1)
	go func() { stopped <- d.Stop(context.Background()) }()
	close(svc.release)

	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}

	for _, task := range append([]*Task{first}, queued...) {
		res := waitResult(t, task)
		require.NoError(t, res.Error)
		assert.Equal(t, task.Query.City, res.Current.City)
	}
	assert.Equal(t, int32(3), svc.currentCalls.Load())
}

func TestDashboard_StopFailsTasksLeftWithoutWorkers(t *testing.T) {
	svc := &fakeService{}
	d := createTestDashboard(t, svc, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, d.Start(ctx))
	cancel()
	d.workerWg.Wait()

	task, err := d.Submit(context.Background(), Query{City: "Paris"})
	require.NoError(t, err)

	require.NoError(t, d.Stop(context.Background()))

	res := waitResult(t, task)
	assert.ErrorIs(t, res.Error, ErrWorkersStopped)
	assert.Equal(t, int32(0), svc.currentCalls.Load())
}

func TestDashboard_WorkersStopOnContextCancel(t *testing.T) {
	d := createTestDashboard(t, &fakeService{}, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, d.Start(ctx))
	cancel()

	done := make(chan struct{})
	go func() {
		d.workerWg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop after context cancellation")
	}
}

func TestDashboard_NoWorkersConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.Workers = 0
	d := createTestDashboard(t, &fakeService{}, cfg)

	require.NoError(t, d.Start(context.Background()))

	_, err := d.Submit(context.Background(), Query{City: "Paris"})
	assert.ErrorIs(t, err, ErrWorkersNotReady)
}

func TestDashboard_RunRefreshLoop(t *testing.T) {
	svc := &fakeService{}
	d := createTestDashboard(t, svc, testConfig())

	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(func() { _ = d.Stop(context.Background()) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.RunRefreshLoop(ctx, 10*time.Millisecond, []Query{{City: "Sydney"}})
		close(done)
	}()

	require.Eventually(t, func() bool {
		return svc.currentCalls.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh loop did not return after cancellation")
	}
}
