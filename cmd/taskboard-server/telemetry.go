package main

import (
	"context"
	"taskboard-backend/lib/serviceutil"
	"taskboard-backend/lib/telemetry"
)

func InitTelemetry(ctx context.Context, verbose bool) {
	t, err := telemetry.SetupFromEnv(ctx, "taskboard-server")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		t.Shutdown(context.Background())
	}()

	telemetry.InitSlog(verbose)
}
