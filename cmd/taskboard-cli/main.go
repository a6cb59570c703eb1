package main

import (
	"context"
	"taskboard-backend/cmd/taskboard-cli/commands"
	"taskboard-backend/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "taskboard-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
