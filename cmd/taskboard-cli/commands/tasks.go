package commands

import (
	"os"
	"taskboard-backend/lib/configutil"
	"taskboard-backend/lib/serviceutil"
	"taskboard-backend/services/taskstore"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var tasksLatest *int64

func init() {
	tasksLatest = tasksCmd.Flags().Int64("latest", 0, "Only show the N most recently scraped tasks.")
	rootCmd.AddCommand(tasksCmd)
}

var tasksCmd = &cobra.Command{
	Use:   "tasks [--latest <n>]",
	Short: "Prints the tasks currently stored in the database.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		store := openStore(cfg)

		var tasks []taskstore.Task
		if *tasksLatest > 0 {
			tasks, err = store.ListLatest(cmd.Context(), *tasksLatest)
		} else {
			tasks, err = store.ListAll(cmd.Context())
		}
		if err != nil {
			serviceutil.Fatal("list tasks", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Platform", "Course", "Title", "Due", "Status", "Scraped At"})

		for _, task := range tasks {
			t.AppendRow(table.Row{
				task.Platform,
				task.Course,
				task.Title,
				task.DueDate,
				task.Status,
				task.ScrapedAt.Format("2006-01-02 15:04"),
			})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
