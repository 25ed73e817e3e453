package main

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"macshift/internal/domain/entities"
)

// newHistoryCommand는 변경 이력 조회 커맨드를 만듭니다
func newHistoryCommand(cfgPath *string, logger *logrus.Logger) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the MAC change history",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(*cfgPath, logger)
			if err != nil {
				return err
			}

			records, err := c.GetHistoryRepository().List()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				cmd.Println("No changes recorded")
				return nil
			}

			if limit > 0 && len(records) > limit {
				records = records[len(records)-limit:]
			}

			for _, record := range records {
				line := record.Timestamp.Format(time.RFC3339) + "  " + record.Interface +
					"  " + record.PreviousMac + " -> " + record.AppliedMac + "  " + string(record.Result)
				if record.Result == entities.ChangeResultFailed && record.Error != "" {
					line += "  (" + record.Error + ")"
				}
				cmd.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the most recent N entries")

	return cmd
}
