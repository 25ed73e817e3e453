package main

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"macshift/internal/domain/entities"
	"macshift/internal/domain/errors"
	"macshift/pkg/utils"
)

// newRulesCommand는 앱별 규칙 관리 커맨드 그룹을 만듭니다
func newRulesCommand(cfgPath *string, logger *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage per-application MAC rules",
	}

	cmd.AddCommand(
		newRulesAddCommand(cfgPath, logger),
		newRulesRemoveCommand(cfgPath, logger),
		newRulesListCommand(cfgPath, logger),
		newRulesEnableCommand(cfgPath, logger, true),
		newRulesEnableCommand(cfgPath, logger, false),
	)

	return cmd
}

func newRulesAddCommand(cfgPath *string, logger *logrus.Logger) *cobra.Command {
	var (
		appName   string
		service   string
		ifaceName string
		macValue  string
		days      []string
		startTime string
		endTime   string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or replace a rule for an application",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := utils.ValidateInterfaceName(ifaceName); err != nil {
				return errors.NewValidationError("invalid interface name", err)
			}
			// 규칙에 저장하기 전에 파싱해 표기 오류를 조기에 잡는다
			if _, err := entities.ParseMac(macValue); err != nil {
				return err
			}

			rule := entities.AppRule{
				AppName:     appName,
				ServiceName: service,
				MacAddress:  macValue,
				Interface:   ifaceName,
				Enabled:     true,
			}

			if len(days) > 0 || startTime != "" || endTime != "" {
				if len(days) == 0 || startTime == "" || endTime == "" {
					return errors.NewValidationError(
						"--days, --start and --end must be given together", nil)
				}
				rule.Schedule = &entities.Schedule{
					Days:      days,
					StartTime: startTime,
					EndTime:   endTime,
				}
			}

			c, err := buildContainer(*cfgPath, logger)
			if err != nil {
				return err
			}

			if err := c.GetRuleRepository().Add(rule); err != nil {
				return err
			}

			cmd.Printf("Rule saved: %s on %s -> %s\n", appName, ifaceName, macValue)
			return nil
		},
	}

	cmd.Flags().StringVarP(&appName, "app", "a", "", "application process name (e.g., firefox)")
	cmd.Flags().StringVar(&service, "service", "", "optional human-readable service name")
	cmd.Flags().StringVarP(&ifaceName, "interface", "i", "", "network interface the rule applies to")
	cmd.Flags().StringVarP(&macValue, "mac", "m", "", "MAC address to apply while the application runs")
	cmd.Flags().StringSliceVar(&days, "days", nil, "weekdays the rule is active (e.g., monday,friday)")
	cmd.Flags().StringVar(&startTime, "start", "", "daily window start in HH:MM")
	cmd.Flags().StringVar(&endTime, "end", "", "daily window end in HH:MM")
	cmd.MarkFlagRequired("app")
	cmd.MarkFlagRequired("interface")
	cmd.MarkFlagRequired("mac")

	return cmd
}

func newRulesRemoveCommand(cfgPath *string, logger *logrus.Logger) *cobra.Command {
	var (
		appName   string
		ifaceName string
	)

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a rule",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(*cfgPath, logger)
			if err != nil {
				return err
			}

			if err := c.GetRuleRepository().Remove(appName, ifaceName); err != nil {
				return err
			}

			cmd.Printf("Rule removed: %s on %s\n", appName, ifaceName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&appName, "app", "a", "", "application process name")
	cmd.Flags().StringVarP(&ifaceName, "interface", "i", "", "network interface")
	cmd.MarkFlagRequired("app")
	cmd.MarkFlagRequired("interface")

	return cmd
}

func newRulesListCommand(cfgPath *string, logger *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all rules in evaluation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(*cfgPath, logger)
			if err != nil {
				return err
			}

			rules, err := c.GetRuleRepository().List()
			if err != nil {
				return err
			}
			if len(rules) == 0 {
				cmd.Println("No rules configured")
				return nil
			}

			for i, rule := range rules {
				state := "enabled"
				if !rule.Enabled {
					state = "disabled"
				}
				line := []string{rule.AppName, "on", rule.Interface, "->", rule.MacAddress, "(" + state + ")"}
				if rule.Schedule != nil {
					line = append(line,
						strings.Join(rule.Schedule.Days, ",")+" "+rule.Schedule.StartTime+"-"+rule.Schedule.EndTime)
				}
				cmd.Printf("%d. %s\n", i+1, strings.Join(line, " "))
			}
			return nil
		},
	}
}

func newRulesEnableCommand(cfgPath *string, logger *logrus.Logger, enable bool) *cobra.Command {
	var (
		appName   string
		ifaceName string
	)

	use, short := "enable", "Enable a rule"
	if !enable {
		use, short = "disable", "Disable a rule without removing it"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(*cfgPath, logger)
			if err != nil {
				return err
			}

			if err := c.GetRuleRepository().SetEnabled(appName, ifaceName, enable); err != nil {
				return err
			}

			cmd.Printf("Rule %s: %s on %s\n", use+"d", appName, ifaceName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&appName, "app", "a", "", "application process name")
	cmd.Flags().StringVarP(&ifaceName, "interface", "i", "", "network interface")
	cmd.MarkFlagRequired("app")
	cmd.MarkFlagRequired("interface")

	return cmd
}

// newApplyCommand는 규칙 적용을 한 사이클 수행하는 커맨드를 만듭니다
func newApplyCommand(cfgPath *string, logger *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Evaluate rules once and apply matching overrides",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(*cfgPath, logger)
			if err != nil {
				return err
			}

			output, err := c.GetApplyRulesUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Printf("Matched %d, applied %d, failed %d, skipped %d\n",
				output.MatchedCount, output.AppliedCount, output.FailedCount, output.SkippedCount)
			return nil
		},
	}
}
