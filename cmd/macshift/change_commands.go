package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"macshift/internal/application/usecases"
	"macshift/internal/domain/entities"
	"macshift/internal/domain/errors"
	"macshift/internal/infrastructure/container"
	"macshift/pkg/utils"
)

// ensureMacAllowed는 대상 MAC의 벤더 프리픽스가 허용/차단 목록을
// 통과하는지 확인합니다. 차단된 MAC은 변경 시퀀스에 진입하지 않습니다
func ensureMacAllowed(c *container.Container, target entities.MacAddress) error {
	allowed, err := c.GetFilterRepository().IsAllowed(target)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.NewValidationError(
			fmt.Sprintf("MAC address %s is rejected by the prefix filter", target.String()), nil)
	}
	return nil
}

// appendChangeHistory는 직접 변경(set/random/restore)의 결과를 이력에 남깁니다
func appendChangeHistory(c *container.Container, logger *logrus.Logger, ifaceName, targetMac string, permanent bool, output *usecases.ChangeAddressOutput, execErr error) {
	record := entities.ChangeRecord{
		Interface:          ifaceName,
		AppliedMac:         targetMac,
		PermanentRequested: permanent,
		Timestamp:          c.GetClock().Now(),
	}
	if execErr != nil {
		record.Result = entities.ChangeResultFailed
		record.Error = execErr.Error()
	} else {
		record.Result = entities.ChangeResultSuccess
		record.PreviousMac = output.PreviousMac.String()
		record.AppliedMac = output.AppliedMac.String()
		record.PersistenceHonored = output.PersistenceHonored
	}
	if err := c.GetHistoryRepository().Append(record); err != nil {
		logger.WithError(err).Warn("failed to append change history")
	}
}

// newSetCommand는 지정한 MAC으로 변경하는 커맨드를 만듭니다
func newSetCommand(cfgPath *string, logger *logrus.Logger) *cobra.Command {
	var (
		ifaceName string
		macValue  string
		permanent bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set a specific MAC address on an interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := utils.ValidateInterfaceName(ifaceName); err != nil {
				return errors.NewValidationError("invalid interface name", err)
			}

			target, err := entities.ParseMac(macValue)
			if err != nil {
				return err
			}

			c, err := buildContainer(*cfgPath, logger)
			if err != nil {
				return err
			}

			if err := ensureMacAllowed(c, target); err != nil {
				return err
			}

			output, err := c.GetChangeAddressUseCase().Execute(cmd.Context(), usecases.ChangeAddressInput{
				InterfaceName: ifaceName,
				TargetMac:     target,
				Permanent:     permanent,
			})
			appendChangeHistory(c, logger, ifaceName, target.String(), permanent, output, err)
			if err != nil {
				return err
			}

			printChangeResult(cmd, ifaceName, output, permanent)
			return nil
		},
	}

	cmd.Flags().StringVarP(&ifaceName, "interface", "i", "", "network interface (e.g., eth0, wlan0)")
	cmd.Flags().StringVarP(&macValue, "mac", "m", "", "MAC address (colon, hyphen, dot or plain notation)")
	cmd.Flags().BoolVarP(&permanent, "permanent", "p", false, "make the change persistent across reboots")
	cmd.MarkFlagRequired("interface")
	cmd.MarkFlagRequired("mac")

	return cmd
}

// newRandomCommand는 무작위 MAC으로 변경하는 커맨드를 만듭니다
func newRandomCommand(cfgPath *string, logger *logrus.Logger) *cobra.Command {
	var (
		ifaceName string
		vendor    string
		country   string
		permanent bool
	)

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Set a randomly generated MAC address on an interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := utils.ValidateInterfaceName(ifaceName); err != nil {
				return errors.NewValidationError("invalid interface name", err)
			}
			if vendor != "" && country != "" {
				return errors.NewValidationError("--vendor and --country cannot be combined", nil)
			}

			c, err := buildContainer(*cfgPath, logger)
			if err != nil {
				return err
			}

			var target entities.MacAddress
			switch {
			case vendor != "":
				prefix, err := entities.ParseVendorPrefix(vendor)
				if err != nil {
					return err
				}
				target, err = entities.GenerateRandomMac(&prefix)
				if err != nil {
					return err
				}
			case country != "":
				suggested, vendorInfo, err := c.GetOuiService().SuggestForCountry(country)
				if err != nil {
					return err
				}
				cmd.Printf("Using vendor %s (%s)\n", vendorInfo.Name, vendorInfo.Prefix)
				target = suggested
			default:
				target, err = entities.GenerateRandomMac(nil)
				if err != nil {
					return err
				}
			}

			if err := ensureMacAllowed(c, target); err != nil {
				return err
			}

			output, err := c.GetChangeAddressUseCase().Execute(cmd.Context(), usecases.ChangeAddressInput{
				InterfaceName: ifaceName,
				TargetMac:     target,
				Permanent:     permanent,
			})
			appendChangeHistory(c, logger, ifaceName, target.String(), permanent, output, err)
			if err != nil {
				return err
			}

			printChangeResult(cmd, ifaceName, output, permanent)
			return nil
		},
	}

	cmd.Flags().StringVarP(&ifaceName, "interface", "i", "", "network interface (e.g., eth0, wlan0)")
	cmd.Flags().StringVarP(&vendor, "vendor", "v", "", "vendor prefix to keep (first 3 bytes, e.g., 00:11:22)")
	cmd.Flags().StringVarP(&country, "country", "c", "", "pick a vendor prefix registered in this country")
	cmd.Flags().BoolVarP(&permanent, "permanent", "p", false, "make the change persistent across reboots")
	cmd.MarkFlagRequired("interface")

	return cmd
}

// newRestoreCommand는 저장된 원본 MAC으로 복원하는 커맨드를 만듭니다
func newRestoreCommand(cfgPath *string, logger *logrus.Logger) *cobra.Command {
	var (
		ifaceName string
		all       bool
	)

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore the original MAC address of an interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (ifaceName != "") {
				return errors.NewValidationError("exactly one of --interface and --all is required", nil)
			}

			c, err := buildContainer(*cfgPath, logger)
			if err != nil {
				return err
			}

			if all {
				return restoreAllInterfaces(cmd, c, logger)
			}

			if err := utils.ValidateInterfaceName(ifaceName); err != nil {
				return errors.NewValidationError("invalid interface name", err)
			}
			return restoreInterface(cmd, c, logger, ifaceName)
		},
	}

	cmd.Flags().StringVarP(&ifaceName, "interface", "i", "", "network interface (e.g., eth0, wlan0)")
	cmd.Flags().BoolVar(&all, "all", false, "restore every interface that has a saved baseline")

	return cmd
}

func restoreInterface(cmd *cobra.Command, c *container.Container, logger *logrus.Logger, ifaceName string) error {
	output, err := c.GetRestoreAddressUseCase().Execute(cmd.Context(), usecases.RestoreAddressInput{
		InterfaceName: ifaceName,
	})
	appendChangeHistory(c, logger, ifaceName, "", false, output, err)
	if err != nil {
		return err
	}

	cmd.Printf("Restored %s to original MAC %s\n", ifaceName, output.AppliedMac.String())
	return nil
}

// restoreAllInterfaces는 베이스라인이 저장된 모든 인터페이스를 복원합니다.
// 일부가 실패해도 나머지는 계속 시도합니다
func restoreAllInterfaces(cmd *cobra.Command, c *container.Container, logger *logrus.Logger) error {
	names, err := c.GetBaselineRepository().Interfaces()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		cmd.Println("No saved baselines to restore")
		return nil
	}

	failed := 0
	for _, name := range names {
		if err := restoreInterface(cmd, c, logger, name); err != nil {
			cmd.Printf("Failed to restore %s: %v\n", name, err)
			failed++
		}
	}
	if failed > 0 {
		return errors.NewSystemError(
			fmt.Sprintf("failed to restore %d of %d interfaces", failed, len(names)), nil)
	}
	return nil
}

func printChangeResult(cmd *cobra.Command, ifaceName string, output *usecases.ChangeAddressOutput, permanent bool) {
	cmd.Printf("Changed %s: %s -> %s\n", ifaceName, output.PreviousMac.String(), output.AppliedMac.String())
	if output.BaselineSaved {
		cmd.Printf("Saved original MAC %s for later restore\n", output.PreviousMac.String())
	}
	if permanent && !output.PersistenceHonored {
		cmd.Println("Persistence is not supported here; the change will not survive a reboot")
	}
}
