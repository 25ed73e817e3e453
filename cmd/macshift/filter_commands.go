package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"macshift/internal/domain/entities"
)

// newFilterCommand는 벤더 프리픽스 필터 커맨드 그룹을 만듭니다
func newFilterCommand(cfgPath *string, logger *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Manage the vendor prefix allow/deny filter",
	}

	allow := &cobra.Command{
		Use:   "allow <prefix>",
		Short: "Add a vendor prefix to the allowlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(*cfgPath, logger)
			if err != nil {
				return err
			}
			if err := c.GetFilterRepository().Allow(args[0]); err != nil {
				return err
			}
			cmd.Printf("Allowed prefix %s\n", args[0])
			return nil
		},
	}

	deny := &cobra.Command{
		Use:   "deny <prefix>",
		Short: "Add a vendor prefix to the denylist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(*cfgPath, logger)
			if err != nil {
				return err
			}
			if err := c.GetFilterRepository().Deny(args[0]); err != nil {
				return err
			}
			cmd.Printf("Denied prefix %s\n", args[0])
			return nil
		},
	}

	check := &cobra.Command{
		Use:   "check <mac>",
		Short: "Check whether a MAC address passes the filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mac, err := entities.ParseMac(args[0])
			if err != nil {
				return err
			}

			c, err := buildContainer(*cfgPath, logger)
			if err != nil {
				return err
			}

			allowed, err := c.GetFilterRepository().IsAllowed(mac)
			if err != nil {
				return err
			}
			if allowed {
				cmd.Printf("%s is allowed\n", mac.String())
			} else {
				cmd.Printf("%s is blocked by the filter\n", mac.String())
			}
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show the current allow/deny lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(*cfgPath, logger)
			if err != nil {
				return err
			}

			allowed, denied, err := c.GetFilterRepository().List()
			if err != nil {
				return err
			}

			if len(allowed) == 0 && len(denied) == 0 {
				cmd.Println("Filter is empty; all vendor prefixes are allowed")
				return nil
			}
			for _, prefix := range allowed {
				cmd.Printf("allow %s\n", prefix)
			}
			for _, prefix := range denied {
				cmd.Printf("deny  %s\n", prefix)
			}
			return nil
		},
	}

	cmd.AddCommand(allow, deny, check, list)
	return cmd
}
