package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// newVendorCommand는 OUI 데이터베이스 커맨드 그룹을 만듭니다
func newVendorCommand(cfgPath *string, logger *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendor",
		Short: "Query and update the OUI vendor database",
	}

	lookup := &cobra.Command{
		Use:   "lookup <mac-or-prefix>",
		Short: "Look up the vendor behind a MAC address or prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(*cfgPath, logger)
			if err != nil {
				return err
			}

			vendor, err := c.GetOuiService().Lookup(args[0])
			if err != nil {
				return err
			}

			cmd.Printf("%s  %s (%s)\n", vendor.Prefix, vendor.Name, vendor.Country)
			return nil
		},
	}

	update := &cobra.Command{
		Use:   "update",
		Short: "Download the IEEE OUI registry and rebuild the local database",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(*cfgPath, logger)
			if err != nil {
				return err
			}

			count, err := c.GetOuiService().Update(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Printf("OUI database updated: %d vendors\n", count)
			return nil
		},
	}

	suggest := &cobra.Command{
		Use:   "suggest <country>",
		Short: "Suggest a random MAC using a vendor registered in a country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(*cfgPath, logger)
			if err != nil {
				return err
			}

			mac, vendor, err := c.GetOuiService().SuggestForCountry(args[0])
			if err != nil {
				return err
			}

			cmd.Printf("%s  (%s, %s)\n", mac.String(), vendor.Name, vendor.Country)
			return nil
		},
	}

	countries := &cobra.Command{
		Use:   "countries",
		Short: "List country codes present in the local database",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(*cfgPath, logger)
			if err != nil {
				return err
			}

			codes, err := c.GetOuiService().ListCountries()
			if err != nil {
				return err
			}
			for _, code := range codes {
				cmd.Println(code)
			}
			return nil
		},
	}

	cmd.AddCommand(lookup, update, suggest, countries)
	return cmd
}
