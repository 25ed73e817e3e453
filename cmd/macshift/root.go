package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const rootDescription = `
Change, randomize and restore network interface MAC addresses.

Highlights:
  - Four MAC notations accepted: colon, hyphen, dot and plain.
  - Per-application rules with optional weekly schedules.
  - Vendor prefix filtering backed by the IEEE OUI registry.
  - Watch mode keeps rules applied while applications come and go.
`

var exampleUsage = strings.TrimSpace(`
  macshift set -i eth0 -m 00:1A:11:BB:CC:DD
  macshift random -i wlan0 --vendor 00:17:F2 --permanent
  macshift restore -i eth0
  macshift rules add --app firefox -i eth0 -m 00:1A:11:BB:CC:DD
  macshift watch
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// newRootCommand는 루트 커맨드와 모든 서브커맨드를 구성합니다
func newRootCommand(logger *logrus.Logger) *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "macshift",
		Short:         "Change MAC addresses across different platforms",
		Long:          strings.TrimSpace(rootDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config.toml")

	root.AddCommand(
		newSetCommand(&cfgPath, logger),
		newRandomCommand(&cfgPath, logger),
		newRestoreCommand(&cfgPath, logger),
		newRulesCommand(&cfgPath, logger),
		newApplyCommand(&cfgPath, logger),
		newFilterCommand(&cfgPath, logger),
		newVendorCommand(&cfgPath, logger),
		newHistoryCommand(&cfgPath, logger),
		newWatchCommand(&cfgPath, logger),
	)

	return root
}
