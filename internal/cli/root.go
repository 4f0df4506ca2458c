package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// NewRootCmd builds the command tree: `serve` runs the API service, the rest
// drive the configured store directly without a server process.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "moneyup",
		Short:         "家庭资产记录",
		Long:          "记录家庭资产、分类标签和变动历史，支持本地文件存储或远程 API 两种后端。",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径 (默认 ./config.yaml)")

	root.AddCommand(
		newServeCmd(),
		newExportCmd(),
		newImportCmd(),
		newClearCmd(),
		newTotalCmd(),
		newListCmd(),
	)
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
