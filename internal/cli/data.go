package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/a810439322/moneyup/internal/config"
	"github.com/a810439322/moneyup/internal/database"
	"github.com/a810439322/moneyup/internal/logging"
	"github.com/a810439322/moneyup/internal/models"
	"github.com/a810439322/moneyup/internal/store"

	"github.com/spf13/cobra"
)

// openStore constructs the backend selected in config: "local" opens the
// embedded SQLite store, "remote" connects to a running API service. This is
// the one place where the backend choice is made.
func openStore(ctx context.Context) (store.Store, func() error, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logging.New(cfg.Log)

	switch cfg.Backend {
	case "remote":
		s := store.NewAPIStore(cfg.Client.BaseURL,
			time.Duration(cfg.Client.TimeoutSeconds)*time.Second, log)
		if err := s.Init(ctx); err != nil {
			return nil, nil, err
		}
		return s, func() error { return nil }, nil
	case "local", "":
		db, err := database.Init(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("init database: %w", err)
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
		if err := database.SeedDefaultTags(db); err != nil {
			return nil, nil, fmt.Errorf("seed database: %w", err)
		}
		cleanup := func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return store.NewSQLStore(db, log), cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "导出全部数据到 JSON 文件",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, cleanup, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			doc, err := s.ExportData(ctx)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			if output == "" {
				output = fmt.Sprintf("moneyup_%s.json", time.Now().Format("2006-01-02"))
			}
			buf, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("encode export: %w", err)
			}
			if err := os.WriteFile(output, buf, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			cmd.Printf("已导出 %d 项资产、%d 个标签、%d 条历史记录到 %s\n",
				len(doc.Assets), len(doc.Tags), len(doc.History), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "输出文件路径")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "从 JSON 文件导入数据（会先清空现有数据）",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			buf, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			var doc models.ExportDocument
			if err := json.Unmarshal(buf, &doc); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			s, cleanup, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := s.ImportData(ctx, &doc); err != nil {
				return fmt.Errorf("import: %w", err)
			}

			cmd.Printf("已导入 %d 项资产、%d 个标签、%d 条历史记录\n",
				len(doc.Assets), len(doc.Tags), len(doc.History))
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "清空所有数据并恢复默认标签",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, cleanup, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if !s.ClearAllData(ctx) {
				return fmt.Errorf("清空数据失败")
			}
			cmd.Println("清空成功")
			return nil
		},
	}
}

func newTotalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "total",
		Short: "显示总资产",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, cleanup, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			cmd.Printf("总资产: %.2f\n", s.GetTotalAssets(ctx))
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "列出所有资产",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, cleanup, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			tags := make(map[uint]string)
			for _, t := range s.GetTags(ctx) {
				tags[t.ID] = t.Name
			}

			for _, a := range s.GetAssets(ctx) {
				tag := ""
				if a.TagID != nil {
					tag = tags[*a.TagID]
				}
				cmd.Printf("%-4d %-16s %12.2f  %s\n", a.ID, a.Name, a.Amount, tag)
			}
			return nil
		},
	}
}
