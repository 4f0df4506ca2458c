package main

import (
	"github.com/a810439322/moneyup/internal/cli"

	"github.com/joho/godotenv"
)

func main() {
	// .env 文件可选，没有就直接用环境变量和配置文件
	_ = godotenv.Load()

	cli.Execute()
}
