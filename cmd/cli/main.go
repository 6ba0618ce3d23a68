package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"product-advisor/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}
	cmd := os.Args[1]
	args := os.Args[2:]
	switch cmd {
	case "version":
		fmt.Println("product-advisor cli 0.1.0")
	case "health":
		runHealth()
	case "config":
		runConfig()
	case "server":
		if len(args) > 0 && args[0] == "start" {
			runServerStart()
		} else {
			fmt.Fprintf(os.Stderr, "Usage: advisor server start\n")
			os.Exit(1)
		}
	case "chat":
		runChat(args)
	case "history":
		if len(args) < 1 {
			fmt.Fprintf(os.Stderr, "Usage: advisor history <session_id>\n")
			os.Exit(1)
		}
		runHistory(args[0])
	case "reset":
		runReset(args)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: advisor <command> [args]")
	fmt.Println("  version              - 显示版本")
	fmt.Println("  health               - API 健康检查")
	fmt.Println("  config               - 显示配置概要")
	fmt.Println("  server start         - 启动 API 服务（go run ./cmd/api）")
	fmt.Println("  chat [session_id]    - 交互式对话（未传时自动创建会话）")
	fmt.Println("  history <session_id> - 输出会话历史")
	fmt.Println("  reset [session_id]   - 删除会话（未传时清空全部）")
}

func runHealth() {
	if err := checkHealth(); err != nil {
		fmt.Fprintf(os.Stderr, "健康检查失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("ok")
}

func runConfig() {
	cfg, err := config.LoadAPIConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if cfg != nil {
		fmt.Printf("api.port=%d\n", cfg.API.Port)
		fmt.Printf("api.host=%s\n", cfg.API.Host)
		fmt.Printf("catalog.type=%s\n", cfg.Catalog.Type)
	}
}

func runServerStart() {
	c := exec.Command("go", "run", "./cmd/api")
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	c.Dir = "."
	if err := c.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "server start: %v\n", err)
		os.Exit(1)
	}
}

func runChat(args []string) {
	sessionID := os.Getenv("ADVISOR_SESSION_ID")
	if len(args) > 0 {
		sessionID = args[0]
	}
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		msg := strings.TrimSpace(line)
		if msg == "" {
			continue
		}
		if msg == "exit" || msg == "quit" {
			break
		}
		result, err := postChat(sessionID, msg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "发送失败: %v\n", err)
			continue
		}
		// 首轮由服务端分配会话，后续轮次沿用
		if sessionID == "" {
			sessionID = result.SessionID
			fmt.Printf("(session: %s)\n", sessionID)
		}
		fmt.Println(formatResult(result))
	}
}

func runHistory(sessionID string) {
	history, err := getHistory(sessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取会话历史失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(prettyJSON(history))
}

func runReset(args []string) {
	var err error
	if len(args) > 0 {
		err = deleteSession(args[0])
	} else {
		err = resetSessions()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "重置失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("ok")
}

// formatResult 渲染单轮结果：回复正文，加意图与工具标注
func formatResult(result *chatResult) string {
	var b strings.Builder
	b.WriteString(result.Response)
	meta := result.Intent
	if len(result.ToolsUsed) > 0 {
		meta += " / " + strings.Join(result.ToolsUsed, ",")
	}
	if meta != "" {
		b.WriteString("\n  [" + meta + "]")
	}
	return b.String()
}
