// Package wizard provides the interactive terminal setup wizard for briefd.
// Invoke with: briefd setup | briefd --setup | briefd -setup
package wizard

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/yourusername/briefd/internal/auth"
	"github.com/yourusername/briefd/internal/platform"
)

// stdinReader is shared across all prompts. term.ReadPassword bypasses it via raw fd.
var stdinReader = bufio.NewReader(os.Stdin)

// wizardConfig holds all values collected during the wizard.
type wizardConfig struct {
	Port           string
	WorkDir        string
	TrackerURL     string
	TrackerToken   string
	TelegramToken  string
	TelegramChatID string
	AnthropicKey   string
	AnthropicModel string
	APIKey         string
}

// modelSpec describes a single model option.
type modelSpec struct {
	ID          string
	Description string
	Recommended bool
}

// knownModels is the built-in registry of narrative model options.
var knownModels = []modelSpec{
	{ID: "claude-opus-4-6", Description: "most powerful"},
	{ID: "claude-sonnet-4-5", Description: "balanced", Recommended: true},
	{ID: "claude-haiku-4-5", Description: "fastest / cheapest"},
}

// ── Entry point ───────────────────────────────────────────────────────────────

// Run executes the 6-step interactive setup wizard.
// On success it writes .env to the current working directory.
func Run(version string) error {
	printBanner(version)

	cfg := &wizardConfig{}
	var err error

	if cfg.Port, err = stepPort(); err != nil {
		return fmt.Errorf("wizard: port: %w", err)
	}
	if cfg.WorkDir, err = stepWorkDir(); err != nil {
		return fmt.Errorf("wizard: workdir: %w", err)
	}
	if cfg.TrackerURL, cfg.TrackerToken, err = stepTracker(); err != nil {
		return fmt.Errorf("wizard: tracker: %w", err)
	}
	if cfg.TelegramToken, cfg.TelegramChatID, err = stepTelegram(); err != nil {
		return fmt.Errorf("wizard: telegram: %w", err)
	}
	if cfg.AnthropicKey, cfg.AnthropicModel, err = stepAnthropic(); err != nil {
		return fmt.Errorf("wizard: anthropic: %w", err)
	}
	if !stepConfirm(cfg) {
		fmt.Println("\n  Cancelled — no changes made.")
		return nil
	}
	if cfg.APIKey, err = auth.GenerateKey(); err != nil {
		return fmt.Errorf("wizard: api key: %w", err)
	}
	if err := writeEnv(cfg); err != nil {
		return fmt.Errorf("wizard: writeEnv: %w", err)
	}

	fmt.Println()
	fmt.Println("  " + c("\033[32m", "✓") + " .env saved — run briefd to start.")
	fmt.Println()
	fmt.Println("  Your API key (also in .env):")
	fmt.Println("  " + c("\033[36m", cfg.APIKey))
	PrintAPIURLs(cfg.Port)
	return nil
}

// ── Banner ────────────────────────────────────────────────────────────────────

func printBanner(version string) {
	const width = 56
	fmt.Println()
	fmt.Println(c("\033[36m", "╔"+strings.Repeat("═", width)+"╗"))
	bannerLine("", width)
	bannerLine("  briefd "+version, width)
	bannerLine("  Token-Budgeted Work Briefing Daemon", width)
	bannerLine("", width)
	fmt.Println(c("\033[36m", "╚"+strings.Repeat("═", width)+"╝"))
	fmt.Println()
	fmt.Println("  Welcome! Let's get you set up in 6 steps.")
	fmt.Println("  Press Enter to accept defaults, Ctrl+C to cancel.")
}

func bannerLine(text string, width int) {
	pad := width - len(text)
	if pad < 0 {
		pad = 0
	}
	fmt.Println(c("\033[36m", "║") + text + strings.Repeat(" ", pad) + c("\033[36m", "║"))
}

// ── Step 1: Port ──────────────────────────────────────────────────────────────

func stepPort() (string, error) {
	for {
		fmt.Println()
		fmt.Println(c("\033[33m", "━━━  1 / 6  —  PORT  ━━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
		fmt.Println()

		portStr := prompt("Listen port [8080]", "8080")
		portNum, err := strconv.Atoi(strings.TrimSpace(portStr))
		if err != nil || portNum < 1 || portNum > 65535 {
			fmt.Println("  " + c("\033[31m", "✗") + " Invalid port — enter a number 1–65535.")
			continue
		}

		// Warn when something is already listening there.
		addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(portNum))
		if conn, err := net.DialTimeout("tcp", addr, 300*time.Millisecond); err == nil {
			conn.Close()
			fmt.Printf("\n  "+c("\033[31m", "✗")+" Port %d is already in use.\n", portNum)
			ans := prompt("Use it anyway? [y/N]", "N")
			if strings.ToUpper(strings.TrimSpace(ans)) != "Y" {
				continue
			}
		}

		return strconv.Itoa(portNum), nil
	}
}

// ── Step 2: Work directory ────────────────────────────────────────────────────

func stepWorkDir() (string, error) {
	fmt.Println()
	fmt.Println(c("\033[33m", "━━━  2 / 6  —  WORK DIRECTORY  ━━━━━━━━━━━━━━━━━━"))
	fmt.Println()

	defaultDir := platform.DefaultWorkDir()
	fmt.Printf("  Recommended for your OS:\n  %s\n\n", c("\033[36m", defaultDir))

	dir := prompt(fmt.Sprintf("Path [%s]", defaultDir), defaultDir)
	return filepath.Clean(dir), nil
}

// ── Step 3: Tracker ───────────────────────────────────────────────────────────

func stepTracker() (url, token string, err error) {
	fmt.Println()
	fmt.Println(c("\033[33m", "━━━  3 / 6  —  WORK TRACKER  (Enter to skip)  ━━━"))
	fmt.Println()
	fmt.Println("  Base URL of your tracker's REST API, e.g.")
	fmt.Println("  " + c("\033[90m", "https://tracker.example.com/api"))
	fmt.Println()

	url = prompt("Tracker URL (Enter to skip)", "")
	if url == "" {
		fmt.Println("  " + c("\033[90m", "Skipped — set TRACKER_URL in .env later."))
		return "", "", nil
	}

	fmt.Print("  Access token: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", "", fmt.Errorf("ReadPassword: %w", err)
	}
	return strings.TrimRight(url, "/"), string(raw), nil
}

// ── Step 4: Telegram ──────────────────────────────────────────────────────────

func stepTelegram() (token, chatID string, err error) {
	fmt.Println()
	fmt.Println(c("\033[33m", "━━━  4 / 6  —  TELEGRAM  (Enter to skip)  ━━━━━━━"))
	fmt.Println()
	fmt.Println("  Create a bot at https://t.me/BotFather, then paste the token.")
	fmt.Println()

	token = prompt("Bot Token (Enter to skip)", "")
	if token == "" {
		fmt.Println("  " + c("\033[90m", "Skipped — set TELEGRAM_TOKEN in .env later."))
		return "", "", nil
	}

	// Validate token.
	fmt.Print("  Verifying token...")
	botUsername, botName, err := telegramGetMe(token)
	if err != nil {
		fmt.Println()
		fmt.Println("  " + c("\033[31m", "✗") + " Token error: " + err.Error())
		fmt.Println("  " + c("\033[90m", "Saved anyway — fix TELEGRAM_TOKEN in .env later."))
		return token, "", nil
	}
	fmt.Printf("\r  %s Bot: @%s (%s)%s\n",
		c("\033[32m", "✓"), botUsername, botName, strings.Repeat(" ", 20))

	// Auto-capture chat ID.
	fmt.Println()
	fmt.Printf("  Open Telegram and send any message to @%s\n", c("\033[36m", botUsername))
	fmt.Println("  Waiting up to 3 minutes... (press Enter to skip)")
	fmt.Println()

	type result struct {
		id        int64
		firstName string
		skipped   bool
	}
	ch := make(chan result, 1)

	// Poll goroutine.
	go func() {
		id, name, err := telegramPollChatID(token, 3*time.Minute)
		if err != nil || id == 0 {
			ch <- result{skipped: true}
			return
		}
		ch <- result{id: id, firstName: name}
	}()

	// Skip goroutine: user presses Enter.
	go func() {
		stdinReader.ReadString('\n')
		ch <- result{skipped: true}
	}()

	r := <-ch
	if r.skipped || r.id == 0 {
		fmt.Println("  " + c("\033[90m", "Skipped — set TELEGRAM_CHAT_ID in .env or Settings later."))
		return token, "", nil
	}

	chatID = strconv.FormatInt(r.id, 10)
	fmt.Printf("  %s Paired with %s  (Chat ID: %s)\n",
		c("\033[32m", "✓"), r.firstName, chatID)
	return token, chatID, nil
}

// ── Step 5: Anthropic ─────────────────────────────────────────────────────────

func stepAnthropic() (key, model string, err error) {
	fmt.Println()
	fmt.Println(c("\033[33m", "━━━  5 / 6  —  NARRATIVE  (Enter to skip)  ━━━━━━"))
	fmt.Println()
	fmt.Println("  An Anthropic API key enables the short narrative on each")
	fmt.Println("  briefing. Briefings work fine without one.")
	fmt.Println()

	fmt.Print("  API key (Enter to skip): ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", "", fmt.Errorf("ReadPassword: %w", err)
	}
	key = string(raw)
	if key == "" {
		fmt.Println("  " + c("\033[90m", "Skipped — set ANTHROPIC_API_KEY in .env later."))
		return "", "", nil
	}

	// Model selection.
	fmt.Println()
	fmt.Println("  Narrative model:")
	fmt.Println("  " + strings.Repeat("─", 52))

	defaultIdx := 1
	for i, m := range knownModels {
		rec := ""
		if m.Recommended {
			rec = "  " + c("\033[33m", "← recommended")
			defaultIdx = i + 1
		}
		fmt.Printf("  %d.  %-32s %s%s\n", i+1, m.ID, c("\033[90m", m.Description), rec)
	}
	customIdx := len(knownModels) + 1
	fmt.Printf("  %d.  Enter custom model name...\n", customIdx)
	fmt.Println()

	sel := promptInt(fmt.Sprintf("Select model [%d]", defaultIdx), 1, customIdx, defaultIdx)
	if sel == customIdx {
		model = prompt("Custom model ID", knownModels[defaultIdx-1].ID)
	} else {
		model = knownModels[sel-1].ID
	}

	fmt.Printf("\n  %s  %s\n", c("\033[32m", "✓"), model)
	return key, model, nil
}

// ── Step 6: Confirm ───────────────────────────────────────────────────────────

func stepConfirm(cfg *wizardConfig) bool {
	fmt.Println()
	fmt.Println(c("\033[33m", "━━━  6 / 6  —  CONFIRM  ━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println()

	rows := [][2]string{
		{"PORT", cfg.Port},
		{"WORK DIR", cfg.WorkDir},
		{"TRACKER", dash(cfg.TrackerURL)},
		{"TELEGRAM", dash(cfg.TelegramToken)},
		{"CHAT ID", dash(cfg.TelegramChatID)},
		{"NARRATIVE", dash(cfg.AnthropicModel)},
	}
	for _, r := range rows {
		fmt.Printf("  %-12s %s\n", r[0], r[1])
	}
	fmt.Println()

	ans := prompt("Save to .env? [Y/n]", "Y")
	ans = strings.TrimSpace(strings.ToUpper(ans))
	return ans == "" || ans == "Y" || ans == "YES"
}

func dash(s string) string {
	if s == "" {
		return c("\033[90m", "—")
	}
	return s
}

// ── Write .env ────────────────────────────────────────────────────────────────

func writeEnv(cfg *wizardConfig) error {
	lines := []string{
		"PORT=" + cfg.Port,
		"WORK_DIR=" + cfg.WorkDir,
		"DB_PATH=" + filepath.Join(cfg.WorkDir, "briefd.db"),
		"PROFILE_PATH=" + filepath.Join(cfg.WorkDir, "profile.yaml"),
		"TRACKER_URL=" + cfg.TrackerURL,
		"TRACKER_TOKEN=" + cfg.TrackerToken,
		"TELEGRAM_TOKEN=" + cfg.TelegramToken,
		"TELEGRAM_CHAT_ID=" + cfg.TelegramChatID,
		"ANTHROPIC_API_KEY=" + cfg.AnthropicKey,
		"ANTHROPIC_MODEL=" + cfg.AnthropicModel,
		"API_KEY=" + cfg.APIKey,
		"BRIEFING_CAPACITY=2000",
		"HISTORY_KEEP=30",
	}
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(".env", []byte(content), 0600); err != nil {
		return fmt.Errorf("writeEnv WriteFile: %w", err)
	}
	return nil
}

// ── API URLs ──────────────────────────────────────────────────────────────────

// PrintAPIURLs prints LAN IPs + localhost. Called by main.go on every start.
func PrintAPIURLs(port string) {
	var ips []string
	if ifaces, err := net.Interfaces(); err == nil {
		for _, iface := range ifaces {
			if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
				continue
			}
			addrs, _ := iface.Addrs()
			for _, addr := range addrs {
				var ip net.IP
				switch v := addr.(type) {
				case *net.IPNet:
					ip = v.IP
				case *net.IPAddr:
					ip = v.IP
				}
				if ip4 := ip.To4(); ip4 != nil && !ip4.IsLoopback() {
					ips = append(ips, ip4.String())
				}
			}
		}
	}

	var urls []string
	for _, ip := range ips {
		urls = append(urls, fmt.Sprintf("http://%s:%s", ip, port))
	}
	urls = append(urls, fmt.Sprintf("http://localhost:%s", port))

	fmt.Println()
	fmt.Printf("  API → %s\n", urls[0])
	for _, u := range urls[1:] {
		fmt.Printf("        %s\n", u)
	}
	fmt.Println()
}

// ── Telegram API ──────────────────────────────────────────────────────────────

type tgEnvelope struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func telegramGetMe(token string) (username, firstName string, err error) {
	resp, err := http.Get("https://api.telegram.org/bot" + token + "/getMe")
	if err != nil {
		return "", "", fmt.Errorf("getMe: %w", err)
	}
	defer resp.Body.Close()

	var env tgEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", "", fmt.Errorf("getMe decode: %w", err)
	}
	if !env.OK {
		return "", "", fmt.Errorf("%s", env.Description)
	}
	var bot struct {
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
	}
	if err := json.Unmarshal(env.Result, &bot); err != nil {
		return "", "", fmt.Errorf("getMe parse: %w", err)
	}
	return bot.Username, bot.FirstName, nil
}

func telegramPollChatID(token string, timeout time.Duration) (chatID int64, firstName string, err error) {
	client := &http.Client{Timeout: 35 * time.Second}
	offset := 0
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		url := fmt.Sprintf(
			"https://api.telegram.org/bot%s/getUpdates?offset=%d&timeout=25&limit=1",
			token, offset,
		)
		resp, err := client.Get(url)
		if err != nil {
			time.Sleep(2 * time.Second)
			continue
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		var result struct {
			OK     bool `json:"ok"`
			Result []struct {
				UpdateID int `json:"update_id"`
				Message  struct {
					From struct {
						ID        int64  `json:"id"`
						FirstName string `json:"first_name"`
					} `json:"from"`
					Chat struct {
						ID int64 `json:"id"`
					} `json:"chat"`
				} `json:"message"`
			} `json:"result"`
		}
		if err := json.Unmarshal(body, &result); err != nil || !result.OK {
			time.Sleep(2 * time.Second)
			continue
		}
		if len(result.Result) == 0 {
			continue
		}
		upd := result.Result[0]
		offset = upd.UpdateID + 1
		return upd.Message.Chat.ID, upd.Message.From.FirstName, nil
	}
	return 0, "", fmt.Errorf("timeout")
}

// ── Input helpers ─────────────────────────────────────────────────────────────

func prompt(label, defaultVal string) string {
	fmt.Printf("  %s: ", label)
	line, _ := stdinReader.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return defaultVal
	}
	return line
}

func promptInt(label string, min, max, defaultVal int) int {
	for {
		s := prompt(label, strconv.Itoa(defaultVal))
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err == nil && n >= min && n <= max {
			return n
		}
		fmt.Printf("  Enter a number between %d and %d.\n", min, max)
	}
}

func supportsColor() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func c(ansi, text string) string {
	if !supportsColor() {
		return text
	}
	return ansi + text + "\033[0m"
}
