// ABOUTME: Admin CLI for the sigil-gateway control plane
// ABOUTME: Manages organizations, members, agents, and app configs over the console API

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/sigilworks/sigil-console/internal/api"
	"github.com/sigilworks/sigil-console/internal/config"
	"github.com/sigilworks/sigil-console/internal/journal"
	"github.com/sigilworks/sigil-console/internal/querycache"
	"github.com/sigilworks/sigil-console/internal/session"
	"github.com/sigilworks/sigil-console/internal/state"
)

const version = "0.3.0"

const banner = `
     _       _ _                 _           _
 ___(_) __ _(_) |       ___ ___ | |__  ___  | | ___
/ __| |/ _' | | |_____ / __/ _ \| '_ \/ __|/\ |/ _ \
\__ \ | (_| | | |_____| (_| (_) | | | \__ \ \_| |  __/
|___/_|\__, |_|_|      \___\___/|_| |_|___/\___/ \___|
       |___/              sigil console
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	if err := run(cmd, args); err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd string, args []string) error {
	switch cmd {
	case "help", "-h", "--help":
		printUsage()
		return nil
	case "version", "--version":
		fmt.Printf("sigil-admin %s\n", version)
		return nil
	}

	c, err := newConsole()
	if err != nil {
		return err
	}
	defer c.close()

	switch cmd {
	case "login":
		return c.cmdLogin(args)
	case "logout":
		return c.cmdLogout()
	case "me":
		return c.cmdMe()
	case "status":
		return c.cmdStatus()
	case "orgs":
		return c.cmdOrgs(args)
	case "act-as":
		return c.cmdActAs(args)
	case "teams":
		return c.cmdTeams(args)
	case "members":
		return c.cmdMembers(args)
	case "accounts":
		return c.cmdAccounts(args)
	case "agents":
		return c.cmdAgents(args)
	case "apps":
		return c.cmdApps(args)
	case "invites":
		return c.cmdInvites(args)
	case "history":
		return c.cmdHistory(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
		return nil
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: sigil-admin <command> [args]")
	fmt.Println()
	yellow.Println("Session:")
	fmt.Println("  login [--username <name>]   Sign in and establish a gateway session")
	fmt.Println("  logout                      End the session and clear local state")
	fmt.Println("  me                          Show your identity and memberships")
	fmt.Println("  status                      Show gateway health and the active context")
	fmt.Println()
	yellow.Println("Organizations:")
	fmt.Println("  orgs                        List organizations you belong to")
	fmt.Println("  orgs use <id|slug>          Select the organization to operate on")
	fmt.Println("  orgs show                   Show the active organization")
	fmt.Println("  act-as member               Assume the member role in the active org")
	fmt.Println("  act-as admin                Act with your real admin role again")
	fmt.Println("  act-as show                 Show the effective role")
	fmt.Println()
	yellow.Println("Resources (scoped to the active org):")
	fmt.Println("  teams [list|create|delete]")
	fmt.Println("  members [list|set-role|remove]")
	fmt.Println("  agents [list|register|delete]")
	fmt.Println("  apps [list|show|push|delete]")
	fmt.Println("  invites [list|create|revoke]")
	fmt.Println("  accounts [list|link|unlink] Linked accounts for your own user")
	fmt.Println()
	yellow.Println("Other:")
	fmt.Println("  history [--limit <n>]       Recent commands from the local journal")
	fmt.Println("  version                     Print the version")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  SIGIL_GATEWAY_URL      Gateway base URL (overrides config)")
	fmt.Println("  SIGIL_TOKEN            Static access token, skips the session manager")
	fmt.Println("  SIGIL_CONSOLE_CONFIG   Config file path (default: ~/.config/sigil/console.yaml)")
	fmt.Println("  SIGIL_DEBUG            Set to enable debug logging")
	fmt.Println()
	yellow.Println("Examples:")
	fmt.Println("  sigil-admin login")
	fmt.Println("  sigil-admin orgs use acme")
	fmt.Println("  sigil-admin act-as member")
	fmt.Println("  sigil-admin apps push ./defs/github.toml")
	fmt.Println()
}

// console carries the wired-up clients and stores for one invocation.
type console struct {
	cfg     *config.Config
	paths   state.Paths
	orgs    *state.OrgStore
	roles   *state.RoleStore
	jar     *state.CookieJar
	manager *session.Manager
	client  *api.Client
	cache   *querycache.Cache
	journal *journal.Journal
	logger  *slog.Logger
}

func newConsole() (*console, error) {
	paths := state.DefaultPaths()

	configPath := os.Getenv("SIGIL_CONSOLE_CONFIG")
	if configPath == "" {
		configPath = paths.ConfigFile()
	}
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
	}
	if cfg.State.Dir != "" {
		paths.State = cfg.State.Dir
	}
	if err := paths.Ensure(); err != nil {
		return nil, err
	}

	logger := setupLogger(cfg.Logging.Level)

	if cfg.Gateway.URL == "" {
		return nil, fmt.Errorf("no gateway URL configured (set SIGIL_GATEWAY_URL or gateway.url in %s)", configPath)
	}

	// One HTTP client for everything: the jar is the only holder of the
	// refresh cookie, and login responses must land in the same jar the
	// token endpoint reads from.
	jar := state.NewCookieJar(paths.CookieFile())
	httpc := &http.Client{Timeout: cfg.Gateway.Timeout, Jar: jar}

	orgs := state.NewOrgStore(paths.State)
	roles := state.NewRoleStore(paths.State)

	manager := session.NewManager(cfg.Gateway.URL, httpc, roles, logger,
		session.WithExpiryLeeway(cfg.Gateway.ExpiryLeeway))

	opts := []api.ClientOption{api.WithUserAgent("sigil-admin/" + version)}
	var cache *querycache.Cache
	if cfg.Cache.Enabled {
		cache = querycache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries)
		opts = append(opts, api.WithCache(cache))
	}
	var tokens api.TokenSource = manager
	if tok := os.Getenv("SIGIL_TOKEN"); tok != "" {
		opts = append(opts, api.WithStaticToken(tok))
	}
	client := api.NewClient(cfg.Gateway.URL, httpc, tokens, &activeIdentity{orgs: orgs}, logger, opts...)

	jrnl, err := journal.Open(paths.JournalDB(), logger)
	if err != nil {
		// The journal is a convenience record, never a reason to refuse work.
		logger.Warn("journal unavailable", "error", err)
		jrnl = nil
	}

	return &console{
		cfg:     cfg,
		paths:   paths,
		orgs:    orgs,
		roles:   roles,
		jar:     jar,
		manager: manager,
		client:  client,
		cache:   cache,
		journal: jrnl,
		logger:  logger,
	}, nil
}

func (c *console) close() {
	if c.cache != nil {
		c.cache.Close()
	}
	if c.journal != nil {
		_ = c.journal.Close()
	}
}

// activeIdentity reports the persisted organization selection to the
// API client on every request.
type activeIdentity struct {
	orgs *state.OrgStore
}

func (a *activeIdentity) ActiveIdentity() (string, state.Role) {
	org, ok := a.orgs.Get()
	if !ok {
		return "", state.RoleMember
	}
	return org.ID, org.Role
}

// requireOrg returns the active organization or an error telling the
// user how to select one.
func (c *console) requireOrg() (*state.ActiveOrganization, error) {
	org, ok := c.orgs.Get()
	if !ok {
		return nil, fmt.Errorf("%w (run: sigil-admin orgs use <id>)", state.ErrNoActiveOrganization)
	}
	return org, nil
}

// record journals a mutating command. Journal failures are logged and
// never fail the command itself.
func (c *console) record(command, target string, opErr error, detail map[string]any) {
	if c.journal == nil {
		return
	}

	outcome := journal.OutcomeOK
	if opErr != nil {
		outcome = journal.OutcomeError
		if detail == nil {
			detail = map[string]any{}
		}
		detail["error"] = opErr.Error()
	}

	orgID := ""
	if org, ok := c.orgs.Get(); ok {
		orgID = org.ID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	entry := &journal.Entry{
		Command:        command,
		OrganizationID: orgID,
		Target:         target,
		Outcome:        outcome,
		Detail:         detail,
	}
	if err := c.journal.Append(ctx, entry); err != nil {
		c.logger.Warn("journal append failed", "error", err)
	}
}

func setupLogger(level string) *slog.Logger {
	if os.Getenv("SIGIL_DEBUG") != "" {
		level = "debug"
	}

	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	// Logs go to stderr so tables and tokens on stdout stay pipeable.
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// formatTime renders an RFC3339 wire timestamp for table display,
// falling back to the raw string when it doesn't parse.
func formatTime(s string) string {
	if s == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("Jan 02 15:04")
	}
	return s
}
