// ABOUTME: Agent registration and linked-account commands
// ABOUTME: Agent keys are read from authorized_keys files and fingerprinted client-side

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// cmdAgents handles agent subcommands.
func (c *console) cmdAgents(args []string) error {
	org, err := c.requireOrg()
	if err != nil {
		return err
	}

	subcmd := "list"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "list", "ls":
		return c.cmdAgentsList(org.ID)
	case "register", "create", "add":
		return c.cmdAgentsRegister(org.ID, args)
	case "delete", "rm", "remove":
		return c.cmdAgentsDelete(org.ID, args)
	default:
		return fmt.Errorf("unknown agents subcommand: %s (use list, register, delete)", subcmd)
	}
}

func (c *console) cmdAgentsList(orgID string) error {
	agents, err := c.client.ListAgents(context.Background(), orgID)
	if err != nil {
		return describeAuthError(err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Agents")
	cyan.Println("  ------")

	if len(agents) == 0 {
		fmt.Println("  (no agents registered)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tNAME\tSTATUS\tFINGERPRINT\tLAST SEEN")
	fmt.Fprintln(w, "  --\t----\t------\t-----------\t---------")
	for _, a := range agents {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
			truncate(a.ID, 20), truncate(a.Name, 24), a.Status, truncate(a.Fingerprint, 20), formatTime(a.LastSeen))
	}
	w.Flush()
	fmt.Println()

	return nil
}

func (c *console) cmdAgentsRegister(orgID string, args []string) error {
	var name, pubkey, keyFile string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--name", "-n":
			if i+1 < len(args) {
				name = args[i+1]
				i++
			}
		case "--pubkey", "-k":
			if i+1 < len(args) {
				pubkey = args[i+1]
				i++
			}
		case "--pubkey-file", "-f":
			if i+1 < len(args) {
				keyFile = args[i+1]
				i++
			}
		}
	}

	if name == "" {
		return fmt.Errorf("usage: agents register --name <name> (--pubkey <key> | --pubkey-file <path>)")
	}
	if pubkey == "" && keyFile == "" {
		return fmt.Errorf("agent registration requires --pubkey <key> or --pubkey-file <path>")
	}
	if pubkey == "" {
		data, err := os.ReadFile(keyFile)
		if err != nil {
			return fmt.Errorf("reading public key file: %w", err)
		}
		pubkey = strings.TrimSpace(string(data))
	}

	agent, err := c.client.RegisterAgent(context.Background(), orgID, name, pubkey)
	c.record("agents register", name, err, nil)
	if err != nil {
		return describeAuthError(err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Registered agent: %s\n", agent.ID)
	fmt.Printf("  Name:         %s\n", agent.Name)
	fmt.Printf("  Fingerprint:  %s\n", agent.Fingerprint)
	fmt.Printf("  Status:       %s\n", agent.Status)

	return nil
}

func (c *console) cmdAgentsDelete(orgID string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: agents delete <agent-id>")
	}
	agentID := args[0]

	err := c.client.DeleteAgent(context.Background(), orgID, agentID)
	c.record("agents delete", agentID, err, nil)
	if err != nil {
		return describeAuthError(err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Deleted agent: %s\n", agentID)

	return nil
}

// cmdAccounts handles linked-account subcommands. These operate on the
// signed-in user, not the active organization.
func (c *console) cmdAccounts(args []string) error {
	subcmd := "list"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "list", "ls":
		return c.cmdAccountsList()
	case "link":
		return c.cmdAccountsLink(args)
	case "unlink", "rm", "remove":
		return c.cmdAccountsUnlink(args)
	default:
		return fmt.Errorf("unknown accounts subcommand: %s (use list, link, unlink)", subcmd)
	}
}

func (c *console) cmdAccountsList() error {
	accounts, err := c.client.ListLinkedAccounts(context.Background())
	if err != nil {
		return describeAuthError(err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Linked Accounts")
	cyan.Println("  ---------------")

	if len(accounts) == 0 {
		fmt.Println("  (no linked accounts)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tPROVIDER\tEMAIL\tLINKED")
	fmt.Fprintln(w, "  --\t--------\t-----\t------")
	for _, a := range accounts {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n",
			truncate(a.ID, 20), a.Provider, truncate(a.Email, 32), formatTime(a.LinkedAt))
	}
	w.Flush()
	fmt.Println()

	return nil
}

func (c *console) cmdAccountsLink(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: accounts link <provider>")
	}
	provider := args[0]

	url, err := c.client.LinkAccountURL(context.Background(), provider)
	if err != nil {
		return describeAuthError(err)
	}

	fmt.Println()
	fmt.Printf("  Open this URL in a browser to link your %s account:\n", provider)
	fmt.Println()
	fmt.Println("  " + url)
	fmt.Println()

	return nil
}

func (c *console) cmdAccountsUnlink(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: accounts unlink <account-id>")
	}
	accountID := args[0]

	err := c.client.UnlinkAccount(context.Background(), accountID)
	c.record("accounts unlink", accountID, err, nil)
	if err != nil {
		return describeAuthError(err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Unlinked account: %s\n", accountID)

	return nil
}
