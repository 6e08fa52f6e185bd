// ABOUTME: App config commands, pushing local TOML definitions to the gateway
// ABOUTME: Definitions are validated locally before any network traffic

package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/sigilworks/sigil-console/internal/appdef"
)

// cmdApps handles app config subcommands.
func (c *console) cmdApps(args []string) error {
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
		return c.cmdAppsList(org.ID)
	case "show", "get":
		return c.cmdAppsShow(org.ID, args)
	case "push":
		return c.cmdAppsPush(org.ID, args)
	case "delete", "rm", "remove":
		return c.cmdAppsDelete(org.ID, args)
	default:
		return fmt.Errorf("unknown apps subcommand: %s (use list, show, push, delete)", subcmd)
	}
}

func (c *console) cmdAppsList(orgID string) error {
	apps, err := c.client.ListAppConfigs(context.Background(), orgID)
	if err != nil {
		return describeAuthError(err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  App Configs")
	cyan.Println("  -----------")

	if len(apps) == 0 {
		fmt.Println("  (no app configs)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  NAME\tTRANSPORT\tTARGET\tUPDATED")
	fmt.Fprintln(w, "  ----\t---------\t------\t-------")
	for _, a := range apps {
		target := a.Command
		if a.Transport == "http" {
			target = a.URL
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n",
			a.Name, a.Transport, truncate(target, 40), formatTime(a.UpdatedAt))
	}
	w.Flush()
	fmt.Println()

	return nil
}

func (c *console) cmdAppsShow(orgID string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: apps show <name>")
	}
	name := args[0]

	app, err := c.client.GetAppConfig(context.Background(), orgID, name)
	if err != nil {
		return describeAuthError(err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Printf("  %s\n", app.Name)
	cyan.Println("  " + dashes(len(app.Name)))
	if app.Description != "" {
		fmt.Printf("  Description:   %s\n", app.Description)
	}
	fmt.Printf("  Transport:     %s\n", app.Transport)
	if app.Command != "" {
		fmt.Printf("  Command:       %s\n", app.Command)
	}
	for _, arg := range app.Args {
		fmt.Printf("                 %s\n", arg)
	}
	if app.URL != "" {
		fmt.Printf("  URL:           %s\n", app.URL)
	}
	if app.MaxSessions > 0 {
		fmt.Printf("  Max sessions:  %d\n", app.MaxSessions)
	}
	if len(app.Env) > 0 {
		keys := make([]string, 0, len(app.Env))
		for k := range app.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		// Values may be secrets; show only the keys.
		fmt.Printf("  Env keys:      %v\n", keys)
	}
	if app.UpdatedAt != "" {
		fmt.Printf("  Updated:       %s\n", formatTime(app.UpdatedAt))
	}
	fmt.Println()

	return nil
}

func (c *console) cmdAppsPush(orgID string, args []string) error {
	var dir string
	var files []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--dir", "-d":
			if i+1 < len(args) {
				dir = args[i+1]
				i++
			}
		default:
			files = append(files, args[i])
		}
	}

	var defs []*appdef.Definition
	switch {
	case dir != "":
		loaded, err := appdef.LoadDir(dir)
		if err != nil {
			return err
		}
		defs = loaded
	case len(files) > 0:
		for _, f := range files {
			def, err := appdef.Load(f)
			if err != nil {
				return err
			}
			defs = append(defs, def)
		}
	default:
		return fmt.Errorf("usage: apps push <file.toml> [...] | apps push --dir <path>")
	}

	green := color.New(color.FgGreen)
	ctx := context.Background()
	for _, def := range defs {
		pushed, err := c.client.PushAppConfig(ctx, orgID, def.AppConfig())
		c.record("apps push", def.Name, err, map[string]any{"transport": def.Transport})
		if err != nil {
			return describeAuthError(err)
		}
		green.Printf("✓ Pushed app config: %s (%s)\n", pushed.Name, pushed.Transport)
	}

	return nil
}

func (c *console) cmdAppsDelete(orgID string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: apps delete <name>")
	}
	name := args[0]

	err := c.client.DeleteAppConfig(context.Background(), orgID, name)
	c.record("apps delete", name, err, nil)
	if err != nil {
		return describeAuthError(err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Deleted app config: %s\n", name)

	return nil
}

func dashes(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}
