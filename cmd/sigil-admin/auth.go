// ABOUTME: Session commands, login through status
// ABOUTME: Login captures the refresh cookie via the shared jar and seeds the token manager

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/sigilworks/sigil-console/internal/session"
)

// cmdLogin signs in, seeds the session manager with the returned token,
// and leaves the refresh cookie in the jar for later refreshes.
func (c *console) cmdLogin(args []string) error {
	var username string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--username", "-u":
			if i+1 < len(args) {
				username = args[i+1]
				i++
			}
		}
	}

	reader := bufio.NewReader(os.Stdin)
	if username == "" {
		fmt.Print("Username: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading username: %w", err)
		}
		username = strings.TrimSpace(line)
	}
	if username == "" {
		return fmt.Errorf("username is required")
	}

	fmt.Print("Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	ctx := context.Background()
	token, err := c.client.Login(ctx, username, string(pw))
	c.record("login", username, err, nil)
	if err != nil {
		return err
	}
	c.manager.SetAccessToken(token)

	green := color.New(color.FgGreen)
	green.Printf("✓ Logged in as %s\n", username)

	// Show memberships right away; with a single org there is nothing
	// to choose, so select it.
	me, err := c.client.Me(ctx)
	if err != nil {
		c.logger.Debug("identity fetch after login failed", "error", err)
		return nil
	}
	if len(me.Organizations) == 1 {
		m := me.Organizations[0]
		if err := c.selectOrganization(m.OrganizationID, m.Name, m.Slug, m.Role); err != nil {
			return err
		}
		fmt.Printf("  Active organization: %s (%s)\n", m.Name, m.Role)
		return nil
	}

	if len(me.Organizations) > 1 {
		fmt.Printf("  You belong to %d organizations. Select one with: sigil-admin orgs use <id>\n", len(me.Organizations))
	}
	return nil
}

// cmdLogout ends the server session and clears every piece of local
// session state. Server errors do not stop the local cleanup.
func (c *console) cmdLogout() error {
	ctx := context.Background()

	err := c.client.Logout(ctx)
	c.record("logout", "", err, nil)
	if err != nil {
		// The gateway did not expire the cookie, so drop it locally and
		// say so; the server session lapses on its own schedule.
		color.Yellow("Warning: server logout failed (%v); clearing local session anyway\n", err)
		if jarErr := c.jar.Clear(); jarErr != nil {
			return fmt.Errorf("clearing cookie jar: %w", jarErr)
		}
	}

	c.manager.ClearToken()
	if err := c.roles.Clear(); err != nil {
		return fmt.Errorf("clearing assumed role: %w", err)
	}
	if err := c.orgs.Clear(); err != nil {
		return fmt.Errorf("clearing active organization: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Println("✓ Logged out")
	return nil
}

// cmdMe shows the signed-in identity and its organization memberships.
func (c *console) cmdMe() error {
	ctx := context.Background()

	me, err := c.client.Me(ctx)
	if err != nil {
		return describeAuthError(err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Identity")
	cyan.Println("  --------")
	fmt.Printf("  User ID:  %s\n", me.UserID)
	fmt.Printf("  Email:    %s\n", me.Email)
	fmt.Printf("  Name:     %s\n", me.Name)
	fmt.Println()

	if len(me.Organizations) == 0 {
		fmt.Println("  (no organization memberships)")
		fmt.Println()
		return nil
	}

	active, _ := c.orgs.Get()

	cyan.Println("  Organizations")
	cyan.Println("  -------------")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  \tID\tNAME\tSLUG\tROLE")
	fmt.Fprintln(w, "  \t--\t----\t----\t----")
	for _, m := range me.Organizations {
		marker := " "
		if active != nil && active.ID == m.OrganizationID {
			marker = "*"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
			marker, truncate(m.OrganizationID, 20), truncate(m.Name, 28), m.Slug, m.Role)
	}
	w.Flush()
	fmt.Println()

	return nil
}

// cmdStatus shows gateway reachability and the local session context.
func (c *console) cmdStatus() error {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()

	ctx := context.Background()

	health, err := c.client.Health(ctx)
	if err != nil {
		yellow.Printf("  Gateway:   ")
		color.Red("UNREACHABLE (%v)\n", err)
		fmt.Println()
		return nil
	}
	green.Printf("  Gateway:   ")
	fmt.Printf("%s (%s, %s)\n", c.cfg.Gateway.URL, health.Status, health.Version)

	if os.Getenv("SIGIL_TOKEN") != "" {
		yellow.Printf("  Auth:      ")
		fmt.Println("static token from SIGIL_TOKEN")
	}

	me, err := c.client.Me(ctx)
	if err != nil {
		yellow.Printf("  Identity:  ")
		if errors.Is(err, session.ErrNotAuthenticated) {
			fmt.Println("not logged in (run: sigil-admin login)")
		} else {
			color.Red("%v\n", err)
		}
		fmt.Println()
		return nil
	}
	green.Printf("  Identity:  ")
	fmt.Printf("%s <%s>\n", me.Name, me.Email)

	org, ok := c.orgs.Get()
	if !ok {
		yellow.Printf("  Org:       ")
		fmt.Println("none selected (run: sigil-admin orgs use <id>)")
		fmt.Println()
		return nil
	}
	green.Printf("  Org:       ")
	fmt.Printf("%s (%s)\n", org.Name, org.ID)

	green.Printf("  Role:      ")
	if assumed, ok := c.roles.Get(org.ID); ok {
		fmt.Printf("%s (acting as %s, real role %s)\n", assumed, assumed, org.Role)
	} else {
		fmt.Printf("%s\n", org.Role)
	}
	fmt.Println()

	return nil
}

// describeAuthError maps the not-authenticated sentinel to advice and
// leaves everything else alone.
func describeAuthError(err error) error {
	if errors.Is(err, session.ErrNotAuthenticated) {
		return fmt.Errorf("not logged in (run: sigil-admin login)")
	}
	return err
}
