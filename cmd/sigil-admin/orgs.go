// ABOUTME: Organization selection and role assumption commands
// ABOUTME: "orgs use" caches the target org, "act-as" toggles member impersonation

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/sigilworks/sigil-console/internal/api"
	"github.com/sigilworks/sigil-console/internal/state"
)

// cmdOrgs handles organization subcommands.
func (c *console) cmdOrgs(args []string) error {
	subcmd := "list"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "list", "ls":
		return c.cmdOrgsList()
	case "use", "switch":
		return c.cmdOrgsUse(args)
	case "show", "current":
		return c.cmdOrgsShow()
	default:
		return fmt.Errorf("unknown orgs subcommand: %s (use list, use, show)", subcmd)
	}
}

// cmdOrgsList lists the organizations visible to the user.
func (c *console) cmdOrgsList() error {
	ctx := context.Background()

	orgs, err := c.client.ListOrganizations(ctx)
	if err != nil {
		return describeAuthError(err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Organizations")
	cyan.Println("  -------------")

	if len(orgs) == 0 {
		fmt.Println("  (no organizations)")
		fmt.Println()
		return nil
	}

	active, _ := c.orgs.Get()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  \tID\tNAME\tSLUG\tCREATED")
	fmt.Fprintln(w, "  \t--\t----\t----\t-------")
	for i := range orgs {
		o := &orgs[i]
		marker := " "
		if active != nil && active.ID == o.ID {
			marker = "*"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
			marker, truncate(o.ID, 20), truncate(o.Name, 28), o.Slug, formatTime(o.CreatedAt))
	}
	w.Flush()
	fmt.Println()

	return nil
}

// cmdOrgsUse selects the organization later commands operate on.
func (c *console) cmdOrgsUse(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: orgs use <id|slug>")
	}
	ref := args[0]
	ctx := context.Background()

	org, err := c.resolveOrganization(ctx, ref)
	if err != nil {
		c.record("orgs use", ref, err, nil)
		return err
	}

	// The user's actual role in the org decides whether act-as is even
	// possible, so capture it at selection time.
	me, err := c.client.Me(ctx)
	if err != nil {
		c.record("orgs use", ref, err, nil)
		return describeAuthError(err)
	}
	membership, ok := me.MembershipFor(org.ID)
	if !ok {
		err := fmt.Errorf("you are not a member of %s", org.Name)
		c.record("orgs use", ref, err, nil)
		return err
	}

	if err := c.selectOrganization(org.ID, org.Name, org.Slug, membership.Role); err != nil {
		c.record("orgs use", ref, err, nil)
		return err
	}
	c.record("orgs use", org.ID, nil, map[string]any{"slug": org.Slug})

	green := color.New(color.FgGreen)
	green.Printf("✓ Active organization: %s\n", org.Name)
	fmt.Printf("  ID:    %s\n", org.ID)
	fmt.Printf("  Slug:  %s\n", org.Slug)
	fmt.Printf("  Role:  %s\n", membership.Role)

	return nil
}

// cmdOrgsShow prints the active organization and the effective role.
func (c *console) cmdOrgsShow() error {
	org, err := c.requireOrg()
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Active Organization")
	cyan.Println("  -------------------")
	fmt.Printf("  ID:    %s\n", org.ID)
	fmt.Printf("  Name:  %s\n", org.Name)
	fmt.Printf("  Slug:  %s\n", org.Slug)
	if assumed, ok := c.roles.Get(org.ID); ok {
		fmt.Printf("  Role:  %s (assumed; real role %s)\n", assumed, org.Role)
	} else {
		fmt.Printf("  Role:  %s\n", org.Role)
	}
	fmt.Println()

	return nil
}

// selectOrganization persists the active organization selection.
func (c *console) selectOrganization(id, name, slug string, role state.Role) error {
	err := c.orgs.Set(state.ActiveOrganization{ID: id, Name: name, Slug: slug, Role: role})
	if err != nil {
		return fmt.Errorf("saving active organization: %w", err)
	}
	return nil
}

// resolveOrganization finds an organization by ID or slug.
func (c *console) resolveOrganization(ctx context.Context, ref string) (*api.Organization, error) {
	orgs, err := c.client.ListOrganizations(ctx)
	if err != nil {
		return nil, describeAuthError(err)
	}
	for i := range orgs {
		if orgs[i].ID == ref || orgs[i].Slug == ref {
			return &orgs[i], nil
		}
	}
	return nil, fmt.Errorf("no organization matching %q", ref)
}

// cmdActAs assumes or drops the member role in the active organization.
// The session manager picks the change up on the next token acquisition.
func (c *console) cmdActAs(args []string) error {
	subcmd := "show"
	if len(args) > 0 {
		subcmd = args[0]
	}

	org, err := c.requireOrg()
	if err != nil {
		return err
	}

	switch subcmd {
	case "member":
		if org.Role != state.RoleAdmin {
			return fmt.Errorf("your role in %s is %s; only admins can assume the member view", org.Name, org.Role)
		}
		if err := c.roles.Set(org.ID, state.RoleMember); err != nil {
			c.record("act-as member", org.ID, err, nil)
			return fmt.Errorf("saving assumed role: %w", err)
		}
		c.record("act-as member", org.ID, nil, nil)
		green := color.New(color.FgGreen)
		green.Printf("✓ Acting as member in %s\n", org.Name)
		fmt.Println("  Takes effect on the next request.")
		return nil

	case "admin", "clear":
		if err := c.roles.Clear(); err != nil {
			c.record("act-as admin", org.ID, err, nil)
			return fmt.Errorf("clearing assumed role: %w", err)
		}
		c.record("act-as admin", org.ID, nil, nil)
		green := color.New(color.FgGreen)
		green.Printf("✓ Acting with your real role (%s) in %s\n", org.Role, org.Name)
		return nil

	case "show":
		if assumed, ok := c.roles.Get(org.ID); ok {
			fmt.Printf("Acting as %s in %s (real role %s)\n", assumed, org.Name, org.Role)
		} else {
			fmt.Printf("Acting as %s in %s\n", org.Role, org.Name)
		}
		return nil

	default:
		return fmt.Errorf("unknown act-as subcommand: %s (use member, admin, show)", subcmd)
	}
}
