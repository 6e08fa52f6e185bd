// ABOUTME: Team, member, and invitation commands scoped to the active organization
// ABOUTME: Table output via tabwriter, mutations journaled

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/sigilworks/sigil-console/internal/state"
)

// cmdTeams handles team subcommands.
func (c *console) cmdTeams(args []string) error {
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
		return c.cmdTeamsList(org.ID)
	case "create", "add":
		return c.cmdTeamsCreate(org.ID, args)
	case "delete", "rm", "remove":
		return c.cmdTeamsDelete(org.ID, args)
	default:
		return fmt.Errorf("unknown teams subcommand: %s (use list, create, delete)", subcmd)
	}
}

func (c *console) cmdTeamsList(orgID string) error {
	teams, err := c.client.ListTeams(context.Background(), orgID)
	if err != nil {
		return describeAuthError(err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Teams")
	cyan.Println("  -----")

	if len(teams) == 0 {
		fmt.Println("  (no teams)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tNAME\tMEMBERS\tCREATED")
	fmt.Fprintln(w, "  --\t----\t-------\t-------")
	for _, t := range teams {
		fmt.Fprintf(w, "  %s\t%s\t%d\t%s\n",
			truncate(t.ID, 20), truncate(t.Name, 28), t.MemberCount, formatTime(t.CreatedAt))
	}
	w.Flush()
	fmt.Println()

	return nil
}

func (c *console) cmdTeamsCreate(orgID string, args []string) error {
	var name, description string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--name", "-n":
			if i+1 < len(args) {
				name = args[i+1]
				i++
			}
		case "--description", "-d":
			if i+1 < len(args) {
				description = args[i+1]
				i++
			}
		}
	}

	if name == "" {
		return fmt.Errorf("usage: teams create --name <name> [--description <text>]")
	}

	team, err := c.client.CreateTeam(context.Background(), orgID, name, description)
	c.record("teams create", name, err, nil)
	if err != nil {
		return describeAuthError(err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Created team: %s\n", team.ID)
	fmt.Printf("  Name: %s\n", team.Name)

	return nil
}

func (c *console) cmdTeamsDelete(orgID string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: teams delete <team-id>")
	}
	teamID := args[0]

	err := c.client.DeleteTeam(context.Background(), orgID, teamID)
	c.record("teams delete", teamID, err, nil)
	if err != nil {
		return describeAuthError(err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Deleted team: %s\n", teamID)

	return nil
}

// cmdMembers handles member subcommands.
func (c *console) cmdMembers(args []string) error {
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
		return c.cmdMembersList(org.ID)
	case "set-role":
		return c.cmdMembersSetRole(org.ID, args)
	case "remove", "rm":
		return c.cmdMembersRemove(org.ID, args)
	default:
		return fmt.Errorf("unknown members subcommand: %s (use list, set-role, remove)", subcmd)
	}
}

func (c *console) cmdMembersList(orgID string) error {
	members, err := c.client.ListMembers(context.Background(), orgID)
	if err != nil {
		return describeAuthError(err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Members")
	cyan.Println("  -------")

	if len(members) == 0 {
		fmt.Println("  (no members)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  USER\tEMAIL\tNAME\tROLE\tJOINED")
	fmt.Fprintln(w, "  ----\t-----\t----\t----\t------")
	for _, m := range members {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
			truncate(m.UserID, 20), truncate(m.Email, 28), truncate(m.Name, 24), m.Role, formatTime(m.JoinedAt))
	}
	w.Flush()
	fmt.Println()

	return nil
}

func (c *console) cmdMembersSetRole(orgID string, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: members set-role <user-id> <admin|member>")
	}
	userID := args[0]
	role := state.Role(args[1])

	member, err := c.client.SetMemberRole(context.Background(), orgID, userID, role)
	c.record("members set-role", userID, err, map[string]any{"role": string(role)})
	if err != nil {
		return describeAuthError(err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ %s is now %s\n", member.Email, member.Role)

	return nil
}

func (c *console) cmdMembersRemove(orgID string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: members remove <user-id>")
	}
	userID := args[0]

	err := c.client.RemoveMember(context.Background(), orgID, userID)
	c.record("members remove", userID, err, nil)
	if err != nil {
		return describeAuthError(err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Removed member: %s\n", userID)

	return nil
}

// cmdInvites handles invitation subcommands.
func (c *console) cmdInvites(args []string) error {
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
		return c.cmdInvitesList(org.ID)
	case "create", "add":
		return c.cmdInvitesCreate(org.ID, args)
	case "revoke", "rm", "delete":
		return c.cmdInvitesRevoke(org.ID, args)
	default:
		return fmt.Errorf("unknown invites subcommand: %s (use list, create, revoke)", subcmd)
	}
}

func (c *console) cmdInvitesList(orgID string) error {
	invites, err := c.client.ListInvitations(context.Background(), orgID)
	if err != nil {
		return describeAuthError(err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Invitations")
	cyan.Println("  -----------")

	if len(invites) == 0 {
		fmt.Println("  (no open invitations)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tEMAIL\tROLE\tEXPIRES")
	fmt.Fprintln(w, "  --\t-----\t----\t-------")
	for _, inv := range invites {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n",
			truncate(inv.ID, 20), truncate(inv.Email, 32), inv.Role, formatTime(inv.ExpiresAt))
	}
	w.Flush()
	fmt.Println()

	return nil
}

func (c *console) cmdInvitesCreate(orgID string, args []string) error {
	var email string
	role := state.RoleMember
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--email", "-e":
			if i+1 < len(args) {
				email = args[i+1]
				i++
			}
		case "--role", "-r":
			if i+1 < len(args) {
				role = state.Role(args[i+1])
				i++
			}
		}
	}

	if email == "" {
		return fmt.Errorf("usage: invites create --email <address> [--role admin|member]")
	}

	inv, err := c.client.CreateInvitation(context.Background(), orgID, email, role)
	c.record("invites create", email, err, map[string]any{"role": string(role)})
	if err != nil {
		return describeAuthError(err)
	}

	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	fmt.Println()
	green.Println("  Invitation created")
	fmt.Println()
	cyan.Printf("  Email:    %s\n", inv.Email)
	cyan.Printf("  Role:     %s\n", inv.Role)
	cyan.Printf("  Expires:  %s\n", formatTime(inv.ExpiresAt))
	fmt.Println()
	fmt.Println("  Invite token (share with the invitee):")
	fmt.Println()
	fmt.Println("  " + inv.Token)
	fmt.Println()

	return nil
}

func (c *console) cmdInvitesRevoke(orgID string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: invites revoke <invitation-id>")
	}
	inviteID := args[0]

	err := c.client.RevokeInvitation(context.Background(), orgID, inviteID)
	c.record("invites revoke", inviteID, err, nil)
	if err != nil {
		return describeAuthError(err)
	}

	green := color.New(color.FgGreen)
	green.Printf("✓ Revoked invitation: %s\n", inviteID)

	return nil
}
