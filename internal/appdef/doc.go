// Package appdef loads MCP app definitions from TOML files.
//
// An app definition describes one MCP server the gateway should make
// available to an organization: its transport, how to reach or launch
// it, and the environment it runs with. Definitions live in local
// files so they can be versioned alongside the rest of an operator's
// infrastructure and pushed with "sigil-admin apps push".
//
// A stdio app:
//
//	name = "github"
//	description = "GitHub issue and PR tools"
//	transport = "stdio"
//	command = "mcp-github"
//	args = ["--readonly"]
//
//	[env]
//	GITHUB_TOKEN = "${GITHUB_TOKEN}"
//
// An http app:
//
//	name = "search"
//	transport = "http"
//	url = "https://search.internal.example.com/mcp"
//
// ${VAR} references are expanded from the environment at load time,
// before parsing, so secrets never have to be written into the file.
package appdef
