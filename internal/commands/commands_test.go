package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passbook-dev/passbook/internal/auditlog"
	"github.com/passbook-dev/passbook/internal/config"
)

// run executes the CLI with args and returns its combined output. A fresh
// command tree per call keeps flag state isolated.
func run(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	var buf bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), "output: %s", buf.String())
	return buf.String()
}

func runErr(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	out := run(t, "init", dir, "--holder", "Jordan Miles")
	assert.Contains(t, out, "Initialized Passbook project")

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Jordan Miles", cfg.Account.Holder)

	for _, d := range []string{"data", "logs", "statements"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestBalance_FreshProject(t *testing.T) {
	dir := t.TempDir()
	run(t, "init", dir)

	out := run(t, "balance", "--dir", dir)
	assert.Contains(t, out, "$5,299.34", "fresh project shows the opening balance")
}

func TestDepositAndSendFlow(t *testing.T) {
	dir := t.TempDir()
	run(t, "init", dir, "--holder", "Jordan Miles")

	out := run(t, "contacts", "add", "--dir", dir, "--name", "Alex Chen", "--email", "alex@example.com")
	assert.Contains(t, out, "Added contact 1")

	out = run(t, "deposit", "--dir", dir, "--amount", "200.00")
	assert.Contains(t, out, "New balance: $5,499.34")

	out = run(t, "send", "--dir", dir, "--to", "1", "--amount", "125.50", "--message", "rent")
	assert.Contains(t, out, "Sent $125.50 to Alex Chen <alex@example.com>")
	assert.Contains(t, out, "Reference: ")
	assert.Contains(t, out, "New balance: $5,373.84")

	out = run(t, "balance", "--dir", dir)
	assert.Contains(t, out, "$5,373.84")

	out = run(t, "history", "--dir", dir)
	assert.Contains(t, out, "INTERAC e-Transfer To: Alex Chen")
	assert.Contains(t, out, "Deposit from *** 3321 account")

	// Mutations were recorded in the activity log.
	entries, err := auditlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "contact", entries[0].Operation)
	assert.Equal(t, "deposit", entries[1].Operation)
	assert.Equal(t, "transfer", entries[2].Operation)
}

func TestSend_UnknownContact(t *testing.T) {
	dir := t.TempDir()
	run(t, "init", dir)

	err := runErr(t, "send", "--dir", dir, "--to", "99", "--amount", "10.00")
	require.Error(t, err)
}

func TestStatement_Text(t *testing.T) {
	dir := t.TempDir()
	run(t, "init", dir, "--holder", "Jordan Miles")
	run(t, "deposit", "--dir", dir, "--amount", "100.00")

	out := run(t, "statement", "--dir", dir)
	assert.Contains(t, out, "ACCOUNT STATEMENT  *** 3982")
	assert.Contains(t, out, "Closing balance")
	assert.Contains(t, out, "$5,399.34")
	assert.Contains(t, out, "Page 1 of 1")
}

func TestStatement_JSONToFile(t *testing.T) {
	dir := t.TempDir()
	run(t, "init", dir)

	outPath := filepath.Join(dir, "statements", "june.json")
	run(t, "statement", "--dir", dir, "--format", "json", "--out", outPath)

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"account_number": "*** 3982"`)
}

func TestStatement_UnknownFormat(t *testing.T) {
	dir := t.TempDir()
	run(t, "init", dir)

	err := runErr(t, "statement", "--dir", dir, "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestCommands_WithoutInit(t *testing.T) {
	dir := t.TempDir()
	err := runErr(t, "balance", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "passbook init")
}
