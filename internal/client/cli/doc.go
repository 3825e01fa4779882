// Package cli provides the interactive wallet command-line client.
//
// It wires configuration, the local session store, the ledger client and the
// services into a REPL. On start the previous session is restored; commands
// then drive the session state machine (register, login, verify) or act on
// an authenticated session (account, history, transfer, search, profile,
// email, logout).
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
