package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophwallet/internal/client/models"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	state() models.State
	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Verify(ctx context.Context, args []string) error
	Regenerate(ctx context.Context, args []string) error
	Account(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	Transfer(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	Email(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
}

// runREPL reads one command per line and dispatches it to a. A failing
// command prints exactly one line describing the failure. The loop exits on
// EOF, on "exit"/"quit" or when ctx is cancelled.
//
//	Not logged in:
//	  - register      : create an account and enroll an authenticator
//	  - login         : sign in with email, alias and a code
//	  - verify        : confirm a pending enrollment or refresh the session
//	  - regenerate    : replace a lost authenticator
//
//	Logged in:
//	  - account       : show name, alias and balance
//	  - history [type]: list transactions (sent, received, award)
//	  - transfer      : send funds (asks for a fresh code)
//	  - search <text> : find accounts by alias prefix
//	  - profile       : change name or alias
//	  - email         : change email (ends the session)
//	  - logout        : forget the stored session
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("wallet %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText(a.state()))
		case "register":
			cmdErr = a.Register(ctx, args)
		case "login":
			cmdErr = a.Login(ctx, args)
		case "verify":
			cmdErr = a.Verify(ctx, args)
		case "regenerate":
			cmdErr = a.Regenerate(ctx, args)
		case "account", "balance":
			cmdErr = a.Account(ctx, args)
		case "history":
			cmdErr = a.History(ctx, args)
		case "transfer", "send":
			cmdErr = a.Transfer(ctx, args)
		case "search":
			cmdErr = a.Search(ctx, args)
		case "profile":
			cmdErr = a.Profile(ctx, args)
		case "email":
			cmdErr = a.Email(ctx, args)
		case "logout":
			cmdErr = a.Logout(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
		if cmdErr != nil {
			printlnFn(userMessage(cmdErr))
		}
	}
}

func helpText(s models.State) string {
	switch s {
	case models.StateAuthenticated:
		return "Available commands: account, history [sent|received|award], transfer, search <alias>, profile, email, logout, exit"
	case models.StateAwaitingEnrollment, models.StateAwaitingConfirmation:
		return "Available commands: verify, regenerate, logout, exit"
	default:
		return "Available commands: register, login, verify, regenerate, exit"
	}
}
