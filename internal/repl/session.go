package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/scanwise/scancore/internal/auth"
	"github.com/scanwise/scancore/internal/product"
)

// prompt is printed before each command line.
const prompt = "> "

// Session holds the dispatcher state: the stores it fronts and the current
// principal, which starts Anonymous and is replaced by a successful login.
type Session struct {
	users     *auth.UserStore
	products  *product.Store
	principal auth.Principal
	out       io.Writer
}

// NewSession creates a session writing replies to out. The principal starts
// as Anonymous, so everything gated above none is denied until login.
func NewSession(users *auth.UserStore, products *product.Store, out io.Writer) *Session {
	return &Session{
		users:     users,
		products:  products,
		principal: auth.Anonymous,
		out:       out,
	}
}

// Principal returns the session's current principal.
func (s *Session) Principal() auth.Principal {
	return s.principal
}

// Run reads commands from r until EOF, an "exit" command, or context
// cancellation between lines.
func (s *Session) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(s.out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		reply, done := s.Execute(ctx, scanner.Text())
		if reply != "" {
			fmt.Fprintln(s.out, reply)
		}
		if done {
			return nil
		}
	}
}

// Execute dispatches a single command line and returns the reply text plus
// whether the session should end. Errors come back as messages, never as
// raw error values — the dispatcher is the user-facing boundary.
func (s *Session) Execute(ctx context.Context, line string) (reply string, done bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}

	command, args := strings.ToLower(fields[0]), fields[1:]

	switch command {
	case "login":
		return s.login(args), false
	case "whoami":
		return s.principal.Username, false
	case "users":
		return s.listUsernames(), false
	case "adduser":
		return s.addUser(ctx, args), false
	case "product":
		return s.lookupProduct(ctx, args), false
	case "help":
		return s.usage(), false
	case "exit", "quit":
		return "bye", true
	default:
		return fmt.Sprintf("unknown command %q\n%s", command, s.usage()), false
	}
}

func (s *Session) usage() string {
	return strings.Join([]string{
		"commands:",
		"  login <username> <password>",
		"  whoami",
		"  users",
		"  adduser <username> <password> <level>",
		"  product <barcode>",
		"  help",
		"  exit",
	}, "\n")
}

func (s *Session) login(args []string) string {
	if len(args) != 2 {
		return "usage: login <username> <password>"
	}

	p, err := s.users.Directory().Login(args[1], auth.ByUsername(args[0]))
	if err != nil {
		return userMessage(err)
	}

	s.principal = p
	return fmt.Sprintf("logged in as: %s", p.Username)
}

func (s *Session) listUsernames() string {
	names, err := s.users.Directory().Usernames(s.principal)
	if err != nil {
		return userMessage(err)
	}
	return strings.Join(names, "\n")
}

func (s *Session) addUser(ctx context.Context, args []string) string {
	if len(args) != 3 {
		return "usage: adduser <username> <password> <level>"
	}

	var level int
	if _, err := fmt.Sscanf(args[2], "%d", &level); err != nil {
		return "level must be an integer"
	}

	// Creating accounts is a write to the user table.
	if err := auth.Require(s.principal, auth.LevelWriteUsers); err != nil {
		return userMessage(err)
	}

	u, err := s.users.Create(ctx, args[0], args[1], auth.Level(level))
	if err != nil {
		return userMessage(err)
	}
	return fmt.Sprintf("created user %s (id %d)", u.Username, u.ID)
}

func (s *Session) lookupProduct(ctx context.Context, args []string) string {
	if len(args) != 1 {
		return "usage: product <barcode>"
	}

	prod, err := s.products.GetByBarcode(ctx, s.principal, args[0])
	if err != nil {
		return userMessage(err)
	}
	return fmt.Sprintf("%s — %s (%s)", prod.Name, prod.Description, prod.Price)
}

// userMessage renders an error for the terminal. The message keeps the
// error's own wording, which for gate rejections includes both levels.
func userMessage(err error) string {
	return "error: " + err.Error()
}
