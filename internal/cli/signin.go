package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/huepham/openhouse/internal/client"
	"github.com/huepham/openhouse/internal/export"
	"github.com/huepham/openhouse/internal/flow"
)

func newSigninCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signin",
		Short: "Run the interactive sign-in kiosk",
		Long: `Run the open-house sign-in kiosk in the terminal.

Visitors step through the disclosure, their contact details, and a signature
(a path to a PNG image), then see a summary. Each completed sign-in is saved
locally and submitted to the user service in the background. The agent can
reach the login, CRM, and settings screens from the disclosure screen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignin()
		},
	}
}

func runSignin() error {
	st, database, err := openStore()
	if err != nil {
		return err
	}
	defer closeDB(database)

	api := newAPIClient()
	sess := &session{
		ctrl: flow.New(st, api),
		api:  api,
		in:   bufio.NewReader(os.Stdin),
	}
	return sess.run()
}

// session drives the kiosk loop: render the active screen, read one
// decision, apply it through the controller, repeat.
type session struct {
	ctrl *flow.Controller
	api  *client.Client
	in   *bufio.Reader
}

func (s *session) run() error {
	for {
		var (
			quit bool
			err  error
		)
		switch screen := s.ctrl.Screen(); screen {
		case flow.ScreenDisclosure:
			quit, err = s.disclosureScreen()
		case flow.ScreenVisitorInfo:
			quit, err = s.visitorInfoScreen()
		case flow.ScreenSignature:
			quit, err = s.signatureScreen()
		case flow.ScreenDone:
			quit, err = s.doneScreen()
		case flow.ScreenLogin:
			quit, err = s.loginScreen()
		case flow.ScreenCRM:
			quit, err = s.crmScreen()
		default:
			return fmt.Errorf("unknown screen %q", screen)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if quit {
			fmt.Println("Goodbye.")
			return nil
		}
	}
}

func (s *session) disclosureScreen() (bool, error) {
	fmt.Println()
	printDisclosure(s.ctrl.Settings(), time.Now())
	fmt.Println()
	if s.ctrl.Authenticated() {
		fmt.Printf("Logged in as %s.\n", s.ctrl.Username())
	}

	choice, err := s.prompt("[a] agree and sign in  [l] log in  [c] CRM  [s] settings  [q] quit: ")
	if err != nil {
		return false, err
	}

	switch strings.ToLower(choice) {
	case "a":
		if err := s.ctrl.AcceptDisclosure(true); err != nil {
			fmt.Println(err)
		}
	case "l":
		s.ctrl.OpenLogin()
	case "c":
		if err := s.ctrl.OpenCRM(); err != nil {
			fmt.Println(err)
		}
	case "s":
		if err := s.settingsScreen(); err != nil {
			return false, err
		}
	case "q":
		return true, nil
	default:
		fmt.Println("Please choose a, l, c, s, or q.")
	}
	return false, nil
}

func (s *session) visitorInfoScreen() (bool, error) {
	fmt.Println("\nVisitor Information ('b' at the first prompt goes back)")

	rec := s.ctrl.Current()

	name, err := s.promptDefault("Full name", rec.FullName)
	if err != nil {
		return false, err
	}
	if strings.EqualFold(name, "b") {
		return false, s.ctrl.BackToDisclosure()
	}
	rec.FullName = name

	if rec.Email, err = s.promptDefault("Email", rec.Email); err != nil {
		return false, err
	}
	if rec.Phone, err = s.promptDefault("Phone", rec.Phone); err != nil {
		return false, err
	}

	hasAgent, err := s.promptYesNo("Working with an agent?", rec.HasAgent)
	if err != nil {
		return false, err
	}
	rec.HasAgent = hasAgent
	if hasAgent {
		if rec.AgentName, err = s.promptDefault("Agent name", rec.AgentName); err != nil {
			return false, err
		}
		if rec.AgentEmail, err = s.promptDefault("Agent email", rec.AgentEmail); err != nil {
			return false, err
		}
		if rec.AgentPhone, err = s.promptDefault("Agent phone", rec.AgentPhone); err != nil {
			return false, err
		}
	} else {
		rec.AgentName, rec.AgentEmail, rec.AgentPhone = "", "", ""
	}

	if err := s.ctrl.ContinueToSignature(); err != nil {
		fmt.Println(err)
	}
	return false, nil
}

func (s *session) signatureScreen() (bool, error) {
	fmt.Println("\nSignature")

	path, err := s.prompt("Path to signature PNG ('b' goes back): ")
	if err != nil {
		return false, err
	}
	if strings.EqualFold(path, "b") {
		return false, s.ctrl.BackToVisitorInfo()
	}
	if path == "" {
		fmt.Println("A signature is required.")
		return false, nil
	}

	data, err := readSignaturePNG(path)
	if err != nil {
		fmt.Println(err)
		return false, nil
	}

	if err := s.ctrl.CompleteSignature(data); err != nil {
		fmt.Println(err)
	}
	return false, nil
}

func (s *session) doneScreen() (bool, error) {
	// Give the background submission a moment so the common case shows a
	// final result instead of "Submitting".
	waitCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	_ = s.ctrl.WaitForSubmission(waitCtx)
	cancel()

	fmt.Println("\nThank you for visiting!")
	fmt.Println(submissionLine(s.ctrl.SubmissionStatus()))
	fmt.Println()

	visitors := s.ctrl.Visitors()
	printSummaryCard(visitors[len(visitors)-1])

	choice, err := s.prompt("\n[p] save summary PDF  [f] next visitor  [q] quit: ")
	if err != nil {
		return false, err
	}

	switch strings.ToLower(choice) {
	case "p":
		rec := visitors[len(visitors)-1]
		data, err := export.SummaryPDF(rec, s.ctrl.Settings())
		if err != nil {
			fmt.Println(err)
			return false, nil
		}
		path := filepath.Join(os.TempDir(), export.PDFFilename(rec))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			fmt.Println(err)
			return false, nil
		}
		fmt.Printf("Saved %s\n", path)
	case "f":
		if err := s.ctrl.Finish(); err != nil {
			fmt.Println(err)
		}
	case "q":
		return true, nil
	default:
		fmt.Println("Please choose p, f, or q.")
	}
	return false, nil
}

func (s *session) loginScreen() (bool, error) {
	fmt.Println("\nAgent Login ('b' at the first prompt goes back)")

	username, err := s.prompt("Username: ")
	if err != nil {
		return false, err
	}
	if strings.EqualFold(username, "b") {
		return false, s.ctrl.CloseLogin()
	}

	password, err := s.prompt("Password: ")
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.ctrl.Login(ctx, username, password); err != nil {
		fmt.Println(err)
		return false, nil
	}

	fmt.Printf("✓ Logged in as %s.\n", username)
	return false, nil
}

func (s *session) crmScreen() (bool, error) {
	fmt.Println("\nCRM")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	users, err := s.api.ListUsers(ctx, 0, 100)
	cancel()
	if err != nil {
		fmt.Println(err)
		return false, s.ctrl.CloseCRM()
	}

	if err := printUserTable(users); err != nil {
		return false, err
	}

	choice, err := s.prompt("\n[f] filter  [x] clear local sign-ins  [o] log out  [b] back: ")
	if err != nil {
		return false, err
	}

	switch strings.ToLower(choice) {
	case "f":
		query, err := s.prompt("Search: ")
		if err != nil {
			return false, err
		}
		if err := printUserTable(filterUsers(users, query)); err != nil {
			return false, err
		}
	case "x":
		ok, err := s.promptYesNo(fmt.Sprintf("Delete all %d local sign-ins?", len(s.ctrl.Visitors())), false)
		if err != nil {
			return false, err
		}
		if ok {
			if err := s.ctrl.ClearVisitors(); err != nil {
				return false, err
			}
			fmt.Println("✓ Sign-ins cleared.")
		}
	case "o":
		s.ctrl.Logout()
	case "b":
		return false, s.ctrl.CloseCRM()
	default:
		fmt.Println("Please choose f, x, o, or b.")
	}
	return false, nil
}

// settingsScreen is the agent's back-office menu; it is not a flow screen,
// the controller stays on the disclosure.
func (s *session) settingsScreen() error {
	for {
		fmt.Printf("\nAgent Settings (%d sign-ins recorded)\n", len(s.ctrl.Visitors()))

		choice, err := s.prompt("[e] edit  [l] list sign-ins  [x] export CSV  [d] delete all sign-ins  [b] back: ")
		if err != nil {
			return err
		}

		switch strings.ToLower(choice) {
		case "e":
			if err := s.editSettings(); err != nil {
				return err
			}
		case "l":
			if err := printVisitorTable(s.ctrl.Visitors()); err != nil {
				return err
			}
		case "x":
			path := filepath.Join(os.TempDir(), export.CSVFilename)
			if err := os.WriteFile(path, export.CSV(s.ctrl.Visitors()), 0o644); err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Printf("Saved %s\n", path)
		case "d":
			ok, err := s.promptYesNo(fmt.Sprintf("Delete all %d sign-ins?", len(s.ctrl.Visitors())), false)
			if err != nil {
				return err
			}
			if ok {
				if err := s.ctrl.ClearVisitors(); err != nil {
					return err
				}
				fmt.Println("✓ Sign-ins cleared.")
			}
		case "b":
			return nil
		default:
			fmt.Println("Please choose e, l, x, d, or b.")
		}
	}
}

// editSettings prompts for each settings field, keeping current values on
// empty input.
func (s *session) editSettings() error {
	cfg := s.ctrl.Settings()

	var err error
	if cfg.PropertyAddress, err = s.promptDefault("Property address", cfg.PropertyAddress); err != nil {
		return err
	}
	if cfg.BrokerageTeam, err = s.promptDefault("Brokerage/team", cfg.BrokerageTeam); err != nil {
		return err
	}
	if cfg.AgentOfRecord, err = s.promptDefault("Agent of record", cfg.AgentOfRecord); err != nil {
		return err
	}

	if err := s.ctrl.SetSettings(cfg); err != nil {
		return err
	}
	fmt.Println("✓ Settings saved.")
	return nil
}

// submissionLine renders the CRM sync state for the done screen.
func submissionLine(st flow.Status) string {
	switch {
	case st.Submitting:
		return "Submitting to CRM..."
	case st.LastError != "":
		return "CRM sync failed: " + st.LastError
	case st.LastUser != nil:
		return fmt.Sprintf("Synced to CRM as #%d %s", st.LastUser.ID, st.LastUser.FullName())
	default:
		return "Not submitted."
	}
}

// readSignaturePNG loads and validates the signature image.
func readSignaturePNG(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading signature: %w", err)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%s is not a valid PNG: %w", path, err)
	}
	return data, nil
}

func (s *session) prompt(label string) (string, error) {
	fmt.Print(label)
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptDefault asks for a value, keeping the current one on empty input.
func (s *session) promptDefault(label, current string) (string, error) {
	if current != "" {
		label = fmt.Sprintf("%s [%s]", label, current)
	}
	answer, err := s.prompt(label + ": ")
	if err != nil {
		return "", err
	}
	if answer == "" {
		return current, nil
	}
	return answer, nil
}

func (s *session) promptYesNo(label string, current bool) (bool, error) {
	hint := "y/N"
	if current {
		hint = "Y/n"
	}
	answer, err := s.prompt(fmt.Sprintf("%s [%s]: ", label, hint))
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return current, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
